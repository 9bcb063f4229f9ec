package debounce

import (
	"strings"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu    sync.Mutex
	calls []string
	done  chan struct{}
}

func newRecorder() *recorder {
	return &recorder{done: make(chan struct{}, 16)}
}

func (r *recorder) record(v string) {
	r.mu.Lock()
	r.calls = append(r.calls, v)
	r.mu.Unlock()
	r.done <- struct{}{}
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func TestTriggerCoalesces(t *testing.T) {
	r := newRecorder()
	d := New(20*time.Millisecond, r.record)

	for _, v := range []string{"h", "ho", "hop", "hope"} {
		d.Trigger(v)
	}

	select {
	case <-r.done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced call never fired")
	}
	time.Sleep(60 * time.Millisecond)

	got := r.snapshot()
	if len(got) != 1 || got[0] != "hope" {
		t.Errorf("calls = %v, want [hope]", got)
	}
	if d.Pending() {
		t.Error("nothing should be pending after firing")
	}
}

func TestCancel(t *testing.T) {
	r := newRecorder()
	d := New(20*time.Millisecond, r.record)
	d.Trigger("x")
	d.Cancel()
	time.Sleep(60 * time.Millisecond)
	if got := r.snapshot(); len(got) != 0 {
		t.Errorf("calls = %v, want none", got)
	}
}

func TestFlush(t *testing.T) {
	r := newRecorder()
	d := New(time.Hour, r.record)
	if d.Flush() {
		t.Error("Flush with nothing pending should report false")
	}
	d.Trigger("now")
	if !d.Flush() {
		t.Fatal("Flush should report the pending call")
	}
	if got := r.snapshot(); len(got) != 1 || got[0] != "now" {
		t.Errorf("calls = %v, want [now]", got)
	}
}

func TestStopIgnoresLaterTriggers(t *testing.T) {
	r := newRecorder()
	d := New(10*time.Millisecond, r.record)
	d.Trigger("a")
	d.Stop()
	d.Trigger("b")
	time.Sleep(50 * time.Millisecond)
	if got := r.snapshot(); len(got) != 0 {
		t.Errorf("calls = %v, want none", got)
	}
}

func TestNormalizeTerm(t *testing.T) {
	long := strings.Repeat("a", 150)
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"  ", ""},
		{"h", ""},
		{"ho", "ho"},
		{"  hope ", "hope"},
		{long, long[:100]},
	}
	for _, tt := range tests {
		if got := NormalizeTerm(tt.in, 2, 100); got != tt.want {
			t.Errorf("NormalizeTerm(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
