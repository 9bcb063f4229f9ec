package domain

// ProgressFunc reports fetch progress to the TUI.
// Called once per resolved page or entity: (1, 18), (2, 18), ...
type ProgressFunc func(loaded, total int)

// SyncResult summarizes what happened during a film sync.
type SyncResult struct {
	FromCache bool // true if cache was fresh (no network fetch)
	Count     int  // total films after sync
}
