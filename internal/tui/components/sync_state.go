package components

// LoadStatus represents the state of an asynchronous load
type LoadStatus int

const (
	StatusIdle LoadStatus = iota
	StatusLoading
	StatusLoaded
	StatusError
)

// LoadState tracks progress for one asynchronous load
type LoadState struct {
	Status LoadStatus
	Loaded int   // Entities resolved so far
	Total  int   // Entities expected
	Error  error // Error if any
}

// Busy reports whether the load is still running
func (s LoadState) Busy() bool {
	return s.Status == StatusLoading
}
