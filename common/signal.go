package common

import "sync"

// Signal is a single-fire notification. Fire closes the channel returned by Done exactly once;
// later calls are no-ops. A Signal that never fires simply keeps Done open.
type Signal struct {
	once sync.Once
	done chan struct{}
}

// NewSignal creates an unfired Signal.
//
// Returns:
//   - *Signal: the new signal
func NewSignal() *Signal {
	return &Signal{done: make(chan struct{})}
}

// Fire marks the signal as fired.
//
// Returns:
//   - bool: true if this call fired the signal, false if it had already fired
func (s *Signal) Fire() bool {
	fired := false
	s.once.Do(func() {
		close(s.done)
		fired = true
	})
	return fired
}

// Done returns a channel that is closed once the signal fires.
func (s *Signal) Done() <-chan struct{} {
	return s.done
}

// Fired reports whether the signal has fired without blocking.
func (s *Signal) Fired() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}
