// Package readiness implements the one-time "backend ready" signal that
// gates session subscriptions and initial reads. Subscribers may attach
// before or after the signal fires; both orderings deliver exactly once.
package readiness

import "sync"

// Signal is a one-shot readiness latch.
type Signal struct {
	mu    sync.Mutex
	ready bool
	done  chan struct{}
	subs  []func()
}

// New returns an unfired Signal.
func New() *Signal {
	return &Signal{done: make(chan struct{})}
}

// Ready fires the signal and runs pending subscribers. Idempotent.
func (s *Signal) Ready() {
	s.mu.Lock()
	if s.ready {
		s.mu.Unlock()
		return
	}
	s.ready = true
	subs := s.subs
	s.subs = nil
	close(s.done)
	s.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

// Subscribe registers fn to run once the backend is ready. If the signal
// already fired, fn runs immediately.
func (s *Signal) Subscribe(fn func()) {
	s.mu.Lock()
	if !s.ready {
		s.subs = append(s.subs, fn)
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	fn()
}

// Done returns a channel closed once the signal has fired.
func (s *Signal) Done() <-chan struct{} {
	return s.done
}

// IsReady reports whether the signal has fired.
func (s *Signal) IsReady() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}
