package view

import "sync"

// DefaultRevealThreshold is the visible fraction at which a section reveals.
const DefaultRevealThreshold = 0.1

// Reveal latches sections visible once enough of them scrolls into view.
// A revealed section never hides again, so scrolling back up keeps the
// page settled.
type Reveal struct {
	threshold float64

	mu       sync.Mutex
	revealed map[string]bool
}

// NewReveal creates a latch with the given visibility threshold. A
// non-positive threshold falls back to the default.
func NewReveal(threshold float64) *Reveal {
	if threshold <= 0 {
		threshold = DefaultRevealThreshold
	}
	return &Reveal{threshold: threshold, revealed: make(map[string]bool)}
}

// Observe records that the given fraction of a section is visible and
// reports whether the section is revealed afterwards.
func (r *Reveal) Observe(section string, visibleRatio float64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if visibleRatio >= r.threshold {
		r.revealed[section] = true
	}
	return r.revealed[section]
}

// IsRevealed reports whether a section has been revealed.
func (r *Reveal) IsRevealed(section string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.revealed[section]
}

// Revealed returns the number of revealed sections.
func (r *Reveal) Revealed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.revealed)
}
