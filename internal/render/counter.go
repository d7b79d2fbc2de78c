package render

import (
	"context"
	"math"
	"sync"
	"time"
)

// FrameInterval is the delay between counter frames.
const FrameInterval = 20 * time.Millisecond

// Frames returns the people-helped counter animation: roughly a hundred
// rising values ending exactly at target. A non-positive target collapses
// to a single final frame.
func Frames(target int) []int {
	if target <= 0 {
		return []int{target}
	}
	increment := float64(target) / 100

	var frames []int
	for current := increment; current < float64(target); current += increment {
		frames = append(frames, int(math.Floor(current)))
	}
	return append(frames, target)
}

// Animator plays the counter at most once per entry into view. Leaving and
// re-entering the viewport re-arms it.
type Animator struct {
	mu      sync.Mutex
	playing bool
	played  bool
}

// EnterView starts emitting frames on the returned channel, one per
// FrameInterval tick, closing it after the final frame or when ctx ends.
// While visible, repeat calls return nil so scroll jitter cannot stack
// animations.
func (a *Animator) EnterView(ctx context.Context, target int) <-chan int {
	a.mu.Lock()
	if a.played || a.playing {
		a.mu.Unlock()
		return nil
	}
	a.playing = true
	a.mu.Unlock()

	out := make(chan int)
	go func() {
		defer close(out)
		defer func() {
			a.mu.Lock()
			a.playing = false
			a.played = true
			a.mu.Unlock()
		}()

		ticker := time.NewTicker(FrameInterval)
		defer ticker.Stop()
		for _, frame := range Frames(target) {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			select {
			case <-ctx.Done():
				return
			case out <- frame:
			}
		}
	}()
	return out
}

// LeaveView re-arms the animator for the next entry into view.
func (a *Animator) LeaveView() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.playing {
		a.played = false
	}
}
