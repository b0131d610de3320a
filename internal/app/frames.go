package app

import (
	"sync"
	"time"
)

// UpdateFrames is a FrameRequester drained once per game update.
type UpdateFrames struct {
	mu      sync.Mutex
	pending []func(time.Time)
}

// RequestFrame queues fn for the next Flush.
func (f *UpdateFrames) RequestFrame(fn func(time.Time)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = append(f.pending, fn)
}

// Flush runs every queued frame at now and returns how many ran. Frames
// requested while flushing wait for the next call.
func (f *UpdateFrames) Flush(now time.Time) int {
	f.mu.Lock()
	batch := f.pending
	f.pending = nil
	f.mu.Unlock()
	for _, fn := range batch {
		fn(now)
	}
	return len(batch)
}
