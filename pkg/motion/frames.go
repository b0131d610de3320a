package motion

import (
	"sync"
	"time"
)

// TickerFrames is a FrameRequester backed by a time.Ticker. The ticker
// goroutine only runs while frames are pending.
type TickerFrames struct {
	interval time.Duration

	mu      sync.Mutex
	pending []func(time.Time)
	running bool
	closed  bool
	stop    chan struct{}
}

// NewTickerFrames returns a requester firing at most fps times per second.
func NewTickerFrames(fps float64) *TickerFrames {
	if fps <= 0 {
		fps = 60
	}
	return &TickerFrames{
		interval: time.Duration(float64(time.Second) / fps),
		stop:     make(chan struct{}),
	}
}

// RequestFrame queues fn for the next tick.
func (t *TickerFrames) RequestFrame(fn func(time.Time)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.pending = append(t.pending, fn)
	if !t.running {
		t.running = true
		go t.run()
	}
}

// Close stops the ticker goroutine and drops pending frames.
func (t *TickerFrames) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	t.pending = nil
	close(t.stop)
}

func (t *TickerFrames) run() {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			t.mu.Lock()
			batch := t.pending
			t.pending = nil
			if len(batch) == 0 {
				t.running = false
				t.mu.Unlock()
				return
			}
			t.mu.Unlock()
			for _, fn := range batch {
				fn(now)
			}
		case <-t.stop:
			return
		}
	}
}
