package core

import "time"

// maxCatchUp bounds how many ticks Due reports after a long stall.
const maxCatchUp = 5

// FixedStep paces updates at a steady ticks-per-second rate.
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
	now         func() time.Time
}

// NewFixedStep constructs a FixedStep controller targeting the given TPS.
func NewFixedStep(tps int) *FixedStep {
	return NewFixedStepClock(tps, time.Now)
}

// NewFixedStepClock is NewFixedStep with an injected clock.
func NewFixedStepClock(tps int, now func() time.Time) *FixedStep {
	fs := &FixedStep{now: now}
	fs.SetTPS(tps)
	fs.accumulator = fs.step
	return fs
}

// SetTPS changes the tick rate. It is safe to call from the main loop.
func (f *FixedStep) SetTPS(tps int) {
	if tps <= 0 {
		tps = 60
	}
	f.step = time.Second / time.Duration(tps)
}

// Interval is the duration of one tick.
func (f *FixedStep) Interval() time.Duration { return f.step }

// ShouldStep reports whether the loop should advance by one tick.
func (f *FixedStep) ShouldStep() bool {
	f.advance()
	if f.accumulator >= f.step {
		f.accumulator -= f.step
		return true
	}
	return false
}

// Due consumes and returns every whole tick owed since the last call, at
// most maxCatchUp. Surplus time past the cap is dropped.
func (f *FixedStep) Due() int {
	f.advance()
	n := int(f.accumulator / f.step)
	if n > maxCatchUp {
		f.accumulator = 0
		return maxCatchUp
	}
	f.accumulator -= time.Duration(n) * f.step
	return n
}

func (f *FixedStep) advance() {
	now := f.now()
	if f.last.IsZero() {
		f.last = now
	}
	f.accumulator += now.Sub(f.last)
	f.last = now
}
