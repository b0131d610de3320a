// Package motion animates camera poses over time.
package motion

import (
	"math"
	"sync"
	"time"

	"canvas-grid/pkg/camera"
)

// JobID identifies an in-flight camera move.
type JobID int

// FrameRequester schedules fn to run once on the host's next frame. It must
// not call fn synchronously from RequestFrame.
type FrameRequester interface {
	RequestFrame(fn func(now time.Time))
}

// Config controls how a Scheduler is driven.
type Config struct {
	// FPS caps how often frames are processed. Zero processes every frame.
	FPS float64
	// Manual disables frame requests; the caller drives the scheduler with Tick.
	Manual bool
	Frames FrameRequester
	Now    func() time.Time
}

// MoveOptions marks which axes are absolute targets rather than deltas.
type MoveOptions struct {
	AbsoluteR bool
	AbsoluteX bool
	AbsoluteY bool
	AbsoluteZ bool
}

type job struct {
	id       JobID
	cam      *camera.Camera
	duration time.Duration
	start    time.Time
	elapsed  time.Duration
	callback func()

	orig   [4]float64
	step   [4]float64
	target [4]float64

	prev, next *job
}

// Scheduler interpolates cameras towards targets across frames.
type Scheduler struct {
	mu sync.Mutex

	cfg      Config
	interval time.Duration

	head, tail *job
	jobs       map[JobID]*job
	lastID     JobID

	deferred []func()
	last     time.Time
	running  bool
	paused   bool
	pausedAt time.Time
}

// New returns an idle scheduler.
func New(cfg Config) *Scheduler {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	s := &Scheduler{cfg: cfg, jobs: make(map[JobID]*job)}
	if cfg.FPS > 0 {
		s.interval = time.Duration(float64(time.Second) / cfg.FPS)
	}
	return s
}

// Move animates cam towards (r, x, y, z) over duration. Axes not marked
// absolute in opts are offsets from the camera's current pose. A
// non-positive duration applies the pose immediately and returns false;
// cb still runs on the next frame. cb may be nil.
func (s *Scheduler) Move(cam *camera.Camera, r, x, y, z float64, duration time.Duration, opts MoveOptions, cb func()) (JobID, bool) {
	s.mu.Lock()
	current := [4]float64{cam.R, cam.X, cam.Y, cam.Z}
	target := [4]float64{r, x, y, z}
	absolute := [4]bool{opts.AbsoluteR, opts.AbsoluteX, opts.AbsoluteY, opts.AbsoluteZ}
	for i := range target {
		if !absolute[i] {
			target[i] += current[i]
		}
	}

	if duration <= 0 {
		cam.R = camera.NormalizeRadians(target[0])
		cam.X, cam.Y, cam.Z = target[1], target[2], target[3]
		if cb != nil {
			s.deferred = append(s.deferred, cb)
		}
		request := s.wantFrameLocked()
		s.mu.Unlock()
		s.request(request)
		return 0, false
	}

	j := &job{
		id:       s.nextIDLocked(),
		cam:      cam,
		duration: duration,
		start:    s.cfg.Now(),
		callback: cb,
		orig:     current,
		target:   target,
	}
	if s.paused {
		j.start = s.pausedAt
	}
	for i := range j.step {
		j.step[i] = current[i] - target[i]
	}
	s.pushLocked(j)
	request := s.wantFrameLocked()
	s.mu.Unlock()
	s.request(request)
	return j.id, true
}

// Cancel drops a job without running its callback. The camera keeps
// whatever pose the last frame gave it.
func (s *Scheduler) Cancel(id JobID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return false
	}
	s.removeLocked(j)
	return true
}

// Pause freezes every job until Resume. Immediate moves made while paused
// still apply and run their callbacks on the next frame.
func (s *Scheduler) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.paused {
		return
	}
	s.paused = true
	s.pausedAt = s.cfg.Now()
}

// Resume continues paused jobs as if no time had passed while paused.
func (s *Scheduler) Resume() {
	s.mu.Lock()
	if !s.paused {
		s.mu.Unlock()
		return
	}
	shift := s.cfg.Now().Sub(s.pausedAt)
	for j := s.head; j != nil; j = j.next {
		j.start = j.start.Add(shift)
	}
	if !s.last.IsZero() {
		s.last = s.last.Add(shift)
	}
	s.paused = false
	request := s.wantFrameLocked()
	s.mu.Unlock()
	s.request(request)
}

// Paused reports whether Pause is in effect.
func (s *Scheduler) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// Len returns the number of in-flight jobs.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Elapsed returns how far into its duration job id was at the last frame.
func (s *Scheduler) Elapsed(id JobID) (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return 0, false
	}
	return j.elapsed, true
}

// Snapshot copies cam while holding the scheduler lock, for hosts whose
// frames run on another goroutine.
func (s *Scheduler) Snapshot(cam *camera.Camera) camera.Camera {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *cam
}

// Tick processes one frame at ts. Manual schedulers call it from their own
// loop; automatic schedulers call it through the FrameRequester.
func (s *Scheduler) Tick(ts time.Time) {
	s.frame(ts, true)
}

func (s *Scheduler) onFrame(ts time.Time) {
	s.frame(ts, false)
}

func (s *Scheduler) frame(ts time.Time, manual bool) {
	s.mu.Lock()
	if !manual {
		s.running = false
	}
	if s.paused {
		// Pause freezes jobs only; callbacks of immediate moves still run.
		callbacks := s.deferred
		s.deferred = nil
		s.mu.Unlock()
		for _, cb := range callbacks {
			cb()
		}
		return
	}

	if s.interval > 0 && !s.last.IsZero() && ts.Sub(s.last) < s.interval {
		request := s.wantFrameLocked()
		s.mu.Unlock()
		s.request(request)
		return
	}
	s.last = ts

	for j := s.head; j != nil; {
		next := j.next
		j.elapsed = ts.Sub(j.start)
		if j.elapsed >= j.duration {
			j.cam.R = camera.NormalizeRadians(j.target[0])
			j.cam.X, j.cam.Y, j.cam.Z = j.target[1], j.target[2], j.target[3]
			s.removeLocked(j)
			if j.callback != nil {
				s.deferred = append(s.deferred, j.callback)
			}
		} else {
			ratio := math.Max(0, float64(j.elapsed)/float64(j.duration))
			j.cam.R = j.orig[0] - j.step[0]*ratio
			j.cam.X = j.orig[1] - j.step[1]*ratio
			j.cam.Y = j.orig[2] - j.step[2]*ratio
			j.cam.Z = j.orig[3] - j.step[3]*ratio
		}
		j = next
	}

	callbacks := s.deferred
	s.deferred = nil
	request := s.wantFrameLocked()
	s.mu.Unlock()

	for _, cb := range callbacks {
		cb()
	}
	s.request(request)
}

// wantFrameLocked reports whether a frame must be requested and marks the
// loop as running if so.
func (s *Scheduler) wantFrameLocked() bool {
	if s.cfg.Manual || s.cfg.Frames == nil || s.running {
		return false
	}
	if len(s.deferred) == 0 && (s.paused || s.head == nil) {
		return false
	}
	s.running = true
	return true
}

func (s *Scheduler) request(ok bool) {
	if ok {
		s.cfg.Frames.RequestFrame(s.onFrame)
	}
}

func (s *Scheduler) nextIDLocked() JobID {
	for {
		s.lastID++
		if s.lastID <= 0 {
			s.lastID = 1
		}
		if _, live := s.jobs[s.lastID]; !live {
			return s.lastID
		}
	}
}

func (s *Scheduler) pushLocked(j *job) {
	s.jobs[j.id] = j
	if s.tail == nil {
		s.head, s.tail = j, j
		return
	}
	j.prev = s.tail
	s.tail.next = j
	s.tail = j
}

func (s *Scheduler) removeLocked(j *job) {
	delete(s.jobs, j.id)
	if j.prev != nil {
		j.prev.next = j.next
	} else {
		s.head = j.next
	}
	if j.next != nil {
		j.next.prev = j.prev
	} else {
		s.tail = j.prev
	}
	j.prev, j.next = nil, nil
}
