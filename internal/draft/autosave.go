package draft

import (
	"sync"
	"time"
)

// Scheduler debounces save requests: each Arm restarts a single timer, so a
// burst of edits results in one save after the configured delay of quiet.
type Scheduler struct {
	mu      sync.Mutex
	timer   *time.Timer
	delay   time.Duration
	enabled bool
	fire    func()
}

func NewScheduler(delay time.Duration, enabled bool, fire func()) *Scheduler {
	return &Scheduler{
		delay:   delay,
		enabled: enabled,
		fire:    fire,
	}
}

// Arm starts or restarts the debounce timer. No-op when autosave is disabled.
func (s *Scheduler) Arm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled || s.delay <= 0 {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, s.fire)
}

// Cancel stops any pending timer without firing it.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Scheduler) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// SetEnabled flips autosave on or off. Disabling cancels any pending timer.
func (s *Scheduler) SetEnabled(enabled bool) {
	s.mu.Lock()
	s.enabled = enabled
	timer := s.timer
	if !enabled {
		s.timer = nil
	}
	s.mu.Unlock()
	if !enabled && timer != nil {
		timer.Stop()
	}
}
