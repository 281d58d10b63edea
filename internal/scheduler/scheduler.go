package scheduler

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// Scheduler runs at most one one-shot timer per key. Scheduling a key again
// replaces its timer; cancelling it drops the pending callback.
//
// A callback can still run right after Cancel if its timer fired concurrently,
// so callbacks must tolerate being stale.
type Scheduler struct {
	clock  clockwork.Clock
	timers map[string]*task
	mtx    sync.Mutex

	logger *zap.Logger
}

type task struct {
	timer    clockwork.Timer
	deadline time.Time
	cancel   chan struct{}
}

func NewScheduler(clock clockwork.Clock, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		clock:  clock,
		timers: make(map[string]*task),
		logger: logger,
	}
}

// Schedule calls fn once d has elapsed unless the key is cancelled or rescheduled first.
func (s *Scheduler) Schedule(key string, d time.Duration, fn func()) {
	t := &task{
		timer:    s.clock.NewTimer(d),
		deadline: s.clock.Now().Add(d),
		cancel:   make(chan struct{}),
	}

	s.mtx.Lock()
	if existing, ok := s.timers[key]; ok {
		existing.stop()
		s.logger.Debug("replaced existing timer", zap.String("key", key))
	}
	s.timers[key] = t
	s.mtx.Unlock()

	go func() {
		select {
		case <-t.timer.Chan():
			s.mtx.Lock()
			current := s.timers[key] == t
			if current {
				delete(s.timers, key)
			}
			s.mtx.Unlock()
			if !current {
				return
			}
			s.logger.Debug("timer fired", zap.String("key", key))
			fn()
		case <-t.cancel:
		}
	}()

	s.logger.Debug("scheduled timer", zap.String("key", key), zap.Duration("duration", d))
}

// Cancel drops the timer of the key, if any.
func (s *Scheduler) Cancel(key string) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if t, ok := s.timers[key]; ok {
		t.stop()
		delete(s.timers, key)
		s.logger.Debug("cancelled timer", zap.String("key", key))
	}
}

// Remaining returns the time left until the key's timer fires.
func (s *Scheduler) Remaining(key string) (time.Duration, bool) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	t, ok := s.timers[key]
	if !ok {
		return 0, false
	}
	return max(0, t.deadline.Sub(s.clock.Now())), true
}

// Pending returns the number of armed timers.
func (s *Scheduler) Pending() int {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return len(s.timers)
}

// StopAll cancels every timer.
func (s *Scheduler) StopAll() {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	for key, t := range s.timers {
		t.stop()
		delete(s.timers, key)
	}
}

// stop must be called with the scheduler lock held.
func (t *task) stop() {
	if !t.timer.Stop() {
		select {
		case <-t.timer.Chan():
		default:
		}
	}
	close(t.cancel)
}
