package game

import (
	"time"

	"go.uber.org/zap"

	"github.com/quizclash/api/internal/model"
)

// The turn clock. At most one timer is armed per session: arming bumps the
// generation counter and stops the previous timer, so a callback that lost
// the race observes a stale generation and backs out.

func (s *Session) armClockLocked() {
	s.timerGen++
	gen := s.timerGen
	if s.timer != nil {
		s.timer.Stop()
	}
	d := time.Duration(s.settings.TurnSeconds) * time.Second
	s.timer = time.AfterFunc(d, func() { s.clockExpired(gen) })
}

func (s *Session) disarmClockLocked() {
	s.timerGen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// clockExpired enters the same serialized section as client actions. A
// fired-but-stale callback (re-armed, disarmed, or session already decided)
// is a silent no-op.
func (s *Session) clockExpired(gen uint64) {
	var ev events
	s.mu.Lock()
	if gen != s.timerGen || s.state != model.GameStatePlaying || s.outcome != nil {
		s.mu.Unlock()
		s.log.Debug("stale turn clock fired", zap.Uint64("gen", gen))
		return
	}
	s.turnExpiredLocked(&ev)
	s.mu.Unlock()
	s.emit(&ev)
}

func (s *Session) turnExpiredLocked(ev *events) {
	s.lastActivity = s.clock()
	s.rules.expire(s, ev)
}
