package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/quizclash/api/internal/cache"
	"github.com/quizclash/api/internal/game"
	"github.com/quizclash/api/internal/model"
)

// EventRelay sits between the orchestrator and the WebSocket hub. It
// forwards every event and, on state broadcasts, refreshes the Redis
// snapshot cache and leaderboard. Runs after the session's serialized
// section releases, so cache latency never delays the next move.
type EventRelay struct {
	hub         game.Notifier
	snapshots   cache.SnapshotCache
	leaderboard cache.LeaderboardCache
	log         *zap.Logger
}

func NewEventRelay(hub game.Notifier, snapshots cache.SnapshotCache, leaderboard cache.LeaderboardCache, log *zap.Logger) *EventRelay {
	return &EventRelay{
		hub:         hub,
		snapshots:   snapshots,
		leaderboard: leaderboard,
		log:         log,
	}
}

func (r *EventRelay) State(code string, snap *model.Snapshot) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := r.snapshots.Set(ctx, snap); err != nil {
		r.log.Warn("failed to cache snapshot", zap.String("code", code), zap.Error(err))
	}
	for _, p := range snap.Players {
		if err := r.leaderboard.UpdateScore(ctx, code, p.ID, p.Score); err != nil {
			r.log.Warn("failed to update leaderboard", zap.String("code", code), zap.Error(err))
			break
		}
	}
	r.hub.State(code, snap)
}

func (r *EventRelay) Roster(code string, players []model.RosterEntry) {
	r.hub.Roster(code, players)
}

func (r *EventRelay) QuestionComplete(code string, results []model.QuestionResult, advanced bool) {
	r.hub.QuestionComplete(code, results, advanced)
}

func (r *EventRelay) GameOver(code string, outcome *model.Outcome) {
	r.hub.GameOver(code, outcome)
}
