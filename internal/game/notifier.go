package game

import (
	"context"

	"github.com/quizclash/api/internal/model"
)

// Notifier delivers session events to subscribers. Implemented by the
// WebSocket hub; kept here so the core has no transport dependency.
type Notifier interface {
	// State broadcasts a full snapshot after an accepted mutation.
	State(code string, snap *model.Snapshot)
	// Roster broadcasts membership or connection-status changes.
	Roster(code string, players []model.RosterEntry)
	// QuestionComplete broadcasts per-question results when every
	// connected participant has answered or the window closed.
	QuestionComplete(code string, results []model.QuestionResult, advanced bool)
	// GameOver broadcasts the terminal outcome.
	GameOver(code string, outcome *model.Outcome)
}

// ResultSink persists final results once a session ends. Called outside the
// session's serialized section; failures are logged, never retried here.
type ResultSink interface {
	SaveResults(ctx context.Context, code string, outcome *model.Outcome) error
}
