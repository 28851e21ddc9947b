package service

import (
	"context"

	"github.com/quizclash/api/internal/model"
	"github.com/quizclash/api/internal/repository"
)

// MongoResultSink persists final results into the room document. The
// orchestrator calls it fire-and-forget; retries are the caller's concern.
type MongoResultSink struct {
	repo repository.GameRoomRepo
}

func NewMongoResultSink(repo repository.GameRoomRepo) *MongoResultSink {
	return &MongoResultSink{repo: repo}
}

func (s *MongoResultSink) SaveResults(ctx context.Context, code string, outcome *model.Outcome) error {
	return s.repo.SaveOutcome(ctx, code, outcome)
}
