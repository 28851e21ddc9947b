package service

import (
	"context"
	"crypto/rand"
	"fmt"

	"go.uber.org/zap"

	"github.com/quizclash/api/internal/cache"
	"github.com/quizclash/api/internal/game"
	"github.com/quizclash/api/internal/model"
	"github.com/quizclash/api/internal/repository"
)

// GameService is the collaborator surface around the orchestrator: it
// creates sessions from persisted configuration, routes inbound actions to
// the registry, and reads the thin CRUD projections. Game rules live in
// internal/game, never here.
type GameService struct {
	registry    *game.Registry
	roomRepo    repository.GameRoomRepo
	quizRepo    repository.QuizRepo
	leaderboard cache.LeaderboardCache
	snapshots   cache.SnapshotCache
	authSvc     *AuthService
	log         *zap.Logger
}

func NewGameService(
	registry *game.Registry,
	roomRepo repository.GameRoomRepo,
	quizRepo repository.QuizRepo,
	leaderboard cache.LeaderboardCache,
	snapshots cache.SnapshotCache,
	authSvc *AuthService,
	log *zap.Logger,
) *GameService {
	return &GameService{
		registry:    registry,
		roomRepo:    roomRepo,
		quizRepo:    quizRepo,
		leaderboard: leaderboard,
		snapshots:   snapshots,
		authSvc:     authSvc,
		log:         log,
	}
}

// CreateGame validates configuration, persists the room document, and
// registers the live session. Questions come inline or from a stored quiz.
func (s *GameService) CreateGame(ctx context.Context, hostID string, settings model.Settings, questions []model.Question, quizID string) (*model.GameRoom, error) {
	settings.Clamp()

	if len(questions) == 0 && quizID != "" {
		quiz, err := s.quizRepo.GetByID(ctx, quizID)
		if err != nil {
			return nil, fmt.Errorf("failed to load quiz: %w", err)
		}
		if quiz == nil {
			return nil, fmt.Errorf("quiz %s: %w", quizID, model.ErrNoQuestions)
		}
		questions = quiz.Questions
	}
	if settings.Variant == model.VariantTrivia && len(questions) == 0 {
		return nil, model.ErrNoQuestions
	}

	code, err := s.generateGameCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate game code: %w", err)
	}

	room := &model.GameRoom{
		Code:     code,
		HostID:   hostID,
		Settings: settings,
		State:    model.GameStateWaiting,
	}
	if settings.Variant == model.VariantTrivia {
		room.Questions = questions
	}
	if err := s.roomRepo.Create(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to persist game room: %w", err)
	}

	s.registry.Create(code, settings, questions)
	return room, nil
}

// Join adds or reconnects a player and returns a session-scoped token
// alongside the snapshot.
func (s *GameService) Join(code, playerID, name string, isHost bool, turnSeconds int) (*model.Snapshot, string, error) {
	sess, err := s.registry.Get(code)
	if err != nil {
		return nil, "", err
	}
	snap, err := sess.Join(playerID, name, isHost, turnSeconds)
	if err != nil {
		return nil, "", err
	}
	token, err := s.authSvc.GeneratePlayerToken(sess.Code(), playerID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return snap, token, nil
}

// Start begins the match. No-op with the current snapshot if already
// started or ended.
func (s *GameService) Start(ctx context.Context, code, playerID string) (*model.Snapshot, error) {
	sess, err := s.registry.Get(code)
	if err != nil {
		return nil, err
	}
	snap, err := sess.Start(playerID)
	if err != nil {
		return nil, err
	}

	// Best-effort: mirror the transition into the room document.
	if room, repoErr := s.roomRepo.GetByCode(ctx, sess.Code()); repoErr == nil && room != nil && room.State == model.GameStateWaiting {
		room.State = model.GameStatePlaying
		started := snap.TurnStarted
		room.StartedAt = &started
		if err := s.roomRepo.Update(ctx, room); err != nil {
			s.log.Warn("failed to update room document", zap.String("code", code), zap.Error(err))
		}
	}
	return snap, nil
}

// RequestState returns a snapshot to the caller only. Live sessions are
// read directly; evicted ones fall back to the snapshot cache.
func (s *GameService) RequestState(ctx context.Context, code string) (*model.Snapshot, error) {
	if sess, err := s.registry.Get(code); err == nil {
		return sess.Snapshot(), nil
	}
	snap, err := s.snapshots.Get(ctx, game.NormalizeCode(code))
	if err != nil {
		return nil, fmt.Errorf("failed to read cached snapshot: %w", err)
	}
	if snap == nil {
		return nil, model.ErrSessionNotFound
	}
	return snap, nil
}

// SubmitMove places a grid-duel mark.
func (s *GameService) SubmitMove(code, playerID string, cellIndex int) (*game.Result, error) {
	sess, err := s.registry.Get(code)
	if err != nil {
		return nil, err
	}
	return sess.Apply(playerID, game.Action{CellIndex: &cellIndex})
}

// ForfeitTurn passes the current grid-duel turn without placing a mark.
func (s *GameService) ForfeitTurn(code, playerID string) (*game.Result, error) {
	sess, err := s.registry.Get(code)
	if err != nil {
		return nil, err
	}
	return sess.Apply(playerID, game.Action{ForfeitTurn: true})
}

// SubmitAnswer scores a trivia answer.
func (s *GameService) SubmitAnswer(code, playerID string, answer model.Answer, timeSpentSec float64) (*game.Result, error) {
	sess, err := s.registry.Get(code)
	if err != nil {
		return nil, err
	}
	return sess.Apply(playerID, game.Action{Answer: &answer, TimeSpentSec: timeSpentSec})
}

// AdvanceQuestion closes the current question window.
func (s *GameService) AdvanceQuestion(code string) error {
	sess, err := s.registry.Get(code)
	if err != nil {
		return err
	}
	return sess.AdvanceQuestion()
}

// Disconnect marks a player disconnected without removing them.
func (s *GameService) Disconnect(code, playerID string) {
	sess, err := s.registry.Get(code)
	if err != nil {
		return
	}
	sess.Disconnect(playerID)
}

// GetStatus returns the persisted room document.
func (s *GameService) GetStatus(ctx context.Context, code string) (*model.GameRoom, error) {
	room, err := s.roomRepo.GetByCode(ctx, game.NormalizeCode(code))
	if err != nil {
		return nil, fmt.Errorf("failed to load game room: %w", err)
	}
	if room == nil {
		return nil, model.ErrSessionNotFound
	}
	return room, nil
}

// Leaderboard returns the top entries for a session.
func (s *GameService) Leaderboard(ctx context.Context, code string, limit int) ([]cache.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.leaderboard.GetTop(ctx, game.NormalizeCode(code), limit)
}

// generateGameCode creates a 6-char alphanumeric code
func (s *GameService) generateGameCode(ctx context.Context) (string, error) {
	const chars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	const codeLen = 6

	for attempts := 0; attempts < 10; attempts++ {
		b := make([]byte, codeLen)
		if _, err := rand.Read(b); err != nil {
			return "", err
		}

		code := make([]byte, codeLen)
		for i := range code {
			code[i] = chars[int(b[i])%len(chars)]
		}
		codeStr := string(code)

		if s.registry.Exists(codeStr) {
			continue
		}
		existing, err := s.roomRepo.GetByCode(ctx, codeStr)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return codeStr, nil
		}
	}

	return "", fmt.Errorf("failed to generate unique game code")
}
