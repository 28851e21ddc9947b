package game

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/quizclash/api/internal/model"
)

// events collects notifications produced inside the serialized section.
// They are emitted after the session lock is released so the notifier and
// result sink never run on the critical path.
type events struct {
	state       *model.Snapshot
	roster      []model.RosterEntry
	question    []model.QuestionResult
	hasQuestion bool
	advanced    bool
	outcome     *model.Outcome
}

// Session is one live match. Every mutation, whether driven by a client
// action or a firing turn clock, runs under mu; this is the serialization
// point the rest of the core relies on.
type Session struct {
	code string

	mu       sync.Mutex
	notifier Notifier
	sink     ResultSink
	clock    func() time.Time
	log      *zap.Logger

	settings  model.Settings
	state     model.GameState
	players   []*model.Player
	questions []model.Question
	rules     ruleset

	// Grid duel.
	board       model.Board
	marks       map[string]model.Mark
	currentMark model.Mark

	// Trivia.
	questionIndex int

	turnStarted time.Time
	outcome     *model.Outcome

	createdAt    time.Time
	endedAt      time.Time
	lastActivity time.Time

	timer    *time.Timer
	timerGen uint64
}

func newSession(code string, settings model.Settings, questions []model.Question, notifier Notifier, sink ResultSink, clock func() time.Time, log *zap.Logger) *Session {
	settings.Clamp()
	now := clock()
	return &Session{
		code:         code,
		notifier:     notifier,
		sink:         sink,
		clock:        clock,
		log:          log.With(zap.String("code", code), zap.String("variant", string(settings.Variant))),
		settings:     settings,
		state:        model.GameStateWaiting,
		questions:    questions,
		rules:        rulesFor(settings.Variant),
		marks:        make(map[string]model.Mark),
		currentMark:  model.MarkX,
		createdAt:    now,
		lastActivity: now,
	}
}

// Code returns the session's immutable code.
func (s *Session) Code() string { return s.code }

// Join adds a player or reconnects an existing one, returning the current
// snapshot. turnSeconds, when positive and the session has not started,
// reconfigures the turn duration (clamped).
func (s *Session) Join(playerID, name string, isHost bool, turnSeconds int) (*model.Snapshot, error) {
	var ev events
	s.mu.Lock()
	snap, err := s.joinLocked(playerID, name, isHost, turnSeconds, &ev)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	s.emit(&ev)
	return snap, nil
}

func (s *Session) joinLocked(playerID, name string, isHost bool, turnSeconds int, ev *events) (*model.Snapshot, error) {
	if s.state == model.GameStateEnded {
		return nil, model.ErrSessionEnded
	}
	s.lastActivity = s.clock()

	if p := s.playerLocked(playerID); p != nil {
		// Reconnect with preserved score and lives.
		p.IsConnected = true
		if name != "" {
			p.Name = name
		}
		ev.roster = s.rosterLocked()
		return s.snapshotLocked(), nil
	}

	if s.state == model.GameStatePlaying && s.settings.Variant == model.VariantTrivia {
		return nil, model.ErrSessionStarted
	}
	if len(s.players) >= s.settings.MaxPlayers {
		return nil, model.ErrRoomFull
	}

	if turnSeconds > 0 && s.state == model.GameStateWaiting {
		s.settings.TurnSeconds = turnSeconds
		s.settings.Clamp()
	}

	p := &model.Player{
		ID:          playerID,
		Name:        name,
		IsHost:      isHost,
		IsConnected: true,
		JoinedAt:    s.clock(),
	}
	if name == "" {
		p.Name = playerID
	}
	s.players = append(s.players, p)

	// Grid duel marks are assigned in join order; later joiners spectate.
	if s.settings.Variant == model.VariantGridDuel {
		used := make(map[model.Mark]bool, len(s.marks))
		for _, m := range s.marks {
			used[m] = true
		}
		if !used[model.MarkX] {
			s.marks[playerID] = model.MarkX
		} else if !used[model.MarkO] {
			s.marks[playerID] = model.MarkO
		}
	}

	ev.roster = s.rosterLocked()
	return s.snapshotLocked(), nil
}

// Start moves the session from waiting to playing. Only the host may start.
// Starting a session that is already playing or ended is a no-op returning
// the current state.
func (s *Session) Start(playerID string) (*model.Snapshot, error) {
	var ev events
	s.mu.Lock()
	snap, err := s.startLocked(playerID, &ev)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	s.emit(&ev)
	return snap, nil
}

func (s *Session) startLocked(playerID string, ev *events) (*model.Snapshot, error) {
	if s.state != model.GameStateWaiting {
		return s.snapshotLocked(), nil
	}
	p := s.playerLocked(playerID)
	if p == nil || !p.IsHost {
		return nil, model.ErrNotHost
	}
	if err := s.rules.start(s); err != nil {
		return nil, err
	}

	s.state = model.GameStatePlaying
	s.turnStarted = s.clock()
	s.lastActivity = s.turnStarted
	s.armClockLocked()

	ev.roster = s.rosterLocked()
	snap := s.snapshotLocked()
	ev.state = snap
	return snap, nil
}

// Apply validates and applies one player action through the variant ruleset.
func (s *Session) Apply(playerID string, act Action) (*Result, error) {
	var ev events
	s.mu.Lock()
	res, err := s.applyLocked(playerID, act, &ev)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	s.emit(&ev)
	return res, nil
}

func (s *Session) applyLocked(playerID string, act Action, ev *events) (*Result, error) {
	if s.state != model.GameStatePlaying {
		return nil, model.ErrSessionNotPlaying
	}
	p := s.playerLocked(playerID)
	if p == nil {
		return nil, model.ErrNotAParticipant
	}
	s.lastActivity = s.clock()
	return s.rules.apply(s, p, act, ev)
}

// AdvanceQuestion closes the current trivia question window, scoring a
// zero-credit non-answer for anyone who has not answered, then advances or
// ends the session. No-op for non-trivia variants or outside playing.
func (s *Session) AdvanceQuestion() error {
	var ev events
	s.mu.Lock()
	err := s.advanceLocked(&ev)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.emit(&ev)
	return nil
}

func (s *Session) advanceLocked(ev *events) error {
	if s.state != model.GameStatePlaying {
		return model.ErrSessionNotPlaying
	}
	if s.settings.Variant != model.VariantTrivia {
		return nil
	}
	s.lastActivity = s.clock()
	triviaRules{}.closeWindow(s, ev)
	return nil
}

// Disconnect marks a player disconnected without removing them, so a later
// join with the same identity restores score and lives.
func (s *Session) Disconnect(playerID string) {
	var ev events
	s.mu.Lock()
	p := s.playerLocked(playerID)
	if p == nil || !p.IsConnected {
		s.mu.Unlock()
		return
	}
	p.IsConnected = false
	s.lastActivity = s.clock()
	ev.roster = s.rosterLocked()

	// A departure can leave everyone else already answered.
	if s.state == model.GameStatePlaying && s.settings.Variant == model.VariantTrivia && s.allAnsweredLocked() {
		triviaRules{}.closeWindow(s, &ev)
	}
	s.mu.Unlock()
	s.emit(&ev)
}

// Snapshot returns a full immutable copy of the current state.
func (s *Session) Snapshot() *model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) playerLocked(id string) *model.Player {
	for _, p := range s.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (s *Session) rosterLocked() []model.RosterEntry {
	roster := make([]model.RosterEntry, len(s.players))
	for i, p := range s.players {
		roster[i] = model.RosterEntry{
			ID:          p.ID,
			Name:        p.Name,
			IsHost:      p.IsHost,
			IsConnected: p.IsConnected,
			Score:       p.Score,
			Lives:       p.Lives,
			Mark:        s.marks[p.ID],
			HasAnswered: p.AnswerFor(s.questionIndex) != nil,
		}
	}
	return roster
}

func (s *Session) snapshotLocked() *model.Snapshot {
	snap := &model.Snapshot{
		Code:          s.code,
		State:         s.state,
		Variant:       s.settings.Variant,
		TurnStarted:   s.turnStarted,
		TurnSeconds:   s.settings.TurnSeconds,
		QuestionIndex: s.questionIndex,
		QuestionCount: len(s.questions),
		Players:       s.rosterLocked(),
	}
	if s.settings.Variant == model.VariantGridDuel {
		snap.Board = append([]model.Mark(nil), s.board[:]...)
		snap.Marks = make(map[string]model.Mark, len(s.marks))
		for id, m := range s.marks {
			snap.Marks[id] = m
		}
		snap.CurrentMark = s.currentMark
		for id, m := range s.marks {
			if m == s.currentMark {
				snap.TurnOwner = id
			}
		}
	}
	if s.outcome != nil {
		out := *s.outcome
		out.Results = append([]model.FinalResult(nil), s.outcome.Results...)
		snap.Outcome = &out
	}
	return snap
}

func (s *Session) allAnsweredLocked() bool {
	any := false
	for _, p := range s.players {
		if !p.IsConnected {
			continue
		}
		any = true
		if p.AnswerFor(s.questionIndex) == nil {
			return false
		}
	}
	return any
}

// endLocked freezes the outcome and disarms the clock. Terminal: callers
// must have checked state beforehand.
func (s *Session) endLocked(outcome *model.Outcome, ev *events) {
	s.state = model.GameStateEnded
	s.outcome = outcome
	s.endedAt = s.clock()
	s.lastActivity = s.endedAt
	s.disarmClockLocked()

	ev.outcome = outcome
	ev.state = s.snapshotLocked()
}

// emit delivers collected events. Runs without the session lock; snapshots
// are already immutable copies.
func (s *Session) emit(ev *events) {
	if s.notifier != nil {
		if ev.roster != nil {
			s.notifier.Roster(s.code, ev.roster)
		}
		if ev.hasQuestion {
			s.notifier.QuestionComplete(s.code, ev.question, ev.advanced)
		}
		if ev.state != nil {
			s.notifier.State(s.code, ev.state)
		}
		if ev.outcome != nil {
			s.notifier.GameOver(s.code, ev.outcome)
		}
	}
	if ev.outcome != nil && s.sink != nil {
		// Persistence is the collaborator's problem; never block the
		// next move on it.
		outcome := ev.outcome
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.sink.SaveResults(ctx, s.code, outcome); err != nil {
				s.log.Warn("failed to persist final results", zap.Error(err))
			}
		}()
	}
}
