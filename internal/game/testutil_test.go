package game

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/quizclash/api/internal/model"
)

// fakeClock provides a controllable time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeNotifier records every event delivered through the boundary.
type fakeNotifier struct {
	mu        sync.Mutex
	states    []*model.Snapshot
	rosters   [][]model.RosterEntry
	questions [][]model.QuestionResult
	outcomes  []*model.Outcome
}

func (n *fakeNotifier) State(code string, snap *model.Snapshot) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.states = append(n.states, snap)
}

func (n *fakeNotifier) Roster(code string, players []model.RosterEntry) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.rosters = append(n.rosters, players)
}

func (n *fakeNotifier) QuestionComplete(code string, results []model.QuestionResult, advanced bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.questions = append(n.questions, results)
}

func (n *fakeNotifier) GameOver(code string, outcome *model.Outcome) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.outcomes = append(n.outcomes, outcome)
}

func (n *fakeNotifier) lastState() *model.Snapshot {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.states) == 0 {
		return nil
	}
	return n.states[len(n.states)-1]
}

func (n *fakeNotifier) outcomeCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.outcomes)
}

// fakeSink records persisted outcomes.
type fakeSink struct {
	mu       sync.Mutex
	saved    map[string]*model.Outcome
	savedNum int
}

func newFakeSink() *fakeSink {
	return &fakeSink{saved: make(map[string]*model.Outcome)}
}

func (s *fakeSink) SaveResults(ctx context.Context, code string, outcome *model.Outcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved[code] = outcome
	s.savedNum++
	return nil
}

func newTestSession(settings model.Settings, questions []model.Question) (*Session, *fakeNotifier, *fakeClock) {
	notifier := &fakeNotifier{}
	clock := newFakeClock()
	s := newSession("TEST42", settings, questions, notifier, nil, clock.Now, zap.NewNop())
	return s, notifier, clock
}

// fireClock simulates the armed turn clock expiring now.
func fireClock(s *Session) {
	s.mu.Lock()
	gen := s.timerGen
	s.mu.Unlock()
	s.clockExpired(gen)
}

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }

func gridSettings() model.Settings {
	return model.Settings{Variant: model.VariantGridDuel, MaxPlayers: 4, TurnSeconds: 15}
}

func triviaSettings(lives int) model.Settings {
	return model.Settings{Variant: model.VariantTrivia, MaxPlayers: 4, TurnSeconds: 15, InitialLives: lives}
}

func sampleQuestions() []model.Question {
	return []model.Question{
		{Type: model.QuestionMultipleChoice, Prompt: "Capital of France?", Options: []string{"Paris", "Lyon"}, CorrectText: "Paris"},
		{Type: model.QuestionTrueFalse, Prompt: "The sky is green.", CorrectBool: boolPtr(false)},
	}
}

// joinPair joins a host and a second player, returning their IDs.
func joinPair(s *Session) (string, string) {
	if _, err := s.Join("alice", "Alice", true, 0); err != nil {
		panic(err)
	}
	if _, err := s.Join("bob", "Bob", false, 0); err != nil {
		panic(err)
	}
	return "alice", "bob"
}
