package game

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/quizclash/api/internal/model"
)

func TestSessionJoinRoomFull(t *testing.T) {
	s, _, _ := newTestSession(model.Settings{Variant: model.VariantTrivia, MaxPlayers: 2, TurnSeconds: 15}, sampleQuestions())
	joinPair(s)
	if _, err := s.Join("carol", "Carol", false, 0); !errors.Is(err, model.ErrRoomFull) {
		t.Errorf("join full room: err = %v, want ErrRoomFull", err)
	}
}

func TestSessionJoinAfterEnd(t *testing.T) {
	s, _, _ := newTestSession(gridSettings(), nil)
	joinPair(s)
	if _, err := s.Start("alice"); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.Apply("alice", Action{CellIndex: intPtr(0)})
	s.Apply("bob", Action{CellIndex: intPtr(3)})
	s.Apply("alice", Action{CellIndex: intPtr(1)})
	s.Apply("bob", Action{CellIndex: intPtr(4)})
	if res, err := s.Apply("alice", Action{CellIndex: intPtr(2)}); err != nil || !res.GameOver {
		t.Fatalf("winning move: res=%+v err=%v", res, err)
	}

	if _, err := s.Join("carol", "Carol", false, 0); !errors.Is(err, model.ErrSessionEnded) {
		t.Errorf("join ended session: err = %v, want ErrSessionEnded", err)
	}
}

func TestSessionStartRequiresHost(t *testing.T) {
	s, _, _ := newTestSession(gridSettings(), nil)
	joinPair(s)
	if _, err := s.Start("bob"); !errors.Is(err, model.ErrNotHost) {
		t.Errorf("non-host start: err = %v, want ErrNotHost", err)
	}
	if _, err := s.Start("mallory"); !errors.Is(err, model.ErrNotHost) {
		t.Errorf("stranger start: err = %v, want ErrNotHost", err)
	}
}

func TestSessionStartIdempotent(t *testing.T) {
	s, notifier, _ := newTestSession(gridSettings(), nil)
	joinPair(s)
	if _, err := s.Start("alice"); err != nil {
		t.Fatalf("start: %v", err)
	}
	before := notifier.lastState()

	snap, err := s.Start("alice")
	if err != nil {
		t.Fatalf("second start: %v", err)
	}
	if snap.State != model.GameStatePlaying {
		t.Errorf("state = %q, want playing", snap.State)
	}
	if got := notifier.lastState(); got != before {
		t.Error("repeated start should not broadcast a fresh transition")
	}
}

func TestSessionTurnSecondsReconfigurableWhileWaiting(t *testing.T) {
	s, _, _ := newTestSession(gridSettings(), nil)
	if _, err := s.Join("alice", "Alice", true, 30); err != nil {
		t.Fatalf("join: %v", err)
	}
	if got := s.Snapshot().TurnSeconds; got != 30 {
		t.Errorf("turn seconds = %d, want 30", got)
	}

	// Out-of-range requests clamp instead of failing.
	if _, err := s.Join("bob", "Bob", false, 10000); err != nil {
		t.Fatalf("join: %v", err)
	}
	if got := s.Snapshot().TurnSeconds; got != model.MaxTurnSeconds {
		t.Errorf("turn seconds = %d, want %d", got, model.MaxTurnSeconds)
	}

	if _, err := s.Start("alice"); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.Disconnect("bob")
	if _, err := s.Join("bob", "Bob", false, 20); err != nil {
		t.Fatalf("reconnect: %v", err)
	}
	if got := s.Snapshot().TurnSeconds; got != model.MaxTurnSeconds {
		t.Errorf("turn seconds changed after start: %d", got)
	}
}

func TestSessionStaleClockAfterEndIsNoOp(t *testing.T) {
	s, notifier, _ := newTestSession(gridSettings(), nil)
	joinPair(s)
	if _, err := s.Start("alice"); err != nil {
		t.Fatalf("start: %v", err)
	}

	s.mu.Lock()
	gen := s.timerGen
	s.mu.Unlock()

	s.Apply("alice", Action{CellIndex: intPtr(0)})
	s.Apply("bob", Action{CellIndex: intPtr(3)})
	s.Apply("alice", Action{CellIndex: intPtr(1)})
	s.Apply("bob", Action{CellIndex: intPtr(4)})
	if res, err := s.Apply("alice", Action{CellIndex: intPtr(2)}); err != nil || !res.GameOver {
		t.Fatalf("winning move: res=%+v err=%v", res, err)
	}
	outcomes := notifier.outcomeCount()

	// A callback armed before the game ended fires late.
	s.clockExpired(gen)

	snap := s.Snapshot()
	if snap.State != model.GameStateEnded || snap.Outcome == nil {
		t.Fatalf("stale fire mutated terminal state: %+v", snap)
	}
	if notifier.outcomeCount() != outcomes {
		t.Error("stale fire should not rebroadcast the outcome")
	}
}

func TestSessionStaleClockAfterMoveIsNoOp(t *testing.T) {
	s, _, _ := newTestSession(gridSettings(), nil)
	joinPair(s)
	if _, err := s.Start("alice"); err != nil {
		t.Fatalf("start: %v", err)
	}

	s.mu.Lock()
	gen := s.timerGen
	s.mu.Unlock()

	// Moving re-arms the clock; the superseded callback must back out.
	if _, err := s.Apply("alice", Action{CellIndex: intPtr(0)}); err != nil {
		t.Fatalf("move: %v", err)
	}
	s.clockExpired(gen)

	if got := s.Snapshot().CurrentMark; got != model.MarkO {
		t.Errorf("current mark = %q, want O (stale fire must not double-flip)", got)
	}
}

func TestSessionOutcomeOnlyWhenEnded(t *testing.T) {
	s, _, _ := newTestSession(triviaSettings(0), sampleQuestions())
	joinPair(s)

	check := func(stage string) {
		snap := s.Snapshot()
		if (snap.State == model.GameStateEnded) != (snap.Outcome != nil) {
			t.Fatalf("%s: state %q with outcome %v", stage, snap.State, snap.Outcome)
		}
	}

	check("waiting")
	if _, err := s.Start("alice"); err != nil {
		t.Fatalf("start: %v", err)
	}
	check("playing")
	s.Apply("alice", Action{Answer: &model.Answer{Text: "Paris"}, TimeSpentSec: 1})
	check("mid question")
	s.AdvanceQuestion()
	check("after advance")
	s.AdvanceQuestion()
	check("ended")
}

func TestSessionSnapshotIsDetached(t *testing.T) {
	s, _, _ := newTestSession(gridSettings(), nil)
	joinPair(s)
	if _, err := s.Start("alice"); err != nil {
		t.Fatalf("start: %v", err)
	}

	snap := s.Snapshot()
	snap.Board[0] = model.MarkO
	snap.Marks["alice"] = model.MarkO
	snap.Players[0].Score = 999

	fresh := s.Snapshot()
	if fresh.Board[0] != model.MarkNone {
		t.Error("mutating a snapshot board leaked into the session")
	}
	if fresh.Marks["alice"] != model.MarkX {
		t.Error("mutating snapshot marks leaked into the session")
	}
	if fresh.Players[0].Score != 0 {
		t.Error("mutating a snapshot roster leaked into the session")
	}
}

func TestSessionOutcomePersistedThroughSink(t *testing.T) {
	notifier := &fakeNotifier{}
	sink := newFakeSink()
	clock := newFakeClock()
	s := newSession("SINK01", gridSettings(), nil, notifier, sink, clock.Now, zap.NewNop())

	joinPair(s)
	if _, err := s.Start("alice"); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.Apply("alice", Action{CellIndex: intPtr(0)})
	s.Apply("bob", Action{CellIndex: intPtr(3)})
	s.Apply("alice", Action{CellIndex: intPtr(1)})
	s.Apply("bob", Action{CellIndex: intPtr(4)})
	if res, err := s.Apply("alice", Action{CellIndex: intPtr(2)}); err != nil || !res.GameOver {
		t.Fatalf("winning move: res=%+v err=%v", res, err)
	}

	// Persistence runs off the critical path.
	deadline := time.Now().Add(2 * time.Second)
	for {
		sink.mu.Lock()
		saved := sink.saved["SINK01"]
		sink.mu.Unlock()
		if saved != nil {
			if saved.Winner != "alice" {
				t.Errorf("persisted winner = %q, want alice", saved.Winner)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("outcome never reached the result sink")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
