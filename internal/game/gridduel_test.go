package game

import (
	"errors"
	"testing"
	"time"

	"github.com/quizclash/api/internal/model"
)

func TestGridDuelMarkAssignmentByJoinOrder(t *testing.T) {
	s, _, _ := newTestSession(gridSettings(), nil)
	joinPair(s)
	if _, err := s.Join("carol", "Carol", false, 0); err != nil {
		t.Fatalf("spectator join: %v", err)
	}

	snap := s.Snapshot()
	if snap.Marks["alice"] != model.MarkX {
		t.Errorf("alice mark = %q, want X", snap.Marks["alice"])
	}
	if snap.Marks["bob"] != model.MarkO {
		t.Errorf("bob mark = %q, want O", snap.Marks["bob"])
	}
	if _, ok := snap.Marks["carol"]; ok {
		t.Error("third joiner should be a spectator with no mark")
	}
}

func TestGridDuelWinByTimeouts(t *testing.T) {
	// Scenario: alice (X) places 0, 1, 2 while bob's turns expire.
	s, notifier, _ := newTestSession(gridSettings(), nil)
	joinPair(s)
	if _, err := s.Start("alice"); err != nil {
		t.Fatalf("start: %v", err)
	}

	for i, idx := range []int{0, 1} {
		if _, err := s.Apply("alice", Action{CellIndex: intPtr(idx)}); err != nil {
			t.Fatalf("move %d: %v", i, err)
		}
		fireClock(s) // bob's turn expires, back to alice
	}

	res, err := s.Apply("alice", Action{CellIndex: intPtr(2)})
	if err != nil {
		t.Fatalf("winning move: %v", err)
	}
	if !res.GameOver {
		t.Fatal("expected game over after completing a line")
	}
	if res.Outcome.Winner != "alice" {
		t.Errorf("winner = %q, want alice", res.Outcome.Winner)
	}

	snap := s.Snapshot()
	if snap.State != model.GameStateEnded {
		t.Errorf("state = %q, want ended", snap.State)
	}
	if s.timer != nil {
		t.Error("turn clock should be disarmed after the session ends")
	}
	if notifier.outcomeCount() != 1 {
		t.Errorf("game over broadcasts = %d, want 1", notifier.outcomeCount())
	}
}

func TestGridDuelTimeoutFlipsTurnOnly(t *testing.T) {
	// Scenario: an untouched turn expires; the owner flips exactly once
	// and no cell changes.
	s, _, clock := newTestSession(gridSettings(), nil)
	joinPair(s)
	if _, err := s.Start("alice"); err != nil {
		t.Fatalf("start: %v", err)
	}

	before := s.Snapshot()
	clock.Advance(16 * time.Second)
	fireClock(s)

	after := s.Snapshot()
	if after.CurrentMark != model.MarkO {
		t.Errorf("current mark = %q, want O", after.CurrentMark)
	}
	if !after.TurnStarted.After(before.TurnStarted) {
		t.Error("turn start should reset on timeout")
	}
	for i, c := range after.Board {
		if c != model.MarkNone {
			t.Errorf("cell %d = %q, want empty", i, c)
		}
	}
}

func TestGridDuelMoveRejections(t *testing.T) {
	s, _, _ := newTestSession(gridSettings(), nil)
	joinPair(s)
	s.Join("carol", "Carol", false, 0)

	if _, err := s.Apply("alice", Action{CellIndex: intPtr(0)}); !errors.Is(err, model.ErrSessionNotPlaying) {
		t.Errorf("move before start: err = %v, want ErrSessionNotPlaying", err)
	}

	if _, err := s.Start("alice"); err != nil {
		t.Fatalf("start: %v", err)
	}

	tests := []struct {
		name   string
		player string
		index  int
		want   error
	}{
		{"unknown player", "mallory", 0, model.ErrNotAParticipant},
		{"spectator", "carol", 0, model.ErrNotAParticipant},
		{"out of turn", "bob", 0, model.ErrNotYourTurn},
		{"negative index", "alice", -1, model.ErrIndexOutOfRange},
		{"index too large", "alice", 9, model.ErrIndexOutOfRange},
	}
	for _, tt := range tests {
		if _, err := s.Apply(tt.player, Action{CellIndex: intPtr(tt.index)}); !errors.Is(err, tt.want) {
			t.Errorf("%s: err = %v, want %v", tt.name, err, tt.want)
		}
	}

	// Rejections must not touch the board.
	for i, c := range s.Snapshot().Board {
		if c != model.MarkNone {
			t.Fatalf("cell %d = %q after rejected moves, want empty", i, c)
		}
	}

	if _, err := s.Apply("alice", Action{CellIndex: intPtr(4)}); err != nil {
		t.Fatalf("legal move: %v", err)
	}
	if _, err := s.Apply("bob", Action{CellIndex: intPtr(4)}); !errors.Is(err, model.ErrCellOccupied) {
		t.Errorf("occupied cell: err = %v, want ErrCellOccupied", err)
	}
}

func TestGridDuelDraw(t *testing.T) {
	// X X O / O O X / X O X has no winning line.
	s, _, _ := newTestSession(gridSettings(), nil)
	joinPair(s)
	if _, err := s.Start("alice"); err != nil {
		t.Fatalf("start: %v", err)
	}

	moves := []struct {
		player string
		index  int
	}{
		{"alice", 0}, {"bob", 2}, {"alice", 1}, {"bob", 3},
		{"alice", 5}, {"bob", 4}, {"alice", 6}, {"bob", 7},
	}
	for _, m := range moves {
		res, err := s.Apply(m.player, Action{CellIndex: intPtr(m.index)})
		if err != nil {
			t.Fatalf("move %s@%d: %v", m.player, m.index, err)
		}
		if res.GameOver {
			t.Fatalf("unexpected game over at %s@%d", m.player, m.index)
		}
	}

	res, err := s.Apply("alice", Action{CellIndex: intPtr(8)})
	if err != nil {
		t.Fatalf("final move: %v", err)
	}
	if !res.GameOver || res.Outcome == nil || !res.Outcome.Draw {
		t.Fatalf("result = %+v, want draw", res)
	}
	if s.Snapshot().State != model.GameStateEnded {
		t.Error("session should be ended after a draw")
	}
}

func TestGridDuelForfeitPassesTurn(t *testing.T) {
	s, _, _ := newTestSession(gridSettings(), nil)
	joinPair(s)
	if _, err := s.Start("alice"); err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, err := s.Apply("bob", Action{ForfeitTurn: true}); !errors.Is(err, model.ErrNotYourTurn) {
		t.Errorf("forfeit out of turn: err = %v, want ErrNotYourTurn", err)
	}
	if _, err := s.Apply("alice", Action{ForfeitTurn: true}); err != nil {
		t.Fatalf("forfeit: %v", err)
	}
	if got := s.Snapshot().CurrentMark; got != model.MarkO {
		t.Errorf("current mark = %q, want O", got)
	}
}

func TestGridDuelStartNeedsTwoMarkedPlayers(t *testing.T) {
	s, _, _ := newTestSession(gridSettings(), nil)
	if _, err := s.Join("alice", "Alice", true, 0); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := s.Start("alice"); !errors.Is(err, model.ErrNotEnoughPlayers) {
		t.Errorf("start with one player: err = %v, want ErrNotEnoughPlayers", err)
	}
}
