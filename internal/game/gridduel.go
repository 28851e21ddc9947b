package game

import "github.com/quizclash/api/internal/model"

// gridDuelRules is the two-player 3x3 duel. Marks are assigned in join
// order at join time; extra joiners are spectators and may not act.
type gridDuelRules struct{}

func (gridDuelRules) start(s *Session) error {
	marked := 0
	for _, p := range s.players {
		if s.marks[p.ID] != model.MarkNone {
			marked++
		}
	}
	if marked < 2 {
		return model.ErrNotEnoughPlayers
	}
	s.board = model.Board{}
	s.currentMark = model.MarkX
	return nil
}

func (r gridDuelRules) apply(s *Session, p *model.Player, act Action, ev *events) (*Result, error) {
	mark := s.marks[p.ID]
	if mark == model.MarkNone {
		return nil, model.ErrNotAParticipant
	}
	if mark != s.currentMark {
		return nil, model.ErrNotYourTurn
	}

	if act.ForfeitTurn {
		r.passTurn(s, ev)
		return &Result{}, nil
	}

	if act.CellIndex == nil || *act.CellIndex < 0 || *act.CellIndex >= model.BoardSize {
		return nil, model.ErrIndexOutOfRange
	}
	idx := *act.CellIndex
	if s.board[idx] != model.MarkNone {
		return nil, model.ErrCellOccupied
	}

	s.board[idx] = mark

	if s.board.HasWin(mark) {
		outcome := &model.Outcome{Winner: p.ID}
		s.endLocked(outcome, ev)
		return &Result{GameOver: true, Outcome: outcome}, nil
	}
	if s.board.Full() {
		outcome := &model.Outcome{Draw: true}
		s.endLocked(outcome, ev)
		return &Result{GameOver: true, Outcome: outcome}, nil
	}

	r.passTurn(s, ev)
	return &Result{}, nil
}

// expire flips the turn without placing a mark.
func (r gridDuelRules) expire(s *Session, ev *events) {
	r.passTurn(s, ev)
}

func (gridDuelRules) passTurn(s *Session, ev *events) {
	s.currentMark = s.currentMark.Other()
	s.turnStarted = s.clock()
	s.armClockLocked()
	ev.state = s.snapshotLocked()
}
