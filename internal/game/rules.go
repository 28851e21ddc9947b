package game

import "github.com/quizclash/api/internal/model"

// Action is a single player move or answer, routed through Session.Apply.
// Exactly one of CellIndex, Answer or ForfeitTurn is meaningful.
type Action struct {
	// Grid duel: targeted cell, 0-8.
	CellIndex *int
	// Grid duel: pass the turn without placing a mark.
	ForfeitTurn bool

	// Trivia: submitted answer and self-reported time spent.
	Answer       *model.Answer
	TimeSpentSec float64
}

// Result is the outcome of an applied action.
type Result struct {
	// Trivia scoring.
	IsCorrect       bool `json:"isCorrect"`
	Points          int  `json:"points"`
	AlreadyAnswered bool `json:"alreadyAnswered"`

	// Set when the action ended the session.
	GameOver bool           `json:"gameOver"`
	Outcome  *model.Outcome `json:"outcome,omitempty"`
}

// ruleset is the variant-specific strategy behind the single Apply entry
// point. All methods run with the session lock held.
type ruleset interface {
	// start initializes variant fields on the waiting->playing transition.
	start(s *Session) error
	// apply validates and applies one action.
	apply(s *Session, p *model.Player, act Action, ev *events) (*Result, error)
	// expire handles the turn clock firing for the current window.
	expire(s *Session, ev *events)
}

func rulesFor(v model.Variant) ruleset {
	if v == model.VariantGridDuel {
		return gridDuelRules{}
	}
	return triviaRules{}
}
