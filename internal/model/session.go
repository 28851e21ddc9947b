package model

import "time"

// GameState is the lifecycle state of a session.
type GameState string

const (
	GameStateWaiting GameState = "waiting"
	GameStatePlaying GameState = "playing"
	GameStateEnded   GameState = "ended"
)

// Variant selects the ruleset a session runs.
type Variant string

const (
	VariantTrivia   Variant = "trivia"
	VariantGridDuel Variant = "grid_duel"
)

// Settings bounds, applied by Clamp.
const (
	MinPlayers      = 2
	MaxPlayersLimit = 10
	MinTurnSeconds  = 5
	MaxTurnSeconds  = 600
	MaxLives        = 9
)

// Settings is the per-session configuration accepted at creation time.
// Immutable once the session starts.
type Settings struct {
	Variant      Variant `json:"variant" bson:"variant"`
	MaxPlayers   int     `json:"maxPlayers" bson:"maxPlayers"`
	TurnSeconds  int     `json:"turnSeconds" bson:"turnSeconds"`
	InitialLives int     `json:"initialLives,omitempty" bson:"initialLives,omitempty"` // 0 disables the lives sub-mode
}

// Clamp forces out-of-range values into safe bounds.
func (s *Settings) Clamp() {
	if s.Variant == "" {
		s.Variant = VariantTrivia
	}
	if s.MaxPlayers < MinPlayers {
		s.MaxPlayers = MinPlayers
	}
	if s.MaxPlayers > MaxPlayersLimit {
		s.MaxPlayers = MaxPlayersLimit
	}
	if s.TurnSeconds < MinTurnSeconds {
		s.TurnSeconds = MinTurnSeconds
	}
	if s.TurnSeconds > MaxTurnSeconds {
		s.TurnSeconds = MaxTurnSeconds
	}
	if s.InitialLives < 0 {
		s.InitialLives = 0
	}
	if s.InitialLives > MaxLives {
		s.InitialLives = MaxLives
	}
	// Lives are a trivia sub-mode only.
	if s.Variant == VariantGridDuel {
		s.InitialLives = 0
	}
}

// Outcome is the terminal result of a session. Winner is empty for a draw.
type Outcome struct {
	Winner  string        `json:"winner,omitempty" bson:"winner,omitempty"`
	Draw    bool          `json:"draw" bson:"draw"`
	Results []FinalResult `json:"results,omitempty" bson:"results,omitempty"`
}

// Snapshot is an immutable copy of a session's state, safe to hand to the
// notifier after the serialized section releases.
type Snapshot struct {
	Code        string    `json:"code"`
	State       GameState `json:"state"`
	Variant     Variant   `json:"variant"`
	TurnStarted time.Time `json:"turnStartedAt"`
	TurnSeconds int       `json:"turnSeconds"`

	// Grid duel fields.
	Board       []Mark          `json:"board,omitempty"`
	Marks       map[string]Mark `json:"marks,omitempty"`
	CurrentMark Mark            `json:"currentMark,omitempty"`
	TurnOwner   string          `json:"turnOwner,omitempty"`

	// Trivia fields.
	QuestionIndex int `json:"questionIndex"`
	QuestionCount int `json:"questionCount"`

	Players []RosterEntry `json:"players"`
	Outcome *Outcome      `json:"outcome,omitempty"`
}
