package ws

import (
	"encoding/json"

	"github.com/quizclash/api/internal/model"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Inbound message types
const (
	MsgJoin         MessageType = "join"
	MsgStartGame    MessageType = "start_game"
	MsgRequestState MessageType = "request_state"
	MsgMakeMove     MessageType = "make_move"
	MsgSubmitAnswer MessageType = "submit_answer"
	MsgAnswerFail   MessageType = "answer_fail"
	MsgNextQuestion MessageType = "next_question"
)

// Outbound message types
const (
	MsgGameState        MessageType = "game_state"
	MsgRoster           MessageType = "roster"
	MsgQuestionComplete MessageType = "question_complete"
	MsgGameOver         MessageType = "game_over"
	MsgMoveResult       MessageType = "move_result"
	MsgAnswerResult     MessageType = "answer_result"
	MsgError            MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// JoinPayload is the inbound join/reconnect request.
type JoinPayload struct {
	UserName    string `json:"userName"`
	IsHost      bool   `json:"isHost"`
	TurnSeconds int    `json:"turnSeconds,omitempty"`
}

// MovePayload targets one grid cell.
type MovePayload struct {
	Index int `json:"index"`
}

// AnswerPayload carries a trivia submission.
type AnswerPayload struct {
	Answer    model.Answer `json:"answer"`
	TimeSpent float64      `json:"timeSpent"`
}

// QuestionCompletePayload is broadcast when a question window closes.
type QuestionCompletePayload struct {
	Results  []model.QuestionResult `json:"results"`
	Advanced bool                   `json:"advanced"`
}

// ErrorPayload is sent to the originating caller only.
type ErrorPayload struct {
	Message string `json:"message"`
}
