package model

import "time"

// Player is a participant in a session. Join order is significant: it
// decides mark assignment and final-ranking tiebreaks.
type Player struct {
	ID          string           `json:"userId" bson:"userId"`
	Name        string           `json:"userName" bson:"userName"`
	IsHost      bool             `json:"isHost" bson:"isHost"`
	IsConnected bool             `json:"isConnected" bson:"isConnected"`
	Score       int              `json:"score" bson:"score"`
	Lives       int              `json:"lives,omitempty" bson:"lives,omitempty"`
	JoinedAt    time.Time        `json:"joinedAt" bson:"joinedAt"`
	Answers     []RecordedAnswer `json:"answeredQuestions" bson:"answeredQuestions"`
}

// AnswerFor returns the recorded answer for a question index, or nil.
func (p *Player) AnswerFor(index int) *RecordedAnswer {
	for i := range p.Answers {
		if p.Answers[i].QuestionIndex == index {
			return &p.Answers[i]
		}
	}
	return nil
}

// RecordedAnswer is one scored submission. A given player records at most
// one per question index.
type RecordedAnswer struct {
	QuestionIndex int       `json:"questionIndex" bson:"questionIndex"`
	Answer        Answer    `json:"answer" bson:"answer"`
	IsCorrect     bool      `json:"isCorrect" bson:"isCorrect"`
	Points        int       `json:"points" bson:"points"`
	TimeSpentSec  float64   `json:"timeSpent" bson:"timeSpent"`
	AnsweredAt    time.Time `json:"timestamp" bson:"timestamp"`
}

// RosterEntry is the per-player slice of a broadcast snapshot.
type RosterEntry struct {
	ID          string `json:"userId"`
	Name        string `json:"userName"`
	IsHost      bool   `json:"isHost"`
	IsConnected bool   `json:"isConnected"`
	Score       int    `json:"score"`
	Lives       int    `json:"lives,omitempty"`
	Mark        Mark   `json:"mark,omitempty"`
	HasAnswered bool   `json:"hasAnswered,omitempty"`
}

// QuestionResult is one player's line in a question-complete broadcast.
type QuestionResult struct {
	PlayerID     string  `json:"userId"`
	Name         string  `json:"userName"`
	Score        int     `json:"score"`
	Answer       *Answer `json:"answer,omitempty"`
	IsCorrect    bool    `json:"isCorrect"`
	TimeSpentSec float64 `json:"timeSpent"`
}

// FinalResult is one line of the ranked end-of-session results.
type FinalResult struct {
	PlayerID       string  `json:"userId" bson:"userId"`
	Name           string  `json:"userName" bson:"userName"`
	Score          int     `json:"score" bson:"score"`
	CorrectAnswers int     `json:"correctAnswers" bson:"correctAnswers"`
	TotalAnswers   int     `json:"totalAnswers" bson:"totalAnswers"`
	AverageTimeSec float64 `json:"averageTime" bson:"averageTime"`
	Rank           int     `json:"rank" bson:"rank"`
}
