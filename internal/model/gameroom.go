package model

import "time"

// GameRoom is the persisted record of a session: configuration at creation
// time and final results once ended. In-flight turn state lives only in
// the orchestrator and is deliberately not durable.
type GameRoom struct {
	Code         string        `json:"gameCode" bson:"gameCode"`
	HostID       string        `json:"hostId" bson:"hostId"`
	Settings     Settings      `json:"settings" bson:"settings"`
	Questions    []Question    `json:"questions,omitempty" bson:"questions,omitempty"`
	State        GameState     `json:"gameState" bson:"gameState"`
	CreatedAt    time.Time     `json:"createdAt" bson:"createdAt"`
	StartedAt    *time.Time    `json:"startedAt,omitempty" bson:"startedAt,omitempty"`
	EndedAt      *time.Time    `json:"endedAt,omitempty" bson:"endedAt,omitempty"`
	Outcome      *Outcome      `json:"outcome,omitempty" bson:"outcome,omitempty"`
	FinalResults []FinalResult `json:"finalResults,omitempty" bson:"finalResults,omitempty"`
}
