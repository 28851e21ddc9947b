package model

import "errors"

// Rejections returned to the originating caller. None of them mutate
// session state or trigger a broadcast.
var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionNotPlaying = errors.New("session is not playing")
	ErrSessionEnded      = errors.New("session has ended")
	ErrSessionStarted    = errors.New("session already started")
	ErrNotEnoughPlayers  = errors.New("not enough players to start")
	ErrRoomFull          = errors.New("session is full")
	ErrNotHost           = errors.New("only the host can perform this action")
	ErrNotAParticipant   = errors.New("player has no role in this session")
	ErrNotYourTurn       = errors.New("not this player's turn")
	ErrCellOccupied      = errors.New("cell is already occupied")
	ErrIndexOutOfRange   = errors.New("cell index out of range")
	ErrNoQuestions       = errors.New("session has no questions")
	ErrInvalidSettings   = errors.New("invalid session settings")
)
