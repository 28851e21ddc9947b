package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/quizclash/api/internal/model"
	"github.com/quizclash/api/internal/service"
	"github.com/quizclash/api/internal/transport/rest/middleware"
)

// GameHandler handles game room endpoints
type GameHandler struct {
	gameSvc *service.GameService
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameSvc *service.GameService) *GameHandler {
	return &GameHandler{gameSvc: gameSvc}
}

// CreateGameRequest is the request body for creating a game
type CreateGameRequest struct {
	Settings  model.Settings   `json:"settings"`
	Questions []model.Question `json:"questions,omitempty"`
	QuizID    string           `json:"quizId,omitempty"`
}

// Create handles POST /v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	hostID := middleware.GetHostID(r.Context())
	if hostID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	room, err := h.gameSvc.CreateGame(r.Context(), hostID, req.Settings, req.Questions, req.QuizID)
	if err != nil {
		writeGameError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, room)
}

// JoinRequest is the request body for joining a game
type JoinRequest struct {
	UserID      string `json:"userId,omitempty"`
	UserName    string `json:"userName"`
	IsHost      bool   `json:"isHost,omitempty"`
	TurnSeconds int    `json:"turnSeconds,omitempty"`
}

// JoinResponse is returned when a player joins a game
type JoinResponse struct {
	PlayerID string          `json:"playerId"`
	Token    string          `json:"token"`
	State    *model.Snapshot `json:"state"`
}

// Join handles POST /v1/games/{code}/join
func (h *GameHandler) Join(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	var req JoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" {
		req.UserID = "p_" + uuid.New().String()[:8]
	}

	snap, token, err := h.gameSvc.Join(code, req.UserID, req.UserName, req.IsHost, req.TurnSeconds)
	if err != nil {
		writeGameError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, JoinResponse{
		PlayerID: req.UserID,
		Token:    token,
		State:    snap,
	})
}

// Get handles GET /v1/games/{code}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	room, err := h.gameSvc.GetStatus(r.Context(), code)
	if err != nil {
		writeGameError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, room)
}

// State handles GET /v1/games/{code}/state
func (h *GameHandler) State(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	snap, err := h.gameSvc.RequestState(r.Context(), code)
	if err != nil {
		writeGameError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

// Leave handles POST /v1/games/{code}/leave. The player is marked
// disconnected, not removed, so rejoining restores score and lives.
func (h *GameHandler) Leave(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	playerID := middleware.GetPlayerID(r.Context())
	if playerID == "" || middleware.GetGameCode(r.Context()) != code {
		writeError(w, http.StatusForbidden, "token not valid for this game")
		return
	}

	h.gameSvc.Disconnect(code, playerID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "disconnected"})
}

// Leaderboard handles GET /v1/games/{code}/leaderboard
func (h *GameHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.gameSvc.Leaderboard(r.Context(), code, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"leaderboard": entries})
}

// writeGameError maps orchestrator rejections onto HTTP status codes.
func writeGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, model.ErrRoomFull),
		errors.Is(err, model.ErrSessionEnded),
		errors.Is(err, model.ErrSessionStarted),
		errors.Is(err, model.ErrSessionNotPlaying),
		errors.Is(err, model.ErrNotEnoughPlayers),
		errors.Is(err, model.ErrNotYourTurn),
		errors.Is(err, model.ErrCellOccupied),
		errors.Is(err, model.ErrIndexOutOfRange):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, model.ErrNotHost), errors.Is(err, model.ErrNotAParticipant):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, model.ErrNoQuestions), errors.Is(err, model.ErrInvalidSettings):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
