package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/quizclash/api/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for dev
	},
}

// Handler handles WebSocket connections
type Handler struct {
	hub     *Hub
	gameSvc *service.GameService
	authSvc *service.AuthService
	log     *zap.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, gameSvc *service.GameService, authSvc *service.AuthService, log *zap.Logger) *Handler {
	return &Handler{
		hub:     hub,
		gameSvc: gameSvc,
		authSvc: authSvc,
		log:     log,
	}
}

// GameWS handles GET /v1/ws/games/{code}
func (h *Handler) GameWS(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	token := r.URL.Query().Get("token")

	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.authSvc.ValidatePlayerToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}
	if claims.GameCode != code {
		http.Error(w, "token not valid for this game", http.StatusForbidden)
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	conn := &Connection{
		GameCode: code,
		PlayerID: claims.PlayerID,
		Send:     make(chan []byte, 256),
		Hub:      h.hub,
	}

	h.hub.Register(conn)

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection) {
	defer func() {
		h.hub.Unregister(conn)
		wsConn.Close()
		// Transport loss marks the player disconnected; identity and
		// score survive for a later rejoin. A socket superseded by a
		// reconnect tears down without touching the player's status.
		if !h.hub.Replaced(conn) {
			h.gameSvc.Disconnect(conn.GameCode, conn.PlayerID)
		}
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Debug("websocket read error", zap.Error(err))
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			h.sendError(conn, "malformed message")
			continue
		}
		h.dispatch(conn, &msg)
	}
}

// dispatch routes one inbound action into the orchestrator. Rejections go
// back to the originating caller only; accepted mutations broadcast through
// the notifier.
func (h *Handler) dispatch(conn *Connection, msg *Message) {
	switch msg.Type {
	case MsgJoin:
		var p JoinPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			h.sendError(conn, "malformed join payload")
			return
		}
		snap, _, err := h.gameSvc.Join(conn.GameCode, conn.PlayerID, p.UserName, p.IsHost, p.TurnSeconds)
		if err != nil {
			h.sendError(conn, err.Error())
			return
		}
		h.hub.SendToPlayer(conn.GameCode, conn.PlayerID, MsgGameState, snap)

	case MsgStartGame:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := h.gameSvc.Start(ctx, conn.GameCode, conn.PlayerID); err != nil {
			h.sendError(conn, err.Error())
		}

	case MsgRequestState:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		snap, err := h.gameSvc.RequestState(ctx, conn.GameCode)
		if err != nil {
			h.sendError(conn, err.Error())
			return
		}
		h.hub.SendToPlayer(conn.GameCode, conn.PlayerID, MsgGameState, snap)

	case MsgMakeMove:
		var p MovePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			h.sendError(conn, "malformed move payload")
			return
		}
		res, err := h.gameSvc.SubmitMove(conn.GameCode, conn.PlayerID, p.Index)
		if err != nil {
			h.sendError(conn, err.Error())
			return
		}
		h.hub.SendToPlayer(conn.GameCode, conn.PlayerID, MsgMoveResult, res)

	case MsgSubmitAnswer:
		var p AnswerPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			h.sendError(conn, "malformed answer payload")
			return
		}
		res, err := h.gameSvc.SubmitAnswer(conn.GameCode, conn.PlayerID, p.Answer, p.TimeSpent)
		if err != nil {
			h.sendError(conn, err.Error())
			return
		}
		h.hub.SendToPlayer(conn.GameCode, conn.PlayerID, MsgAnswerResult, res)

	case MsgAnswerFail:
		if _, err := h.gameSvc.ForfeitTurn(conn.GameCode, conn.PlayerID); err != nil {
			h.sendError(conn, err.Error())
		}

	case MsgNextQuestion:
		if err := h.gameSvc.AdvanceQuestion(conn.GameCode); err != nil {
			h.sendError(conn, err.Error())
		}

	default:
		h.sendError(conn, "unknown message type")
	}
}

func (h *Handler) sendError(conn *Connection, message string) {
	h.hub.SendToPlayer(conn.GameCode, conn.PlayerID, MsgError, ErrorPayload{Message: message})
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := wsConn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
