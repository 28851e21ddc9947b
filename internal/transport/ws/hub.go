package ws

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/quizclash/api/internal/model"
)

// Hub manages WebSocket connections per game session and implements the
// orchestrator's notifier boundary.
type Hub struct {
	// gameCode -> playerID -> conn
	conns map[string]map[string]*Connection

	mu  sync.RWMutex
	log *zap.Logger

	// Channels for coordination
	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
}

// Connection represents a WebSocket connection
type Connection struct {
	GameCode string
	PlayerID string
	IsHost   bool
	Send     chan []byte
	Hub      *Hub
}

// BroadcastMessage is a message to broadcast
type BroadcastMessage struct {
	GameCode string
	ToPlayer string // Empty means everyone in the session
	Message  *Message
}

// NewHub creates a new WebSocket hub
func NewHub(log *zap.Logger) *Hub {
	h := &Hub{
		conns:      make(map[string]map[string]*Connection),
		log:        log,
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.conns[conn.GameCode] == nil {
				h.conns[conn.GameCode] = make(map[string]*Connection)
			}
			if existing, ok := h.conns[conn.GameCode][conn.PlayerID]; ok && existing != conn {
				close(existing.Send)
			}
			h.conns[conn.GameCode][conn.PlayerID] = conn
			h.mu.Unlock()
			h.log.Info("player connected",
				zap.String("code", conn.GameCode),
				zap.String("player", conn.PlayerID))

		case conn := <-h.unregister:
			h.mu.Lock()
			if players, ok := h.conns[conn.GameCode]; ok {
				if existing, ok := players[conn.PlayerID]; ok && existing == conn {
					delete(players, conn.PlayerID)
					close(conn.Send)
					if len(players) == 0 {
						delete(h.conns, conn.GameCode)
					}
					h.log.Info("player disconnected",
						zap.String("code", conn.GameCode),
						zap.String("player", conn.PlayerID))
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)
			players := h.conns[msg.GameCode]
			if msg.ToPlayer != "" {
				if conn, ok := players[msg.ToPlayer]; ok {
					conn.trySend(data)
				}
			} else {
				for _, conn := range players {
					conn.trySend(data)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// trySend drops the message if the connection's buffer is full; slow
// clients re-sync via request_state.
func (c *Connection) trySend(data []byte) {
	select {
	case c.Send <- data:
	default:
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// Replaced reports whether a newer connection has superseded conn for the
// same player. A superseded connection's teardown must not mark the player
// disconnected.
func (h *Hub) Replaced(conn *Connection) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	current, ok := h.conns[conn.GameCode][conn.PlayerID]
	return ok && current != conn
}

// SendToPlayer delivers a message to one subscriber only.
func (h *Hub) SendToPlayer(code, playerID string, msgType MessageType, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		GameCode: code,
		ToPlayer: playerID,
		Message:  &Message{Type: msgType, Payload: data},
	}
}

// Broadcast delivers a message to every subscriber of a session.
func (h *Hub) Broadcast(code string, msgType MessageType, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		GameCode: code,
		Message:  &Message{Type: msgType, Payload: data},
	}
}

// State implements game.Notifier.
func (h *Hub) State(code string, snap *model.Snapshot) {
	h.Broadcast(code, MsgGameState, snap)
}

// Roster implements game.Notifier.
func (h *Hub) Roster(code string, players []model.RosterEntry) {
	h.Broadcast(code, MsgRoster, map[string]interface{}{"players": players})
}

// QuestionComplete implements game.Notifier.
func (h *Hub) QuestionComplete(code string, results []model.QuestionResult, advanced bool) {
	h.Broadcast(code, MsgQuestionComplete, QuestionCompletePayload{Results: results, Advanced: advanced})
}

// GameOver implements game.Notifier.
func (h *Hub) GameOver(code string, outcome *model.Outcome) {
	h.Broadcast(code, MsgGameOver, outcome)
}
