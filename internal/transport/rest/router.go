package rest

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/quizclash/api/internal/service"
	"github.com/quizclash/api/internal/transport/rest/handler"
	"github.com/quizclash/api/internal/transport/rest/middleware"
	"github.com/quizclash/api/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService    *service.AuthService
	GameService    *service.GameService
	QuizService    *service.QuizService
	WSHub          *ws.Hub
	Logger         *zap.Logger
	AllowedOrigins string
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	gameHandler := handler.NewGameHandler(c.GameService)
	quizHandler := handler.NewQuizHandler(c.QuizService)
	wsHandler := ws.NewHandler(c.WSHub, c.GameService, c.AuthService, c.Logger)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	r.Use(corsMiddleware(c.AllowedOrigins))
	r.Use(middleware.Logger(c.Logger))

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/games/{code}/join", gameHandler.Join).Methods("POST", "OPTIONS")
	v1.HandleFunc("/games/{code}/state", gameHandler.State).Methods("GET", "OPTIONS")

	// WebSocket route (public with token in query param)
	v1.HandleFunc("/ws/games/{code}", wsHandler.GameWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Player routes (require a session-scoped player token)
	playerRoutes := v1.NewRoute().Subrouter()
	playerRoutes.Use(authMW.RequirePlayer)
	playerRoutes.HandleFunc("/games/{code}/leave", gameHandler.Leave).Methods("POST", "OPTIONS")

	// Host routes (require host auth)
	hostRoutes := v1.NewRoute().Subrouter()
	hostRoutes.Use(authMW.RequireHost)

	hostRoutes.HandleFunc("/quizzes", quizHandler.Create).Methods("POST", "OPTIONS")
	hostRoutes.HandleFunc("/quizzes", quizHandler.List).Methods("GET", "OPTIONS")
	hostRoutes.HandleFunc("/quizzes/{quizId}", quizHandler.Get).Methods("GET", "OPTIONS")
	hostRoutes.HandleFunc("/games", gameHandler.Create).Methods("POST", "OPTIONS")
	hostRoutes.HandleFunc("/games/{code}", gameHandler.Get).Methods("GET", "OPTIONS")
	hostRoutes.HandleFunc("/games/{code}/leaderboard", gameHandler.Leaderboard).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(allowedOrigins string) func(http.Handler) http.Handler {
	if allowedOrigins == "" {
		allowedOrigins = "*"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
