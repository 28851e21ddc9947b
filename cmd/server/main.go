package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/quizclash/api/config"
	"github.com/quizclash/api/internal/cache"
	"github.com/quizclash/api/internal/game"
	"github.com/quizclash/api/internal/repository"
	"github.com/quizclash/api/internal/service"
	"github.com/quizclash/api/internal/transport/rest"
	"github.com/quizclash/api/internal/transport/ws"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	ctx := context.Background()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		logger.Fatal("failed to ping MongoDB", zap.Error(err))
	}
	logger.Info("connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		logger.Fatal("failed to ping Redis", zap.Error(err))
	}
	logger.Info("connected to Redis")

	// Repositories and caches
	roomRepo := repository.NewGameRoomRepo(db)
	quizRepo := repository.NewQuizRepo(db)
	leaderboard := cache.NewLeaderboardCache(rdb)
	snapshots := cache.NewSnapshotCache(rdb)

	// WebSocket hub and orchestrator
	wsHub := ws.NewHub(logger)
	relay := service.NewEventRelay(wsHub, snapshots, leaderboard, logger)
	sink := service.NewMongoResultSink(roomRepo)

	registry := game.NewRegistry(relay, sink, game.EvictionPolicy{
		IdleTimeout:   time.Duration(cfg.IdleTimeoutMin) * time.Minute,
		Retention:     time.Duration(cfg.RetentionMin) * time.Minute,
		SweepInterval: time.Duration(cfg.SweepIntervalSec) * time.Second,
	}, logger)
	defer registry.Close()

	// Services
	authSvc := service.NewAuthService(cfg.HostUsername, cfg.HostPassword, cfg.JWTSecret)
	quizSvc := service.NewQuizService(quizRepo)
	gameSvc := service.NewGameService(registry, roomRepo, quizRepo, leaderboard, snapshots, authSvc, logger)

	router := rest.NewRouter(&rest.Container{
		AuthService:    authSvc,
		GameService:    gameSvc,
		QuizService:    quizSvc,
		WSHub:          wsHub,
		Logger:         logger,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		logger.Info("server starting", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen and serve", zap.Error(err))
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}
