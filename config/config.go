package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	HTTPPort  string `env:"HTTP_PORT" envDefault:"8080"`
	MongoURI  string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDB   string `env:"MONGO_DB" envDefault:"quizclash"`
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	JWTSecret string `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`

	HostUsername string `env:"HOST_USERNAME" envDefault:"admin"`
	HostPassword string `env:"HOST_PASSWORD" envDefault:"password123"`

	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`

	// Registry eviction policy.
	IdleTimeoutMin   int `env:"SESSION_IDLE_TIMEOUT_MIN" envDefault:"30"`
	RetentionMin     int `env:"SESSION_RETENTION_MIN" envDefault:"10"`
	SweepIntervalSec int `env:"SESSION_SWEEP_INTERVAL_SEC" envDefault:"60"`
}

// Load reads .env (if present) and parses the environment into a Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}
