// Package config loads process configuration from the environment
// (optionally via a .env file during local development) exactly once at
// startup. None of these values affect wire-protocol semantics.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/partyhost/server/internal/logging"
)

// Config holds every environment-tunable knob the server reads.
type Config struct {
	HTTPAddr                string
	RoomTTL                 time.Duration
	StateStoreAddr          string // redis address; empty => in-memory store
	StateStorePoolSize      int
	DefaultQuizRoundSeconds int
	EventStreamIdleTimeout  time.Duration
	SSEWriteTimeout         time.Duration
	FrontendOrigin          string
	JoinBaseURL             string
	Debug                   bool
}

// Load reads a .env file if present (ignored if missing) and then the
// process environment, filling in sane defaults for anything unset.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logging.Debug("config: no .env file loaded: %v", err)
	}

	cfg := &Config{
		HTTPAddr:                getString("HTTP_ADDR", ":8080"),
		RoomTTL:                 getDuration("ROOM_TTL", 6*time.Hour),
		StateStoreAddr:          os.Getenv("STATE_STORE_ADDR"),
		StateStorePoolSize:      getInt("STATE_STORE_POOL_SIZE", 10),
		DefaultQuizRoundSeconds: getInt("DEFAULT_QUIZ_ROUND_SECONDS", 120),
		EventStreamIdleTimeout:  getDuration("EVENT_STREAM_IDLE_TIMEOUT", 1*time.Hour),
		SSEWriteTimeout:         getDuration("SSE_WRITE_TIMEOUT", 2*time.Second),
		FrontendOrigin:          getString("FRONTEND_ORIGIN", ""),
		JoinBaseURL:             getString("JOIN_BASE_URL", "https://partyhost.example.com/join"),
		Debug:                   os.Getenv("DEBUG") != "",
	}
	logging.SetDebug(cfg.Debug)
	return cfg
}

func getString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
