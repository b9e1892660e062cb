package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Addr          string
	DBPath        string
	MaxMessageLen int
	SessionTTL    time.Duration
	RateLimit     RateLimit
	Moderation    Moderation
}

type RateLimit struct {
	Max    int
	Window time.Duration
}

type Moderation struct {
	URL     string
	APIKey  string
	Model   string
	Timeout time.Duration
}

func Load() Config {
	addr := envString("VOUCH_ADDR", "")
	if addr == "" {
		if port := os.Getenv("PORT"); port != "" {
			addr = ":" + port
		} else {
			addr = ":8080"
		}
	}
	cfg := Config{
		Addr:          addr,
		DBPath:        envString("VOUCH_DB", ""),
		MaxMessageLen: envInt("VOUCH_MAX_MESSAGE_LEN", 250),
		SessionTTL:    envDuration("VOUCH_SESSION_TTL", 30*time.Minute),
		RateLimit: RateLimit{
			Max:    envInt("VOUCH_RL_MAX", 3),
			Window: envDuration("VOUCH_RL_WINDOW", time.Hour),
		},
		Moderation: Moderation{
			URL:     envString("VOUCH_MOD_URL", "https://api.llm7.io/v1/chat/completions"),
			APIKey:  envString("VOUCH_MOD_API_KEY", "unused"),
			Model:   envString("VOUCH_MOD_MODEL", "gpt-4.1-nano-2025-04-14"),
			Timeout: envDuration("VOUCH_MOD_TIMEOUT", 5*time.Second),
		},
	}

	return cfg
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
