package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Environments understood by the server.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config is the server configuration, read once at startup.
type Config struct {
	DBPath         string   // ROSTER_DB_PATH (default "roster.db")
	Addr           string   // ROSTER_ADDR (default ":8001")
	Env            string   // ROSTER_ENV (default "development")
	NATSURL        string   // ROSTER_NATS_URL (optional, empty = no events)
	CSRFKey        []byte   // ROSTER_CSRF_KEY (64 hex chars, required in production)
	AllowedOrigins []string // ROSTER_ALLOWED_ORIGINS (comma list)
	RateLimit      int      // ROSTER_RATE_LIMIT (requests per second per IP, default 10)
	SlowQueryMs    int      // ROSTER_SLOW_QUERY_MS (default 50)
	SlowRequestMs  int      // ROSTER_SLOW_REQUEST_MS (default 200)

	// GeneratedCSRFKey is set when no key was configured and a random one was used.
	GeneratedCSRFKey bool
}

// Load reads the server configuration from the environment.
// PRE: none
// POST: Returns a fully populated Config or the first invalid variable
func Load() (*Config, error) {
	c := &Config{
		DBPath:         envOrDefault("ROSTER_DB_PATH", "roster.db"),
		Addr:           envOrDefault("ROSTER_ADDR", ":8001"),
		Env:            envOrDefault("ROSTER_ENV", EnvDevelopment),
		NATSURL:        os.Getenv("ROSTER_NATS_URL"),
		AllowedOrigins: splitList(os.Getenv("ROSTER_ALLOWED_ORIGINS")),
	}
	if c.Env != EnvDevelopment && c.Env != EnvProduction {
		return nil, fmt.Errorf("ROSTER_ENV must be %q or %q, got %q", EnvDevelopment, EnvProduction, c.Env)
	}

	var err error
	if c.RateLimit, err = envInt("ROSTER_RATE_LIMIT", 10); err != nil {
		return nil, err
	}
	if c.SlowQueryMs, err = envInt("ROSTER_SLOW_QUERY_MS", 50); err != nil {
		return nil, err
	}
	if c.SlowRequestMs, err = envInt("ROSTER_SLOW_REQUEST_MS", 200); err != nil {
		return nil, err
	}

	if keyHex := os.Getenv("ROSTER_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			return nil, fmt.Errorf("ROSTER_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		c.CSRFKey = key
	} else {
		if c.Production() {
			return nil, fmt.Errorf("ROSTER_CSRF_KEY is required in production")
		}
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generating CSRF key: %w", err)
		}
		c.CSRFKey = key
		c.GeneratedCSRFKey = true
	}

	return c, nil
}

// Production reports whether the server runs with production settings.
func (c *Config) Production() bool {
	return c.Env == EnvProduction
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, v)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
