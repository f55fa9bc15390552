package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// grpcDisabled turns off the gRPC health listener when set as its address.
const grpcDisabled = "off"

// Config holds all API configuration loaded from environment variables.
type Config struct {
	ListenAddr      string        // HTTP listen address
	GRPCListenAddr  string        // gRPC health listen address, empty when disabled
	AllowedOrigins  []string      // CORS allowed origins
	ReadTimeout     time.Duration // HTTP server read timeout
	IdleTimeout     time.Duration // HTTP server idle timeout
	ShutdownTimeout time.Duration // Upper bound for graceful shutdown
	SeedUsers       bool          // Start the registry with the seed users
	EventBuffer     int           // Per-subscriber change feed buffer
}

// Load reads configuration from environment variables, falling back to defaults.
func Load() *Config {
	grpcAddr := envOrDefault("GRPC_LISTEN_ADDR", ":50051")
	if strings.EqualFold(grpcAddr, grpcDisabled) {
		grpcAddr = ""
	}

	return &Config{
		ListenAddr:      envOrDefault("LISTEN_ADDR", ":8080"),
		GRPCListenAddr:  grpcAddr,
		AllowedOrigins:  envOrDefaultList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		ReadTimeout:     envOrDefaultDuration("READ_TIMEOUT", 30*time.Second),
		IdleTimeout:     envOrDefaultDuration("IDLE_TIMEOUT", 120*time.Second),
		ShutdownTimeout: envOrDefaultDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		SeedUsers:       envOrDefaultBool("SEED_USERS", true),
		EventBuffer:     envOrDefaultInt("EVENT_BUFFER", 16),
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrDefaultInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func envOrDefaultBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envOrDefaultDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func envOrDefaultList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
