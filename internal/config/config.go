package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Persistence
	StoreBackend string // "file" or "remote"
	DataDir      string
	StoreURL     string
	StoreAPIKey  string

	// Autosave
	AutosaveDebounce time.Duration
	AutosaveEnabled  bool

	// Templates
	TemplatesDir string

	// Import pipeline
	WorkerCount    int
	MaxQueueSize   int
	MaxUploadBytes int64
	JobTTL         time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("READMED_API_KEY"),

		StoreBackend: envOr("STORE_BACKEND", "file"),
		DataDir:      envOr("DATA_DIR", "data"),
		StoreURL:     envOr("STORE_URL", "http://localhost:8080"),
		StoreAPIKey:  os.Getenv("STORE_API_KEY"),

		AutosaveDebounce: envDuration("AUTOSAVE_DEBOUNCE", 5*time.Second),
		AutosaveEnabled:  envBool("AUTOSAVE_ENABLED", true),

		TemplatesDir: os.Getenv("TEMPLATES_DIR"),

		WorkerCount:    envInt("WORKER_COUNT", 2),
		MaxQueueSize:   envInt("MAX_QUEUE_SIZE", 20),
		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 10485760), // 10MB
		JobTTL:         envDuration("JOB_TTL", 1*time.Hour),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 20
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10485760
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.AutosaveDebounce <= 0 {
		cfg.AutosaveDebounce = 5 * time.Second
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("READMED_API_KEY is required")
	}
	switch c.StoreBackend {
	case "file":
		if c.DataDir == "" {
			return fmt.Errorf("DATA_DIR is required for the file backend")
		}
	case "remote":
		if c.StoreURL == "" {
			return fmt.Errorf("STORE_URL is required for the remote backend")
		}
		if c.StoreAPIKey == "" {
			return fmt.Errorf("STORE_API_KEY is required for the remote backend")
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be \"file\" or \"remote\", got %q", c.StoreBackend)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
