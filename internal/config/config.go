package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// LLMKeyCandidates is the priority order of environment variables checked
// for the upstream model credential. The first non-empty value wins.
var LLMKeyCandidates = []string{"OPENAI_API_KEY", "NEXTUDY_OPENAI_KEY", "LLM_API_KEY"}

type Config struct {
	Port string

	// Auth for this service's own API.
	ServiceAPIKey string

	// Upstream model.
	LLMAPIKey   string
	LLMBaseURL  string
	LLMModel    string
	LLMTimeout  time.Duration
	MaxAttempts int

	// Pipeline.
	ChunkMaxChars    int
	ChunkConcurrency int

	// Upload jobs.
	WorkerCount    int
	MaxQueueSize   int
	MaxUploadBytes int64
	JobTTL         time.Duration

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		ServiceAPIKey: os.Getenv("NEXTUDY_API_KEY"),

		LLMAPIKey:   ResolveAPIKey(os.Getenv, LLMKeyCandidates),
		LLMBaseURL:  envOr("LLM_BASE_URL", "https://api.openai.com/v1"),
		LLMModel:    envOr("LLM_MODEL", "gpt-4o-mini"),
		LLMTimeout:  envDuration("LLM_TIMEOUT", 120*time.Second),
		MaxAttempts: envInt("LLM_MAX_ATTEMPTS", 1),

		ChunkMaxChars:    envInt("CHUNK_MAX_CHARS", 3500),
		ChunkConcurrency: envInt("CHUNK_CONCURRENCY", 1),

		WorkerCount:    envInt("WORKER_COUNT", 2),
		MaxQueueSize:   envInt("MAX_QUEUE_SIZE", 50),
		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 26214400), // 25MB
		JobTTL:         envDuration("JOB_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.ChunkMaxChars <= 0 {
		cfg.ChunkMaxChars = 3500
	}
	if cfg.ChunkConcurrency <= 0 {
		cfg.ChunkConcurrency = 1
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 50
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 26214400
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.ServiceAPIKey == "" {
		return fmt.Errorf("NEXTUDY_API_KEY is required")
	}
	if c.LLMAPIKey == "" {
		return fmt.Errorf("model API key is required: set one of %s", strings.Join(LLMKeyCandidates, ", "))
	}
	return nil
}

// ResolveAPIKey walks candidates in order through lookup and returns the
// first non-empty value, or "" if none is set. The lookup is injected so
// callers can test against a fake environment.
func ResolveAPIKey(lookup func(string) string, candidates []string) string {
	for _, name := range candidates {
		if v := lookup(name); v != "" {
			return v
		}
	}
	return ""
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
