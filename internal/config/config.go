package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/docsift/internal/embedding"
	"github.com/dgallion1/docsift/internal/outline"
	"github.com/dgallion1/docsift/internal/rank"
)

type Config struct {
	Port     string
	LogLevel string

	// Auth
	DocsiftAPIKey string

	// Embedding provider
	Embedder       string
	EmbedEndpoint  string
	EmbedModel     string
	EmbedAPIKey    string
	EmbedBatchSize int
	EmbedTimeout   time.Duration

	// Worker pool
	WorkerCount      int
	MaxQueueSize     int
	ParseConcurrency int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// Ranking limits
	TopSections  int
	TopSentences int

	// Heading heuristics
	HeadingThreshold float64
	SizeWeight       float64
	BoldBonus        float64
	ShortLineBonus   float64
	ShortLineWords   int
	FooterMargin     float64
}

func Load() Config {
	def := outline.DefaultParams()
	cfg := Config{
		Port:     envOr("PORT", "8090"),
		LogLevel: envOr("LOG_LEVEL", "info"),

		DocsiftAPIKey: os.Getenv("DOCSIFT_API_KEY"),

		Embedder:       envOr("EMBEDDER", "tfidf"),
		EmbedEndpoint:  os.Getenv("EMBED_ENDPOINT"),
		EmbedModel:     envOr("EMBED_MODEL", "all-MiniLM-L6-v2"),
		EmbedAPIKey:    os.Getenv("EMBED_API_KEY"),
		EmbedBatchSize: envInt("EMBED_BATCH_SIZE", 32),
		EmbedTimeout:   envDuration("EMBED_TIMEOUT", 60*time.Second),

		WorkerCount:      envInt("WORKER_COUNT", 2),
		MaxQueueSize:     envInt("MAX_QUEUE_SIZE", 50),
		ParseConcurrency: envInt("PARSE_CONCURRENCY", 4),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		TopSections:  envInt("TOP_SECTIONS", rank.DefaultTopSections),
		TopSentences: envInt("TOP_SENTENCES", rank.DefaultTopSentences),

		HeadingThreshold: envFloat("HEADING_THRESHOLD", def.HeadingThreshold),
		SizeWeight:       envFloat("SIZE_WEIGHT", def.SizeWeight),
		BoldBonus:        envFloat("BOLD_BONUS", def.BoldBonus),
		ShortLineBonus:   envFloat("SHORT_LINE_BONUS", def.ShortLineBonus),
		ShortLineWords:   envInt("SHORT_LINE_WORDS", def.ShortLineWords),
		FooterMargin:     envFloat("FOOTER_MARGIN", def.FooterMargin),
	}

	if cfg.EmbedBatchSize <= 0 {
		cfg.EmbedBatchSize = 32
	}
	if cfg.EmbedTimeout <= 0 {
		cfg.EmbedTimeout = 60 * time.Second
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 50
	}
	if cfg.ParseConcurrency <= 0 {
		cfg.ParseConcurrency = 4
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.TopSections <= 0 {
		cfg.TopSections = rank.DefaultTopSections
	}
	if cfg.TopSentences <= 0 {
		cfg.TopSentences = rank.DefaultTopSentences
	}
	if cfg.ShortLineWords <= 0 {
		cfg.ShortLineWords = def.ShortLineWords
	}
	if cfg.FooterMargin <= 0 || cfg.FooterMargin > 1 {
		cfg.FooterMargin = def.FooterMargin
	}

	return cfg
}

// Validate checks settings every binary needs.
func (c Config) Validate() error {
	switch c.Embedder {
	case "tfidf":
	case "openai":
		if c.EmbedEndpoint == "" {
			return fmt.Errorf("EMBED_ENDPOINT is required when EMBEDDER=openai")
		}
	default:
		return fmt.Errorf("EMBEDDER must be tfidf or openai, got %q", c.Embedder)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ValidateServer additionally checks what the HTTP service needs.
func (c Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.DocsiftAPIKey == "" {
		return fmt.Errorf("DOCSIFT_API_KEY is required")
	}
	return nil
}

func (c Config) OutlineParams() outline.Params {
	return outline.Params{
		FooterMargin:     c.FooterMargin,
		SizeWeight:       c.SizeWeight,
		BoldBonus:        c.BoldBonus,
		ShortLineBonus:   c.ShortLineBonus,
		ShortLineWords:   c.ShortLineWords,
		HeadingThreshold: c.HeadingThreshold,
	}
}

func (c Config) EmbeddingConfig(log *slog.Logger) embedding.Config {
	return embedding.Config{
		Type:      c.Embedder,
		Endpoint:  c.EmbedEndpoint,
		Model:     c.EmbedModel,
		APIKey:    c.EmbedAPIKey,
		BatchSize: c.EmbedBatchSize,
		Timeout:   c.EmbedTimeout,
		Logger:    log,
	}
}

// Logger builds the JSON logger used by both binaries.
func (c Config) Logger() *slog.Logger {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("LOG_LEVEL must be debug, info, warn or error, got %q", s)
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

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
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
