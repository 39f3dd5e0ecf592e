// Package embedding turns text into vectors for similarity ranking.
package embedding

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"
)

// Embedder converts text into fixed-length vectors. Embed returns one
// vector per input, in input order.
type Embedder interface {
	Name() string
	Dimension() int
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Close() error
}

// Fitter is implemented by embedders that learn a vocabulary from the
// corpus being ranked. Fit returns a fitted embedder and leaves the
// receiver untouched, so one Fitter can serve concurrent rankings.
type Fitter interface {
	Fit(corpus []string) (Embedder, error)
}

// Config selects and configures an embedding provider.
type Config struct {
	Type      string // "tfidf" or "openai"
	Endpoint  string // Base URL of an OpenAI-compatible server
	Model     string
	APIKey    string
	BatchSize int
	Timeout   time.Duration
	Logger    *slog.Logger
}

// New builds the embedder named by cfg.Type.
func New(cfg Config) (Embedder, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	switch cfg.Type {
	case "", "tfidf":
		return NewTFIDF(), nil
	case "openai":
		if cfg.Endpoint == "" {
			return nil, fmt.Errorf("openai embedder: endpoint is required")
		}
		return NewOpenAI(cfg), nil
	default:
		return nil, fmt.Errorf("unknown embedder type %q", cfg.Type)
	}
}

// Cosine returns the cosine similarity of a and b. Mismatched lengths and
// zero vectors score 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
