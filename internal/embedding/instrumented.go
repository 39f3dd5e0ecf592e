package embedding

import (
	"context"
	"time"
)

// Instrumented records the latency of every Embed call in Stats.
type Instrumented struct {
	Embedder
	stats *Stats
}

// Instrument wraps e so its calls are recorded in stats.
func Instrument(e Embedder, stats *Stats) *Instrumented {
	return &Instrumented{Embedder: e, stats: stats}
}

// Stats returns the shared latency tracker.
func (i *Instrumented) Stats() *Stats { return i.stats }

func (i *Instrumented) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	start := time.Now()
	vecs, err := i.Embedder.Embed(ctx, texts)
	if err != nil {
		i.stats.RecordError()
		return nil, err
	}
	i.stats.Record(time.Since(start).Milliseconds(), len(texts))
	return vecs, nil
}

// Fit fits the wrapped embedder when it supports fitting. The fitted
// embedder keeps reporting to the same Stats.
func (i *Instrumented) Fit(corpus []string) (Embedder, error) {
	f, ok := i.Embedder.(Fitter)
	if !ok {
		return i, nil
	}
	fitted, err := f.Fit(corpus)
	if err != nil {
		return nil, err
	}
	return Instrument(fitted, i.stats), nil
}
