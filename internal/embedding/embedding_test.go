package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 1}, []float32{-1, -1}, -1},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0},
		{"length mismatch", []float32{1}, []float32{1, 1}, 0},
		{"empty", nil, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cosine(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestNew(t *testing.T) {
	for _, typ := range []string{"", "tfidf"} {
		e, err := New(Config{Type: typ})
		if err != nil {
			t.Fatalf("New(%q): %v", typ, err)
		}
		if e.Name() != "tfidf" {
			t.Errorf("New(%q): expected tfidf, got %s", typ, e.Name())
		}
	}
	if _, err := New(Config{Type: "openai"}); err == nil {
		t.Error("expected error for openai without endpoint")
	}
	if _, err := New(Config{Type: "word2vec"}); err == nil {
		t.Error("expected error for unknown type")
	}
}

func TestTFIDF_EmbedBeforeFit(t *testing.T) {
	_, err := NewTFIDF().Embed(context.Background(), []string{"text"})
	if !errors.Is(err, errNotFitted) {
		t.Fatalf("expected errNotFitted, got %v", err)
	}
}

func TestTFIDF_RanksRelatedTextHigher(t *testing.T) {
	corpus := []string{
		"Hotels and hostels near the old town offer cheap rooms.",
		"The museum exhibits medieval armour and tapestries.",
		"Budget travellers should book hostels early in summer.",
	}
	fitted, err := NewTFIDF().Fit(corpus)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}

	ctx := context.Background()
	vecs, err := fitted.Embed(ctx, corpus)
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	q, err := fitted.Embed(ctx, []string{"cheap hostels for budget travellers"})
	if err != nil {
		t.Fatalf("embed query: %v", err)
	}

	for _, v := range vecs {
		if len(v) != fitted.Dimension() {
			t.Fatalf("expected dimension %d, got %d", fitted.Dimension(), len(v))
		}
	}
	museum := Cosine(q[0], vecs[1])
	budget := Cosine(q[0], vecs[2])
	if museum != 0 {
		t.Errorf("expected no overlap with museum text, got %v", museum)
	}
	if budget <= museum {
		t.Errorf("expected budget text to outrank museum text: %v <= %v", budget, museum)
	}
}

func TestTFIDF_FitLeavesReceiverUnfitted(t *testing.T) {
	base := NewTFIDF()
	if _, err := base.Fit([]string{"alpha beta"}); err != nil {
		t.Fatalf("fit: %v", err)
	}
	if base.Dimension() != 0 {
		t.Errorf("expected base dimension 0, got %d", base.Dimension())
	}
}

func TestTFIDF_EmptyVocabulary(t *testing.T) {
	fitted, err := NewTFIDF().Fit([]string{"", "the and of"})
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	vecs, err := fitted.Embed(context.Background(), []string{"anything"})
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	if len(vecs) != 1 || len(vecs[0]) != 0 {
		t.Errorf("expected one zero-length vector, got %v", vecs)
	}
}

func embeddingServer(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/v1/embeddings" {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		var req embedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		type item struct {
			Embedding []float32 `json:"embedding"`
			Index     int       `json:"index"`
		}
		var data []item
		// Reverse order to exercise index reassembly.
		for i := len(req.Input) - 1; i >= 0; i-- {
			data = append(data, item{Embedding: []float32{float32(len(req.Input[i])), 1}, Index: i})
		}
		json.NewEncoder(w).Encode(map[string]any{"data": data, "model": req.Model})
	}))
}

func TestOpenAI_EmbedBatchesInOrder(t *testing.T) {
	var calls atomic.Int32
	srv := embeddingServer(t, &calls)
	defer srv.Close()

	c := NewOpenAI(Config{Endpoint: srv.URL + "/", Model: "m", APIKey: "secret", BatchSize: 2, Timeout: time.Second})
	defer c.Close()

	texts := []string{"a", "bb", "ccc", "dddd", "eeeee"}
	vecs, err := c.Embed(context.Background(), texts)
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 batched calls, got %d", calls.Load())
	}
	for i, v := range vecs {
		if int(v[0]) != len(texts[i]) {
			t.Errorf("vector %d out of order: %v", i, v)
		}
	}
	if c.Dimension() != 2 {
		t.Errorf("expected detected dimension 2, got %d", c.Dimension())
	}
}

func TestOpenAI_HTTPError(t *testing.T) {
	var calls atomic.Int32
	srv := embeddingServer(t, &calls)
	defer srv.Close()

	c := NewOpenAI(Config{Endpoint: srv.URL, APIKey: "wrong"})
	_, err := c.Embed(context.Background(), []string{"x"})
	if err == nil || !strings.Contains(err.Error(), "HTTP 401") {
		t.Fatalf("expected HTTP 401 error, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("expected a single attempt, got %d", calls.Load())
	}
}

func TestInstrumented(t *testing.T) {
	stats := NewStats("tfidf", time.Hour)
	inst := Instrument(NewTFIDF(), stats)

	if _, err := inst.Embed(context.Background(), []string{"x"}); err == nil {
		t.Fatal("expected error embedding before fit")
	}
	fitted, err := inst.Fit([]string{"alpha beta", "gamma"})
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if _, err := fitted.Embed(context.Background(), []string{"alpha", "gamma"}); err != nil {
		t.Fatalf("embed: %v", err)
	}

	snap := stats.Snapshot()
	if snap.Calls != 1 || snap.Texts != 2 || snap.Errors != 1 {
		t.Errorf("unexpected snapshot %+v", snap)
	}
}
