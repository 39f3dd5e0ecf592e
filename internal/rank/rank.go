// Package rank orders document sections by relevance to a persona and
// task, and condenses the winners to their most relevant sentences.
package rank

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/dgallion1/docsift/internal/embedding"
	"github.com/dgallion1/docsift/internal/section"
	"github.com/dgallion1/docsift/internal/sentence"
)

// NoContent replaces the refined text of a section with no sentences.
const NoContent = "No content available for summarization."

const (
	DefaultTopSections  = 10
	DefaultTopSentences = 3
)

// ErrEmptyCorpus is returned when there are no sections to rank.
var ErrEmptyCorpus = errors.New("no sections to rank")

// Query is the persona and task that sections are ranked against.
type Query struct {
	Persona string
	Task    string
}

// String renders the query text that gets embedded.
func (q Query) String() string {
	return fmt.Sprintf("Persona: %s. Task: %s", q.Persona, q.Task)
}

// Result is one ranked section with its refined text.
type Result struct {
	Section     section.Section
	Rank        int // 1-based
	Similarity  float64
	RefinedText string
}

// Ranker scores sections against a query with an Embedder.
type Ranker struct {
	embedder     embedding.Embedder
	topSections  int
	topSentences int
	logger       *slog.Logger
}

// NewRanker returns a Ranker. Non-positive limits fall back to the defaults.
func NewRanker(e embedding.Embedder, topSections, topSentences int, logger *slog.Logger) *Ranker {
	if topSections <= 0 {
		topSections = DefaultTopSections
	}
	if topSentences <= 0 {
		topSentences = DefaultTopSentences
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Ranker{embedder: e, topSections: topSections, topSentences: topSentences, logger: logger}
}

// Rank returns the min(topSections, len(corpus)) sections most similar to
// q, most similar first. Ties keep corpus order.
func (r *Ranker) Rank(ctx context.Context, corpus []section.Section, q Query) ([]Result, error) {
	if len(corpus) == 0 {
		return nil, ErrEmptyCorpus
	}

	contents := make([]string, len(corpus))
	for i, s := range corpus {
		contents[i] = s.Content
	}

	emb := r.embedder
	if f, ok := emb.(embedding.Fitter); ok {
		fitted, err := f.Fit(contents)
		if err != nil {
			return nil, fmt.Errorf("fit embedder: %w", err)
		}
		emb = fitted
	}

	qv, err := emb.Embed(ctx, []string{q.String()})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	// Sections whose heading could not be located have no content. They are
	// not sent to the embedder and score 0.
	var texts []string
	var pos []int
	for i, c := range contents {
		if strings.TrimSpace(c) == "" {
			continue
		}
		texts = append(texts, c)
		pos = append(pos, i)
	}
	scores := make([]float64, len(corpus))
	if len(texts) > 0 {
		vecs, err := emb.Embed(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("embed sections: %w", err)
		}
		for j, v := range vecs {
			scores[pos[j]] = embedding.Cosine(qv[0], v)
		}
	}
	order := topK(scores, r.topSections)

	results := make([]Result, 0, len(order))
	for i, idx := range order {
		refined, err := r.refine(ctx, emb, corpus[idx].Content, qv[0])
		if err != nil {
			return nil, fmt.Errorf("refine section %q: %w", corpus[idx].Title, err)
		}
		results = append(results, Result{
			Section:     corpus[idx],
			Rank:        i + 1,
			Similarity:  scores[idx],
			RefinedText: refined,
		})
	}
	r.logger.Debug("ranked sections", "corpus", len(corpus), "kept", len(results), "embedder", emb.Name())
	return results, nil
}

// refine keeps the sentences most similar to the query, in their original order.
func (r *Ranker) refine(ctx context.Context, emb embedding.Embedder, content string, qv []float32) (string, error) {
	sents := sentence.Split(content)
	if len(sents) == 0 {
		return NoContent, nil
	}

	vecs, err := emb.Embed(ctx, sents)
	if err != nil {
		return "", err
	}
	scores := make([]float64, len(sents))
	for i, v := range vecs {
		scores[i] = embedding.Cosine(qv, v)
	}

	keep := topK(scores, r.topSentences)
	sort.Ints(keep)
	picked := make([]string, len(keep))
	for i, idx := range keep {
		picked[i] = sents[idx]
	}
	return strings.Join(picked, " "), nil
}

// topK returns the indices of the k highest scores, highest first. Equal
// scores keep index order.
func topK(scores []float64, k int) []int {
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return scores[idx[a]] > scores[idx[b]] })
	if k < len(idx) {
		idx = idx[:k]
	}
	return idx
}
