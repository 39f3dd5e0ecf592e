package pipeline

import (
	"context"
	"fmt"

	"github.com/dgallion1/docsift/internal/rank"
	"github.com/dgallion1/docsift/internal/section"
	"golang.org/x/sync/errgroup"
)

// DocumentError records why one input contributed nothing to a corpus.
type DocumentError struct {
	Document string
	Err      error
}

func (e DocumentError) Error() string { return fmt.Sprintf("%s: %v", e.Document, e.Err) }

func (e DocumentError) Unwrap() error { return e.Err }

// Corpus is every section gathered from a set of inputs, in input order.
type Corpus struct {
	Documents []string
	Sections  []section.Section
	Failed    []DocumentError
}

// BuildCorpus parses inputs in parallel and concatenates their sections in
// input order. A document that fails is logged and recorded in Failed; the
// rest still contribute. Only cancellation aborts the build.
func (p *Pipeline) BuildCorpus(ctx context.Context, inputs []Input) (*Corpus, error) {
	perDoc := make([][]section.Section, len(inputs))
	errs := make([]error, len(inputs))

	var g errgroup.Group
	g.SetLimit(p.concurrency)
	for i, in := range inputs {
		g.Go(func() error {
			secs, err := p.Sections(ctx, in)
			if err != nil {
				errs[i] = err
				return nil
			}
			perDoc[i] = secs
			return nil
		})
	}
	g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := &Corpus{
		Documents: make([]string, len(inputs)),
		Sections:  []section.Section{},
	}
	for i, in := range inputs {
		c.Documents[i] = in.Name
		if errs[i] != nil {
			p.log.Error("document failed", "document", in.Name, "error", errs[i])
			c.Failed = append(c.Failed, DocumentError{Document: in.Name, Err: errs[i]})
			continue
		}
		c.Sections = append(c.Sections, perDoc[i]...)
	}
	p.log.Info("built corpus",
		"documents", len(inputs),
		"failed", len(c.Failed),
		"sections", len(c.Sections),
	)
	return c, nil
}

// RankCorpus ranks an already built corpus and assembles the report.
func (p *Pipeline) RankCorpus(ctx context.Context, c *Corpus, q rank.Query) (*rank.Report, error) {
	if len(c.Sections) == 0 {
		return nil, ErrNoSections
	}
	results, err := p.ranker.Rank(ctx, c.Sections, q)
	if err != nil {
		return nil, fmt.Errorf("rank: %w", err)
	}
	return rank.NewReport(results, c.Documents, q, p.now()), nil
}

// Rank builds a corpus from inputs and ranks it against q.
func (p *Pipeline) Rank(ctx context.Context, inputs []Input, q rank.Query) (*rank.Report, error) {
	c, err := p.BuildCorpus(ctx, inputs)
	if err != nil {
		return nil, err
	}
	return p.RankCorpus(ctx, c, q)
}
