// Package pipeline wires parsing, outline inference, segmentation, and
// ranking into runs over sets of documents.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dgallion1/docsift/internal/doctree"
	"github.com/dgallion1/docsift/internal/embedding"
	"github.com/dgallion1/docsift/internal/outline"
	"github.com/dgallion1/docsift/internal/parser"
	"github.com/dgallion1/docsift/internal/rank"
	"github.com/dgallion1/docsift/internal/section"
)

// ErrNoSections is returned when no document produced any section, before
// any embedding work starts.
var ErrNoSections = errors.New("no sections could be extracted from any document")

// Input is one named document. Open is called once and the reader is
// closed when parsing finishes.
type Input struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// FileInput reads the document at path. Its name is the base file name.
func FileInput(path string) Input {
	return Input{
		Name: filepath.Base(path),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

// BytesInput serves an in-memory document, such as an upload.
func BytesInput(name string, data []byte) Input {
	return Input{
		Name: name,
		Open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

type Options struct {
	Params   outline.Params
	Embedder embedding.Embedder

	TopSections      int
	TopSentences     int
	ParseConcurrency int

	Logger *slog.Logger
	// Now stamps reports; defaults to time.Now.
	Now func() time.Time
}

// Pipeline runs outline and ranking jobs. It holds no per-run state and is
// safe for concurrent use as long as its Embedder is.
type Pipeline struct {
	params      outline.Params
	ranker      *rank.Ranker
	concurrency int
	log         *slog.Logger
	now         func() time.Time
}

func New(opts Options) *Pipeline {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ParseConcurrency <= 0 {
		opts.ParseConcurrency = 4
	}
	if opts.Params == (outline.Params{}) {
		opts.Params = outline.DefaultParams()
	}
	return &Pipeline{
		params:      opts.Params,
		ranker:      rank.NewRanker(opts.Embedder, opts.TopSections, opts.TopSentences, opts.Logger),
		concurrency: opts.ParseConcurrency,
		log:         opts.Logger,
		now:         opts.Now,
	}
}

// Parse opens and parses one input with the parser for its extension.
func (p *Pipeline) Parse(ctx context.Context, in Input) (*doctree.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ps, err := parser.ForFile(in.Name)
	if err != nil {
		return nil, err
	}
	rc, err := in.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", in.Name, err)
	}
	defer rc.Close()

	doc, err := ps.Parse(rc, in.Name)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", in.Name, err)
	}
	return doc, nil
}

// OutlineReader infers the title and outline of one document.
func (p *Pipeline) OutlineReader(ctx context.Context, r io.Reader, name string) (outline.Outline, error) {
	in := Input{Name: name, Open: func() (io.ReadCloser, error) { return io.NopCloser(r), nil }}
	doc, err := p.Parse(ctx, in)
	if err != nil {
		return outline.Outline{}, err
	}
	return outline.Analyze(doc, p.params).Outline, nil
}

// OutlineFile infers the title and outline of the document at path.
func (p *Pipeline) OutlineFile(ctx context.Context, path string) (outline.Outline, error) {
	doc, err := p.Parse(ctx, FileInput(path))
	if err != nil {
		return outline.Outline{}, err
	}
	return outline.Analyze(doc, p.params).Outline, nil
}

// Sections parses one input and cuts it into sections along its outline.
func (p *Pipeline) Sections(ctx context.Context, in Input) ([]section.Section, error) {
	doc, err := p.Parse(ctx, in)
	if err != nil {
		return nil, err
	}
	a := outline.Analyze(doc, p.params)
	log := p.log.With("document", in.Name)
	if len(a.Lines) == 0 {
		log.Warn("document has no text lines", "pages", doc.PageCount())
		return nil, nil
	}
	secs := section.Segment(doc, a.Outline.Outline, log)
	log.Debug("segmented document",
		"pages", doc.PageCount(),
		"lines", len(a.Lines),
		"headings", len(a.Outline.Outline),
		"body_size", a.Body.FontSize,
	)
	return secs, nil
}
