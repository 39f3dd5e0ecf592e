package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dgallion1/docsift/internal/parser"
)

// BatchResult summarises an OutlineDir run.
type BatchResult struct {
	Written []string `json:"written"`
	Failed  []string `json:"failed"`
}

type errorRecord struct {
	Error string `json:"error"`
	File  string `json:"file"`
}

// OutlineDir writes <stem>.json for every supported file in inDir. A file
// that fails gets <stem>.error.json instead and the batch carries on.
// Files are processed in name order.
func (p *Pipeline) OutlineDir(ctx context.Context, inDir, outDir string) (*BatchResult, error) {
	entries, err := os.ReadDir(inDir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && parser.IsSupportedExtension(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	res := &BatchResult{Written: []string{}, Failed: []string{}}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		log := p.log.With("document", name)

		out, err := p.OutlineFile(ctx, filepath.Join(inDir, name))
		if err != nil {
			log.Error("outline failed", "error", err)
			target := filepath.Join(outDir, stem+".error.json")
			if werr := writeJSON(target, errorRecord{Error: err.Error(), File: name}); werr != nil {
				return res, werr
			}
			res.Failed = append(res.Failed, name)
			continue
		}

		target := filepath.Join(outDir, stem+".json")
		if err := writeJSON(target, out); err != nil {
			return res, err
		}
		log.Info("wrote outline", "path", target, "headings", len(out.Outline))
		res.Written = append(res.Written, target)
	}
	return res, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
