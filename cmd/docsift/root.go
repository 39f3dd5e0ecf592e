package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/dgallion1/docsift/internal/config"
	"github.com/dgallion1/docsift/internal/embedding"
	"github.com/dgallion1/docsift/internal/parser"
	"github.com/dgallion1/docsift/internal/pipeline"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "docsift",
		Short: "docsift - outline documents and rank their sections",
		Long: `docsift reads PDF, DOCX, Markdown, HTML and text documents, infers a
title and H1-H3 outline from their typography, and ranks their sections by
relevance to a persona and a task.

Usage:
  docsift outline <file|dir> [flags]
  docsift rank <dir|files...> --config query.json [flags]
  docsift mcp`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newOutlineCmd(), newRankCmd(), newMCPCmd())
	return root
}

// app is what every subcommand needs: a pipeline over the configured
// embedder and a logger. close releases the embedder.
type app struct {
	pipeline *pipeline.Pipeline
	log      *slog.Logger
	close    func()
}

func newApp() (*app, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	log := cfg.Logger()

	emb, err := embedding.New(cfg.EmbeddingConfig(log))
	if err != nil {
		return nil, err
	}
	p := pipeline.New(pipeline.Options{
		Params:           cfg.OutlineParams(),
		Embedder:         emb,
		TopSections:      cfg.TopSections,
		TopSentences:     cfg.TopSentences,
		ParseConcurrency: cfg.ParseConcurrency,
		Logger:           log,
	})
	return &app{
		pipeline: p,
		log:      log,
		close: func() {
			if err := emb.Close(); err != nil {
				log.Warn("close embedder", "error", err)
			}
		},
	}, nil
}

// collectInputs expands directory arguments into their supported files, in
// name order. File arguments are kept as given.
func collectInputs(args []string) ([]pipeline.Input, error) {
	var inputs []pipeline.Input
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			inputs = append(inputs, pipeline.FileInput(arg))
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		var names []string
		for _, e := range entries {
			if e.Type().IsRegular() && parser.IsSupportedExtension(e.Name()) {
				names = append(names, e.Name())
			}
		}
		sort.Strings(names)
		for _, name := range names {
			inputs = append(inputs, pipeline.FileInput(filepath.Join(arg, name)))
		}
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("no supported documents in %v", args)
	}
	return inputs, nil
}
