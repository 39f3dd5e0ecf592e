package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dgallion1/docsift/internal/config"
	"github.com/spf13/cobra"
)

func newRankCmd() *cobra.Command {
	var (
		flagConfig string
		flagOut    string
	)
	cmd := &cobra.Command{
		Use:   "rank <dir|files...>",
		Short: "Rank document sections against a persona and task",
		Long: `Rank outlines every document, cuts it into sections, and ranks the sections
by similarity to the persona and task in --config. The report lists the top
sections with a short extractive summary of each.

The query file is JSON or YAML:
  {"persona": {"role": "..."}, "job_to_be_done": {"task": "..."}}

Examples:
  docsift rank ./docs --config query.json
  docsift rank a.pdf b.pdf --config query.yaml --out report.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := config.LoadQuery(flagConfig)
			if err != nil {
				return err
			}
			inputs, err := collectInputs(args)
			if err != nil {
				return err
			}

			rt, err := newApp()
			if err != nil {
				return err
			}
			defer rt.close()

			rep, err := rt.pipeline.Rank(cmd.Context(), inputs, q)
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(rep, "", "  ")
			if err != nil {
				return err
			}
			if err := os.WriteFile(flagOut, append(data, '\n'), 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ranked %d sections from %d documents into %s\n",
				len(rep.ExtractedSections), len(inputs), flagOut)
			return nil
		},
	}
	cmd.Flags().StringVar(&flagConfig, "config", "", "Query file with persona and job_to_be_done (required)")
	cmd.Flags().StringVar(&flagOut, "out", "ranking_output.json", "Report file")
	cmd.MarkFlagRequired("config")
	return cmd
}
