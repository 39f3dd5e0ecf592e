package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dgallion1/docsift/internal/outline"
	"github.com/spf13/cobra"
)

func newOutlineCmd() *cobra.Command {
	var (
		flagOut  string
		flagTree bool
	)
	cmd := &cobra.Command{
		Use:   "outline <file|dir>",
		Short: "Infer the title and heading outline of documents",
		Long: `Outline prints the title and H1-H3 headings of a single document as JSON.

Given a directory, it writes <name>.json for every supported document into
--out, and <name>.error.json for any document that could not be read.

Examples:
  docsift outline report.pdf
  docsift outline report.pdf --tree
  docsift outline ./input --out ./output`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newApp()
			if err != nil {
				return err
			}
			defer rt.close()

			info, err := os.Stat(args[0])
			if err != nil {
				return err
			}
			if info.IsDir() {
				if flagOut == "" {
					flagOut = "output"
				}
				res, err := rt.pipeline.OutlineDir(cmd.Context(), args[0], flagOut)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %d outlines to %s (%d failed)\n", len(res.Written), flagOut, len(res.Failed))
				return nil
			}

			o, err := rt.pipeline.OutlineFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if flagTree {
				fmt.Fprint(cmd.OutOrStdout(), renderTree(o))
				return nil
			}
			data, err := json.MarshalIndent(o, "", "  ")
			if err != nil {
				return err
			}
			if flagOut != "" {
				if err := os.MkdirAll(flagOut, 0o755); err != nil {
					return err
				}
				name := filepath.Base(args[0])
				target := filepath.Join(flagOut, strings.TrimSuffix(name, filepath.Ext(name))+".json")
				return os.WriteFile(target, append(data, '\n'), 0o644)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	cmd.Flags().StringVar(&flagOut, "out", "", "Output directory (default: stdout for a file, ./output for a directory)")
	cmd.Flags().BoolVar(&flagTree, "tree", false, "Print the outline as an indented tree")
	return cmd
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	h1Style      = lipgloss.NewStyle().Bold(true)
	headingStyle = lipgloss.NewStyle()
	pageStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// renderTree draws the outline with each level indented two more spaces.
func renderTree(o outline.Outline) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(o.Title))
	b.WriteByte('\n')
	for _, e := range o.Outline {
		indent, style := 2, headingStyle
		switch e.Level {
		case outline.H1:
			style = h1Style
		case outline.H2:
			indent = 4
		case outline.H3:
			indent = 6
		}
		b.WriteString(strings.Repeat(" ", indent))
		b.WriteString(style.Render(e.Text))
		b.WriteString(" ")
		b.WriteString(pageStyle.Render(fmt.Sprintf("p.%d", e.Page)))
		b.WriteByte('\n')
	}
	return b.String()
}
