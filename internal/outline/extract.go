package outline

import (
	"math"
	"strings"

	"github.com/dgallion1/docsift/internal/doctree"
)

// Extract flattens doc into styled lines in reading order. Empty lines and
// lines starting in the footer zone are dropped. A line takes its style from
// its first span.
func Extract(doc *doctree.Document, p Params) []Line {
	var lines []Line
	for i, page := range doc.Pages {
		footer := page.Height * p.FooterMargin
		for _, blk := range page.Blocks {
			for _, l := range blk.Lines {
				if len(l.Spans) == 0 {
					continue
				}
				text := strings.TrimSpace(l.Text())
				if text == "" {
					continue
				}
				if l.BBox.Y0 > footer {
					continue
				}
				first := l.Spans[0]
				lines = append(lines, Line{
					Text:     text,
					Page:     i + 1,
					FontSize: roundSize(first.Size),
					IsBold:   isBoldFont(first.Font),
				})
			}
		}
	}
	return lines
}

// roundSize rounds half to even so 12.5pt groups with 12pt.
func roundSize(size float64) int {
	return int(math.RoundToEven(size))
}

func isBoldFont(font string) bool {
	return strings.Contains(strings.ToLower(font), "bold")
}
