package parser

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/dgallion1/docsift/internal/doctree"
	pdflib "github.com/ledongthuc/pdf"
)

const (
	// rowTolerance is how far apart two baselines may be, in points, and
	// still belong to the same line.
	rowTolerance = 2.0
	// wordGapRatio is the horizontal gap, as a fraction of font size, that
	// implies a missing space between glyphs.
	wordGapRatio = 0.3
	// blockGapRatio is the vertical gap, as a fraction of line height, that
	// starts a new block.
	blockGapRatio = 0.8
	ascentRatio   = 0.8
	descentRatio  = 0.2
)

var letterBox = doctree.Rect{X0: 0, Y0: 0, X1: 612, Y1: 792}

// PDFParser extracts positioned, styled text from PDF files.
type PDFParser struct{}

func (p *PDFParser) Parse(r io.Reader, filename string) (doc *doctree.Document, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}

	// The pdf library panics on malformed input.
	defer func() {
		if rec := recover(); rec != nil {
			doc = nil
			err = fmt.Errorf("parse pdf %s: %v", filename, rec)
		}
	}()

	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	doc = &doctree.Document{Name: filename}
	for i := 1; i <= reader.NumPage(); i++ {
		pg := reader.Page(i)
		box := mediaBox(pg.V)
		page := &doctree.Page{
			Number: i,
			Width:  box.X1 - box.X0,
			Height: box.Y1 - box.Y0,
		}
		if !pg.V.IsNull() {
			page.Blocks = groupBlocks(groupLines(pg.Content().Text, box))
		}
		doc.Pages = append(doc.Pages, page)
	}
	return doc, nil
}

// mediaBox walks up the page tree for the inherited MediaBox, falling back
// to US Letter.
func mediaBox(v pdflib.Value) doctree.Rect {
	for ; !v.IsNull(); v = v.Key("Parent") {
		mb := v.Key("MediaBox")
		if mb.Len() != 4 {
			continue
		}
		r := doctree.Rect{
			X0: mb.Index(0).Float64(),
			Y0: mb.Index(1).Float64(),
			X1: mb.Index(2).Float64(),
			Y1: mb.Index(3).Float64(),
		}
		if r.X1 > r.X0 && r.Y1 > r.Y0 {
			return r
		}
	}
	return letterBox
}

type glyphRow struct {
	baseline float64
	glyphs   []pdflib.Text
}

// groupLines buckets glyphs into rows by baseline, orders rows top to
// bottom and glyphs left to right, then merges runs of the same font and
// size into spans.
func groupLines(texts []pdflib.Text, box doctree.Rect) []doctree.Line {
	var rows []*glyphRow
	for _, t := range texts {
		if t.S == "" || t.S == "\n" || t.S == "\r" {
			continue
		}
		var row *glyphRow
		for _, r := range rows {
			if math.Abs(r.baseline-t.Y) <= rowTolerance {
				row = r
				break
			}
		}
		if row == nil {
			row = &glyphRow{baseline: t.Y}
			rows = append(rows, row)
		}
		row.glyphs = append(row.glyphs, t)
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].baseline > rows[j].baseline })

	lines := make([]doctree.Line, 0, len(rows))
	for _, row := range rows {
		sort.SliceStable(row.glyphs, func(i, j int) bool { return row.glyphs[i].X < row.glyphs[j].X })
		if line, ok := buildLine(row, box); ok {
			lines = append(lines, line)
		}
	}
	return lines
}

func buildLine(row *glyphRow, box doctree.Rect) (doctree.Line, bool) {
	var line doctree.Line
	var cur *doctree.Span
	var text strings.Builder
	var prev pdflib.Text

	flush := func() {
		if cur == nil {
			return
		}
		cur.Text = text.String()
		line.Spans = append(line.Spans, *cur)
		line.BBox = line.BBox.Union(cur.BBox)
		cur = nil
		text.Reset()
	}

	for i, g := range row.glyphs {
		if i > 0 && needsSpace(prev, g) {
			text.WriteByte(' ')
		}
		if cur == nil || cur.Font != g.Font || math.Abs(cur.Size-g.FontSize) > 0.01 {
			flush()
			cur = &doctree.Span{Font: g.Font, Size: g.FontSize, BBox: glyphBox(g, row.baseline, box)}
		} else {
			cur.BBox = cur.BBox.Union(glyphBox(g, row.baseline, box))
		}
		text.WriteString(g.S)
		prev = g
	}
	flush()

	if strings.TrimSpace(line.Text()) == "" {
		return doctree.Line{}, false
	}
	return line, true
}

func needsSpace(prev, g pdflib.Text) bool {
	if strings.HasSuffix(prev.S, " ") || strings.HasPrefix(g.S, " ") {
		return false
	}
	if prev.W <= 0 {
		return false
	}
	gap := g.X - (prev.X + prev.W)
	return gap > wordGapRatio*g.FontSize
}

// glyphBox converts a glyph's baseline position to a top-down box.
func glyphBox(g pdflib.Text, baseline float64, box doctree.Rect) doctree.Rect {
	top := box.Y1 - baseline
	w := g.W
	if w <= 0 {
		w = g.FontSize * 0.5
	}
	return doctree.Rect{
		X0: g.X - box.X0,
		Y0: top - g.FontSize*ascentRatio,
		X1: g.X - box.X0 + w,
		Y1: top + g.FontSize*descentRatio,
	}
}

// groupBlocks starts a new block wherever the vertical gap between lines
// grows beyond a fraction of the line height.
func groupBlocks(lines []doctree.Line) []doctree.Block {
	var blocks []doctree.Block
	var cur doctree.Block
	for i, l := range lines {
		if i > 0 {
			prev := lines[i-1]
			height := prev.BBox.Y1 - prev.BBox.Y0
			if l.BBox.Y0-prev.BBox.Y1 > height*blockGapRatio {
				blocks = append(blocks, cur)
				cur = doctree.Block{}
			}
		}
		cur.Lines = append(cur.Lines, l)
		cur.BBox = cur.BBox.Union(l.BBox)
	}
	if len(cur.Lines) > 0 {
		blocks = append(blocks, cur)
	}
	return blocks
}
