package parser

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jung-kurt/gofpdf"
)

type pdfText struct {
	style string // "" or "B"
	size  float64
	y     float64
	text  string
}

func buildPDF(t *testing.T, pages ...[]pdfText) []byte {
	t.Helper()
	pdf := gofpdf.New("P", "pt", "A4", "")
	for _, texts := range pages {
		pdf.AddPage()
		for _, tx := range texts {
			pdf.SetFont("Helvetica", tx.style, tx.size)
			pdf.Text(72, tx.y, tx.text)
		}
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("render pdf: %v", err)
	}
	return buf.Bytes()
}

func TestPDFParser_StyledLines(t *testing.T) {
	data := buildPDF(t,
		[]pdfText{
			{"B", 24, 90, "Annual Report"},
			{"", 11, 130, "Body text on the first page."},
			{"", 11, 145, "More body text follows here."},
			{"B", 16, 190, "Overview"},
			{"", 11, 215, "Overview body text."},
		},
		[]pdfText{
			{"B", 16, 90, "Methods"},
			{"", 11, 120, "Methods body text."},
			{"", 9, 820, "Page 2"},
		},
	)

	doc, err := (&PDFParser{}).Parse(bytes.NewReader(data), "report.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Name != "report.pdf" {
		t.Errorf("expected name %q, got %q", "report.pdf", doc.Name)
	}
	if doc.PageCount() != 2 {
		t.Fatalf("expected 2 pages, got %d", doc.PageCount())
	}

	p1 := doc.Page(1)
	if p1.Width < 595 || p1.Width > 596 || p1.Height < 841 || p1.Height > 842 {
		t.Errorf("expected A4 page size, got %vx%v", p1.Width, p1.Height)
	}

	want := []struct {
		text string
		size float64
		bold bool
	}{
		{"Annual Report", 24, true},
		{"Body text on the first page.", 11, false},
		{"More body text follows here.", 11, false},
		{"Overview", 16, true},
		{"Overview body text.", 11, false},
	}
	lines := p1.Lines()
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines on page 1, got %d", len(want), len(lines))
	}
	for i, w := range want {
		l := lines[i]
		if l.Text() != w.text {
			t.Errorf("line %d: expected %q, got %q", i, w.text, l.Text())
		}
		span := l.Spans[0]
		if span.Size != w.size {
			t.Errorf("line %d: expected size %v, got %v", i, w.size, span.Size)
		}
		if strings.Contains(span.Font, "Bold") != w.bold {
			t.Errorf("line %d: expected bold=%v, font %q", i, w.bold, span.Font)
		}
		if i > 0 && l.BBox.Y0 <= lines[i-1].BBox.Y0 {
			t.Errorf("line %d: expected top-down order, y0=%v after %v", i, l.BBox.Y0, lines[i-1].BBox.Y0)
		}
	}

	// Baseline at y=820 from the top puts the footer deep in the bottom tenth.
	p2 := doc.Page(2).Lines()
	footer := p2[len(p2)-1]
	if footer.Text() != "Page 2" || footer.BBox.Y0 < p1.Height*0.9 {
		t.Errorf("expected footer line near page bottom, got %q at %v", footer.Text(), footer.BBox.Y0)
	}

	hits := doc.Page(2).SearchFor("methods")
	if len(hits) != 2 {
		t.Errorf("expected 2 hits for methods, got %d", len(hits))
	}
}

func TestPDFParser_InvalidInput(t *testing.T) {
	inputs := map[string]string{
		"not a pdf": "hello world",
		"truncated": "%PDF-1.4\n1 0 obj\n<< /Type /Catalog",
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			if _, err := (&PDFParser{}).Parse(strings.NewReader(in), "bad.pdf"); err == nil {
				t.Fatal("expected error for invalid pdf")
			}
		})
	}
}

func TestGroupBlocks(t *testing.T) {
	doc, err := (&PDFParser{}).Parse(bytes.NewReader(buildPDF(t, []pdfText{
		{"", 11, 100, "first line"},
		{"", 11, 113, "second line"},
		{"", 11, 200, "after a gap"},
	})), "blocks.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	blocks := doc.Page(1).Blocks
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	if len(blocks[0].Lines) != 2 || len(blocks[1].Lines) != 1 {
		t.Errorf("unexpected block split: %d and %d lines", len(blocks[0].Lines), len(blocks[1].Lines))
	}
}
