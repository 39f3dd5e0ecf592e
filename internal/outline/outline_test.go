package outline

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/dgallion1/docsift/internal/doctree"
)

type textLine struct {
	text string
	size float64
	font string
	y    float64
}

func body(text string, y float64) textLine { return textLine{text, 11, "Helvetica", y} }
func bold(text string, size, y float64) textLine {
	return textLine{text, size, "Helvetica-Bold", y}
}

func makeDoc(pages ...[]textLine) *doctree.Document {
	doc := &doctree.Document{Name: "test.pdf"}
	for i, lines := range pages {
		page := &doctree.Page{Number: i + 1, Width: 595, Height: 842}
		for _, tl := range lines {
			box := doctree.Rect{X0: 72, Y0: tl.y, X1: 500, Y1: tl.y + tl.size}
			page.Blocks = append(page.Blocks, doctree.Block{
				BBox: box,
				Lines: []doctree.Line{{
					BBox:  box,
					Spans: []doctree.Span{{Text: tl.text, Font: tl.font, Size: tl.size, BBox: box}},
				}},
			})
		}
		doc.Pages = append(doc.Pages, page)
	}
	return doc
}

const filler = "This paragraph is ordinary body text that runs long enough to dominate the character count."

func TestAnalyze_TitleOnlyDocument(t *testing.T) {
	doc := makeDoc([]textLine{
		bold("Chapter 1", 24, 72),
		body(filler, 110),
		body(filler, 124),
	})

	a := Analyze(doc, DefaultParams())
	if a.Outline.Title != "Chapter 1" {
		t.Errorf("expected title %q, got %q", "Chapter 1", a.Outline.Title)
	}
	if len(a.Outline.Outline) != 0 {
		t.Errorf("expected empty outline, got %+v", a.Outline.Outline)
	}
	if a.Levels[StyleKey{24, true}] != H1 {
		t.Errorf("expected 24pt bold to classify as H1, got %+v", a.Levels)
	}
}

func TestAnalyze_EmptyDocument(t *testing.T) {
	for name, doc := range map[string]*doctree.Document{
		"no pages":    {Name: "empty.pdf"},
		"blank pages": makeDoc(nil, nil),
		"whitespace":  makeDoc([]textLine{body("   ", 100)}),
	} {
		t.Run(name, func(t *testing.T) {
			a := Analyze(doc, DefaultParams())
			if a.Outline.Title != UntitledDocument {
				t.Errorf("expected %q, got %q", UntitledDocument, a.Outline.Title)
			}
			if a.Body != DefaultBody {
				t.Errorf("expected default body %+v, got %+v", DefaultBody, a.Body)
			}
			data, err := json.Marshal(a.Outline)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if !strings.Contains(string(data), `"outline":[]`) {
				t.Errorf("expected empty outline array in %s", data)
			}
		})
	}
}

func TestAnalyze_MultiLevel(t *testing.T) {
	doc := makeDoc(
		[]textLine{
			bold("Annual Report", 24, 72),
			body(filler, 110),
			bold("Overview", 16, 140),
			body(filler, 170),
			body(filler, 184),
		},
		[]textLine{
			bold("Details", 14, 72),
			body(filler, 100),
			body(filler, 114),
			body("Page 2", 800), // footer
		},
	)

	a := Analyze(doc, DefaultParams())

	if a.Body != (StyleKey{11, false}) {
		t.Fatalf("expected 11pt regular body, got %+v", a.Body)
	}
	if a.Outline.Title != "Annual Report" {
		t.Errorf("expected title %q, got %q", "Annual Report", a.Outline.Title)
	}
	want := []Entry{
		{Level: H2, Text: "Overview", Page: 1},
		{Level: H3, Text: "Details", Page: 2},
	}
	if len(a.Outline.Outline) != len(want) {
		t.Fatalf("expected %d entries, got %+v", len(want), a.Outline.Outline)
	}
	for i, w := range want {
		if a.Outline.Outline[i] != w {
			t.Errorf("entry[%d]: expected %+v, got %+v", i, w, a.Outline.Outline[i])
		}
	}
	for _, l := range a.Lines {
		if l.Text == "Page 2" {
			t.Error("footer line should have been excluded")
		}
	}
}

func TestAnalyze_OutlineIsSubsetOfLines(t *testing.T) {
	doc := makeDoc([]textLine{
		bold("Guide", 20, 72),
		body(filler, 100),
		bold("Install", 15, 130),
		body(filler, 160),
		bold("Configure", 15, 190),
		body(filler, 220),
		bold("Appendix", 13, 250),
		body(filler, 280),
	})
	a := Analyze(doc, DefaultParams())

	h1, h2 := 0, 0
	for _, lvl := range a.Levels {
		switch lvl {
		case H1:
			h1++
		case H2:
			h2++
		}
	}
	if h1 > 1 || h2 > 1 {
		t.Errorf("expected at most one H1 and one H2 style, got H1=%d H2=%d", h1, h2)
	}

	for _, e := range a.Outline.Outline {
		var found bool
		for _, l := range a.Lines {
			if l.Text == e.Text && l.Page == e.Page {
				found = true
				if a.Levels[l.Style()] != e.Level {
					t.Errorf("entry %q level %s does not match style level %s", e.Text, e.Level, a.Levels[l.Style()])
				}
			}
		}
		if !found {
			t.Errorf("entry %q not among extracted lines", e.Text)
		}
	}
}

func TestExtract_FirstSpanStyle(t *testing.T) {
	box := doctree.Rect{X0: 72, Y0: 100, X1: 300, Y1: 112}
	doc := &doctree.Document{Pages: []*doctree.Page{{
		Number: 1, Width: 595, Height: 842,
		Blocks: []doctree.Block{{Lines: []doctree.Line{{
			BBox: box,
			Spans: []doctree.Span{
				{Text: "  Lead-in ", Font: "Times-BoldItalic", Size: 12.4, BBox: box},
				{Text: "and the rest", Font: "Times-Roman", Size: 10, BBox: box},
			},
		}}}},
	}}}

	lines := Extract(doc, DefaultParams())
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	l := lines[0]
	if l.Text != "Lead-in and the rest" {
		t.Errorf("expected trimmed concatenated text, got %q", l.Text)
	}
	if l.FontSize != 12 || !l.IsBold {
		t.Errorf("expected 12pt bold from first span, got %dpt bold=%v", l.FontSize, l.IsBold)
	}
}

func TestRoundSize(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{11.4, 11},
		{11.6, 12},
		{12.5, 12},
		{13.5, 14},
	}
	for _, tt := range tests {
		if got := roundSize(tt.in); got != tt.want {
			t.Errorf("roundSize(%v): expected %d, got %d", tt.in, tt.want, got)
		}
	}
}

func TestBodyStyle(t *testing.T) {
	lines := []Line{
		{Text: "Heading", FontSize: 18, IsBold: true},
		{Text: "short", FontSize: 11},
		{Text: "longer body text", FontSize: 11},
		{Text: "aside text here!", FontSize: 9},
	}
	if got := BodyStyle(lines); got != (StyleKey{11, false}) {
		t.Errorf("expected 11pt regular, got %+v", got)
	}

	tie := []Line{{Text: "abcd", FontSize: 12}, {Text: "wxyz", FontSize: 9}}
	if got := BodyStyle(tie); got != (StyleKey{12, false}) {
		t.Errorf("expected first seen style on tie, got %+v", got)
	}
}

func TestScore(t *testing.T) {
	body := StyleKey{11, false}
	lines := []Line{
		{Text: "Big Bold Heading", FontSize: 18, IsBold: true},
		{Text: "Regular heading", FontSize: 14},
		{Text: "one two three four five six seven eight nine ten eleven", FontSize: 13},
		{Text: "Same size follows", FontSize: 11, IsBold: true},
		{Text: "body", FontSize: 11},
		{Text: "Last line big", FontSize: 30, IsBold: true},
	}
	Score(lines, body, DefaultParams())

	want := []float64{
		7*1.5 + 5 + 2,
		3*1.5 + 2,
		2 * 1.5,
		0,
		0,
		0,
	}
	for i, w := range want {
		if lines[i].Score != w {
			t.Errorf("line %d (%q): expected score %v, got %v", i, lines[i].Text, w, lines[i].Score)
		}
	}
}

func TestScore_BoldBodySuppressesBonus(t *testing.T) {
	lines := []Line{
		{Text: "Heading", FontSize: 12, IsBold: true},
		{Text: "body", FontSize: 11, IsBold: true},
	}
	Score(lines, StyleKey{11, true}, DefaultParams())
	if lines[0].Score != 1.5+2 {
		t.Errorf("expected no bold bonus, got %v", lines[0].Score)
	}
}

func TestClassify(t *testing.T) {
	p := DefaultParams()
	lines := []Line{
		{Text: "A", FontSize: 14, IsBold: true, Score: 12},
		{Text: "B", FontSize: 20, IsBold: true, Score: 20},
		{Text: "C", FontSize: 12, IsBold: true, Score: 8},
		{Text: "D", FontSize: 16, Score: 7}, // at threshold, not above
		{Text: "E", FontSize: 14, IsBold: true, Score: 0},
		{Text: "F", FontSize: 12, Score: 9},
	}
	levels := Classify(lines, p)

	want := map[StyleKey]Level{
		{20, true}:  H1,
		{14, true}:  H2,
		{12, true}:  H3,
		{12, false}: H3,
	}
	if len(levels) != len(want) {
		t.Fatalf("expected %d styles, got %+v", len(want), levels)
	}
	for k, w := range want {
		if levels[k] != w {
			t.Errorf("style %+v: expected %s, got %s", k, w, levels[k])
		}
	}
}

func TestTitle(t *testing.T) {
	body := StyleKey{11, false}

	lines := []Line{
		{Text: "Quarterly", Page: 1, FontSize: 22},
		{Text: "Results", Page: 1, FontSize: 22},
		{Text: "Bigger on page two", Page: 2, FontSize: 30},
	}
	title, size := Title(lines, body)
	if title != "Quarterly Results" || size != 22 {
		t.Errorf("expected %q at 22pt, got %q at %d", "Quarterly Results", title, size)
	}

	flat := []Line{{Text: "just body", Page: 1, FontSize: 11}}
	if title, _ := Title(flat, body); title != UntitledDocument {
		t.Errorf("expected %q, got %q", UntitledDocument, title)
	}

	if title, size := Title([]Line{{Text: "x", Page: 2, FontSize: 40}}, body); title != UntitledDocument || size != 0 {
		t.Errorf("expected untitled with no page 1 lines, got %q at %d", title, size)
	}
}
