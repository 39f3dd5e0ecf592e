package section

import (
	"testing"

	"github.com/dgallion1/docsift/internal/doctree"
	"github.com/dgallion1/docsift/internal/outline"
)

type row struct {
	text string
	y    float64
	size float64
}

func page(n int, rows ...row) *doctree.Page {
	p := &doctree.Page{Number: n, Width: 595, Height: 842}
	for _, r := range rows {
		size := r.size
		if size == 0 {
			size = 11
		}
		box := doctree.Rect{X0: 72, Y0: r.y, X1: 520, Y1: r.y + size}
		p.Blocks = append(p.Blocks, doctree.Block{BBox: box, Lines: []doctree.Line{{
			BBox:  box,
			Spans: []doctree.Span{{Text: r.text, Font: "Helvetica", Size: size, BBox: box}},
		}}})
	}
	return p
}

func testDoc() *doctree.Document {
	return &doctree.Document{
		Name: "guide.pdf",
		Pages: []*doctree.Page{
			page(1,
				row{"Intro", 72, 16},
				row{"Intro body one.", 100, 0},
				row{"Intro body two.", 114, 0},
				row{"Scope", 140, 16},
				row{"Scope starts here.", 170, 0},
			),
			page(2,
				row{"Scope continues.", 72, 0},
				row{"Scope ends.", 86, 0},
				row{"Results", 120, 16},
				row{"Results body.", 150, 0},
			),
			page(3,
				row{"Results appendix.", 72, 0},
			),
		},
	}
}

func TestSegment(t *testing.T) {
	entries := []outline.Entry{
		{Level: outline.H1, Text: "Intro", Page: 1},
		{Level: outline.H2, Text: "Scope", Page: 1},
		{Level: outline.H2, Text: "Results", Page: 2},
	}
	got := Segment(testDoc(), entries, nil)

	want := []Section{
		{Document: "guide.pdf", Title: "Intro", Level: outline.H1, Page: 1, Content: "Intro body one. Intro body two."},
		{Document: "guide.pdf", Title: "Scope", Level: outline.H2, Page: 1, Content: "Scope starts here. Scope continues. Scope ends."},
		{Document: "guide.pdf", Title: "Results", Level: outline.H2, Page: 2, Content: "Results body. Results appendix."},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d sections, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("section[%d]:\n expected %+v\n got      %+v", i, want[i], got[i])
		}
	}
}

func TestSegment_LastSectionSamePage(t *testing.T) {
	doc := &doctree.Document{Name: "one.pdf", Pages: []*doctree.Page{
		page(1,
			row{"Only", 72, 16},
			row{"Everything below the heading.", 100, 0},
			row{"Down to the end.", 114, 0},
		),
	}}
	got := Segment(doc, []outline.Entry{{Level: outline.H1, Text: "Only", Page: 1}}, nil)
	if len(got) != 1 {
		t.Fatalf("expected 1 section, got %d", len(got))
	}
	if got[0].Content != "Everything below the heading. Down to the end." {
		t.Errorf("unexpected content %q", got[0].Content)
	}
}

func TestSegment_MissingHeadingYieldsEmpty(t *testing.T) {
	entries := []outline.Entry{
		{Level: outline.H1, Text: "Not On Page", Page: 1},
		{Level: outline.H2, Text: "Scope", Page: 1},
	}
	got := Segment(testDoc(), entries, nil)
	if len(got) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(got))
	}
	if got[0].Content != "" {
		t.Errorf("expected empty content for unlocated heading, got %q", got[0].Content)
	}
	if got[1].Content == "" {
		t.Error("expected the located section to keep its content")
	}
}

func TestSegment_MiddlePagesIncludedWhole(t *testing.T) {
	doc := &doctree.Document{Name: "long.pdf", Pages: []*doctree.Page{
		page(1,
			row{"Overview", 72, 16},
			row{"Overview body.", 100, 0},
			row{"Footer 1", 800, 0},
		),
		page(2,
			row{"Middle page body one.", 72, 0},
			row{"Middle page body two.", 86, 0},
			row{"Footer 2", 800, 0},
		),
		page(3,
			row{"Still the overview.", 72, 0},
			row{"Footer 3", 800, 0},
		),
		page(4,
			row{"Before methods.", 72, 0},
			row{"Methods", 100, 16},
			row{"Methods body text.", 130, 0},
			row{"Last line.", 144, 0},
		),
	}}
	entries := []outline.Entry{
		{Level: outline.H1, Text: "Overview", Page: 1},
		{Level: outline.H1, Text: "Methods", Page: 4},
	}
	got := Segment(doc, entries, nil)
	if len(got) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(got))
	}

	wantOverview := "Overview body. Footer 1 Middle page body one. Middle page body two. Footer 2 Still the overview. Footer 3 Before methods."
	if got[0].Content != wantOverview {
		t.Errorf("overview:\n expected %q\n got      %q", wantOverview, got[0].Content)
	}
	if want := "Methods body text. Last line."; got[1].Content != want {
		t.Errorf("methods: expected %q, got %q", want, got[1].Content)
	}
}

func TestSegment_NoEntries(t *testing.T) {
	if got := Segment(testDoc(), nil, nil); len(got) != 0 {
		t.Errorf("expected no sections, got %d", len(got))
	}
}
