package doctree

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Rect is an axis-aligned box in page space. The origin is the top-left
// corner of the page and Y grows downward.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// MidY is the vertical center of the box.
func (r Rect) MidY() float64 { return (r.Y0 + r.Y1) / 2 }

// Union returns the smallest box covering r and o. A zero r is treated as empty.
func (r Rect) Union(o Rect) Rect {
	if r == (Rect{}) {
		return o
	}
	return Rect{
		X0: min(r.X0, o.X0),
		Y0: min(r.Y0, o.Y0),
		X1: max(r.X1, o.X1),
		Y1: max(r.Y1, o.Y1),
	}
}

// Span is a run of text sharing one font and size.
type Span struct {
	Text string
	Font string  // Font name as reported by the source, e.g. "Helvetica-Bold"
	Size float64 // Font size in points
	BBox Rect
}

// Line is a visual line of text, made of one or more spans.
type Line struct {
	Spans []Span
	BBox  Rect
}

// Text concatenates the span texts.
func (l Line) Text() string {
	if len(l.Spans) == 1 {
		return l.Spans[0].Text
	}
	var b strings.Builder
	for _, s := range l.Spans {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Block groups adjacent lines, roughly a paragraph.
type Block struct {
	Lines []Line
	BBox  Rect
}

// Page is one page of a document with its laid-out text.
type Page struct {
	Number int // 1-based
	Width  float64
	Height float64
	Blocks []Block
}

// Document is the root of a parsed document.
type Document struct {
	Name  string // Source filename
	Pages []*Page
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int { return len(d.Pages) }

// Page returns the 1-based page n, or nil when n is out of range.
func (d *Document) Page(n int) *Page {
	if n < 1 || n > len(d.Pages) {
		return nil
	}
	return d.Pages[n-1]
}

// Lines returns every line on the page in reading order.
func (p *Page) Lines() []Line {
	var out []Line
	for _, b := range p.Blocks {
		out = append(out, b.Lines...)
	}
	return out
}

// SearchFor returns the boxes of lines whose text contains needle.
// Matching is case-insensitive after NFKC normalization and whitespace folding.
func (p *Page) SearchFor(needle string) []Rect {
	want := fold(needle)
	if want == "" {
		return nil
	}
	var hits []Rect
	for _, b := range p.Blocks {
		for _, l := range b.Lines {
			if strings.Contains(fold(l.Text()), want) {
				hits = append(hits, l.BBox)
			}
		}
	}
	return hits
}

// Locate returns the box of the line that best matches heading: a line
// whose folded text equals it, otherwise the first SearchFor hit.
func (p *Page) Locate(heading string) (Rect, bool) {
	want := fold(heading)
	if want == "" {
		return Rect{}, false
	}
	for _, b := range p.Blocks {
		for _, l := range b.Lines {
			if fold(l.Text()) == want {
				return l.BBox, true
			}
		}
	}
	if hits := p.SearchFor(heading); len(hits) > 0 {
		return hits[0], true
	}
	return Rect{}, false
}

// TextIn returns the text of lines whose vertical center lies strictly
// inside clip and which overlap it horizontally. Each line ends with a newline.
func (p *Page) TextIn(clip Rect) string {
	var b strings.Builder
	for _, blk := range p.Blocks {
		for _, l := range blk.Lines {
			mid := l.BBox.MidY()
			if mid <= clip.Y0 || mid >= clip.Y1 {
				continue
			}
			if l.BBox.X1 < clip.X0 || l.BBox.X0 > clip.X1 {
				continue
			}
			b.WriteString(l.Text())
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Text returns the full text of the page.
func (p *Page) Text() string {
	var b strings.Builder
	for _, blk := range p.Blocks {
		for _, l := range blk.Lines {
			b.WriteString(l.Text())
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func fold(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(norm.NFKC.String(s)), " "))
}
