package parser

import (
	"strings"

	"github.com/dgallion1/docsift/internal/doctree"
)

// Structured formats carry no geometry, so their paragraphs are set onto
// virtual A4 pages with fixed type sizes. Headings come out larger and
// bolder than body text, which is all the outline heuristics look at.
const (
	pageWidth    = 595.0
	pageHeight   = 842.0
	marginLeft   = 72.0
	marginTop    = 72.0
	bottomLimit  = pageHeight - 110 // keeps text clear of the footer zone
	lineSpacing  = 1.2
	paraSpacing  = 0.5
	avgCharWidth = 0.5

	bodySize  = 11.0
	titleSize = 28.0

	regularFont = "Helvetica"
	boldFont    = "Helvetica-Bold"
)

// headingSizes maps heading levels 1-6 to point sizes.
var headingSizes = [...]float64{0, 24, 18, 15, 13, 13, 13}

// paragraph is one styled unit of text awaiting layout.
type paragraph struct {
	text string
	size float64
	bold bool
}

func bodyPara(text string) paragraph { return paragraph{text: text, size: bodySize} }

func headingPara(text string, level int) paragraph {
	if level < 1 {
		level = 1
	}
	if level >= len(headingSizes) {
		level = len(headingSizes) - 1
	}
	return paragraph{text: text, size: headingSizes[level], bold: true}
}

// typesetter lays paragraphs out top to bottom, wrapping words to the
// text width and breaking pages at bottomLimit.
type typesetter struct {
	doc  *doctree.Document
	page *doctree.Page
	y    float64
}

func typeset(name string, paras []paragraph) *doctree.Document {
	ts := &typesetter{doc: &doctree.Document{Name: name}}
	for _, p := range paras {
		ts.add(p)
	}
	if len(ts.doc.Pages) == 0 {
		ts.newPage()
	}
	return ts.doc
}

func (ts *typesetter) newPage() {
	ts.page = &doctree.Page{
		Number: len(ts.doc.Pages) + 1,
		Width:  pageWidth,
		Height: pageHeight,
	}
	ts.doc.Pages = append(ts.doc.Pages, ts.page)
	ts.y = marginTop
}

func (ts *typesetter) add(p paragraph) {
	words := strings.Fields(p.text)
	if len(words) == 0 {
		return
	}
	if ts.page == nil {
		ts.newPage()
	}

	font := regularFont
	if p.bold {
		font = boldFont
	}
	lineHeight := p.size * lineSpacing
	maxChars := int((pageWidth - 2*marginLeft) / (p.size * avgCharWidth))

	var blk doctree.Block
	for _, text := range wrap(words, maxChars) {
		if ts.y+lineHeight > bottomLimit {
			ts.flush(&blk)
			ts.newPage()
		}
		box := doctree.Rect{
			X0: marginLeft,
			Y0: ts.y,
			X1: marginLeft + float64(len([]rune(text)))*p.size*avgCharWidth,
			Y1: ts.y + p.size,
		}
		blk.Lines = append(blk.Lines, doctree.Line{
			Spans: []doctree.Span{{Text: text, Font: font, Size: p.size, BBox: box}},
			BBox:  box,
		})
		blk.BBox = blk.BBox.Union(box)
		ts.y += lineHeight
	}
	ts.flush(&blk)
	ts.y += p.size * paraSpacing
}

func (ts *typesetter) flush(blk *doctree.Block) {
	if len(blk.Lines) > 0 {
		ts.page.Blocks = append(ts.page.Blocks, *blk)
	}
	*blk = doctree.Block{}
}

// wrap greedily packs words into lines of at most maxChars runes. A word
// longer than maxChars gets a line of its own.
func wrap(words []string, maxChars int) []string {
	if maxChars < 1 {
		maxChars = 1
	}
	var lines []string
	var cur strings.Builder
	curLen := 0
	for _, w := range words {
		wl := len([]rune(w))
		if curLen > 0 && curLen+1+wl > maxChars {
			lines = append(lines, cur.String())
			cur.Reset()
			curLen = 0
		}
		if curLen > 0 {
			cur.WriteByte(' ')
			curLen++
		}
		cur.WriteString(w)
		curLen += wl
	}
	if curLen > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}
