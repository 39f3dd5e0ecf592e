// Package outline infers a document title and heading hierarchy from
// typographic cues: font size, weight, and line length.
package outline

import (
	"strings"

	"github.com/dgallion1/docsift/internal/doctree"
)

// UntitledDocument is the title used when page 1 has no text larger than body text.
const UntitledDocument = "Untitled Document"

// Level is a heading level in the outline.
type Level string

const (
	H1 Level = "H1"
	H2 Level = "H2"
	H3 Level = "H3"
)

// StyleKey identifies a text style by rounded font size and boldness.
type StyleKey struct {
	FontSize int
	Bold     bool
}

// Line is one extracted text line with its style and heading score.
type Line struct {
	Text     string
	Page     int // 1-based
	FontSize int
	IsBold   bool
	Score    float64
}

// Style returns the line's style key.
func (l Line) Style() StyleKey {
	return StyleKey{FontSize: l.FontSize, Bold: l.IsBold}
}

// Entry is one heading in the outline.
type Entry struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
	Page  int    `json:"page"`
}

// Outline is the title and ordered headings of a document.
type Outline struct {
	Title   string  `json:"title"`
	Outline []Entry `json:"outline"`
}

// Params are the tunable heuristic constants.
type Params struct {
	// FooterMargin is the fraction of page height below which lines are dropped.
	FooterMargin float64
	// SizeWeight multiplies the point difference between a line and body text.
	SizeWeight float64
	// BoldBonus is added for bold lines when body text is not bold.
	BoldBonus float64
	// ShortLineBonus is added for lines with fewer than ShortLineWords words.
	ShortLineBonus float64
	ShortLineWords int
	// HeadingThreshold is the score a style must exceed to become a heading.
	HeadingThreshold float64
}

// DefaultParams returns the stock heuristic constants.
func DefaultParams() Params {
	return Params{
		FooterMargin:     0.90,
		SizeWeight:       1.5,
		BoldBonus:        5,
		ShortLineBonus:   2,
		ShortLineWords:   10,
		HeadingThreshold: 7,
	}
}

// DefaultBody is the body style assumed for a document with no lines.
var DefaultBody = StyleKey{FontSize: 10, Bold: false}

// Analysis holds every intermediate result of outline inference.
type Analysis struct {
	Lines   []Line
	Body    StyleKey
	Levels  map[StyleKey]Level
	Outline Outline
}

// Analyze runs extraction, body profiling, scoring, classification, and
// outline assembly over doc.
func Analyze(doc *doctree.Document, p Params) *Analysis {
	lines := Extract(doc, p)
	body := BodyStyle(lines)
	Score(lines, body, p)
	levels := Classify(lines, p)
	return &Analysis{
		Lines:   lines,
		Body:    body,
		Levels:  levels,
		Outline: Assemble(lines, body, levels),
	}
}

// Assemble derives the title and builds the outline from scored lines.
// A line that repeats the title on page 1 at the title size is not
// listed as a heading.
func Assemble(lines []Line, body StyleKey, levels map[StyleKey]Level) Outline {
	title, titleSize := Title(lines, body)

	entries := make([]Entry, 0)
	for _, l := range lines {
		level, ok := levels[l.Style()]
		if !ok {
			continue
		}
		if l.Page == 1 && l.FontSize == titleSize && strings.Contains(title, l.Text) {
			continue
		}
		entries = append(entries, Entry{Level: level, Text: l.Text, Page: l.Page})
	}
	return Outline{Title: title, Outline: entries}
}
