// Package section cuts a document into the text spans that sit between
// consecutive outline headings.
package section

import (
	"log/slog"
	"strings"

	"github.com/dgallion1/docsift/internal/doctree"
	"github.com/dgallion1/docsift/internal/outline"
	"github.com/dgallion1/docsift/internal/sentence"
)

// EndOfDocument is the text of the synthetic boundary that closes the last section.
const EndOfDocument = "End of Document"

// Section is the body text under one heading.
type Section struct {
	Document string        `json:"document"`
	Title    string        `json:"section_title"`
	Level    outline.Level `json:"level"`
	Page     int           `json:"page_number"`
	Content  string        `json:"content"`
}

// Segment returns one section per outline entry, in outline order. Content
// runs from the bottom of the heading to the top of the next heading. Pages
// strictly between the two are included whole. When a heading cannot be
// found on its page that page contributes nothing.
func Segment(doc *doctree.Document, entries []outline.Entry, logger *slog.Logger) []Section {
	if logger == nil {
		logger = slog.Default()
	}
	if len(entries) == 0 {
		return nil
	}

	bounds := make([]outline.Entry, len(entries), len(entries)+1)
	copy(bounds, entries)
	bounds = append(bounds, outline.Entry{Text: EndOfDocument, Page: doc.PageCount()})

	sections := make([]Section, 0, len(entries))
	for i, cur := range entries {
		next := bounds[i+1]
		last := i == len(entries)-1

		var content string
		if cur.Page == next.Page {
			content = samePage(doc.Page(cur.Page), cur, next, last)
		} else {
			content = spanPages(doc, cur, next, last)
		}

		content = sentence.Normalize(content)
		if content == "" {
			logger.Debug("empty section", "document", doc.Name, "heading", cur.Text, "page", cur.Page)
		}
		sections = append(sections, Section{
			Document: doc.Name,
			Title:    cur.Text,
			Level:    cur.Level,
			Page:     cur.Page,
			Content:  content,
		})
	}
	return sections
}

func samePage(page *doctree.Page, cur, next outline.Entry, last bool) string {
	if page == nil {
		return ""
	}
	start, ok := page.Locate(cur.Text)
	if !ok {
		return ""
	}
	bottom, ok := upperEdge(page, next, last)
	if !ok {
		return ""
	}
	return page.TextIn(doctree.Rect{X0: 0, Y0: start.Y1, X1: page.Width, Y1: bottom})
}

func spanPages(doc *doctree.Document, cur, next outline.Entry, last bool) string {
	var b strings.Builder
	for n := cur.Page; n <= next.Page; n++ {
		page := doc.Page(n)
		if page == nil {
			continue
		}
		switch n {
		case cur.Page:
			if start, ok := page.Locate(cur.Text); ok {
				b.WriteString(page.TextIn(doctree.Rect{X0: 0, Y0: start.Y1, X1: page.Width, Y1: page.Height}))
			}
		case next.Page:
			if bottom, ok := upperEdge(page, next, last); ok {
				b.WriteString(page.TextIn(doctree.Rect{X0: 0, Y0: 0, X1: page.Width, Y1: bottom}))
			}
		default:
			b.WriteString(page.Text())
		}
	}
	return b.String()
}

// upperEdge locates the top of the next heading. The end-of-document
// boundary is the bottom of the last page.
func upperEdge(page *doctree.Page, next outline.Entry, last bool) (float64, bool) {
	if last {
		return page.Height, true
	}
	hit, ok := page.Locate(next.Text)
	if !ok {
		return 0, false
	}
	return hit.Y0, true
}
