package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/dgallion1/docsift/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var paras []paragraph
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			paras = append(paras, headingPara(extractText(node, src), node.Level))
		case *ast.List:
			// One paragraph per item keeps short items from merging into a wall of text.
			for item := node.FirstChild(); item != nil; item = item.NextSibling() {
				paras = append(paras, bodyPara(extractText(item, src)))
			}
		case *ast.ThematicBreak:
		default:
			para := bodyPara(extractText(n, src))
			para.bold = allStrong(n, src)
			paras = append(paras, para)
		}
	}

	return typeset(filename, paras), nil
}

// extractText gets the text content of a goldmark AST node. Leaf blocks
// such as code blocks carry raw lines; everything else is read from its
// inline children so paragraph text is not counted twice.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && n.FirstChild() == nil {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
		return strings.TrimSpace(buf.String())
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
			continue
		}
		if buf.Len() > 0 && c.Type() == ast.TypeBlock {
			buf.WriteByte('\n')
		}
		buf.WriteString(extractText(c, src))
	}
	return strings.TrimSpace(buf.String())
}

// allStrong reports whether a paragraph is entirely **strong** text.
func allStrong(n ast.Node, src []byte) bool {
	if _, ok := n.(*ast.Paragraph); !ok {
		return false
	}
	var found bool
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if e, ok := c.(*ast.Emphasis); ok && e.Level == 2 {
			found = true
			continue
		}
		if t, ok := c.(*ast.Text); ok && strings.TrimSpace(string(t.Value(src))) == "" {
			continue
		}
		return false
	}
	return found
}
