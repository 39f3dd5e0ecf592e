package parser

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dgallion1/docsift/internal/doctree"
	"github.com/fumiama/go-docx"
)

// DOCXParser handles .docx files. Paragraph style comes from the first run
// that carries text; heading styles fill in whatever the run leaves unset.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read docx: %w", err)
	}

	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	var paras []paragraph
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := docxParagraphText(para)
		if text == "" {
			continue
		}

		var out paragraph
		switch level := docxHeadingLevel(para); {
		case level < 0:
			out = paragraph{text: text, size: titleSize, bold: true}
		case level > 0:
			out = headingPara(text, level)
		default:
			out = bodyPara(text)
		}
		if rp := firstRunProperties(para); rp != nil {
			if size, ok := docxRunSize(rp); ok {
				out.size = size
			}
			if rp.Bold != nil {
				out.bold = true
			}
		}
		paras = append(paras, out)
	}

	return typeset(filename, paras), nil
}

// docxHeadingLevel returns 1-6 for heading styles, -1 for the Title style,
// and 0 otherwise.
func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	if style == "title" {
		return -1
	}
	if n, ok := strings.CutPrefix(style, "heading"); ok {
		if level, err := strconv.Atoi(n); err == nil && level >= 1 && level <= 6 {
			return level
		}
	}
	return 0
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		buf.WriteString(docxRunText(run))
	}
	return strings.TrimSpace(buf.String())
}

func docxRunText(run *docx.Run) string {
	var buf strings.Builder
	for _, rc := range run.Children {
		if t, ok := rc.(*docx.Text); ok {
			buf.WriteString(t.Text)
		}
	}
	return buf.String()
}

func firstRunProperties(para *docx.Paragraph) *docx.RunProperties {
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok || strings.TrimSpace(docxRunText(run)) == "" {
			continue
		}
		return run.RunProperties
	}
	return nil
}

// docxRunSize converts w:sz, which is in half-points.
func docxRunSize(rp *docx.RunProperties) (float64, bool) {
	if rp.Size == nil {
		return 0, false
	}
	half, err := strconv.ParseFloat(rp.Size.Val, 64)
	if err != nil || half <= 0 {
		return 0, false
	}
	return half / 2, true
}
