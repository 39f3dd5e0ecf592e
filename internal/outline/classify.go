package outline

import (
	"sort"
	"strings"
)

// Classify maps heading styles to levels. A style qualifies when any of its
// lines scores above the threshold. Qualifying styles are ranked by font
// size, largest first: the first is H1, the second H2, and the rest H3.
func Classify(lines []Line, p Params) map[StyleKey]Level {
	seen := make(map[StyleKey]bool)
	var styles []StyleKey
	for _, l := range lines {
		if l.Score <= p.HeadingThreshold {
			continue
		}
		k := l.Style()
		if !seen[k] {
			seen[k] = true
			styles = append(styles, k)
		}
	}

	sort.SliceStable(styles, func(i, j int) bool {
		return styles[i].FontSize > styles[j].FontSize
	})

	levels := make(map[StyleKey]Level, len(styles))
	for i, k := range styles {
		switch i {
		case 0:
			levels[k] = H1
		case 1:
			levels[k] = H2
		default:
			levels[k] = H3
		}
	}
	return levels
}

// Title joins the page 1 lines set in the largest page 1 font. It returns
// UntitledDocument when that font is not larger than body text. The second
// result is the largest page 1 font size, or 0 when page 1 has no lines.
func Title(lines []Line, body StyleKey) (string, int) {
	maxSize := 0
	var found bool
	for _, l := range lines {
		if l.Page != 1 {
			continue
		}
		if !found || l.FontSize > maxSize {
			maxSize = l.FontSize
			found = true
		}
	}
	if !found || maxSize <= body.FontSize {
		return UntitledDocument, maxSize
	}

	var parts []string
	for _, l := range lines {
		if l.Page == 1 && l.FontSize == maxSize {
			parts = append(parts, l.Text)
		}
	}
	return strings.Join(parts, " "), maxSize
}
