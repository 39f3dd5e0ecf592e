package outline

import (
	"github.com/dgallion1/docsift/internal/sentence"
)

// Score assigns each line a heading likelihood in place. Only a line whose
// font is larger than the line after it can score. The last line scores 0.
func Score(lines []Line, body StyleKey, p Params) {
	for i := range lines {
		lines[i].Score = 0
		if i+1 >= len(lines) || lines[i].FontSize <= lines[i+1].FontSize {
			continue
		}
		lines[i].Score = lineScore(lines[i], body, p)
	}
}

func lineScore(l Line, body StyleKey, p Params) float64 {
	var s float64
	if l.FontSize > body.FontSize {
		s += float64(l.FontSize-body.FontSize) * p.SizeWeight
	}
	if l.IsBold && !body.Bold {
		s += p.BoldBonus
	}
	if sentence.WordCount(l.Text) < p.ShortLineWords {
		s += p.ShortLineBonus
	}
	return s
}
