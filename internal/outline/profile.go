package outline

import (
	"unicode/utf8"
)

// BodyStyle returns the style carrying the most characters. Ties go to the
// style seen first. With no lines it returns DefaultBody.
func BodyStyle(lines []Line) StyleKey {
	if len(lines) == 0 {
		return DefaultBody
	}

	counts := make(map[StyleKey]int)
	var order []StyleKey
	for _, l := range lines {
		k := l.Style()
		if _, seen := counts[k]; !seen {
			order = append(order, k)
		}
		counts[k] += utf8.RuneCountInString(l.Text)
	}

	best := order[0]
	for _, k := range order[1:] {
		if counts[k] > counts[best] {
			best = k
		}
	}
	return best
}
