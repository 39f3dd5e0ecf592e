package sentence

import (
	"reflect"
	"testing"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"whitespace", "  \n\t ", nil},
		{"single no punctuation", "Just one clause", []string{"Just one clause"}},
		{
			"mixed terminators",
			"First one. Second one!  Third one?\nFourth",
			[]string{"First one.", "Second one!", "Third one?", "Fourth"},
		},
		{"decimal stays intact", "Pi is 3.14 roughly. Done.", []string{"Pi is 3.14 roughly.", "Done."}},
		{"trailing punctuation", "Ends here.", []string{"Ends here."}},
		{"ellipsis", "Wait... then go.", []string{"Wait...", "then go."}},
		{"unicode text", "Café ouvert. Très bien!", []string{"Café ouvert.", "Très bien!"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Split(%q): expected %q, got %q", tt.in, tt.want, got)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  line one\nline two\n", "line one line two"},
		{"\n\n", ""},
		{"a\n\nb", "a  b"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestWordCount(t *testing.T) {
	if got := WordCount("  one two\tthree\n"); got != 3 {
		t.Errorf("expected 3 words, got %d", got)
	}
}
