package dedup

import (
	"reflect"
	"strings"
	"testing"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "two sentences",
			in:   "This is one. This is two.",
			want: []string{"This is one.", "This is two."},
		},
		{
			name: "decimal not split",
			in:   "Pi is about 3.14 and useful.",
			want: []string{"Pi is about 3.14 and useful."},
		},
		{
			name: "multiple terminators",
			in:   "Wait!! Really? Yes: confirmed.",
			want: []string{"Wait!!", "Really?", "Yes:", "confirmed."},
		},
		{
			name: "newlines collapse to space",
			in:   "Line one.\n\nLine two.",
			want: []string{"Line one.", "Line two."},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SplitSentences(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitSentences(%q) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSplitSentencesSafetySplit(t *testing.T) {
	words := make([]string, 95)
	for i := range words {
		words[i] = "word"
	}
	long := strings.Join(words, " ") + "."

	got := SplitSentences(long)
	if len(got) != 4 {
		t.Fatalf("expected 4 chunks for a 95-word sentence, got %d: %#v", len(got), got)
	}
	if WordTokenCount(got[0]) != 30 || WordTokenCount(got[3]) != 5 {
		t.Errorf("unexpected chunk sizes: %v", got)
	}
}
