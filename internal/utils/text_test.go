package utils

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateTextUnchangedWhenShort(t *testing.T) {
	assert.Equal(t, "hello", TruncateText("hello", 5))
	assert.Equal(t, "hello", TruncateText("hello", 50))
	assert.Equal(t, "", TruncateText("", 0))
}

func TestTruncateTextWordBoundary(t *testing.T) {
	got := TruncateText("the quick brown fox jumps", 15)
	assert.Equal(t, "the quick...", got)
	assert.LessOrEqual(t, utf8.RuneCountInString(got), 15)

	// cut falls exactly on a space
	assert.Equal(t, "the quick...", TruncateText("the quick brown", 12))
}

func TestTruncateTextSingleLongWord(t *testing.T) {
	got := TruncateText("supercalifragilistic", 10)
	assert.Equal(t, "superca...", got)
}

func TestTruncateTextCountsRunes(t *testing.T) {
	s := "Tiền ăn trưa với đồng nghiệp ở quán phở"
	got := TruncateText(s, 20)
	assert.Equal(t, "Tiền ăn trưa với...", got)
	assert.LessOrEqual(t, utf8.RuneCountInString(got), 20)
}

func TestTruncateTextTinyLimit(t *testing.T) {
	assert.Equal(t, "..", TruncateText("abcdef", 2))
	assert.Equal(t, "...", TruncateText("abcdef", 3))
	assert.Equal(t, "", TruncateText("abcdef", 0))
}

func TestTruncateTextProperty(t *testing.T) {
	inputs := []string{"a b c d e f g h", "một hai ba bốn năm sáu", "x", "lorem ipsum dolor sit amet"}
	for _, s := range inputs {
		for n := 0; n < 30; n++ {
			got := TruncateText(s, n)
			if utf8.RuneCountInString(s) <= n {
				assert.Equal(t, s, got)
				continue
			}
			assert.LessOrEqual(t, utf8.RuneCountInString(got), n, "%q/%d", s, n)
		}
	}
}
