package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean_StripsHTMLURLsAndMentions(t *testing.T) {
	in := `<p>看看这个 https://example.com/x @小明 说的 &amp; 内容</p>`
	out := Clean(in)
	assert.NotContains(t, out, "<p>")
	assert.NotContains(t, out, "http")
	assert.NotContains(t, out, "@小明")
	assert.NotContains(t, out, "&amp;")
}

func TestClean_RetainsCJKLatinDigitsAndPunctuation(t *testing.T) {
	out := Clean("芯片2024突破，ABC！")
	assert.Contains(t, out, "芯片")
	assert.Contains(t, out, "2024")
	assert.Contains(t, out, "ABC")
	assert.Contains(t, out, "，")
}

func TestClean_CollapsesWhitespace(t *testing.T) {
	out := Clean("热点    新闻   today")
	assert.NotContains(t, out, "  ")
}

func TestIsStopword_KnownAndUnknown(t *testing.T) {
	assert.True(t, IsStopword("的"))
	assert.True(t, IsStopword("the"))
	assert.False(t, IsStopword("芯片突破"))
}
