package platforms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractWindowBlob_ParsesAndTreatsUndefinedAsNull(t *testing.T) {
	html := `<html><body><script>window.__INITIAL_STATE__ = {"awemeList":[{"id":1}],"extra":undefined};</script></body></html>`
	blob, err := ExtractWindowBlob(html)
	require.NoError(t, err)
	assert.Nil(t, blob["extra"])
	list, ok := FindFieldRecursive(blob, []string{"awemeList", "aweme_list"}, 0)
	require.True(t, ok)
	assert.Len(t, list, 1)
}

func TestExtractWindowBlob_MissingBlobReturnsParseError(t *testing.T) {
	_, err := ExtractWindowBlob("<html><body>no state here</body></html>")
	require.Error(t, err)
}

func TestFindFieldRecursive_NestedSeveralLevelsDeep(t *testing.T) {
	blob := map[string]interface{}{
		"a": map[string]interface{}{
			"b": map[string]interface{}{
				"notes": []interface{}{"x", "y"},
			},
		},
	}
	list, ok := FindFieldRecursive(blob, []string{"notes"}, 0)
	require.True(t, ok)
	assert.Len(t, list, 2)
}

func TestFindFieldRecursive_NotFoundReturnsFalse(t *testing.T) {
	_, ok := FindFieldRecursive(map[string]interface{}{"x": 1}, []string{"missing"}, 0)
	assert.False(t, ok)
}

func TestParseHumanNumber(t *testing.T) {
	cases := map[string]int64{
		"3.2万": 32000,
		"128+": 128,
		"1.5亿": 150000000,
		"500":  500,
		"":     0,
		"junk": 0,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseHumanNumber(in), "input=%q", in)
	}
}
