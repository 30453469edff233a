package emoji

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nostr-widgets/internal/types"
)

func names(opts []types.EmojiOption) []string {
	out := make([]string, len(opts))
	for i, o := range opts {
		out[i] = o.Name
	}
	return out
}

func TestDefaultCatalogLoads(t *testing.T) {
	c := Default()
	assert.Greater(t, c.Len(), 100)

	defaults := c.Defaults()
	require.NotEmpty(t, defaults)
	assert.Equal(t, "👍", defaults[0].Name)
	assert.Contains(t, defaults[0].Keywords, "like")

	groups := c.Groups()
	assert.Equal(t, DefaultFilter, groups[0].Filter)
	assert.Equal(t, "face", groups[1].Filter)
}

func TestSearchRanksExactBeforePrefix(t *testing.T) {
	c, err := Load([]byte(`
emoji:
  - {name: "A", keywords: [catalog]}
  - {name: "B", keywords: [cat]}
  - {name: "C", keywords: [bobcat]}
  - {name: "D", keywords: [dog]}
`))
	require.NoError(t, err)

	assert.Equal(t, []string{"B", "A", "C"}, names(c.Search("Cat", 0)))
	assert.Equal(t, []string{"B"}, names(c.Search("cat", 1)))
	assert.Empty(t, c.Search("", 0))
}

func TestSearchMatchesGroup(t *testing.T) {
	c := Default()
	res := c.Search("face", 0)
	require.NotEmpty(t, res)
	for _, e := range res[:5] {
		assert.Equal(t, "face", e.Group)
	}
}

func TestSearchFuzzyFallback(t *testing.T) {
	c := Default()
	res := c.Search("rokcet", 0)
	assert.Contains(t, names(res), "🚀")

	assert.Empty(t, c.Search("qx", 0), "short terms do not fuzzy match")
}

func TestSearchByGlyph(t *testing.T) {
	c := Default()
	res := c.Search("🔥", 0)
	require.Len(t, res, 1)
	assert.Equal(t, "🔥", res[0].Name)
}

func TestLoadRejectsDuplicates(t *testing.T) {
	_, err := Load([]byte(`
emoji:
  - {name: "A", keywords: [a]}
  - {name: "A", keywords: [b]}
`))
	assert.Error(t, err)
}
