package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRelativeTime(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	cases := []struct {
		ago  time.Duration
		want string
	}{
		{30 * time.Second, "30s"},
		{5 * time.Minute, "5m"},
		{3 * time.Hour, "3h"},
		{2 * 24 * time.Hour, "2d"},
		{15 * 24 * time.Hour, "2w"},
		{90 * 24 * time.Hour, "3mo"},
		{800 * 24 * time.Hour, "2y"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, RelativeTime(now.Add(-tc.ago).Unix(), now), tc.ago.String())
	}

	assert.Equal(t, "0s", RelativeTime(now.Add(time.Hour).Unix(), now))
}

func TestDedupeStrings(t *testing.T) {
	assert.Equal(t, []string{"b", "a", "c"}, DedupeStrings([]string{"b", "a", "", "b", "c", "a"}))
	assert.Empty(t, DedupeStrings(nil))
}

func TestTagHelpers(t *testing.T) {
	tags := [][]string{{"d", "abc"}, {"p", "pk1", "", "host"}, {"p", "pk2"}, {"current_participants", "17"}, {"bad"}}
	assert.Equal(t, "abc", GetTagValue(tags, "d"))
	assert.Equal(t, []string{"pk1", "pk2"}, GetTagValues(tags, "p"))
	assert.Equal(t, int64(17), GetTagInt(tags, "current_participants"))
	assert.Equal(t, int64(0), GetTagInt(tags, "missing"))
}

func TestBuildURLCanonicalOrder(t *testing.T) {
	got := BuildURL("/html/emoji-picker", map[string]string{"compact": "1", "term": "cat", "filter": "", "zzz": "x"})
	assert.Equal(t, "/html/emoji-picker?term=cat&compact=1&zzz=x", got)
	assert.Equal(t, "/p", BuildURL("/p", nil))
}

func TestParseBool(t *testing.T) {
	assert.True(t, ParseBool("1"))
	assert.True(t, ParseBool("TRUE"))
	assert.False(t, ParseBool(""))
	assert.False(t, ParseBool("0"))
}

func TestFormatStorage(t *testing.T) {
	assert.Equal(t, "0 B", FormatStorage(0))
	assert.Equal(t, "512 B", FormatStorage(512))
	assert.Equal(t, "1.5 KB", FormatStorage(1536))
	assert.Equal(t, "1 GB", FormatStorage(1<<30))
	assert.Equal(t, "2.5 GB", FormatStorage(5<<29))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "", FormatDate(0))
	assert.Equal(t, "Nov 14, 2023", FormatDate(1_700_000_000))
}
