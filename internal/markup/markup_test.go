package markup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdown(t *testing.T) {
	out := string(Render("**bold** and https://example.com"))
	assert.Contains(t, out, "<strong>bold</strong>")
	assert.Contains(t, out, `href="https://example.com"`)
	assert.Contains(t, out, `rel="nofollow`)
}

func TestRenderStripsScripts(t *testing.T) {
	out := string(Render("hi <script>alert(1)</script><a href=\"javascript:alert(1)\">x</a>"))
	assert.NotContains(t, out, "<script")
	assert.NotContains(t, strings.ToLower(out), "javascript:")
}

func TestRenderEmpty(t *testing.T) {
	assert.Empty(t, Render("   "))
}

func TestPlain(t *testing.T) {
	assert.Equal(t, "Friday jam", Plain("<b>Friday</b> jam"))
}
