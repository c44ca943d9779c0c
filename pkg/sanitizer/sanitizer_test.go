package sanitizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/blogfusion/pkg/sanitizer"
)

func TestTrimToLower(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "premium", sanitizer.TrimToLower("  Premium "))
	assert.Equal(t, "basic", sanitizer.TrimToLower("BASIC"))
	assert.Equal(t, "", sanitizer.TrimToLower("   "))
}

func TestStripHTML(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Hello world", sanitizer.StripHTML("<p>Hello <b>world</b></p>"))
	assert.Equal(t, "a < b", sanitizer.StripHTML("a &lt; b"))
	assert.Equal(t, "", sanitizer.StripHTML("<p></p>"))
}

func TestCleanHTMLContent(t *testing.T) {
	t.Parallel()

	t.Run("removes script tags", func(t *testing.T) {
		t.Parallel()
		in := `<p>ok</p><script>alert(1)</script>`
		assert.Equal(t, "<p>ok</p>", sanitizer.CleanHTMLContent(in))
	})

	t.Run("removes event handlers", func(t *testing.T) {
		t.Parallel()
		in := `<img src="x.png" onerror="alert(1)">`
		out := sanitizer.CleanHTMLContent(in)
		assert.NotContains(t, out, "onerror")
		assert.Contains(t, out, "x.png")
	})

	t.Run("removes javascript protocol", func(t *testing.T) {
		t.Parallel()
		in := `<a href="javascript:alert(1)">x</a>`
		assert.NotContains(t, sanitizer.CleanHTMLContent(in), "javascript:")
	})

	t.Run("keeps ordinary markup", func(t *testing.T) {
		t.Parallel()
		in := `<h1>Title</h1><p>Body with <a href="https://example.com">link</a></p>`
		assert.Equal(t, in, sanitizer.CleanHTMLContent(in))
	})
}

func TestRemoveExtraWhitespace(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a b c", sanitizer.RemoveExtraWhitespace("  a \n b\t\tc  "))
}
