package aigen_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/blogfusion/aigen"
)

func TestFormatHTML(t *testing.T) {
	t.Parallel()

	t.Run("converts headings by level", func(t *testing.T) {
		t.Parallel()

		html := aigen.FormatHTML("# Title\n## Section\nBody line.")
		assert.Contains(t, html, "<h1>Title</h1>")
		assert.Contains(t, html, "<h2>Section</h2>")
		assert.Contains(t, html, "<p>Body line.</p>")
	})

	t.Run("converts bold text", func(t *testing.T) {
		t.Parallel()

		html := aigen.FormatHTML("This is **important** advice.")
		assert.Contains(t, html, "<strong>important</strong>")
	})

	t.Run("links inline domain references", func(t *testing.T) {
		t.Parallel()

		html := aigen.FormatHTML("Check Notion [www.notion.so] for templates.")
		assert.Contains(t, html, `<a href="https://notion.so"`)
		assert.Contains(t, html, "<i>Notion</i>")
	})

	t.Run("strips horizontal rules", func(t *testing.T) {
		t.Parallel()

		html := aigen.FormatHTML("Above\n---\nBelow")
		assert.NotContains(t, html, "---")
		assert.Contains(t, html, "<p>Above</p>")
		assert.Contains(t, html, "<p>Below</p>")
	})

	t.Run("wraps references section", func(t *testing.T) {
		t.Parallel()

		html := aigen.FormatHTML("Body.\nFor more information visit our docs.")
		assert.Contains(t, html, `<div class="references-section">For more information visit our docs.</div>`)
	})

	t.Run("empty lines produce no paragraphs", func(t *testing.T) {
		t.Parallel()

		html := aigen.FormatHTML("One.\n\n\nTwo.")
		assert.Equal(t, 2, strings.Count(html, "<p>"))
	})
}

func TestEmbedKeywordLinks(t *testing.T) {
	t.Parallel()

	t.Run("links whole-word matches case-insensitively", func(t *testing.T) {
		t.Parallel()

		out := aigen.EmbedKeywordLinks(
			"Productivity matters. productivity wins.",
			[]string{"productivity"},
			[]string{"https://example.com/productivity"},
		)
		assert.Equal(t, 2, strings.Count(out, `<a href="https://example.com/productivity"`))
	})

	t.Run("keyword without url is untouched", func(t *testing.T) {
		t.Parallel()

		content := "Focus on deep work."
		out := aigen.EmbedKeywordLinks(content, []string{"deep work"}, nil)
		assert.Equal(t, content, out)
	})

	t.Run("partial words are not linked", func(t *testing.T) {
		t.Parallel()

		out := aigen.EmbedKeywordLinks("Superproductivity is not a word.", []string{"productivity"}, []string{"https://example.com"})
		assert.NotContains(t, out, "<a href")
	})
}

func TestExtractTitle(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "My Post", aigen.ExtractTitle("# My Post\n\nBody."))
	assert.Equal(t, "Plain first line", aigen.ExtractTitle("Plain first line\nSecond."))
	assert.Equal(t, "", aigen.ExtractTitle(""))
}

func TestPreserveFormatting(t *testing.T) {
	t.Parallel()

	t.Run("restores dropped title", func(t *testing.T) {
		t.Parallel()

		original := "# The Title\n\nPara one.\n\nPara two."
		humanized := "Para one redone. Para two redone."
		out := aigen.PreserveFormatting(original, humanized)
		assert.True(t, strings.HasPrefix(out, "# The Title\n\n"))
	})

	t.Run("keeps existing title", func(t *testing.T) {
		t.Parallel()

		original := "# The Title\n\nBody."
		humanized := "# A New Title\n\nBody redone."
		out := aigen.PreserveFormatting(original, humanized)
		assert.Equal(t, 1, strings.Count(out, "# "))
	})

	t.Run("restores paragraph breaks in collapsed rewrite", func(t *testing.T) {
		t.Parallel()

		original := "First para.\n\nSecond para.\n\nThird para."
		humanized := "First redone. Second redone. Third redone."
		out := aigen.PreserveFormatting(original, humanized)
		assert.GreaterOrEqual(t, len(strings.Split(out, "\n\n")), 3)
	})
}
