package aigen

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// "Example [www.example.com]" turns the preceding word into a link.
	inlineRefPattern = regexp.MustCompile(`([\w.-]+) \[(?:https?://)?(?:www\.)?([\w.-]+\.[a-z]{2,})\]`)
	horizontalRule   = regexp.MustCompile(`(?m)^-{3,}`)
	boldPattern      = regexp.MustCompile(`\*\*(.*?)\*\*`)
	headingPattern   = regexp.MustCompile(`(?m)^(#{1,6})\s+(.*)$`)
	referencesLine   = regexp.MustCompile(`For more information[^\n]*`)
)

// FormatHTML converts a markdown draft into the HTML stored for
// published posts: headings, bold text, inline domain references, a
// references section, and one paragraph per non-empty line.
func FormatHTML(content string) string {
	formatted := inlineRefPattern.ReplaceAllString(content,
		`<a href="https://$2" target="_blank" rel="noopener noreferrer"><b><i>$1</i></b></a>`)

	formatted = horizontalRule.ReplaceAllString(formatted, "")
	formatted = boldPattern.ReplaceAllString(formatted, "<strong>$1</strong>")

	formatted = headingPattern.ReplaceAllStringFunc(formatted, func(match string) string {
		groups := headingPattern.FindStringSubmatch(match)
		level := len(groups[1])
		return fmt.Sprintf("<h%d>%s</h%d>", level, groups[2], level)
	})

	formatted = referencesLine.ReplaceAllStringFunc(formatted, func(match string) string {
		return `<div class="references-section">` + strings.ReplaceAll(match, "---", "") + `</div>`
	})

	var b strings.Builder
	for _, line := range strings.Split(formatted, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		// Block-level output stands on its own.
		if strings.HasPrefix(line, "<h") || strings.HasPrefix(line, "<div") {
			b.WriteString(line)
			continue
		}
		b.WriteString("<p>" + line + "</p>")
	}
	return b.String()
}

// EmbedKeywordLinks replaces whole-word keyword occurrences with links
// to the paired URL. Keywords without a paired URL are left alone.
func EmbedKeywordLinks(content string, keywords, urls []string) string {
	for i, keyword := range keywords {
		if keyword == "" || i >= len(urls) || urls[i] == "" {
			continue
		}
		pattern, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(keyword) + `\b`)
		if err != nil {
			continue
		}
		link := fmt.Sprintf(`<a href="%s" target="_blank" rel="noopener noreferrer">%s</a>`, urls[i], keyword)
		content = pattern.ReplaceAllString(content, link)
	}
	return content
}

// ExtractTitle pulls a title from the draft's first heading, falling
// back to the first line.
func ExtractTitle(content string) string {
	lines := strings.Split(content, "\n")
	if len(lines) == 0 {
		return ""
	}
	firstLine := strings.TrimSpace(lines[0])
	if m := regexp.MustCompile(`^#+\s*(.*)`).FindStringSubmatch(firstLine); m != nil {
		return strings.TrimSpace(m[1])
	}
	return firstLine
}

// PreserveFormatting reshapes a rewritten draft so it keeps the
// original's title and roughly its paragraph structure. Rewrite
// services tend to drop the heading and collapse paragraphs.
func PreserveFormatting(original, humanized string) string {
	var originalTitle string
	for _, line := range strings.Split(original, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			originalTitle = line
			break
		}
	}

	hasTitle := false
	for _, line := range strings.Split(humanized, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			hasTitle = true
			break
		}
	}

	formatted := humanized
	if originalTitle != "" && !hasTitle {
		formatted = originalTitle + "\n\n" + formatted
	}

	originalParagraphs := len(strings.Split(original, "\n\n"))
	if len(strings.Split(formatted, "\n\n")) < originalParagraphs {
		// Break after sentence enders, then cap at the original count
		// so short sentences don't explode into one-line paragraphs.
		formatted = regexp.MustCompile(`([.!?])\s+`).ReplaceAllString(formatted, "$1\n\n")
		paragraphs := strings.Split(formatted, "\n\n")
		if len(paragraphs) > originalParagraphs*3/2 {
			head := strings.Join(paragraphs[:originalParagraphs+1], "\n\n")
			tail := strings.Join(paragraphs[originalParagraphs+1:], " ")
			formatted = head + "\n\n" + tail
		}
	}
	return formatted
}
