package sanitizer

import (
	"html"
	"regexp"
	"strings"
)

var (
	whitespaceRegex = regexp.MustCompile(`\s+`)
	htmlTagRegex    = regexp.MustCompile(`<[^>]*>`)
	scriptTagRegex  = regexp.MustCompile(`(?i)<script\b[^>]*>.*?</script>`)
	jsEventRegex    = regexp.MustCompile(`(?i)\s*on\w+\s*=\s*("[^"]*"|'[^']*')`)
	jsProtoRegex    = regexp.MustCompile(`(?i)javascript\s*:`)
)

// Trim removes leading and trailing whitespace.
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// TrimToLower trims whitespace and lowercases the result. Used to normalize
// user-supplied identifiers such as plan names.
func TrimToLower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// RemoveExtraWhitespace collapses runs of whitespace into single spaces.
func RemoveExtraWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}

// StripHTML removes HTML tags and unescapes HTML entities, leaving the
// rendered text. Used to measure the real content length of editor output.
func StripHTML(s string) string {
	return html.UnescapeString(htmlTagRegex.ReplaceAllString(s, ""))
}

// StripScriptTags removes all <script> tags and their content.
func StripScriptTags(s string) string {
	return scriptTagRegex.ReplaceAllString(s, "")
}

// RemoveJavaScriptEvents removes JavaScript event handlers and javascript:
// protocols from HTML attributes.
func RemoveJavaScriptEvents(s string) string {
	return jsProtoRegex.ReplaceAllString(jsEventRegex.ReplaceAllString(s, ""), "")
}

// CleanHTMLContent applies the safety passes run over editor-produced HTML
// before it is persisted. Markup structure is preserved; active content is not.
func CleanHTMLContent(s string) string {
	return RemoveJavaScriptEvents(StripScriptTags(s))
}
