package extractors

import (
	"html"
	"regexp"
	"strings"
)

// Pre-compiled regular expressions for markup stripping.
var (
	scriptTag    = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag     = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	htmlComments = regexp.MustCompile(`(?s)<!--.*?-->`)
	breakTags    = regexp.MustCompile(`(?i)<(br|hr)\s*/?>|</?(p|div|h[1-6]|li|ul|ol|tr|td|th|blockquote|pre)[^>]*>`)
	allTags      = regexp.MustCompile(`<[^>]+>`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// stripMarkup reduces rich text to a single line of plain text.
// Block-level tags become word boundaries so adjacent paragraphs do not fuse.
func stripMarkup(content string) string {
	if content == "" {
		return ""
	}

	content = scriptTag.ReplaceAllString(content, "")
	content = styleTag.ReplaceAllString(content, "")
	content = htmlComments.ReplaceAllString(content, "")
	content = breakTags.ReplaceAllString(content, " ")
	content = allTags.ReplaceAllString(content, "")
	content = html.UnescapeString(content)
	content = whitespace.ReplaceAllString(content, " ")

	return strings.TrimSpace(content)
}
