package utils

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/text"
)

// CleanMarkdown strips conversational filler and outer code fences so the
// remainder is plain content ready for parsing or rendering.
func CleanMarkdown(input string) string {
	cleaned := strings.TrimSpace(input)

	for _, prefix := range []string{"```json", "```markdown", "```"} {
		if strings.HasPrefix(cleaned, prefix) && strings.HasSuffix(cleaned, "```") {
			cleaned = strings.TrimPrefix(cleaned, prefix)
			cleaned = strings.TrimSuffix(cleaned, "```")
			cleaned = strings.TrimSpace(cleaned)
			break
		}
	}
	return cleaned
}

// ValidateMarkdown checks that a generated report parses as Markdown.
// Goldmark is permissive, so this is a sanity check rather than a linter.
func ValidateMarkdown(input string) bool {
	parser := goldmark.DefaultParser()
	reader := text.NewReader([]byte(input))
	return parser.Parse(reader) != nil
}
