// Package listing turns free-text model answers into the structured
// reusability/listing contract returned to clients.
package listing

import (
	"regexp"
	"strings"
)

var reEmphasis = regexp.MustCompile(`\*{2,}|_{2,}`)

// Clean removes markdown emphasis runs (two or more '*' or '_') and trims
// surrounding whitespace. Single markers are left alone.
func Clean(text string) string {
	for {
		next := reEmphasis.ReplaceAllString(text, "")
		if next == text {
			break
		}
		// removing "__" from "*__*" leaves a fresh "**"
		text = next
	}
	return strings.TrimSpace(text)
}
