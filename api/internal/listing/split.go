package listing

import (
	"strings"

	"github.com/rs/zerolog/log"

	"reuse-api/api/internal/util"
)

const (
	titleMarker       = "Title:"
	descriptionMarker = "Description:"

	MaxFallbackTitleLen = 50
)

// Listing is the sales copy generated for a reusable item.
type Listing struct {
	Title       string
	Description string
}

// SplitTitleDescription separates a "Title: ... Description: ..." answer.
// Without a Description marker the title falls back to the first line (at most
// MaxFallbackTitleLen characters) and the description is the whole text.
func SplitTitleDescription(text string) (title, description string) {
	before, after, found := strings.Cut(text, descriptionMarker)
	if !found {
		log.Warn().
			Str("snippet", util.ClampRunes(text, 120)).
			Msg("listing: description marker missing, using first line as title")
		return strings.TrimSpace(util.ClampRunes(util.FirstLine(text), MaxFallbackTitleLen)), text
	}
	title = strings.TrimSpace(strings.ReplaceAll(before, titleMarker, ""))
	description = strings.TrimSpace(after)
	return title, description
}

// ParseListing cleans the raw sales-pitch answer and splits it.
func ParseListing(raw string) Listing {
	title, description := SplitTitleDescription(Clean(raw))
	return Listing{Title: title, Description: description}
}
