package listing

import (
	"regexp"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"reuse-api/api/internal/util"
)

const Miscellaneous = "Miscellaneous"

var taxonomy = []string{"Electronics", "Furniture", "Appliances", "Books", "Clothing", Miscellaneous}

// Labels must start the line (after optional list or quote markers), so a
// "Subcategory:" line never satisfies the category pattern.
var (
	reCategory    = regexp.MustCompile(`(?im)^[ \t>*\-•]*category[ \t]*:[ \t]*(.+)$`)
	reSubcategory = regexp.MustCompile(`(?im)^[ \t>*\-•]*sub-?category[ \t]*:[ \t]*(.+)$`)
)

// CategoryAssignment is a category from the fixed taxonomy plus a free-text subcategory.
type CategoryAssignment struct {
	Category    string
	Subcategory string
}

func DefaultCategory() CategoryAssignment {
	return CategoryAssignment{Category: Miscellaneous, Subcategory: Miscellaneous}
}

// Taxonomy returns the accepted categories.
func Taxonomy() []string {
	return slices.Clone(taxonomy)
}

func InTaxonomy(category string) bool {
	return slices.Contains(taxonomy, category)
}

// NormalizeCategory title-cases the value before matching it against the
// taxonomy; unknown values become Miscellaneous.
func NormalizeCategory(value string) string {
	c := cases.Title(language.English).String(strings.TrimSpace(value))
	if InTaxonomy(c) {
		return c
	}
	return Miscellaneous
}

// NormalizeSubcategory collapses "other"/"others" into Miscellaneous and keeps
// anything else verbatim.
func NormalizeSubcategory(value string) string {
	v := strings.TrimSpace(value)
	switch strings.ToLower(v) {
	case "", "other", "others":
		return Miscellaneous
	}
	return v
}

// ExtractCategory pulls "Category:" and "Subcategory:" lines out of text.
// It never fails: anything it cannot use is replaced by Miscellaneous.
func ExtractCategory(text string) (category, subcategory string) {
	category, subcategory = Miscellaneous, Miscellaneous
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Str("snippet", util.ClampRunes(text, 200)).
				Msg("listing: category extraction failed")
			category, subcategory = Miscellaneous, Miscellaneous
		}
	}()

	text = Clean(util.StripCodeFences(text))

	if m := reCategory.FindStringSubmatch(text); m != nil {
		raw := Clean(m[1])
		category = NormalizeCategory(raw)
		if category == Miscellaneous && !strings.EqualFold(raw, Miscellaneous) {
			log.Warn().Str("category", raw).Msg("listing: category outside taxonomy")
		}
	} else {
		log.Warn().Str("snippet", util.ClampRunes(text, 200)).Msg("listing: no category line")
	}

	if m := reSubcategory.FindStringSubmatch(text); m != nil {
		subcategory = NormalizeSubcategory(Clean(m[1]))
	} else {
		log.Warn().Str("snippet", util.ClampRunes(text, 200)).Msg("listing: no subcategory line")
	}
	return category, subcategory
}

// ParseCategory is ExtractCategory returning a CategoryAssignment.
func ParseCategory(raw string) CategoryAssignment {
	c, s := ExtractCategory(raw)
	return CategoryAssignment{Category: c, Subcategory: s}
}
