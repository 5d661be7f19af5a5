package listing

import (
	"regexp"

	"reuse-api/api/internal/util"
)

const MaxReasonLen = 200

var reYes = regexp.MustCompile(`(?i)\byes\b`)

// Verdict is the reusability decision for one image.
type Verdict struct {
	Reusable bool
	Reason   string
}

// IsReusable reports whether text contains the whole word "yes" in any case.
// It is a heuristic over free-form model output.
func IsReusable(text string) bool {
	return reYes.MatchString(text)
}

// Reason is the first line of text capped at MaxReasonLen characters.
func Reason(text string) string {
	return util.ClampRunes(util.FirstLine(text), MaxReasonLen)
}

// NewVerdict cleans raw model output and derives the verdict from it.
func NewVerdict(raw string) Verdict {
	text := Clean(raw)
	return Verdict{
		Reusable: IsReusable(text),
		Reason:   Reason(text),
	}
}
