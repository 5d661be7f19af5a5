package listing

import "reuse-api/api/internal/util"

// Response is the JSON body returned by /generate-content. Details is nil for
// non-reusable items, which drops every field except reusable and reason.
type Response struct {
	Reusable bool   `json:"reusable"`
	Reason   string `json:"reason"`
	*Details
}

type Details struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
}

// Assemble builds the response. l and c are ignored when v is not reusable.
func Assemble(v Verdict, l Listing, c CategoryAssignment) Response {
	resp := Response{
		Reusable: v.Reusable,
		Reason:   util.ClampRunes(v.Reason, MaxReasonLen),
	}
	if !v.Reusable {
		return resp
	}
	if !InTaxonomy(c.Category) {
		c.Category = Miscellaneous
	}
	if c.Subcategory == "" {
		c.Subcategory = Miscellaneous
	}
	resp.Details = &Details{
		Title:       l.Title,
		Description: l.Description,
		Category:    c.Category,
		Subcategory: c.Subcategory,
	}
	return resp
}

// ReusabilityResponse is the body of /check-reusability.
type ReusabilityResponse struct {
	Reusable bool   `json:"reusable"`
	Reason   string `json:"reason"`
}

func NewReusabilityResponse(v Verdict) ReusabilityResponse {
	return ReusabilityResponse{Reusable: v.Reusable, Reason: util.ClampRunes(v.Reason, MaxReasonLen)}
}
