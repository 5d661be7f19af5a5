package telegram

import (
	"fmt"
	"strings"

	"reuse-api/api/internal/listing"
)

const (
	startText         = "Send me a photo of a second-hand item and I'll tell you whether it is reusable and draft a listing for it.\nCommands: /health"
	photoAcceptedText = "Photo received, checking it…"
	rateLimitedText   = "Too many photos, please wait %d s and try again."

	fetchFailedText    = "Could not download the photo, please send it again."
	tooLargeText       = "The photo is too large."
	invalidImageText   = "That file does not look like a picture I can read."
	analysisFailedText = "Something went wrong while analysing the photo, please try again later."

	// Telegram rejects messages longer than 4096 characters
	maxMessageRunes = 3900
)

func formatResponse(resp listing.Response) string {
	if !resp.Reusable || resp.Details == nil {
		return "♻️ Not reusable.\n" + resp.Reason
	}
	var b strings.Builder
	fmt.Fprintf(&b, "✅ Reusable: %s\n\n", resp.Reason)
	fmt.Fprintf(&b, "🏷 %s\n", resp.Title)
	fmt.Fprintf(&b, "📂 %s / %s\n\n", resp.Category, resp.Subcategory)
	b.WriteString(resp.Description)

	out := b.String()
	if r := []rune(out); len(r) > maxMessageRunes {
		out = string(r[:maxMessageRunes]) + "…"
	}
	return out
}
