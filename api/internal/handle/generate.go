package handle

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"reuse-api/api/internal/pipeline"
)

// --- GENERATE CONTENT --------------------------------------------------------

func (h *Handle) GenerateContent(w http.ResponseWriter, r *http.Request) {
	img, err := h.readImage(w, r, generateMessages)
	if err != nil {
		writeUploadError(w, err)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	resp, err := h.svc.Generate(ctx, img)
	if err != nil {
		var se *pipeline.StageError
		if errors.As(err, &se) {
			hlog.FromRequest(r).Error().Err(se.Err).Str("stage", string(se.Stage)).Msg("generate-content failed")
			writeError(w, http.StatusInternalServerError, se.Error())
			return
		}
		hlog.FromRequest(r).Error().Err(err).Msg("generate-content failed")
		writeError(w, http.StatusInternalServerError, "Internal error")
		return
	}

	hlog.FromRequest(r).Info().
		Bool("reusable", resp.Reusable).
		Int("image_bytes", len(img.Data)).
		Msg("generate-content done")
	writeJSON(w, http.StatusOK, resp)
}
