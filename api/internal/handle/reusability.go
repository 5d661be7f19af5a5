package handle

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"reuse-api/api/internal/listing"
	"reuse-api/api/internal/pipeline"
)

// --- CHECK REUSABILITY -------------------------------------------------------

func (h *Handle) CheckReusability(w http.ResponseWriter, r *http.Request) {
	img, err := h.readImage(w, r, reusabilityMessages)
	if err != nil {
		writeUploadError(w, err)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	v, err := h.svc.CheckReusability(ctx, img)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("check-reusability failed")
		var se *pipeline.StageError
		if errors.As(err, &se) {
			writeError(w, http.StatusInternalServerError, "Check failed: "+se.Err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Internal error")
		return
	}
	writeJSON(w, http.StatusOK, listing.NewReusabilityResponse(v))
}
