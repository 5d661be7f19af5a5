package handle

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"reuse-api/api/internal/util"
	"reuse-api/api/internal/vision"
)

const (
	formField = "image"
	// room for multipart boundaries and headers on top of the image itself
	multipartOverhead = 1 << 20
)

// uploadMessages are the endpoint specific texts for rejected uploads.
// tooLarge takes the size label of the limit.
type uploadMessages struct {
	missing  string
	tooLarge string
}

var (
	generateMessages    = uploadMessages{missing: "No image provided", tooLarge: "Image exceeds %s size limit"}
	reusabilityMessages = uploadMessages{missing: "No image", tooLarge: "Image too large (max %s)"}
)

func sizeLabel(n int64) string {
	if n%(1<<20) == 0 {
		return fmt.Sprintf("%dMB", n>>20)
	}
	return fmt.Sprintf("%d bytes", n)
}

type uploadError struct {
	status int
	msg    string
}

func (e *uploadError) Error() string { return e.msg }

// readImage extracts and validates the "image" form file. The size limit is
// checked before anything is decoded.
func (h *Handle) readImage(w http.ResponseWriter, r *http.Request, msgs uploadMessages) (vision.Image, error) {
	limit := h.opts.MaxImageBytes
	tooLarge := &uploadError{http.StatusBadRequest, fmt.Sprintf(msgs.tooLarge, sizeLabel(limit))}
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return vision.Image{}, tooLarge
		}
		return vision.Image{}, &uploadError{http.StatusBadRequest, msgs.missing}
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile(formField)
	if err != nil {
		return vision.Image{}, &uploadError{http.StatusBadRequest, msgs.missing}
	}
	defer file.Close()

	if header.Size > limit {
		return vision.Image{}, tooLarge
	}
	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return vision.Image{}, &uploadError{http.StatusBadRequest, "Invalid image: " + err.Error()}
	}
	if int64(len(data)) > limit {
		return vision.Image{}, tooLarge
	}

	prepared, mime, err := util.PrepareImage(data)
	if err != nil {
		return vision.Image{}, &uploadError{http.StatusBadRequest, "Invalid image: " + err.Error()}
	}
	return vision.Image{Data: prepared, MIME: mime}, nil
}

func writeUploadError(w http.ResponseWriter, err error) {
	var ue *uploadError
	if errors.As(err, &ue) {
		writeError(w, ue.status, ue.msg)
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}
