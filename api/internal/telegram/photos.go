package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"reuse-api/api/internal/util"
	"reuse-api/api/internal/vision"
)

var errTooLarge = errors.New("image is too large")

// imageFileID picks the largest photo size, or an image sent as a document.
func imageFileID(msg *tgbotapi.Message) (string, bool) {
	if len(msg.Photo) > 0 {
		return msg.Photo[len(msg.Photo)-1].FileID, true
	}
	if d := msg.Document; d != nil && strings.HasPrefix(d.MimeType, "image/") {
		return d.FileID, true
	}
	return "", false
}

func (r *Router) processPhoto(ctx context.Context, cid int64, fileID string) {
	r.send(cid, photoAcceptedText)

	if r.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.RequestTimeout)
		defer cancel()
	}

	url, err := r.Bot.GetFileDirectURL(fileID)
	if err != nil {
		r.SendError(cid, fetchFailedText, fmt.Errorf("get file: %w", err))
		return
	}
	raw, err := r.download(ctx, url, r.MaxImageBytes)
	if err != nil {
		msg := fetchFailedText
		if errors.Is(err, errTooLarge) {
			msg = tooLargeText
		}
		r.SendError(cid, msg, fmt.Errorf("download: %w", err))
		return
	}
	data, mime, err := util.PrepareImage(raw)
	if err != nil {
		r.SendError(cid, invalidImageText, fmt.Errorf("prepare image: %w", err))
		return
	}

	resp, err := r.Pipeline.Generate(ctx, vision.Image{Data: data, MIME: mime})
	if err != nil {
		r.SendError(cid, analysisFailedText, err)
		return
	}
	r.send(cid, formatResponse(resp))
}

func download(ctx context.Context, url string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
	}
	if limit <= 0 {
		return io.ReadAll(resp.Body)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, errTooLarge
	}
	return b, nil
}

func httpClient() *http.Client {
	return &http.Client{Timeout: 60 * time.Second}
}
