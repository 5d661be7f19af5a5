package util

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	return img
}

func encode(t *testing.T, enc func(*bytes.Buffer) error) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, enc(&buf))
	return buf.Bytes()
}

func TestPrepareImage(t *testing.T) {
	pngBytes := encode(t, func(b *bytes.Buffer) error { return png.Encode(b, testImage()) })
	jpegBytes := encode(t, func(b *bytes.Buffer) error { return jpeg.Encode(b, testImage(), nil) })
	gifBytes := encode(t, func(b *bytes.Buffer) error { return gif.Encode(b, testImage(), nil) })

	t.Run("png passes through", func(t *testing.T) {
		data, mime, err := PrepareImage(pngBytes)
		require.NoError(t, err)
		assert.Equal(t, "image/png", mime)
		assert.Equal(t, pngBytes, data)
	})

	t.Run("jpeg passes through", func(t *testing.T) {
		data, mime, err := PrepareImage(jpegBytes)
		require.NoError(t, err)
		assert.Equal(t, "image/jpeg", mime)
		assert.Equal(t, jpegBytes, data)
	})

	t.Run("gif is re-encoded as png", func(t *testing.T) {
		data, mime, err := PrepareImage(gifBytes)
		require.NoError(t, err)
		assert.Equal(t, "image/png", mime)
		cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, "png", format)
		assert.Equal(t, 4, cfg.Width)
		assert.Equal(t, 3, cfg.Height)
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		_, _, err := PrepareImage([]byte("definitely not an image"))
		assert.ErrorIs(t, err, image.ErrFormat)
	})

	t.Run("oversized header is rejected before decoding", func(t *testing.T) {
		small := encode(t, func(b *bytes.Buffer) error {
			return gif.Encode(b, image.NewPaletted(image.Rect(0, 0, 1, 1), color.Palette{color.Black, color.White}), nil)
		})
		forged := bytes.Clone(small)
		// logical screen descriptor: width and height, little endian
		forged[6], forged[7] = 0x30, 0x75
		forged[8], forged[9] = 0x30, 0x75
		cfg, _, err := image.DecodeConfig(bytes.NewReader(forged))
		require.NoError(t, err)
		require.Equal(t, 30000, cfg.Width)

		var before, after runtime.MemStats
		runtime.ReadMemStats(&before)
		_, _, err = PrepareImage(forged)
		runtime.ReadMemStats(&after)

		assert.ErrorIs(t, err, ErrTooManyPixels)
		assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(64<<20))
	})

	t.Run("empty is rejected", func(t *testing.T) {
		_, _, err := PrepareImage(nil)
		assert.ErrorIs(t, err, ErrEmptyImage)
	})
}

func TestSniffMimeHTTP(t *testing.T) {
	assert.Equal(t, "image/jpeg", SniffMimeHTTP([]byte{0xFF, 0xD8, 0xFF}))
	assert.Equal(t, "image/png", SniffMimeHTTP([]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}))
	assert.Equal(t, "image/webp", SniffMimeHTTP([]byte("RIFF\x00\x00\x00\x00WEBPVP8 ")))
	assert.Equal(t, "application/octet-stream", SniffMimeHTTP([]byte("hi")))
}

func TestClampRunes(t *testing.T) {
	assert.Equal(t, "abc", ClampRunes("abc", 5))
	assert.Equal(t, "ab", ClampRunes("abc", 2))
	assert.Equal(t, "пр", ClampRunes("привет", 2))
	assert.Equal(t, "", ClampRunes("abc", 0))
	assert.Len(t, []rune(ClampRunes(strings.Repeat("x", 500), 200)), 200)
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "one", FirstLine("one\ntwo"))
	assert.Equal(t, "one", FirstLine("one\r\ntwo"))
	assert.Equal(t, "single", FirstLine("single"))
	assert.Equal(t, "", FirstLine(""))
}

func TestStripCodeFences(t *testing.T) {
	assert.Equal(t, "Category: Books", StripCodeFences("```\nCategory: Books\n```"))
	assert.Equal(t, "Category: Books", StripCodeFences("```text\nCategory: Books\n```"))
	assert.Equal(t, "plain", StripCodeFences("  plain "))
}

func TestMakeDataURL(t *testing.T) {
	assert.Equal(t, "data:image/png;base64,AAAA", MakeDataURL("image/png", "AAAA"))
}
