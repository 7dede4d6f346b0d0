package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"

	_ "image/png"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var (
	// ErrValidation carries a user-displayable rejection reason.
	ErrValidation = errors.New("invalid image")
	// ErrDecodeFailed means the payload passed validation but could not
	// be decoded (corrupt file, unsupported sub-format).
	ErrDecodeFailed = errors.New("image decode failed")
)

var allowedTypes = []string{"image/jpeg", "image/png", "image/webp"}

// Validate rejects a payload before any transcode or upload is attempted.
// It performs no I/O; rejection reasons are meant to be shown to the user.
func Validate(data []byte, maxBytes int64) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: nenhum arquivo selecionado", ErrValidation)
	}
	if int64(len(data)) > maxBytes {
		return fmt.Errorf("%w: arquivo muito grande (máx: %d MB)", ErrValidation, maxBytes/(1024*1024))
	}
	detected := mimetype.Detect(data)
	for _, allowed := range allowedTypes {
		if detected.Is(allowed) {
			return nil
		}
	}
	return fmt.Errorf("%w: use apenas JPEG, PNG ou WebP", ErrValidation)
}

// Transcode decodes the image, scales it so the longer edge does not
// exceed maxDimension (never upscaling), and re-encodes it as a
// single-frame JPEG at the given quality (1-100).
func Transcode(data []byte, maxDimension, quality int) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	newWidth, newHeight := fitWithin(width, height, maxDimension)

	out := src
	if newWidth != width || newHeight != height {
		dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		out = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// fitWithin shrinks (w,h) proportionally so the longer edge is at most
// maxDimension. Dimensions already within bounds are returned unchanged.
func fitWithin(w, h, maxDimension int) (int, int) {
	if maxDimension <= 0 || (w <= maxDimension && h <= maxDimension) {
		return w, h
	}
	if w >= h {
		return maxDimension, (h*maxDimension + w/2) / w
	}
	return (w*maxDimension + h/2) / h, maxDimension
}
