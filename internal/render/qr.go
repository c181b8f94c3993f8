package render

import (
	"fmt"
	"image"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/prizepress/prizepress/internal/domain"
)

// CodeOptions configures QR generation. Rendering is deterministic for
// identical payload and options.
type CodeOptions struct {
	// Level is the error-correction level; higher levels lower capacity
	Level qrcode.RecoveryLevel
	// SizePx is the square edge length of the rendered code
	SizePx int
}

// DefaultCodeOptions is used when a caller passes zero options.
var DefaultCodeOptions = CodeOptions{
	Level:  qrcode.Medium,
	SizePx: 512,
}

// RenderCode turns a redemption payload into a scannable QR raster. A
// payload exceeding the code capacity for the chosen error-correction
// level is a hard error, never a truncation.
func RenderCode(payload string, opts CodeOptions) (image.Image, error) {
	if opts.SizePx <= 0 {
		opts = CodeOptions{Level: opts.Level, SizePx: DefaultCodeOptions.SizePx}
	}

	q, err := qrcode.New(payload, opts.Level)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPayloadTooLarge, err)
	}
	return q.Image(opts.SizePx), nil
}
