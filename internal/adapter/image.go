package adapter

import (
	"bytes"
	"image"

	// register the template raster formats with image.Decode
	_ "image/jpeg"
	_ "image/png"
)

// ImageCodec defines an interface for decoding raster images
type ImageCodec interface {
	// Decode decodes an image from bytes, detecting the format
	Decode(data []byte) (image.Image, error)
}

// RealImageCodec implements ImageCodec using the standard library
type RealImageCodec struct{}

// NewImageCodec creates a new real image codec
func NewImageCodec() ImageCodec {
	return &RealImageCodec{}
}

// Decode decodes an image from bytes, detecting the format
func (c *RealImageCodec) Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}
