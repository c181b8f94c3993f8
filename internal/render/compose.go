package render

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"gorm.io/datatypes"

	"github.com/prizepress/prizepress/internal/domain"
)

// DefaultPlacement positions the code when template metadata is missing or
// malformed: 10mm from the top-left corner, 30mm wide, no rotation.
var DefaultPlacement = domain.Placement{
	XMm:     10,
	YMm:     10,
	WidthMm: 30,
}

// MmToPx converts a physical millimeter measurement to pixels at the given
// print resolution: px = round(mm * dpi / 25.4).
func MmToPx(mm float64, dpi int) int {
	return int(math.Round(mm * float64(dpi) / 25.4))
}

// Compose overlays a code raster onto a template at the placement
// rectangle. The code is resized to the placement width preserving aspect
// ratio (codes are square) and rotated if requested. The output always has
// the template's pixel dimensions.
func Compose(template image.Image, code image.Image, placement domain.Placement, dpi int) *image.NRGBA {
	widthPx := MmToPx(placement.WidthMm, dpi)
	resized := imaging.Resize(code, widthPx, 0, imaging.Lanczos)
	if placement.RotationDeg != 0 {
		resized = imaging.Rotate(resized, placement.RotationDeg, color.Transparent)
	}

	canvas := imaging.Clone(template)
	offset := image.Pt(MmToPx(placement.XMm, dpi), MmToPx(placement.YMm, dpi))
	return imaging.Overlay(canvas, resized, offset, 1.0)
}

// ParsePlacement reads a placement rectangle from template metadata.
// Templates may carry partial or malformed metadata, so every field falls
// back to DefaultPlacement instead of failing the request; diagnostics name
// the fields that fell back so callers can log them.
func ParsePlacement(raw datatypes.JSON) (domain.Placement, []string) {
	placement := DefaultPlacement

	if len(raw) == 0 {
		return placement, []string{"placement metadata absent"}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return placement, []string{fmt.Sprintf("placement metadata unreadable: %v", err)}
	}

	var diagnostics []string
	read := func(key string, required bool, dst *float64) {
		data, ok := fields[key]
		if !ok {
			if required {
				diagnostics = append(diagnostics, fmt.Sprintf("placement field %q missing", key))
			}
			return
		}
		var v float64
		if err := json.Unmarshal(data, &v); err != nil {
			diagnostics = append(diagnostics, fmt.Sprintf("placement field %q not numeric", key))
			return
		}
		*dst = v
	}

	read("x_mm", true, &placement.XMm)
	read("y_mm", true, &placement.YMm)
	read("width_mm", true, &placement.WidthMm)
	read("rotation_deg", false, &placement.RotationDeg)

	if placement.WidthMm <= 0 {
		diagnostics = append(diagnostics, "placement width not positive")
		placement.WidthMm = DefaultPlacement.WidthMm
	}

	return placement, diagnostics
}
