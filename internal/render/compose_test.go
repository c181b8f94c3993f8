package render_test

import (
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/prizepress/prizepress/internal/domain"
	"github.com/prizepress/prizepress/internal/render"
)

func TestMmToPx(t *testing.T) {
	cases := []struct {
		name string
		mm   float64
		dpi  int
		want int
	}{
		{"one inch at 300dpi", 25.4, 300, 300},
		{"ten millimeters at 300dpi", 10, 300, 118},
		{"a4 width at 300dpi", 210, 300, 2480},
		{"a4 height at 300dpi", 297, 300, 3508},
		{"rounds up past half a pixel", 0.05, 300, 1},
		{"zero is zero", 0, 300, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, render.MmToPx(tc.mm, tc.dpi))
		})
	}
}

func TestCompose(t *testing.T) {
	template := imaging.New(600, 400, color.White)
	code := imaging.New(100, 100, color.Black)

	t.Run("output keeps the template dimensions", func(t *testing.T) {
		out := render.Compose(template, code, domain.Placement{XMm: 10, YMm: 10, WidthMm: 30}, 300)
		assert.Equal(t, 600, out.Bounds().Dx())
		assert.Equal(t, 400, out.Bounds().Dy())
	})

	t.Run("code lands at the placement offset", func(t *testing.T) {
		placement := domain.Placement{XMm: 10, YMm: 5, WidthMm: 20}
		out := render.Compose(template, code, placement, 72)

		x := render.MmToPx(placement.XMm, 72)
		y := render.MmToPx(placement.YMm, 72)
		w := render.MmToPx(placement.WidthMm, 72)

		// center of the resized code is black, just outside it is still white
		r, g, b, _ := out.At(x+w/2, y+w/2).RGBA()
		assert.Zero(t, r+g+b, "expected code pixel at placement center")
		r, g, b, _ = out.At(x+w+5, y+w+5).RGBA()
		assert.NotZero(t, r+g+b, "expected template pixel outside the placement")
	})

	t.Run("rotation keeps the template dimensions", func(t *testing.T) {
		out := render.Compose(template, code, domain.Placement{XMm: 10, YMm: 10, WidthMm: 20, RotationDeg: 45}, 72)
		assert.Equal(t, template.Bounds(), out.Bounds())
	})
}

func TestParsePlacement(t *testing.T) {
	t.Run("reads a complete placement", func(t *testing.T) {
		placement, diags := render.ParsePlacement(datatypes.JSON(`{"x_mm": 12.5, "y_mm": 40, "width_mm": 25, "rotation_deg": 90}`))
		assert.Empty(t, diags)
		assert.Equal(t, domain.Placement{XMm: 12.5, YMm: 40, WidthMm: 25, RotationDeg: 90}, placement)
	})

	t.Run("rotation is optional", func(t *testing.T) {
		placement, diags := render.ParsePlacement(datatypes.JSON(`{"x_mm": 1, "y_mm": 2, "width_mm": 3}`))
		assert.Empty(t, diags)
		assert.Zero(t, placement.RotationDeg)
	})

	t.Run("absent metadata falls back wholesale", func(t *testing.T) {
		placement, diags := render.ParsePlacement(nil)
		assert.Equal(t, render.DefaultPlacement, placement)
		require.Len(t, diags, 1)
	})

	t.Run("malformed json falls back wholesale", func(t *testing.T) {
		placement, diags := render.ParsePlacement(datatypes.JSON(`{not json`))
		assert.Equal(t, render.DefaultPlacement, placement)
		assert.NotEmpty(t, diags)
	})

	t.Run("missing fields keep their defaults and are diagnosed", func(t *testing.T) {
		placement, diags := render.ParsePlacement(datatypes.JSON(`{"x_mm": 50}`))
		assert.Equal(t, 50.0, placement.XMm)
		assert.Equal(t, render.DefaultPlacement.YMm, placement.YMm)
		assert.Equal(t, render.DefaultPlacement.WidthMm, placement.WidthMm)
		assert.Len(t, diags, 2)
	})

	t.Run("non-numeric field keeps its default", func(t *testing.T) {
		placement, diags := render.ParsePlacement(datatypes.JSON(`{"x_mm": "left", "y_mm": 2, "width_mm": 3}`))
		assert.Equal(t, render.DefaultPlacement.XMm, placement.XMm)
		assert.Equal(t, 2.0, placement.YMm)
		assert.Len(t, diags, 1)
	})

	t.Run("non-positive width falls back", func(t *testing.T) {
		placement, diags := render.ParsePlacement(datatypes.JSON(`{"x_mm": 1, "y_mm": 2, "width_mm": -4}`))
		assert.Equal(t, render.DefaultPlacement.WidthMm, placement.WidthMm)
		assert.NotEmpty(t, diags)
	})
}
