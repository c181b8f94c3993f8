package render_test

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prizepress/prizepress/internal/domain"
	"github.com/prizepress/prizepress/internal/render"
)

// a4 page raster size at 72dpi
const (
	pageW72 = 595
	pageH72 = 841
)

func solidImages(n int, w, h int, c color.Color) []image.Image {
	images := make([]image.Image, n)
	for i := range images {
		images[i] = imaging.New(w, h, c)
	}
	return images
}

func TestLayoutPages(t *testing.T) {
	opts := render.LayoutOptions{DPI: 72, Cols: 2, Rows: 2}

	t.Run("rejects a non-positive grid", func(t *testing.T) {
		_, err := render.LayoutPages(nil, render.LayoutOptions{DPI: 72, Cols: 0, Rows: 3})
		assert.ErrorIs(t, err, domain.ErrLayoutGrid)

		_, err = render.LayoutPages(nil, render.LayoutOptions{DPI: 72, Cols: 3, Rows: -1})
		assert.ErrorIs(t, err, domain.ErrLayoutGrid)
	})

	t.Run("rejects margins that consume the whole page", func(t *testing.T) {
		_, err := render.LayoutPages(nil, render.LayoutOptions{DPI: 72, Cols: 2, Rows: 2, MarginMm: 105})
		assert.ErrorIs(t, err, domain.ErrLayoutGrid)
	})

	t.Run("empty input yields exactly one blank page", func(t *testing.T) {
		pages, err := render.LayoutPages(nil, opts)
		require.NoError(t, err)
		require.Len(t, pages, 1)
		assert.Equal(t, pageW72, pages[0].Bounds().Dx())
		assert.Equal(t, pageH72, pages[0].Bounds().Dy())

		r, g, b, _ := pages[0].At(pageW72/2, pageH72/2).RGBA()
		assert.Equal(t, uint32(3*0xffff), r+g+b, "blank page defaults to white")
	})

	t.Run("pages hold cols*rows images with a final partial page", func(t *testing.T) {
		images := solidImages(10, 50, 50, color.Black)
		pages, err := render.LayoutPages(images, opts)
		require.NoError(t, err)
		assert.Len(t, pages, 3) // 4 + 4 + 2
	})

	t.Run("an exact multiple fills pages with no trailing blank", func(t *testing.T) {
		images := solidImages(8, 50, 50, color.Black)
		pages, err := render.LayoutPages(images, opts)
		require.NoError(t, err)
		assert.Len(t, pages, 2)
	})

	t.Run("identical input renders byte-identical pages", func(t *testing.T) {
		images := solidImages(3, 120, 90, color.NRGBA{R: 200, G: 30, B: 30, A: 255})
		first, err := render.LayoutPages(images, opts)
		require.NoError(t, err)
		second, err := render.LayoutPages(images, opts)
		require.NoError(t, err)

		require.Len(t, second, len(first))
		for i := range first {
			assert.True(t, bytes.Equal(first[i].Pix, second[i].Pix), "page %d differs", i)
		}
	})

	t.Run("zero spacing tiles edge to edge without hairline gaps", func(t *testing.T) {
		// cell-sized opaque images must meet with no background showing
		// along the interior seams
		cellW := pageW72 / 2
		cellH := pageH72 / 2
		images := solidImages(4, cellW, cellH, color.Black)

		pages, err := render.LayoutPages(images, render.LayoutOptions{DPI: 72, Cols: 2, Rows: 2, SpacingMm: 0})
		require.NoError(t, err)
		require.Len(t, pages, 1)
		page := pages[0]

		for y := 0; y < 2*cellH; y++ {
			r, g, b, _ := page.At(cellW, y).RGBA()
			require.Zero(t, r+g+b, "background leaked through the vertical seam at y=%d", y)
		}
		for x := 0; x < 2*cellW; x++ {
			r, g, b, _ := page.At(x, cellH).RGBA()
			require.Zero(t, r+g+b, "background leaked through the horizontal seam at x=%d", x)
		}
	})

	t.Run("positive spacing keeps a background gap between cells", func(t *testing.T) {
		spacingMm := 5.0
		spacingPx := render.MmToPx(spacingMm, 72)
		cellW := (pageW72 - spacingPx) / 2
		cellH := (pageH72 - spacingPx) / 2
		images := solidImages(4, cellW, cellH, color.Black)

		pages, err := render.LayoutPages(images, render.LayoutOptions{DPI: 72, Cols: 2, Rows: 2, SpacingMm: spacingMm})
		require.NoError(t, err)
		page := pages[0]

		for x := cellW; x < cellW+spacingPx; x++ {
			r, g, b, _ := page.At(x, cellH/2).RGBA()
			require.Equal(t, uint32(3*0xffff), r+g+b, "expected background in the gap at x=%d", x)
		}
	})

	t.Run("small images are centered inside their cell", func(t *testing.T) {
		images := []image.Image{imaging.New(21, 21, color.Black)}
		pages, err := render.LayoutPages(images, render.LayoutOptions{DPI: 72, Cols: 2, Rows: 2, SpacingMm: 1})
		require.NoError(t, err)
		page := pages[0]

		spacingPx := render.MmToPx(1, 72)
		cellW := (pageW72 - spacingPx) / 2
		cellH := (pageH72 - spacingPx) / 2

		r, g, b, _ := page.At(cellW/2, cellH/2).RGBA()
		assert.Zero(t, r+g+b, "expected the image at the cell center")
		r, g, b, _ = page.At(2, 2).RGBA()
		assert.NotZero(t, r+g+b, "expected background at the cell corner")
	})

	t.Run("custom background fills the page", func(t *testing.T) {
		bg := color.NRGBA{R: 0, G: 0, B: 255, A: 255}
		pages, err := render.LayoutPages(nil, render.LayoutOptions{DPI: 72, Cols: 1, Rows: 1, Background: bg})
		require.NoError(t, err)

		_, _, b, _ := pages[0].At(10, 10).RGBA()
		assert.Equal(t, uint32(0xffff), b)
	})

	t.Run("input order maps to row-major cell order", func(t *testing.T) {
		red := color.NRGBA{R: 255, A: 255}
		blue := color.NRGBA{B: 255, A: 255}
		cellW := pageW72 / 2
		cellH := pageH72 / 2
		images := []image.Image{
			imaging.New(cellW, cellH, red),
			imaging.New(cellW, cellH, blue),
		}

		pages, err := render.LayoutPages(images, render.LayoutOptions{DPI: 72, Cols: 2, Rows: 2})
		require.NoError(t, err)
		page := pages[0]

		r, _, _, _ := page.At(cellW/2, cellH/2).RGBA()
		assert.Equal(t, uint32(0xffff), r, "first image goes top-left")
		_, _, b, _ := page.At(cellW+cellW/2, cellH/2).RGBA()
		assert.Equal(t, uint32(0xffff), b, "second image goes top-right")
	})
}
