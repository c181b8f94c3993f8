package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/prizepress/prizepress/internal/domain"
)

// Physical page size is fixed A4; everything else derives from DPI.
const (
	pageWidthMm  = 210.0
	pageHeightMm = 297.0

	// spacing at or below this is treated as exactly zero pixels, so
	// mm-to-px rounding cannot reintroduce a hairline gap when the caller
	// wants edge-to-edge tiling
	zeroSpacingThresholdMm = 0.05
)

// LayoutOptions configures page tiling.
type LayoutOptions struct {
	DPI       int
	Cols      int
	Rows      int
	MarginMm  float64
	SpacingMm float64
	// Background fills the page and flattens transparency; white when nil
	Background color.Color
}

// LayoutPages tiles composited images into fixed-size physical pages of
// Cols x Rows uniform cells. Images beyond the last full page produce a
// final partial page; an empty input produces exactly one blank page.
// Non-positive grid dimensions are a programmer error; every other input
// degrades to documented fallbacks.
func LayoutPages(images []image.Image, opts LayoutOptions) ([]*image.NRGBA, error) {
	if opts.Cols <= 0 || opts.Rows <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", domain.ErrLayoutGrid, opts.Cols, opts.Rows)
	}
	if opts.DPI <= 0 {
		opts.DPI = 300
	}
	bg := opts.Background
	if bg == nil {
		bg = color.White
	}

	pageW := MmToPx(pageWidthMm, opts.DPI)
	pageH := MmToPx(pageHeightMm, opts.DPI)
	marginPx := MmToPx(opts.MarginMm, opts.DPI)

	// collapsed spacing triggers the seam overlap below
	spacingPx := 0
	seamCorrection := true
	if opts.SpacingMm > zeroSpacingThresholdMm {
		spacingPx = MmToPx(opts.SpacingMm, opts.DPI)
		seamCorrection = false
	}

	usableW := pageW - 2*marginPx
	usableH := pageH - 2*marginPx

	// uniform cells; leftover pixels stay in the margin
	cellW := (usableW - (opts.Cols-1)*spacingPx) / opts.Cols
	cellH := (usableH - (opts.Rows-1)*spacingPx) / opts.Rows
	if cellW <= 0 || cellH <= 0 {
		return nil, fmt.Errorf("%w: margin and spacing leave no usable cell area", domain.ErrLayoutGrid)
	}

	if len(images) == 0 {
		return []*image.NRGBA{imaging.New(pageW, pageH, bg)}, nil
	}

	perPage := opts.Cols * opts.Rows
	pages := make([]*image.NRGBA, 0, (len(images)+perPage-1)/perPage)

	for start := 0; start < len(images); start += perPage {
		end := min(start+perPage, len(images))
		page := imaging.New(pageW, pageH, bg)

		for i, img := range images[start:end] {
			row := i / opts.Cols
			col := i % opts.Cols

			// Seam correction: with zero spacing, interior cells render one
			// pixel past their trailing edge so anti-aliased borders overlap
			// instead of leaving hairline gaps. Outer page edges never expand.
			targetW := cellW
			targetH := cellH
			if seamCorrection && col < opts.Cols-1 {
				targetW++
			}
			if seamCorrection && row < opts.Rows-1 {
				targetH++
			}

			fitted := placeInCell(img, targetW, targetH, bg)

			cellX := marginPx + col*(cellW+spacingPx)
			cellY := marginPx + row*(cellH+spacingPx)
			offX := cellX + (targetW-fitted.Bounds().Dx())/2
			offY := cellY + (targetH-fitted.Bounds().Dy())/2
			page = imaging.Paste(page, fitted, image.Pt(offX, offY))
		}

		pages = append(pages, page)
	}

	return pages, nil
}

// placeInCell contain-fits an image into the target bounds and flattens any
// transparency against the page background, so semi-transparent edge pixels
// cannot read as seams between adjacent cells. A strict re-fit guards
// against sources whose resize still exceeds the bounds.
func placeInCell(img image.Image, targetW, targetH int, bg color.Color) *image.NRGBA {
	fitted := imaging.Fit(img, targetW, targetH, imaging.Lanczos)
	if fitted.Bounds().Dx() > targetW || fitted.Bounds().Dy() > targetH {
		fitted = imaging.Fit(fitted, targetW, targetH, imaging.Lanczos)
	}
	return flatten(fitted, bg)
}

// flatten blends an image over an opaque background of its own size.
func flatten(img *image.NRGBA, bg color.Color) *image.NRGBA {
	base := imaging.New(img.Bounds().Dx(), img.Bounds().Dy(), bg)
	return imaging.Overlay(base, img, image.Pt(0, 0), 1.0)
}
