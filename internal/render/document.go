package render

import (
	"context"
	"fmt"
	"image"
	"net/url"

	"github.com/signintech/gopdf"
	"go.uber.org/zap"

	"github.com/prizepress/prizepress/internal/adapter"
	"github.com/prizepress/prizepress/internal/domain"
	"github.com/prizepress/prizepress/internal/logger"
)

const (
	// DefaultMaxTokens caps the number of tokens rendered into one document
	DefaultMaxTokens = 500
	// DefaultChunkSize bounds how many composited rasters are held in
	// memory at once
	DefaultChunkSize = 100

	// A4 in PDF points
	pdfPageWidthPt  = 595.28
	pdfPageHeightPt = 841.89
)

// DocumentOptions configures one RenderDocument call. Grid, DPI and
// placement come from the template; the rest are caller policy.
type DocumentOptions struct {
	// RedeemBaseURL prefixes every token's redemption URL
	RedeemBaseURL string
	// MaxTokens caps tokens processed in one call; DefaultMaxTokens when 0
	MaxTokens int
	// ChunkSize bounds per-chunk composited buffers; DefaultChunkSize when 0
	ChunkSize int
	MarginMm  float64
	SpacingMm float64
	Code      CodeOptions
}

// DocumentResult is the assembled document plus the counts a caller needs
// to request follow-up ranges.
type DocumentResult struct {
	PDF []byte
	// Requested is how many tokens the caller asked for
	Requested int
	// Processed is how many tokens made it into the document
	Processed int
	Pages     int
	Chunks    int
}

// DocumentRenderer drives the render-compose-layout pipeline over a whole
// batch in bounded-size sequential chunks and assembles the pages into one
// PDF. Processing is deliberately sequential: chunking is what bounds peak
// memory, so there is no fan-out across chunks or tokens.
type DocumentRenderer struct {
	fs    adapter.FileSystem
	codec adapter.ImageCodec
	clock adapter.Clock
}

// NewDocumentRenderer creates a document renderer.
func NewDocumentRenderer(fs adapter.FileSystem, codec adapter.ImageCodec, clock adapter.Clock) *DocumentRenderer {
	return &DocumentRenderer{fs: fs, codec: codec, clock: clock}
}

// RenderDocument renders tokens onto template sheets and returns a
// multi-page PDF in input token order. Template problems and an empty
// token list fail before any chunk processing; a failure partway through a
// chunk aborts the whole document.
func (r *DocumentRenderer) RenderDocument(ctx context.Context, tokens []domain.Token, tpl *domain.PrintTemplate, opts DocumentOptions) (*DocumentResult, error) {
	start := r.clock.Now()

	if tpl == nil {
		return nil, domain.ErrTemplateMissing
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: no tokens to render", domain.ErrBatchNotFound)
	}

	data, err := r.fs.ReadFile(tpl.FilePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrTemplateFileMissing, tpl.FilePath, err)
	}
	background, err := r.codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrTemplateFileMissing, tpl.FilePath, err)
	}

	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	requested := len(tokens)
	if len(tokens) > maxTokens {
		tokens = tokens[:maxTokens]
	}

	layoutOpts := LayoutOptions{
		DPI:       tpl.DPI,
		Cols:      tpl.Cols,
		Rows:      tpl.Rows,
		MarginMm:  opts.MarginMm,
		SpacingMm: opts.SpacingMm,
	}

	var pages []*image.NRGBA
	chunks := 0

	for offset := 0; offset < len(tokens); offset += chunkSize {
		end := min(offset+chunkSize, len(tokens))
		chunk := tokens[offset:end]
		chunks++

		composited := make([]image.Image, len(chunk))
		for i, token := range chunk {
			code, err := RenderCode(redemptionURL(opts.RedeemBaseURL, token), opts.Code)
			if err != nil {
				return nil, fmt.Errorf("token %s: %w", token.ID, err)
			}
			composited[i] = Compose(background, code, tpl.Placement, tpl.DPI)
		}

		chunkPages, err := LayoutPages(composited, layoutOpts)
		if err != nil {
			return nil, err
		}
		pages = append(pages, chunkPages...)

		// release the chunk's composited buffers before the next chunk, so
		// peak memory is one chunk of composites plus the page list
		for i := range composited {
			composited[i] = nil
		}
	}

	pdfBytes, err := assemblePDF(pages)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble document: %w", err)
	}

	// best-effort audit record; never fails the operation
	logger.InfoCtx(ctx, "rendered token document",
		zap.Int("tokens_requested", requested),
		zap.Int("tokens_processed", len(tokens)),
		zap.Int("pages", len(pages)),
		zap.Int("bytes", len(pdfBytes)),
		zap.Duration("elapsed", r.clock.Since(start)))

	return &DocumentResult{
		PDF:       pdfBytes,
		Requested: requested,
		Processed: len(tokens),
		Pages:     len(pages),
		Chunks:    chunks,
	}, nil
}

// assemblePDF places each page raster on one A4 PDF page, preserving order.
func assemblePDF(pages []*image.NRGBA) ([]byte, error) {
	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})

	for _, page := range pages {
		pdf.AddPage()
		rect := &gopdf.Rect{W: pdfPageWidthPt, H: pdfPageHeightPt}
		if err := pdf.ImageFrom(page, 0, 0, rect); err != nil {
			return nil, err
		}
	}

	return pdf.GetBytesPdf(), nil
}

// redemptionURL builds the payload encoded into a token's QR code: the
// redemption endpoint plus the signature, so scanners can verify offline.
func redemptionURL(base string, token domain.Token) string {
	return fmt.Sprintf("%s/redeem/%s?sig=%s", base, token.ID, url.QueryEscape(token.Signature))
}
