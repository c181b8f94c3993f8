package printer

import (
	"context"
	"fmt"
	"path/filepath"

	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/prizepress/prizepress/internal/domain"
	"github.com/prizepress/prizepress/internal/issuer"
	"github.com/prizepress/prizepress/internal/logger"
	"github.com/prizepress/prizepress/internal/render"
	"github.com/prizepress/prizepress/internal/store"
	"github.com/prizepress/prizepress/internal/store/schema"
)

// Options is the caller policy for document generation; grid, DPI and
// placement always come from the template itself.
type Options struct {
	RedeemBaseURL string
	// TemplateDir is prepended to relative template file paths
	TemplateDir string
	MaxTokens   int
	ChunkSize   int
	MarginMm    float64
	SpacingMm   float64
	CodeSizePx  int
}

// Service turns a persisted batch into a print-ready PDF: it resolves the
// batch's tokens and the print template, then hands both to the document
// renderer.
type Service struct {
	store    store.Store
	renderer *render.DocumentRenderer
	opts     Options
}

// NewService creates a printing service.
func NewService(st store.Store, renderer *render.DocumentRenderer, opts Options) *Service {
	return &Service{store: st, renderer: renderer, opts: opts}
}

// RenderBatchDocument renders the whole batch. templateID selects a
// specific template; empty means the most recent one. maxTokens overrides
// the configured cap when positive, letting callers page through very
// large batches.
func (s *Service) RenderBatchDocument(ctx context.Context, batchID, templateID string, maxTokens int) (*render.DocumentResult, error) {
	rows, err := s.store.FindTokensByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrBatchNotFound, batchID)
	}

	tpl, err := s.resolveTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}

	tokens := make([]domain.Token, 0, len(rows))
	for _, row := range rows {
		tokens = append(tokens, issuer.ToDomainToken(row))
	}

	if maxTokens <= 0 {
		maxTokens = s.opts.MaxTokens
	}

	return s.renderer.RenderDocument(ctx, tokens, tpl, render.DocumentOptions{
		RedeemBaseURL: s.opts.RedeemBaseURL,
		MaxTokens:     maxTokens,
		ChunkSize:     s.opts.ChunkSize,
		MarginMm:      s.opts.MarginMm,
		SpacingMm:     s.opts.SpacingMm,
		Code: render.CodeOptions{
			Level:  qrcode.Medium,
			SizePx: s.opts.CodeSizePx,
		},
	})
}

// resolveTemplate loads the requested template, or the most recent one
// when no ID is given, and parses its placement metadata best-effort.
func (s *Service) resolveTemplate(ctx context.Context, templateID string) (*domain.PrintTemplate, error) {
	var row *schema.PrintTemplate
	var err error
	if templateID != "" {
		row, err = s.store.GetTemplateByID(ctx, templateID)
	} else {
		row, err = s.store.GetLatestTemplate(ctx)
	}
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, domain.ErrTemplateMissing
	}

	placement, diagnostics := render.ParsePlacement(row.Placement)
	for _, diag := range diagnostics {
		logger.WarnCtx(ctx, "template placement fallback",
			zap.String("template_id", row.ID),
			zap.String("detail", diag))
	}

	filePath := row.FilePath
	if !filepath.IsAbs(filePath) {
		filePath = filepath.Join(s.opts.TemplateDir, filePath)
	}

	return &domain.PrintTemplate{
		ID:        row.ID,
		FilePath:  filePath,
		DPI:       row.DPI,
		Cols:      row.Cols,
		Rows:      row.Rows,
		Placement: placement,
		CreatedAt: row.CreatedAt,
	}, nil
}
