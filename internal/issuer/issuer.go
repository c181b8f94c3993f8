package issuer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/prizepress/prizepress/internal/adapter"
	"github.com/prizepress/prizepress/internal/domain"
	"github.com/prizepress/prizepress/internal/logger"
	"github.com/prizepress/prizepress/internal/signature"
	"github.com/prizepress/prizepress/internal/store"
	"github.com/prizepress/prizepress/internal/store/schema"
)

// DefaultInsertChunkSize bounds single token-insert statements; large
// batches are written in chunks of this many rows inside one transaction.
const DefaultInsertChunkSize = 1000

// PrizeRequest asks for count tokens of one prize, each valid for
// validityDays from mint time. RetryPair mints each token as a retry pair:
// a primary retry_linked token plus an initially disabled reserve token,
// consuming two units of stock per requested count.
type PrizeRequest struct {
	PrizeID      string
	Count        int
	ValidityDays int
	RetryPair    bool
}

// IssueOptions configures one IssueBatch call.
type IssueOptions struct {
	// Description is the optional operator label; an embedded date in a
	// common human format becomes the batch's functional date
	Description string
	// InsertChunkSize overrides DefaultInsertChunkSize when positive
	InsertChunkSize int
}

// IssueResult is the outcome of a successful issuance.
type IssueResult struct {
	Batch  domain.Batch
	Tokens []domain.Token
	// Emitted maps prize ID to the number of tokens actually minted for it
	Emitted map[string]int
}

// Service mints token batches. Stock consumption and token creation commit
// or roll back together; there is no partial issuance.
type Service struct {
	store  store.Store
	signer *signature.Signer
	clock  adapter.Clock
	// functional dates are local midnight in this zone
	loc *time.Location
	// insertChunkSize is the configured insert chunk size; per-call
	// options override it, DefaultInsertChunkSize applies when neither is set
	insertChunkSize int
}

// NewService creates a new issuance service. insertChunkSize bounds token
// insert statements; non-positive values fall back to
// DefaultInsertChunkSize.
func NewService(st store.Store, signer *signature.Signer, clock adapter.Clock, loc *time.Location, insertChunkSize int) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{store: st, signer: signer, clock: clock, loc: loc, insertChunkSize: insertChunkSize}
}

// IssueBatch validates the requests, consumes stock atomically per prize,
// and mints signed tokens inside one transaction. Any validation failure,
// unknown prize, or insufficient stock aborts the whole batch with nothing
// persisted.
func (s *Service) IssueBatch(ctx context.Context, requests []PrizeRequest, opts IssueOptions) (*IssueResult, error) {
	if err := validateRequests(requests); err != nil {
		return nil, err
	}

	now := s.clock.Now()

	prizeIDs := make([]string, 0, len(requests))
	for _, req := range requests {
		prizeIDs = append(prizeIDs, req.PrizeID)
	}
	active, err := s.store.FindActivePrizesByIDs(ctx, prizeIDs)
	if err != nil {
		return nil, err
	}
	activeByID := make(map[string]schema.Prize, len(active))
	for _, p := range active {
		activeByID[p.ID] = p
	}
	for _, req := range requests {
		if _, ok := activeByID[req.PrizeID]; !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrPrizeNotFound, req.PrizeID)
		}
	}

	chunkSize := opts.InsertChunkSize
	if chunkSize <= 0 {
		chunkSize = s.insertChunkSize
	}
	if chunkSize <= 0 {
		chunkSize = DefaultInsertChunkSize
	}

	batchRow := schema.Batch{
		ID:          ulid.MustNewDefault(now).String(),
		Description: opts.Description,
		CreatedAt:   now,
	}

	var minted []schema.Token
	emitted := make(map[string]int)

	err = s.store.WithinTransaction(ctx, func(tx store.Store) error {
		if err := tx.CreateBatch(ctx, &batchRow); err != nil {
			return err
		}

		functionalDate, matched := deriveFunctionalDate(opts.Description, now, s.loc)
		if !matched && opts.Description != "" {
			logger.WarnCtx(ctx, "no date pattern in batch description, using creation day",
				zap.String("batch_id", batchRow.ID))
		}
		if err := tx.UpdateBatchFunctionalDate(ctx, batchRow.ID, functionalDate); err != nil {
			return err
		}
		batchRow.FunctionalDate = &functionalDate

		// seq keeps mint order stable across the whole batch
		seq := 0
		for _, req := range requests {
			if req.Count == 0 {
				continue
			}

			consume := req.Count
			if req.RetryPair {
				consume = req.Count * 2
			}

			applied, err := tx.ApplyPrizeDecrement(ctx, req.PrizeID, consume)
			if err != nil {
				return err
			}
			if applied == 0 {
				return fmt.Errorf("%w: prize %s, requested %d", domain.ErrInsufficientStock, req.PrizeID, consume)
			}

			rows, err := s.mintRows(batchRow.ID, req, now, &seq)
			if err != nil {
				return err
			}
			minted = append(minted, rows...)
			emitted[req.PrizeID] += len(rows)
		}

		return tx.InsertTokens(ctx, minted, chunkSize)
	})
	if err != nil {
		return nil, err
	}

	logger.InfoCtx(ctx, "issued batch",
		zap.String("batch_id", batchRow.ID),
		zap.Int("tokens", len(minted)),
		zap.Int("prizes", len(emitted)))

	result := IssueResult{
		Batch:   toDomainBatch(batchRow),
		Tokens:  make([]domain.Token, 0, len(minted)),
		Emitted: emitted,
	}
	for _, row := range minted {
		result.Tokens = append(result.Tokens, ToDomainToken(row))
	}
	return &result, nil
}

// mintRows builds the token rows for one prize request. Rows carry
// explicit creation times offset by seq microseconds so batch ordering
// survives storage and retrieval.
func (s *Service) mintRows(batchID string, req PrizeRequest, now time.Time, seq *int) ([]schema.Token, error) {
	expiresAt := now.AddDate(0, 0, req.ValidityDays)

	count := req.Count
	if req.RetryPair {
		count *= 2
	}
	rows := make([]schema.Token, 0, count)

	for i := 0; i < req.Count; i++ {
		primary, err := s.mintRow(batchID, req.PrizeID, expiresAt, now, seq)
		if err != nil {
			return nil, err
		}

		if req.RetryPair {
			reserve, err := s.mintRow(batchID, req.PrizeID, expiresAt, now, seq)
			if err != nil {
				return nil, err
			}
			reserve.Disabled = true
			primary.Kind = string(domain.TokenKindRetryLinked)
			primary.PairedNextTokenID = &reserve.ID
			rows = append(rows, primary, reserve)
			continue
		}

		rows = append(rows, primary)
	}

	return rows, nil
}

func (s *Service) mintRow(batchID, prizeID string, expiresAt, now time.Time, seq *int) (schema.Token, error) {
	id := uuid.NewString()
	sig, err := s.signer.Sign(id, prizeID, expiresAt, signature.CurrentVersion)
	if err != nil {
		return schema.Token{}, err
	}

	row := schema.Token{
		ID:               id,
		BatchID:          batchID,
		PrizeID:          prizeID,
		ExpiresAt:        expiresAt,
		Signature:        sig,
		SignatureVersion: signature.CurrentVersion,
		Kind:             string(domain.TokenKindStandalone),
		CreatedAt:        now.Add(time.Duration(*seq) * time.Microsecond),
	}
	*seq++
	return row, nil
}

func validateRequests(requests []PrizeRequest) error {
	if len(requests) == 0 {
		return fmt.Errorf("%w: no prize requests", domain.ErrValidation)
	}
	for _, req := range requests {
		if req.PrizeID == "" {
			return fmt.Errorf("%w: empty prize id", domain.ErrValidation)
		}
		if req.Count < 0 {
			return fmt.Errorf("%w: negative count for prize %s", domain.ErrValidation, req.PrizeID)
		}
		if req.ValidityDays <= 0 {
			return fmt.Errorf("%w: non-positive validity for prize %s", domain.ErrValidation, req.PrizeID)
		}
	}
	return nil
}

func toDomainBatch(row schema.Batch) domain.Batch {
	return domain.Batch{
		ID:             row.ID,
		Description:    row.Description,
		FunctionalDate: row.FunctionalDate,
		StaticURL:      row.StaticURL,
		CreatedAt:      row.CreatedAt,
	}
}

// ToDomainToken maps a stored token row to its domain representation.
func ToDomainToken(row schema.Token) domain.Token {
	return domain.Token{
		ID:                row.ID,
		BatchID:           row.BatchID,
		PrizeID:           row.PrizeID,
		ExpiresAt:         row.ExpiresAt,
		Signature:         row.Signature,
		SignatureVersion:  row.SignatureVersion,
		Kind:              domain.TokenKind(row.Kind),
		PairedNextTokenID: row.PairedNextTokenID,
		Disabled:          row.Disabled,
		RedeemedAt:        row.RedeemedAt,
		RevealedAt:        row.RevealedAt,
		DeliveredAt:       row.DeliveredAt,
	}
}
