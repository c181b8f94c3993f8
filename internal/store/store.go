package store

import (
	"context"
	"time"

	"github.com/prizepress/prizepress/internal/store/schema"
)

// Store defines the interface for database operations
type Store interface {
	// WithinTransaction runs fn against a store bound to one database
	// transaction; fn returning an error rolls everything back
	WithinTransaction(ctx context.Context, fn func(tx Store) error) error

	// FindActivePrizesByIDs retrieves the active prizes among the given IDs
	FindActivePrizesByIDs(ctx context.Context, ids []string) ([]schema.Prize, error)
	// ApplyPrizeDecrement atomically decrements stock and increments
	// emitted_total by amount, conditioned on stock >= amount in the same
	// statement. Returns the number of rows the update applied to (0 when
	// stock was insufficient or the prize is unknown/inactive).
	ApplyPrizeDecrement(ctx context.Context, prizeID string, amount int) (int64, error)

	// CreateBatch inserts a new batch row
	CreateBatch(ctx context.Context, batch *schema.Batch) error
	// UpdateBatchFunctionalDate stores the derived functional date for a batch
	UpdateBatchFunctionalDate(ctx context.Context, batchID string, date time.Time) error
	// GetBatch retrieves a batch by ID, or nil when absent
	GetBatch(ctx context.Context, batchID string) (*schema.Batch, error)

	// InsertTokens inserts token rows in bounded-size chunks; callable
	// repeatedly for the same batch
	InsertTokens(ctx context.Context, rows []schema.Token, chunkSize int) error
	// FindTokensByBatch retrieves a batch's tokens in ascending creation order
	FindTokensByBatch(ctx context.Context, batchID string) ([]schema.Token, error)

	// GetTemplateByID retrieves a print template by ID, or nil when absent
	GetTemplateByID(ctx context.Context, id string) (*schema.PrintTemplate, error)
	// GetLatestTemplate retrieves the most recently created print template
	GetLatestTemplate(ctx context.Context) (*schema.PrintTemplate, error)
}
