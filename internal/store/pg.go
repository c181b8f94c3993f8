package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/prizepress/prizepress/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// Migrate creates or updates the tables owned by this service
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&schema.Prize{},
		&schema.Batch{},
		&schema.Token{},
		&schema.PrintTemplate{},
	)
}

// ConfigureConnectionPool configures the connection pool settings for a GORM
// database connection. Zero values fall back to defaults:
//   - MaxOpenConns: 20
//   - MaxIdleConns: 5
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// calculateSafeChunkSize clamps a requested insert chunk size so a single
// batch insert stays under PostgreSQL's 65535-parameter limit for the
// extended protocol. Each token row consumes one parameter per field, and a
// headroom is reserved for statement-level overhead.
func calculateSafeChunkSize(requested int, fieldsPerRecord int) int {
	const maxParams = 65535
	const headroom = 1000

	safe := max((maxParams-headroom)/fieldsPerRecord, 1)
	if requested <= 0 || requested > safe {
		return safe
	}
	return requested
}

// WithinTransaction runs fn against a store bound to one transaction
func (s *pgStore) WithinTransaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&pgStore{db: tx})
	})
}

// FindActivePrizesByIDs retrieves the active prizes among the given IDs
func (s *pgStore) FindActivePrizesByIDs(ctx context.Context, ids []string) ([]schema.Prize, error) {
	var prizes []schema.Prize
	err := s.db.WithContext(ctx).
		Where("id IN ? AND active", ids).
		Find(&prizes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find prizes: %w", err)
	}
	return prizes, nil
}

// ApplyPrizeDecrement atomically consumes stock for one prize. The stock
// check and the decrement are one conditional UPDATE, so two concurrent
// issuance calls can never both succeed when combined demand exceeds stock.
func (s *pgStore) ApplyPrizeDecrement(ctx context.Context, prizeID string, amount int) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&schema.Prize{}).
		Where("id = ? AND active AND stock >= ?", prizeID, amount).
		Updates(map[string]interface{}{
			"stock":         gorm.Expr("stock - ?", amount),
			"emitted_total": gorm.Expr("emitted_total + ?", amount),
			"updated_at":    gorm.Expr("now()"),
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to decrement prize stock: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// CreateBatch inserts a new batch row
func (s *pgStore) CreateBatch(ctx context.Context, batch *schema.Batch) error {
	if err := s.db.WithContext(ctx).Create(batch).Error; err != nil {
		return fmt.Errorf("failed to create batch: %w", err)
	}
	return nil
}

// UpdateBatchFunctionalDate stores the derived functional date for a batch
func (s *pgStore) UpdateBatchFunctionalDate(ctx context.Context, batchID string, date time.Time) error {
	err := s.db.WithContext(ctx).
		Model(&schema.Batch{}).
		Where("id = ?", batchID).
		Update("functional_date", date).Error
	if err != nil {
		return fmt.Errorf("failed to update batch functional date: %w", err)
	}
	return nil
}

// GetBatch retrieves a batch by ID
func (s *pgStore) GetBatch(ctx context.Context, batchID string) (*schema.Batch, error) {
	var batch schema.Batch
	err := s.db.WithContext(ctx).Where("id = ?", batchID).First(&batch).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get batch: %w", err)
	}
	return &batch, nil
}

// InsertTokens inserts token rows in bounded-size chunks. The chunk size is
// clamped so one insert never exceeds the driver's parameter limit.
func (s *pgStore) InsertTokens(ctx context.Context, rows []schema.Token, chunkSize int) error {
	if len(rows) == 0 {
		return nil
	}

	// schema.Token has 13 columns
	chunkSize = calculateSafeChunkSize(chunkSize, 13)
	if err := s.db.WithContext(ctx).CreateInBatches(rows, chunkSize).Error; err != nil {
		return fmt.Errorf("failed to insert tokens: %w", err)
	}
	return nil
}

// FindTokensByBatch retrieves a batch's tokens in ascending creation order
func (s *pgStore) FindTokensByBatch(ctx context.Context, batchID string) ([]schema.Token, error) {
	var tokens []schema.Token
	err := s.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Order("created_at ASC, id ASC").
		Find(&tokens).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find tokens: %w", err)
	}
	return tokens, nil
}

// GetTemplateByID retrieves a print template by ID
func (s *pgStore) GetTemplateByID(ctx context.Context, id string) (*schema.PrintTemplate, error) {
	var tpl schema.PrintTemplate
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&tpl).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return &tpl, nil
}

// GetLatestTemplate retrieves the most recently created print template
func (s *pgStore) GetLatestTemplate(ctx context.Context) (*schema.PrintTemplate, error) {
	var tpl schema.PrintTemplate
	err := s.db.WithContext(ctx).Order("created_at DESC").First(&tpl).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest template: %w", err)
	}
	return &tpl, nil
}
