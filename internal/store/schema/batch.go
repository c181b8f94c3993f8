package schema

import "time"

// Batch represents the batches table - a named group of tokens minted
// together. Immutable after creation except for the denormalized
// StaticURL routing field.
type Batch struct {
	// ID is the batch identifier (ULID, sortable by creation time)
	ID string `gorm:"column:id;primaryKey;type:text"`
	// Description is an optional operator-provided label; it may embed a
	// calendar date that the issuer extracts as the functional date
	Description string `gorm:"column:description;type:text"`
	// FunctionalDate is the derived calendar day, stored as local midnight
	// at a fixed UTC offset; nil until derivation has run
	FunctionalDate *time.Time `gorm:"column:functional_date"`
	// StaticURL is a denormalized static-routing URL for printed sheets
	StaticURL string `gorm:"column:static_url;type:text"`
	// CreatedAt is the batch creation time
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()"`

	// Associations
	Tokens []Token `gorm:"foreignKey:BatchID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the Batch model
func (Batch) TableName() string {
	return "batches"
}
