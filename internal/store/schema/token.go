package schema

import "time"

// Token represents the tokens table - signed, expiring redemption
// credentials. A token belongs to exactly one batch and one prize for its
// lifetime. The signature binds (id, prize_id, expires_at,
// signature_version) and is never recomputed after mint.
type Token struct {
	// ID is the opaque globally unique token identifier (UUID)
	ID string `gorm:"column:id;primaryKey;type:text"`
	// BatchID references the owning batch
	BatchID string `gorm:"column:batch_id;not null;type:text;index:idx_tokens_batch_id"`
	// PrizeID references the prize this token redeems
	PrizeID string `gorm:"column:prize_id;not null;type:text;index:idx_tokens_prize_id"`
	// ExpiresAt is the absolute expiry instant
	ExpiresAt time.Time `gorm:"column:expires_at;not null"`
	// Signature is the keyed binding proof over the immutable fields
	Signature string `gorm:"column:signature;not null;type:text"`
	// SignatureVersion selects the verification scheme for this token
	SignatureVersion int `gorm:"column:signature_version;not null;default:1"`
	// Kind is the token variant: standalone or retry_linked
	Kind string `gorm:"column:kind;not null;type:text;default:standalone"`
	// PairedNextTokenID references the reserve token of a retry pair
	PairedNextTokenID *string `gorm:"column:paired_next_token_id;type:text"`
	// Disabled blocks redemption; reserve tokens of a retry pair start disabled
	Disabled bool `gorm:"column:disabled;not null;default:false"`
	// RedeemedAt is set when the prize is handed out
	RedeemedAt *time.Time `gorm:"column:redeemed_at"`
	// RevealedAt is set when the token is first scanned
	RevealedAt *time.Time `gorm:"column:revealed_at"`
	// DeliveredAt is set when the printed sheet leaves the house
	DeliveredAt *time.Time `gorm:"column:delivered_at"`
	// CreatedAt is the mint time; tokens within a batch sort by it
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()"`
}

// TableName specifies the table name for the Token model
func (Token) TableName() string {
	return "tokens"
}
