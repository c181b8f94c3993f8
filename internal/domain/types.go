package domain

import (
	"time"
)

// TokenKind distinguishes a plain redemption token from the primary half
// of a retry pair. A retry-linked token references a second, initially
// disabled reserve token that becomes redeemable once the primary is
// revealed.
type TokenKind string

const (
	// TokenKindStandalone is a plain single-use redemption token
	TokenKindStandalone TokenKind = "standalone"
	// TokenKindRetryLinked is the primary token of a retry pair
	TokenKindRetryLinked TokenKind = "retry_linked"
)

// Prize is an inventory-bearing reward type with finite remaining stock.
// Stock is only ever mutated through the store's conditional decrement;
// no code path may read-then-write it.
type Prize struct {
	ID           string
	Label        string
	Color        string
	Stock        int
	EmittedTotal int
	Active       bool
}

// Batch is a named group of tokens minted together. FunctionalDate is a
// calendar day derived from the description (or defaulted to the creation
// day) expressed as local midnight at a fixed UTC offset; derivation is
// best-effort and never blocks issuance.
type Batch struct {
	ID             string
	Description    string
	FunctionalDate *time.Time
	StaticURL      string
	CreatedAt      time.Time
}

// Token is a single signed, expiring redemption credential tied to one
// prize and one batch for its lifetime. The signature binds the immutable
// fields (ID, PrizeID, ExpiresAt, SignatureVersion) and is never
// recomputed after mint.
type Token struct {
	ID                string
	BatchID           string
	PrizeID           string
	ExpiresAt         time.Time
	Signature         string
	SignatureVersion  int
	Kind              TokenKind
	PairedNextTokenID *string
	Disabled          bool
	RedeemedAt        *time.Time
	RevealedAt        *time.Time
	DeliveredAt       *time.Time
}

// Placement positions the visual code on a print template. All
// measurements are millimeters; conversion to pixels happens at
// composition time against the template's DPI.
type Placement struct {
	XMm         float64
	YMm         float64
	WidthMm     float64
	RotationDeg float64
}

// PrintTemplate is a background raster plus the metadata needed to tile
// composited tokens onto physical pages. Templates are read-only inputs.
type PrintTemplate struct {
	ID        string
	FilePath  string
	DPI       int
	Cols      int
	Rows      int
	Placement Placement
	CreatedAt time.Time
}

// Retry reports whether the token is the primary half of a retry pair.
func (t *Token) Retry() bool {
	return t.Kind == TokenKindRetryLinked
}

// Expired reports whether the token is past its expiry at the given instant.
func (t *Token) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
