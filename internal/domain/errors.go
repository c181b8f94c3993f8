package domain

import "errors"

var (
	// ErrPrizeNotFound is returned when a requested prize does not exist or is inactive
	ErrPrizeNotFound = errors.New("prize not found")

	// ErrInsufficientStock is returned when a prize's remaining stock cannot cover the requested count
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrValidation is returned when a request is structurally invalid, before any side effect
	ErrValidation = errors.New("validation failed")

	// ErrTemplateMissing is returned when no print template matches the lookup
	ErrTemplateMissing = errors.New("print template not found")

	// ErrTemplateFileMissing is returned when a template row exists but its image file cannot be read
	ErrTemplateFileMissing = errors.New("print template file missing")

	// ErrBatchNotFound is returned when a batch does not exist or owns no tokens
	ErrBatchNotFound = errors.New("batch not found")

	// ErrPayloadTooLarge is returned when a redemption payload exceeds QR code capacity
	ErrPayloadTooLarge = errors.New("payload exceeds code capacity")

	// ErrLayoutGrid is returned for structurally invalid page grids (non-positive cols or rows)
	ErrLayoutGrid = errors.New("invalid layout grid")

	// ErrSignatureMismatch is returned when a token signature fails verification
	ErrSignatureMismatch = errors.New("signature mismatch")

	// ErrUnknownSignatureVersion is returned when a stored signature version has no registered verifier
	ErrUnknownSignatureVersion = errors.New("unknown signature version")
)
