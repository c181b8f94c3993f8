package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/prizepress/prizepress/internal/domain"
)

// CurrentVersion is the signature scheme minted for new tokens. Verifiers
// dispatch on the version stored with the token, so the scheme can rotate
// without invalidating previously minted tokens.
const CurrentVersion = 1

// Signer derives and verifies keyed token signatures. The secret is
// process-wide and constant for the process lifetime.
type Signer struct {
	secret []byte
}

// NewSigner creates a signer from the process signing key.
func NewSigner(secret []byte) *Signer {
	return &Signer{secret: secret}
}

// Sign derives the deterministic signature binding a token's immutable
// fields. The same five inputs always produce the same signature.
func (s *Signer) Sign(tokenID, prizeID string, expiresAt time.Time, version int) (string, error) {
	switch version {
	case 1:
		return s.signV1(tokenID, prizeID, expiresAt), nil
	default:
		return "", fmt.Errorf("%w: %d", domain.ErrUnknownSignatureVersion, version)
	}
}

// Verify recomputes the signature from the claimed fields and compares it
// in constant time. A mismatch is a hard rejection.
func (s *Signer) Verify(sig, tokenID, prizeID string, expiresAt time.Time, version int) error {
	expected, err := s.Sign(tokenID, prizeID, expiresAt, version)
	if err != nil {
		return err
	}
	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return domain.ErrSignatureMismatch
	}
	return nil
}

// signV1 is HMAC-SHA256 over "v1.<tokenID>.<prizeID>.<expiry unix>",
// hex-encoded. Expiry is truncated to whole seconds so the signature is
// stable across storage round-trips that drop sub-second precision.
func (s *Signer) signV1(tokenID, prizeID string, expiresAt time.Time) string {
	payload := fmt.Sprintf("v1.%s.%s.%d", tokenID, prizeID, expiresAt.Unix())
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(payload))
	return hex.EncodeToString(h.Sum(nil))
}
