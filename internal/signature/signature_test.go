package signature_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prizepress/prizepress/internal/domain"
	"github.com/prizepress/prizepress/internal/signature"
)

func TestSign(t *testing.T) {
	signer := signature.NewSigner([]byte("test-signing-key"))
	expiresAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("is deterministic", func(t *testing.T) {
		sig1, err := signer.Sign("tok-1", "prize-a", expiresAt, 1)
		require.NoError(t, err)
		sig2, err := signer.Sign("tok-1", "prize-a", expiresAt, 1)
		require.NoError(t, err)
		assert.Equal(t, sig1, sig2)
	})

	t.Run("matches the documented v1 construction", func(t *testing.T) {
		sig, err := signer.Sign("tok-1", "prize-a", expiresAt, 1)
		require.NoError(t, err)

		payload := fmt.Sprintf("v1.tok-1.prize-a.%d", expiresAt.Unix())
		h := hmac.New(sha256.New, []byte("test-signing-key"))
		h.Write([]byte(payload))
		assert.Equal(t, hex.EncodeToString(h.Sum(nil)), sig)
	})

	t.Run("changing any input changes the signature", func(t *testing.T) {
		base, err := signer.Sign("tok-1", "prize-a", expiresAt, 1)
		require.NoError(t, err)

		other, err := signer.Sign("tok-2", "prize-a", expiresAt, 1)
		require.NoError(t, err)
		assert.NotEqual(t, base, other)

		other, err = signer.Sign("tok-1", "prize-b", expiresAt, 1)
		require.NoError(t, err)
		assert.NotEqual(t, base, other)

		other, err = signer.Sign("tok-1", "prize-a", expiresAt.Add(time.Second), 1)
		require.NoError(t, err)
		assert.NotEqual(t, base, other)
	})

	t.Run("different secrets produce different signatures", func(t *testing.T) {
		otherSigner := signature.NewSigner([]byte("another-key"))

		sig1, err := signer.Sign("tok-1", "prize-a", expiresAt, 1)
		require.NoError(t, err)
		sig2, err := otherSigner.Sign("tok-1", "prize-a", expiresAt, 1)
		require.NoError(t, err)
		assert.NotEqual(t, sig1, sig2)
	})

	t.Run("unknown version is rejected", func(t *testing.T) {
		_, err := signer.Sign("tok-1", "prize-a", expiresAt, 99)
		assert.ErrorIs(t, err, domain.ErrUnknownSignatureVersion)
	})

	t.Run("sub-second expiry precision does not change the signature", func(t *testing.T) {
		sig1, err := signer.Sign("tok-1", "prize-a", expiresAt, 1)
		require.NoError(t, err)
		sig2, err := signer.Sign("tok-1", "prize-a", expiresAt.Add(500*time.Millisecond), 1)
		require.NoError(t, err)
		assert.Equal(t, sig1, sig2)
	})
}

func TestVerify(t *testing.T) {
	signer := signature.NewSigner([]byte("test-signing-key"))
	expiresAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("round-trips", func(t *testing.T) {
		sig, err := signer.Sign("tok-1", "prize-a", expiresAt, 1)
		require.NoError(t, err)
		assert.NoError(t, signer.Verify(sig, "tok-1", "prize-a", expiresAt, 1))
	})

	t.Run("rejects a mutated field", func(t *testing.T) {
		sig, err := signer.Sign("tok-1", "prize-a", expiresAt, 1)
		require.NoError(t, err)

		assert.ErrorIs(t, signer.Verify(sig, "tok-2", "prize-a", expiresAt, 1), domain.ErrSignatureMismatch)
		assert.ErrorIs(t, signer.Verify(sig, "tok-1", "prize-b", expiresAt, 1), domain.ErrSignatureMismatch)
		assert.ErrorIs(t, signer.Verify(sig, "tok-1", "prize-a", expiresAt.Add(time.Hour), 1), domain.ErrSignatureMismatch)
	})

	t.Run("rejects a forged signature", func(t *testing.T) {
		err := signer.Verify("deadbeef", "tok-1", "prize-a", expiresAt, 1)
		assert.ErrorIs(t, err, domain.ErrSignatureMismatch)
	})

	t.Run("rejects an unknown stored version", func(t *testing.T) {
		sig, err := signer.Sign("tok-1", "prize-a", expiresAt, 1)
		require.NoError(t, err)
		assert.ErrorIs(t, signer.Verify(sig, "tok-1", "prize-a", expiresAt, 7), domain.ErrUnknownSignatureVersion)
	})
}
