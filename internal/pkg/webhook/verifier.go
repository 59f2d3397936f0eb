package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	domainErrors "github.com/zinsou/pharmapay/internal/domain/errors"
)

// Verifier checks a webhook signature before any reconciliation state
// mutation. Implementations are pluggable so real gateway-specific
// verification can replace the default without touching orchestration.
type Verifier interface {
	Verify(payload []byte, signature string) error
	Name() string
}

// PresenceVerifier accepts any non-empty signature. This mirrors the
// reference behaviour and is the default.
type PresenceVerifier struct{}

// NewPresenceVerifier constructs the presence-only verifier.
func NewPresenceVerifier() *PresenceVerifier {
	return &PresenceVerifier{}
}

// Verify rejects only an absent signature.
func (v *PresenceVerifier) Verify(_ []byte, signature string) error {
	if signature == "" {
		return domainErrors.ErrSignatureMissing
	}
	return nil
}

func (v *PresenceVerifier) Name() string {
	return "presence"
}

// HMACVerifier validates a hex-encoded SHA-256 HMAC of the raw payload.
type HMACVerifier struct {
	secret []byte
}

// NewHMACVerifier builds HMACVerifier with the shared secret.
func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret)}
}

// Verify recomputes the payload signature and compares in constant time.
func (v *HMACVerifier) Verify(payload []byte, signature string) error {
	if signature == "" {
		return domainErrors.ErrSignatureMissing
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return domainErrors.ErrSignatureInvalid
	}
	return nil
}

func (v *HMACVerifier) Name() string {
	return "hmac-sha256"
}

// Sign computes the signature the verifier expects. Used by tests and by
// operators replaying webhooks.
func (v *HMACVerifier) Sign(payload []byte) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
