package entrytoken

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

// ErrSecretNotConfigured is returned when no signing secret is available.
var ErrSecretNotConfigured = errors.New("entry token secret is not configured")

const keyInfo = "gym-entry/entry-token/v1"

// Signer computes and checks HMAC-SHA256 tags over encoded payloads.
type Signer struct {
	key []byte
}

// NewSigner derives the signing key from secret.
func NewSigner(secret []byte) (*Signer, error) {
	if len(secret) == 0 {
		return nil, ErrSecretNotConfigured
	}

	key := make([]byte, sha256.Size)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(keyInfo)), key); err != nil {
		return nil, err
	}
	return &Signer{key: key}, nil
}

// Sign returns the base64url tag for encodedPayload.
func (s *Signer) Sign(encodedPayload string) string {
	mac := hmac.New(sha256.New, s.key)
	mac.Write([]byte(encodedPayload))
	return encoding.EncodeToString(mac.Sum(nil))
}

// Verify recomputes the tag and compares it in constant time.
// The encoded forms are compared so that non-canonical base64 never validates.
func (s *Signer) Verify(encodedPayload, signature string) bool {
	if s == nil || len(s.key) == 0 {
		return false
	}
	expected := s.Sign(encodedPayload)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}
