package entrytoken

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/gym-entry/internal/domain"
)

// DefaultTTL is the validity window of an issued token.
const DefaultTTL = 30 * time.Second

const separator = "."

// IssuedToken is what a member's device renders as a scannable code.
type IssuedToken struct {
	Token      string
	ExpiresAt  time.Time
	TTLSeconds int
}

// VerifyResult is the token-pipeline verdict. Reason is empty on success.
type VerifyResult struct {
	OK      bool
	Reason  domain.ReasonCode
	Payload Payload
}

func rejected(reason domain.ReasonCode) VerifyResult {
	return VerifyResult{OK: false, Reason: reason}
}

// Service issues and verifies entry tokens. It owns the replay guard passed to it.
type Service struct {
	signer   *Signer
	guard    ReplayGuard
	ttl      time.Duration
	now      func() time.Time
	newNonce func() (string, error)
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithNonceSource overrides nonce generation.
func WithNonceSource(fn func() (string, error)) Option {
	return func(s *Service) {
		if fn != nil {
			s.newNonce = fn
		}
	}
}

// NewService composes signer and guard. TTL is truncated to whole seconds;
// non-positive values fall back to DefaultTTL.
func NewService(signer *Signer, guard ReplayGuard, ttl time.Duration, opts ...Option) (*Service, error) {
	if signer == nil {
		return nil, ErrSecretNotConfigured
	}
	if guard == nil {
		return nil, errors.New("entrytoken: replay guard is required")
	}
	ttl = ttl.Truncate(time.Second)
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	s := &Service{
		signer: signer,
		guard:  guard,
		ttl:    ttl,
		now:    time.Now,
		newNonce: func() (string, error) {
			id, err := uuid.NewRandom()
			if err != nil {
				return "", err
			}
			return id.String(), nil
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// TTL returns the configured validity window.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Issue mints a token for subjectID. It never touches the replay guard.
func (s *Service) Issue(subjectID string) (IssuedToken, error) {
	if subjectID == "" {
		return IssuedToken{}, errors.New("entrytoken: subject id is required")
	}
	nonce, err := s.newNonce()
	if err != nil {
		return IssuedToken{}, fmt.Errorf("generate nonce: %w", err)
	}

	expiresAt := s.now().Unix() + int64(s.ttl/time.Second)
	encoded, err := Encode(Payload{
		Kind:          PayloadKind,
		SubjectID:     subjectID,
		Nonce:         nonce,
		ExpiresAtUnix: expiresAt,
	})
	if err != nil {
		return IssuedToken{}, fmt.Errorf("encode payload: %w", err)
	}

	return IssuedToken{
		Token:      encoded + separator + s.signer.Sign(encoded),
		ExpiresAt:  time.Unix(expiresAt, 0),
		TTLSeconds: int(s.ttl / time.Second),
	}, nil
}

// Verify runs the token pipeline. Token problems come back as a rejected
// VerifyResult; the error is reserved for replay guard failures.
//
// The signature is checked before the guard is consulted so unauthenticated
// input never reads or fills it, and expired tokens are never recorded.
func (s *Service) Verify(ctx context.Context, raw string) (VerifyResult, error) {
	parts := strings.Split(raw, separator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return rejected(domain.ReasonTokenMalformed), nil
	}
	encoded, signature := parts[0], parts[1]

	if !s.signer.Verify(encoded, signature) {
		return rejected(domain.ReasonTokenInvalidSignature), nil
	}

	used, err := s.guard.Contains(ctx, signature)
	if err != nil {
		return VerifyResult{}, fmt.Errorf("replay guard lookup: %w", err)
	}
	if used {
		return rejected(domain.ReasonTokenReplayed), nil
	}

	payload, err := Decode(encoded)
	if err != nil {
		return rejected(domain.ReasonTokenInvalidPayload), nil
	}

	if payload.ExpiresAtUnix <= s.now().Unix() {
		return rejected(domain.ReasonTokenExpired), nil
	}

	won, err := s.guard.MarkConsumed(ctx, signature, time.Unix(payload.ExpiresAtUnix, 0))
	if err != nil {
		return VerifyResult{}, fmt.Errorf("replay guard mark: %w", err)
	}
	if !won {
		return rejected(domain.ReasonTokenReplayed), nil
	}

	return VerifyResult{OK: true, Payload: payload}, nil
}
