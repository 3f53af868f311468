// Package resilience wraps store and replay-guard calls in circuit breakers so
// a failing dependency is reported quickly as unavailable.
package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/gym-entry/internal/config"
	"github.com/spec-kit/gym-entry/internal/domain"
	"github.com/spec-kit/gym-entry/internal/entrytoken"
	"github.com/spec-kit/gym-entry/internal/repository"
	apperrors "github.com/spec-kit/gym-entry/pkg/util"
)

// Breaker guards calls to one dependency.
type Breaker struct {
	cb *gobreaker.CircuitBreaker[any]
}

// NewBreaker builds a breaker named after the dependency it protects.
func NewBreaker(name string, cfg config.BreakerConfig, logger *zap.Logger) *Breaker {
	threshold := uint32(cfg.FailureThreshold)
	if cfg.FailureThreshold <= 0 {
		threshold = 5
	}
	timeout := cfg.OpenTimeout()
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: isSuccessful,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("dependency", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}
	return &Breaker{cb: gobreaker.NewCircuitBreaker[any](settings)}
}

// isSuccessful counts caller-side outcomes (not found, client errors,
// cancellation) as healthy responses from the dependency.
func isSuccessful(err error) bool {
	if err == nil || errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, context.Canceled) {
		return true
	}
	var domainErr *apperrors.DomainError
	return errors.As(err, &domainErr) && domainErr.HTTPStatus < 500
}

// State reports the breaker state for readiness output.
func (b *Breaker) State() string {
	return b.cb.State().String()
}

// Do runs fn through the breaker. An open breaker yields ErrDependencyUnavailable.
func Do[T any](b *Breaker, fn func() (T, error)) (T, error) {
	var zero T
	out, err := b.cb.Execute(func() (any, error) {
		return fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return zero, errors.Join(apperrors.ErrDependencyUnavailable, err)
	}
	if err != nil {
		return zero, err
	}
	if out == nil {
		return zero, nil
	}
	return out.(T), nil
}

type subjectRepository struct {
	next    repository.SubjectRepository
	breaker *Breaker
}

// SubjectRepository decorates a SubjectRepository with a breaker.
func SubjectRepository(next repository.SubjectRepository, breaker *Breaker) repository.SubjectRepository {
	return &subjectRepository{next: next, breaker: breaker}
}

func (r *subjectRepository) FindByID(ctx context.Context, id string) (*domain.Subject, error) {
	return Do(r.breaker, func() (*domain.Subject, error) { return r.next.FindByID(ctx, id) })
}

func (r *subjectRepository) FindByEmail(ctx context.Context, email string) (*domain.Subject, error) {
	return Do(r.breaker, func() (*domain.Subject, error) { return r.next.FindByEmail(ctx, email) })
}

func (r *subjectRepository) CreateWalkIn(ctx context.Context, req repository.WalkInRequest) (*domain.Subject, error) {
	return Do(r.breaker, func() (*domain.Subject, error) { return r.next.CreateWalkIn(ctx, req) })
}

type replayGuard struct {
	next    entrytoken.ReplayGuard
	breaker *Breaker
}

// ReplayGuard decorates a shared replay guard with a breaker.
func ReplayGuard(next entrytoken.ReplayGuard, breaker *Breaker) entrytoken.ReplayGuard {
	return &replayGuard{next: next, breaker: breaker}
}

func (g *replayGuard) Contains(ctx context.Context, signature string) (bool, error) {
	return Do(g.breaker, func() (bool, error) { return g.next.Contains(ctx, signature) })
}

func (g *replayGuard) MarkConsumed(ctx context.Context, signature string, expiresAt time.Time) (bool, error) {
	return Do(g.breaker, func() (bool, error) { return g.next.MarkConsumed(ctx, signature, expiresAt) })
}
