package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/gym-entry/internal/config"
	"github.com/spec-kit/gym-entry/internal/domain"
	"github.com/spec-kit/gym-entry/internal/entrytoken"
	"github.com/spec-kit/gym-entry/internal/repository"
	apperrors "github.com/spec-kit/gym-entry/pkg/util"
)

type stubSubjects struct {
	calls int
	err   error
}

var _ repository.SubjectRepository = (*stubSubjects)(nil)

func (s *stubSubjects) FindByID(context.Context, string) (*domain.Subject, error) {
	s.calls++
	return nil, s.err
}

func (s *stubSubjects) FindByEmail(context.Context, string) (*domain.Subject, error) {
	s.calls++
	return &domain.Subject{ID: "s1"}, s.err
}

func (s *stubSubjects) CreateWalkIn(context.Context, repository.WalkInRequest) (*domain.Subject, error) {
	s.calls++
	return nil, s.err
}

func testBreaker() *Breaker {
	return NewBreaker("postgres", config.BreakerConfig{FailureThreshold: 2, OpenSeconds: 60}, zap.NewNop())
}

func TestSubjectRepository_TripsAfterConsecutiveFailures(t *testing.T) {
	stub := &stubSubjects{err: errors.New("connection refused")}
	repo := SubjectRepository(stub, testBreaker())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := repo.FindByID(ctx, "id")
		require.Error(t, err)
		assert.NotErrorIs(t, err, apperrors.ErrDependencyUnavailable)
	}

	_, err := repo.FindByID(ctx, "id")
	assert.ErrorIs(t, err, apperrors.ErrDependencyUnavailable)
	assert.Equal(t, 2, stub.calls, "open breaker short-circuits the store")
}

func TestSubjectRepository_NotFoundDoesNotTrip(t *testing.T) {
	stub := &stubSubjects{err: apperrors.ErrNotFound}
	breaker := testBreaker()
	repo := SubjectRepository(stub, breaker)

	for i := 0; i < 5; i++ {
		_, err := repo.FindByID(context.Background(), "id")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	}
	assert.Equal(t, 5, stub.calls)
	assert.Equal(t, "closed", breaker.State())
}

func TestSubjectRepository_PassesResults(t *testing.T) {
	repo := SubjectRepository(&stubSubjects{}, testBreaker())

	subject, err := repo.FindByEmail(context.Background(), "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "s1", subject.ID)

	subject, err = repo.FindByID(context.Background(), "id")
	require.NoError(t, err)
	assert.Nil(t, subject)
}

func TestReplayGuard_Decorates(t *testing.T) {
	guard := ReplayGuard(entrytoken.NewMemoryReplayGuard(nil), testBreaker())
	ctx := context.Background()

	won, err := guard.MarkConsumed(ctx, "sig", time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, won)

	used, err := guard.Contains(ctx, "sig")
	require.NoError(t, err)
	assert.True(t, used)
}

func TestSubjectRepository_ClientErrorsDoNotTrip(t *testing.T) {
	stub := &stubSubjects{err: apperrors.NewConflict("member already exists", nil)}
	breaker := testBreaker()
	repo := SubjectRepository(stub, breaker)

	for i := 0; i < 3; i++ {
		_, err := repo.CreateWalkIn(context.Background(), repository.WalkInRequest{FirstName: "A", LastName: "B"})
		assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
	}
	assert.Equal(t, "closed", breaker.State())
}
