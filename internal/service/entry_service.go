package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/gym-entry/internal/domain"
	"github.com/spec-kit/gym-entry/internal/entrytoken"
	"github.com/spec-kit/gym-entry/internal/events"
	"github.com/spec-kit/gym-entry/internal/observability"
	"github.com/spec-kit/gym-entry/internal/policy"
	"github.com/spec-kit/gym-entry/internal/repository"
	apperrors "github.com/spec-kit/gym-entry/pkg/util"
)

const (
	defaultEntryLogLimit = 50
	maxEntryLogLimit     = 200
)

// EntryService coordinates token issuance, scanning and desk entry.
type EntryService struct {
	tokens     *entrytoken.Service
	engine     *policy.Engine
	subjects   repository.SubjectRepository
	entryLogs  repository.EntryLogRepository
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// EntryDependencies bundles collaborators for the entry service.
type EntryDependencies struct {
	Tokens       *entrytoken.Service
	Engine       *policy.Engine
	SubjectRepo  repository.SubjectRepository
	EntryLogRepo repository.EntryLogRepository
	Dispatcher   events.Dispatcher
	Metrics      *observability.Metrics
	Logger       *zap.Logger
	Now          func() time.Time
}

// IssueOutcome is the result of a token request. Token is nil unless the
// pre-check granted.
type IssueOutcome struct {
	Decision domain.EntryDecision
	Token    *entrytoken.IssuedToken
}

// EntryOutcome is the verdict of an entry attempt. Entry is set when the
// attempt was granted and the log append succeeded.
type EntryOutcome struct {
	Decision domain.EntryDecision
	Method   domain.EntryMethod
	Entry    *domain.EntryRecord
}

// ManualEntryRequest is what the desk submits for an entry without a token.
type ManualEntryRequest struct {
	Email     string
	FirstName string
	LastName  string
	Phone     string
	WalkIn    bool
}

// NewEntryService constructs the service.
func NewEntryService(deps EntryDependencies) *EntryService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &EntryService{
		tokens:     deps.Tokens,
		engine:     deps.Engine,
		subjects:   deps.SubjectRepo,
		entryLogs:  deps.EntryLogRepo,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
		now:        now,
	}
}

// IssueToken hands a member a short-lived entry token, provided they would
// be let in right now.
func (s *EntryService) IssueToken(ctx context.Context, subjectID string) (IssueOutcome, error) {
	subject, err := s.loadSubject(ctx, subjectID)
	if err != nil {
		return IssueOutcome{}, err
	}

	decision := s.engine.Decide(subject)
	if !decision.Granted {
		s.logger.Info("entry token refused",
			zap.String("subject_id", subjectID),
			zap.String("reason", string(decision.Reason)))
		return IssueOutcome{Decision: decision}, nil
	}

	issued, err := s.tokens.Issue(subject.ID)
	if err != nil {
		return IssueOutcome{}, apperrors.NewInternalError(err)
	}
	return IssueOutcome{Decision: decision, Token: &issued}, nil
}

// Scan verifies a presented token and decides entry for its subject.
func (s *EntryService) Scan(ctx context.Context, rawToken, operatorID string) (EntryOutcome, error) {
	result, err := s.tokens.Verify(ctx, rawToken)
	if err != nil {
		return EntryOutcome{}, apperrors.NewDependencyUnavailable("replay guard", err)
	}
	if !result.OK {
		return s.finish(ctx, domain.Deny(result.Reason, nil), domain.EntryMethodQR, operatorID), nil
	}

	subject, err := s.loadSubject(ctx, result.Payload.SubjectID)
	if err != nil {
		return EntryOutcome{}, err
	}
	return s.finish(ctx, s.engine.Decide(subject), domain.EntryMethodQR, operatorID), nil
}

// ManualEntry admits a subject looked up by email, or registers a walk-in.
func (s *EntryService) ManualEntry(ctx context.Context, req ManualEntryRequest, operatorID string) (EntryOutcome, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Phone = strings.TrimSpace(req.Phone)

	if req.WalkIn {
		return s.walkIn(ctx, req, operatorID)
	}
	if req.Email == "" {
		return EntryOutcome{}, apperrors.NewValidationError("email is required", nil)
	}

	subject, err := s.subjects.FindByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return EntryOutcome{}, s.storeError(err)
	}
	return s.finish(ctx, s.engine.Decide(subject), domain.EntryMethodManual, operatorID), nil
}

func (s *EntryService) walkIn(ctx context.Context, req ManualEntryRequest, operatorID string) (EntryOutcome, error) {
	if req.FirstName == "" || req.LastName == "" {
		return EntryOutcome{}, apperrors.NewValidationError("first name and last name are required for walk-in entry", nil)
	}

	var subject *domain.Subject
	if req.Email != "" {
		found, err := s.subjects.FindByEmail(ctx, req.Email)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return EntryOutcome{}, s.storeError(err)
		}
		subject = found
	}

	if subject == nil {
		created, err := s.subjects.CreateWalkIn(ctx, repository.WalkInRequest{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Phone:     req.Phone,
		})
		if err != nil {
			return EntryOutcome{}, s.storeError(err)
		}
		s.logger.Info("walk-in registered", zap.String("subject_id", created.ID), zap.String("operator_id", operatorID))
		subject = created
	}

	return s.finish(ctx, s.engine.DecideWalkIn(subject), domain.EntryMethodWalkIn, operatorID), nil
}

// MembershipSummary returns the dashboard view of the member's subscription.
func (s *EntryService) MembershipSummary(ctx context.Context, subjectID string) (*policy.MembershipSummary, error) {
	subject, err := s.loadSubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	if subject == nil {
		return nil, apperrors.NewNotFound("member", map[string]any{"id": subjectID})
	}
	if subject.Membership == nil {
		return nil, apperrors.NewNotFound("membership", map[string]any{"member_id": subjectID})
	}
	summary := policy.Summarize(*subject.Membership, s.now())
	return &summary, nil
}

// RecentEntries lists the latest entry log lines, newest first.
func (s *EntryService) RecentEntries(ctx context.Context, limit int) ([]domain.EntryRecord, error) {
	if limit <= 0 {
		limit = defaultEntryLogLimit
	}
	if limit > maxEntryLogLimit {
		limit = maxEntryLogLimit
	}
	records, err := s.entryLogs.ListRecent(ctx, limit)
	if err != nil {
		return nil, s.storeError(err)
	}
	return records, nil
}

// loadSubject returns nil without error when the subject does not exist.
func (s *EntryService) loadSubject(ctx context.Context, id string) (*domain.Subject, error) {
	subject, err := s.subjects.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, s.storeError(err)
	}
	return subject, nil
}

func (s *EntryService) finish(ctx context.Context, decision domain.EntryDecision, method domain.EntryMethod, operatorID string) EntryOutcome {
	outcome := EntryOutcome{Decision: decision, Method: method}
	subjectID := ""
	if decision.Subject != nil {
		subjectID = decision.Subject.ID
	}

	if decision.Granted {
		record := &domain.EntryRecord{
			SubjectID:   subjectID,
			Method:      method,
			EntryTime:   s.now().UTC(),
			SubjectName: decision.Subject.FullName(),
		}
		if err := s.entryLogs.Append(ctx, record); err != nil {
			s.logger.Error("failed to append entry log",
				zap.String("subject_id", subjectID),
				zap.String("method", string(method)),
				zap.Error(err))
		} else {
			outcome.Entry = record
		}
	}

	if s.metrics != nil {
		s.metrics.RecordDecision(string(method), string(decision.Reason))
	}
	s.logger.Info("entry decision",
		zap.String("subject_id", subjectID),
		zap.String("method", string(method)),
		zap.String("reason", string(decision.Reason)),
		zap.String("operator_id", operatorID))

	s.publish(ctx, outcome, operatorID)
	return outcome
}

func (s *EntryService) publish(ctx context.Context, outcome EntryOutcome, operatorID string) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:         uuid.NewString(),
		Type:       events.EventEntryDenied,
		OperatorID: operatorID,
		Method:     outcome.Method,
		Reason:     outcome.Decision.Reason,
		Timestamp:  s.now().UTC(),
	}
	if outcome.Decision.Granted {
		event.Type = events.EventEntryGranted
	}
	if outcome.Decision.Subject != nil {
		event.SubjectID = outcome.Decision.Subject.ID
	}
	if outcome.Entry != nil {
		event.EntryID = outcome.Entry.ID
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("entry event handlers failed", zap.String("event_id", event.ID), zap.Error(err))
	}
}

func (s *EntryService) storeError(err error) error {
	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	return apperrors.NewDependencyUnavailable("member store", err)
}
