package service

import (
	"context"
	"sync"
	"time"

	"github.com/spec-kit/gym-entry/internal/domain"
	"github.com/spec-kit/gym-entry/internal/entrytoken"
	"github.com/spec-kit/gym-entry/internal/events"
	"github.com/spec-kit/gym-entry/internal/repository"
	apperrors "github.com/spec-kit/gym-entry/pkg/util"
)

var (
	_ repository.SubjectRepository  = (*fakeSubjects)(nil)
	_ repository.EntryLogRepository = (*fakeEntryLogs)(nil)
	_ entrytoken.ReplayGuard        = (*failingGuard)(nil)
	_ events.Publisher              = (*fakePublisher)(nil)
)

type fakeSubjects struct {
	mu        sync.Mutex
	byID      map[string]*domain.Subject
	err       error
	createErr error
	created   []repository.WalkInRequest
}

func newFakeSubjects(subjects ...*domain.Subject) *fakeSubjects {
	f := &fakeSubjects{byID: make(map[string]*domain.Subject)}
	for _, s := range subjects {
		f.byID[s.ID] = s
	}
	return f
}

func (f *fakeSubjects) FindByID(_ context.Context, id string) (*domain.Subject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if s, ok := f.byID[id]; ok {
		return s, nil
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeSubjects) FindByEmail(_ context.Context, email string) (*domain.Subject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, s := range f.byID {
		if s.Email == email {
			return s, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeSubjects) CreateWalkIn(_ context.Context, req repository.WalkInRequest) (*domain.Subject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, req)
	s := &domain.Subject{
		ID:        "walkin-1",
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Role:      domain.RoleClient,
		Status:    domain.SubjectStatusActive,
	}
	f.byID[s.ID] = s
	return s, nil
}

type fakeEntryLogs struct {
	mu        sync.Mutex
	records   []domain.EntryRecord
	appendErr error
	listErr   error
	lastLimit int
}

func (f *fakeEntryLogs) Append(_ context.Context, record *domain.EntryRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	record.ID = "log-" + record.SubjectID
	f.records = append(f.records, *record)
	return nil
}

func (f *fakeEntryLogs) ListRecent(_ context.Context, limit int) ([]domain.EntryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLimit = limit
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]domain.EntryRecord(nil), f.records...), nil
}

type failingGuard struct {
	err error
}

func (g *failingGuard) Contains(context.Context, string) (bool, error) {
	return false, g.err
}

func (g *failingGuard) MarkConsumed(context.Context, string, time.Time) (bool, error) {
	return false, g.err
}

type published struct {
	routingKey string
	payload    []byte
}

type fakePublisher struct {
	mu   sync.Mutex
	sent []published
	err  error
}

func (p *fakePublisher) Publish(_ context.Context, routingKey string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, published{routingKey: routingKey, payload: payload})
	return nil
}

func (p *fakePublisher) Close() error { return nil }
