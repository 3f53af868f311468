package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/gym-entry/internal/domain"
	apperrors "github.com/spec-kit/gym-entry/pkg/util"
)

// WalkInRequest carries the details staff collect at the desk.
type WalkInRequest struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// SubjectRepository reads subject snapshots and creates walk-in accounts.
// Lookups return apperrors.ErrNotFound when no subject matches.
type SubjectRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Subject, error)
	FindByEmail(ctx context.Context, email string) (*domain.Subject, error)
	CreateWalkIn(ctx context.Context, req WalkInRequest) (*domain.Subject, error)
}

type subjectRepository struct {
	db  DBTX
	now func() time.Time
}

// NewSubjectRepository returns a Postgres-backed implementation.
func NewSubjectRepository(db DBTX) SubjectRepository {
	return &subjectRepository{db: db, now: time.Now}
}

const selectSubject = `
        SELECT m.id::text, m.first_name, m.last_name, m.email, COALESCE(m.phone, ''), m.qr_code,
               m.role, m.status, m.created_at, m.updated_at,
               ms.id IS NOT NULL,
               COALESCE(ms.id::text, ''), COALESCE(ms.status, ''),
               COALESCE(ms.start_date, 'epoch'::timestamptz), COALESCE(ms.end_date, 'epoch'::timestamptz),
               COALESCE(p.id::text, ''), COALESCE(p.name, ''), COALESCE(p.duration_days, 0), COALESCE(p.price, 0)
        FROM members m
        LEFT JOIN memberships ms ON ms.member_id = m.id
        LEFT JOIN plans p ON p.id = ms.plan_id`

func (r *subjectRepository) FindByID(ctx context.Context, id string) (*domain.Subject, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.ErrNotFound
	}
	return r.scanSubject(r.db.QueryRow(ctx, selectSubject+`
        WHERE m.id = $1`, id))
}

func (r *subjectRepository) FindByEmail(ctx context.Context, email string) (*domain.Subject, error) {
	return r.scanSubject(r.db.QueryRow(ctx, selectSubject+`
        WHERE m.email = $1`, email))
}

func (r *subjectRepository) CreateWalkIn(ctx context.Context, req WalkInRequest) (*domain.Subject, error) {
	const query = `
        INSERT INTO members (first_name, last_name, email, phone, qr_code, role, status)
        VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7)
        RETURNING id::text, created_at, updated_at`

	subject := &domain.Subject{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		QRCode:    "GNEX-" + uuid.NewString(),
		Role:      domain.RoleClient,
		Status:    domain.SubjectStatusActive,
	}
	if subject.Email == "" {
		subject.Email = fmt.Sprintf("walkin-%d-%s@walkin.local", r.now().UnixMilli(), uuid.NewString()[:8])
	}

	err := r.db.QueryRow(ctx, query,
		subject.FirstName,
		subject.LastName,
		subject.Email,
		subject.Phone,
		subject.QRCode,
		subject.Role,
		subject.Status,
	).Scan(&subject.ID, &subject.CreatedAt, &subject.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.NewConflict("member already exists", map[string]any{"email": subject.Email})
		}
		return nil, err
	}
	return subject, nil
}

func (r *subjectRepository) scanSubject(row pgx.Row) (*domain.Subject, error) {
	var (
		subject       domain.Subject
		hasMembership bool
		membership    domain.Membership
	)
	if err := row.Scan(
		&subject.ID,
		&subject.FirstName,
		&subject.LastName,
		&subject.Email,
		&subject.Phone,
		&subject.QRCode,
		&subject.Role,
		&subject.Status,
		&subject.CreatedAt,
		&subject.UpdatedAt,
		&hasMembership,
		&membership.ID,
		&membership.Status,
		&membership.StartDate,
		&membership.EndDate,
		&membership.Plan.ID,
		&membership.Plan.Name,
		&membership.Plan.DurationDays,
		&membership.Plan.Price,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	if hasMembership {
		subject.Membership = &membership
	}
	return &subject, nil
}
