package repository

import (
	"context"

	"github.com/spec-kit/gym-entry/internal/domain"
)

// EntryLogRepository is the append-only sink for granted entries.
type EntryLogRepository interface {
	Append(ctx context.Context, record *domain.EntryRecord) error
	ListRecent(ctx context.Context, limit int) ([]domain.EntryRecord, error)
}

type entryLogRepository struct {
	db DBTX
}

// NewEntryLogRepository builds repository.
func NewEntryLogRepository(db DBTX) EntryLogRepository {
	return &entryLogRepository{db: db}
}

func (r *entryLogRepository) Append(ctx context.Context, record *domain.EntryRecord) error {
	const query = `
        INSERT INTO entry_logs (member_id, method, entry_time)
        VALUES ($1, $2, $3)
        RETURNING id::text`
	return r.db.QueryRow(ctx, query,
		record.SubjectID,
		record.Method,
		record.EntryTime,
	).Scan(&record.ID)
}

func (r *entryLogRepository) ListRecent(ctx context.Context, limit int) ([]domain.EntryRecord, error) {
	const query = `
        SELECT e.id::text, e.member_id::text, e.method, e.entry_time, m.first_name || ' ' || m.last_name
        FROM entry_logs e
        JOIN members m ON m.id = e.member_id
        ORDER BY e.entry_time DESC
        LIMIT $1`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]domain.EntryRecord, 0, limit)
	for rows.Next() {
		var record domain.EntryRecord
		if err := rows.Scan(
			&record.ID,
			&record.SubjectID,
			&record.Method,
			&record.EntryTime,
			&record.SubjectName,
		); err != nil {
			return nil, err
		}
		result = append(result, record)
	}
	return result, rows.Err()
}
