package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/gym-entry/internal/domain"
)

func TestEntryLogRepository_Append(t *testing.T) {
	mock := newMock(t)
	repo := NewEntryLogRepository(mock)
	at := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO entry_logs \(member_id, method, entry_time\)`).
		WithArgs(subjectID, domain.EntryMethodQR, at).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("log-1"))

	record := &domain.EntryRecord{SubjectID: subjectID, Method: domain.EntryMethodQR, EntryTime: at}
	require.NoError(t, repo.Append(context.Background(), record))
	assert.Equal(t, "log-1", record.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEntryLogRepository_ListRecent(t *testing.T) {
	mock := newMock(t)
	repo := NewEntryLogRepository(mock)
	at := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM entry_logs e\s+JOIN members m`).
		WithArgs(2).
		WillReturnRows(pgxmock.NewRows([]string{"id", "member_id", "method", "entry_time", "name"}).
			AddRow("log-2", subjectID, domain.EntryMethodWalkIn, at.Add(time.Minute), "Walk In").
			AddRow("log-1", subjectID, domain.EntryMethodQR, at, "Ada Lovelace"))

	records, err := repo.ListRecent(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, domain.EntryMethodWalkIn, records[0].Method)
	assert.Equal(t, "Ada Lovelace", records[1].SubjectName)
}

func TestEntryLogRepository_ListRecent_QueryError(t *testing.T) {
	mock := newMock(t)
	repo := NewEntryLogRepository(mock)

	mock.ExpectQuery(`FROM entry_logs`).WithArgs(10).WillReturnError(errors.New("connection reset"))

	_, err := repo.ListRecent(context.Background(), 10)
	assert.Error(t, err)
}
