package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keikchoco/alternative-learning-system/internal/models"
)

func eventRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "date", "time", "title", "location", "type", "description", "created_at", "updated_at"}).
		AddRow("e1", "2026-03-05", "09:00", "Orientation", "Barangay Hall", "orientation", "", time.Now(), time.Now())
}

func TestEventRepositoryListWithRange(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectQuery("FROM events WHERE 1=1 AND date >= \\$1 AND date <= \\$2 ORDER BY date ASC, time ASC").
		WithArgs("2026-03-01", "2026-03-31").
		WillReturnRows(eventRows())

	events, err := repo.List(context.Background(), models.EventFilter{From: "2026-03-01", To: "2026-03-31"})
	require.NoError(t, err)
	assert.Len(t, events, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryListByType(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	workshop := models.EventTypeWorkshop
	mock.ExpectQuery("FROM events WHERE 1=1 AND type = \\$1 ORDER BY date ASC, time ASC").
		WithArgs(workshop).
		WillReturnRows(eventRows())

	_, err := repo.List(context.Background(), models.EventFilter{Type: &workshop})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectExec("INSERT INTO events").
		WillReturnResult(sqlmock.NewResult(0, 1))

	event := &models.Event{Date: "2026-03-05", Time: "09:00", Title: "Orientation", Location: "Hall", Type: models.EventTypeOrientation}
	require.NoError(t, repo.Create(context.Background(), event))
	assert.NotEmpty(t, event.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryUpdate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectExec("UPDATE events SET").
		WillReturnResult(sqlmock.NewResult(0, 1))

	event := &models.Event{ID: "e1", Date: "2026-03-05", Time: "10:00", Title: "Moved", Location: "Hall", Type: models.EventTypeOrientation}
	require.NoError(t, repo.Update(context.Background(), event))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectExec("DELETE FROM events WHERE id = \\$1").
		WithArgs("e1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "e1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
