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

func TestProgressRepositoryListByStudent(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewProgressRepository(db)

	rows := sqlmock.NewRows([]string{"id", "student_id", "module_id", "activities", "created_at", "updated_at"}).
		AddRow("p1", "s1", "m1", []byte(`[{"id":"a1","name":"Quiz 1","type":"Quiz","score":8,"total":10,"date":"2026-03-01"}]`), time.Now(), time.Now())
	mock.ExpectQuery("FROM progress WHERE 1=1 AND student_id = \\$1 ORDER BY created_at ASC").
		WithArgs("s1").
		WillReturnRows(rows)

	records, err := repo.List(context.Background(), models.ProgressFilter{StudentID: "s1"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Len(t, records[0].Activities, 1)
	assert.Equal(t, models.ActivityTypeQuiz, records[0].Activities[0].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProgressRepositoryFindByStudentModule(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewProgressRepository(db)

	rows := sqlmock.NewRows([]string{"id", "student_id", "module_id", "activities", "created_at", "updated_at"}).
		AddRow("p1", "s1", "m1", []byte(`[]`), time.Now(), time.Now())
	mock.ExpectQuery("FROM progress WHERE student_id = \\$1 AND module_id = \\$2").
		WithArgs("s1", "m1").
		WillReturnRows(rows)

	record, err := repo.FindByStudentModule(context.Background(), "s1", "m1")
	require.NoError(t, err)
	assert.Equal(t, "p1", record.ID)
	assert.Empty(t, record.Activities)
}

func TestProgressRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewProgressRepository(db)

	mock.ExpectExec("INSERT INTO progress").
		WillReturnResult(sqlmock.NewResult(0, 1))

	record := &models.Progress{StudentID: "s1", ModuleID: "m1", Activities: models.ActivityList{}}
	require.NoError(t, repo.Create(context.Background(), record))
	assert.NotEmpty(t, record.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProgressRepositoryReplaceActivities(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewProgressRepository(db)

	activities := models.ActivityList{{ID: "a1", Name: "Quiz 1", Type: models.ActivityTypeQuiz, Score: 8, Total: 10, Date: "2026-03-01"}}
	mock.ExpectExec("UPDATE progress SET activities = \\$2, updated_at = \\$3 WHERE id = \\$1").
		WithArgs("p1", activities, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.ReplaceActivities(context.Background(), "p1", activities))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProgressRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewProgressRepository(db)

	mock.ExpectExec("DELETE FROM progress WHERE student_id = \\$1 AND module_id = \\$2").
		WithArgs("s1", "m1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "s1", "m1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
