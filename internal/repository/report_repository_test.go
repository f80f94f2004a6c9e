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

func TestReportRepositoryCreateDefaults(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	mock.ExpectExec("INSERT INTO report_jobs").
		WillReturnResult(sqlmock.NewResult(0, 1))

	job := &models.ReportJob{
		Type:      models.ReportTypeBarangayRoster,
		Params:    models.ReportJobParams{BarangayID: "b1", Format: models.ReportFormatCSV},
		CreatedBy: "u1",
	}
	require.NoError(t, repo.Create(context.Background(), job))
	assert.NotEmpty(t, job.ID)
	assert.Equal(t, models.ReportStatusQueued, job.Status)
	assert.False(t, job.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryGetByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	rows := sqlmock.NewRows([]string{"id", "type", "params", "status", "result_url", "created_by", "created_at", "finished_at", "error_message"}).
		AddRow("j1", "barangay_roster", []byte(`{"barangayId":"b1","format":"csv"}`), "QUEUED", nil, "u1", time.Now(), nil, nil)
	mock.ExpectQuery("FROM report_jobs WHERE id = \\$1").
		WithArgs("j1").
		WillReturnRows(rows)

	job, err := repo.GetByID(context.Background(), "j1")
	require.NoError(t, err)
	assert.Equal(t, models.ReportTypeBarangayRoster, job.Type)
	assert.Equal(t, "b1", job.Params.BarangayID)
	assert.Equal(t, models.ReportFormatCSV, job.Params.Format)
}

func TestReportRepositoryUpdatePartial(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	status := models.ReportStatusFinished
	url := "/api/reports/download/tok"
	mock.ExpectExec("UPDATE report_jobs SET status = \\$2, result_url = \\$3 WHERE id = \\$1").
		WithArgs("j1", status, url).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), "j1", UpdateReportJobParams{Status: &status, ResultURL: &url})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryUpdateNoFieldsIsNoop(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	require.NoError(t, repo.Update(context.Background(), "j1", UpdateReportJobParams{}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryListQueued(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	rows := sqlmock.NewRows([]string{"id", "type", "params", "status", "result_url", "created_by", "created_at", "finished_at", "error_message"}).
		AddRow("j1", "student_progress", []byte(`{"studentId":"s1","format":"pdf"}`), "QUEUED", nil, "u1", time.Now(), nil, nil)
	mock.ExpectQuery("FROM report_jobs WHERE status = \\$1 ORDER BY created_at ASC LIMIT \\$2").
		WithArgs(models.ReportStatusQueued, 50).
		WillReturnRows(rows)

	jobs, err := repo.ListQueued(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "s1", jobs[0].Params.StudentID)
}
