package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/keikchoco/alternative-learning-system/internal/models"
	"github.com/keikchoco/alternative-learning-system/internal/repository"
	appErrors "github.com/keikchoco/alternative-learning-system/pkg/errors"
	"github.com/keikchoco/alternative-learning-system/pkg/jobs"
)

type mockReportStore struct {
	jobs map[string]models.ReportJob
}

func newMockReportStore() *mockReportStore {
	return &mockReportStore{jobs: make(map[string]models.ReportJob)}
}

func (m *mockReportStore) Create(ctx context.Context, job *models.ReportJob) error {
	if job.ID == "" {
		job.ID = "job-1"
	}
	job.CreatedAt = time.Now().UTC()
	m.jobs[job.ID] = *job
	return nil
}

func (m *mockReportStore) GetByID(ctx context.Context, id string) (*models.ReportJob, error) {
	if j, ok := m.jobs[id]; ok {
		return &j, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockReportStore) Update(ctx context.Context, id string, params repository.UpdateReportJobParams) error {
	j, ok := m.jobs[id]
	if !ok {
		return sql.ErrNoRows
	}
	if params.Status != nil {
		j.Status = *params.Status
	}
	if params.ResultURL != nil {
		j.ResultURL = params.ResultURL
	}
	if params.ErrorMessage != nil {
		j.ErrorMessage = params.ErrorMessage
	}
	if params.FinishedAt != nil {
		j.FinishedAt = params.FinishedAt
	}
	m.jobs[id] = j
	return nil
}

func (m *mockReportStore) ListQueued(ctx context.Context, limit int) ([]models.ReportJob, error) {
	out := []models.ReportJob{}
	for _, j := range m.jobs {
		if j.Status == models.ReportStatusQueued {
			out = append(out, j)
		}
	}
	return out, nil
}

func (m *mockReportStore) ListFinishedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ReportJob, error) {
	return nil, nil
}

type mockDispatcher struct {
	enqueued []jobs.Job
	err      error
}

func (m *mockDispatcher) Enqueue(job jobs.Job) error {
	if m.err != nil {
		return m.err
	}
	m.enqueued = append(m.enqueued, job)
	return nil
}

type mockExportStudents struct {
	students map[string]models.Student
}

func (m *mockExportStudents) ListAll(ctx context.Context) ([]models.Student, error) {
	out := make([]models.Student, 0, len(m.students))
	for _, s := range m.students {
		out = append(out, s)
	}
	return out, nil
}

func (m *mockExportStudents) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if s, ok := m.students[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

type mockGenerator struct {
	result *ExportResult
	err    error
	calls  int
}

func (m *mockGenerator) Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func adminClaims(barangayID string) *models.JWTClaims {
	return &models.JWTClaims{UserID: "u1", Role: models.RoleAdmin, AssignedBarangayID: &barangayID}
}

func masterClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "master", Role: models.RoleMasterAdmin}
}

func newTestReportService(store *mockReportStore, dispatcher *mockDispatcher, students *mockExportStudents) *ReportService {
	return NewReportService(store, students, dispatcher, nil, validator.New(), zap.NewNop(), ReportServiceConfig{})
}

func TestReportServiceCreateJob(t *testing.T) {
	store := newMockReportStore()
	dispatcher := &mockDispatcher{}
	svc := newTestReportService(store, dispatcher, &mockExportStudents{})

	status, err := svc.CreateJob(context.Background(), CreateReportRequest{
		Type:       "barangay_roster",
		Format:     "csv",
		BarangayID: "b1",
	}, adminClaims("b1"))
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusQueued, status.Status)
	require.Len(t, dispatcher.enqueued, 1)
	assert.Equal(t, status.ID, dispatcher.enqueued[0].ID)
}

func TestReportServiceCreateJobOutsideAssignedBarangay(t *testing.T) {
	svc := newTestReportService(newMockReportStore(), &mockDispatcher{}, &mockExportStudents{})

	_, err := svc.CreateJob(context.Background(), CreateReportRequest{
		Type:       "barangay_roster",
		Format:     "csv",
		BarangayID: "b2",
	}, adminClaims("b1"))
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestReportServiceCreateJobMasterAdminUnrestricted(t *testing.T) {
	store := newMockReportStore()
	svc := newTestReportService(store, &mockDispatcher{}, &mockExportStudents{})

	_, err := svc.CreateJob(context.Background(), CreateReportRequest{
		Type:       "barangay_roster",
		Format:     "pdf",
		BarangayID: "b7",
	}, masterClaims())
	require.NoError(t, err)
}

func TestReportServiceCreateProgressJobRequiresStudent(t *testing.T) {
	svc := newTestReportService(newMockReportStore(), &mockDispatcher{}, &mockExportStudents{})

	_, err := svc.CreateJob(context.Background(), CreateReportRequest{
		Type:   "student_progress",
		Format: "csv",
	}, masterClaims())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestReportServiceCreateProgressJobCrossBarangay(t *testing.T) {
	students := &mockExportStudents{students: map[string]models.Student{
		"s1": {ID: "s1", BarangayID: "b2"},
	}}
	svc := newTestReportService(newMockReportStore(), &mockDispatcher{}, students)

	_, err := svc.CreateJob(context.Background(), CreateReportRequest{
		Type:      "student_progress",
		Format:    "csv",
		StudentID: "s1",
	}, adminClaims("b1"))
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestReportServiceEnqueueFailureMarksJobFailed(t *testing.T) {
	store := newMockReportStore()
	dispatcher := &mockDispatcher{err: errors.New("queue full")}
	svc := newTestReportService(store, dispatcher, &mockExportStudents{})

	_, err := svc.CreateJob(context.Background(), CreateReportRequest{
		Type:       "barangay_roster",
		Format:     "csv",
		BarangayID: "b1",
	}, adminClaims("b1"))
	require.Error(t, err)
	require.Len(t, store.jobs, 1)
	for _, j := range store.jobs {
		assert.Equal(t, models.ReportStatusFailed, j.Status)
	}
}

func TestReportServiceGetStatusOwnership(t *testing.T) {
	store := newMockReportStore()
	store.jobs["job-1"] = models.ReportJob{ID: "job-1", Status: models.ReportStatusFinished, CreatedBy: "owner"}
	svc := newTestReportService(store, &mockDispatcher{}, &mockExportStudents{})

	_, err := svc.GetStatus(context.Background(), "job-1", adminClaims("b1"))
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)

	status, err := svc.GetStatus(context.Background(), "job-1", masterClaims())
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusFinished, status.Status)
}

func TestReportServiceRecoverPendingJobs(t *testing.T) {
	store := newMockReportStore()
	store.jobs["job-1"] = models.ReportJob{ID: "job-1", Status: models.ReportStatusQueued}
	store.jobs["job-2"] = models.ReportJob{ID: "job-2", Status: models.ReportStatusFinished}
	dispatcher := &mockDispatcher{}
	svc := newTestReportService(store, dispatcher, &mockExportStudents{})

	svc.RecoverPendingJobs(context.Background())
	require.Len(t, dispatcher.enqueued, 1)
	assert.Equal(t, "job-1", dispatcher.enqueued[0].ID)
}

func TestReportWorkerSuccess(t *testing.T) {
	store := newMockReportStore()
	store.jobs["job-1"] = models.ReportJob{
		ID:     "job-1",
		Type:   models.ReportTypeBarangayRoster,
		Status: models.ReportStatusQueued,
		Params: models.ReportJobParams{Format: models.ReportFormatCSV},
	}
	gen := &mockGenerator{result: &ExportResult{URL: "/api/reports/download/tok"}}
	worker := NewReportWorker(store, gen, nil, 3, zap.NewNop())

	err := worker.Handle(context.Background(), jobs.Job{ID: "job-1", Attempt: 1})
	require.NoError(t, err)
	job := store.jobs["job-1"]
	assert.Equal(t, models.ReportStatusFinished, job.Status)
	require.NotNil(t, job.ResultURL)
	assert.Equal(t, "/api/reports/download/tok", *job.ResultURL)
	require.NotNil(t, job.FinishedAt)
}

func TestReportWorkerRetriesBeforeFailing(t *testing.T) {
	store := newMockReportStore()
	store.jobs["job-1"] = models.ReportJob{
		ID:     "job-1",
		Type:   models.ReportTypeBarangayRoster,
		Status: models.ReportStatusQueued,
		Params: models.ReportJobParams{Format: models.ReportFormatPDF},
	}
	gen := &mockGenerator{err: errors.New("render failed")}
	worker := NewReportWorker(store, gen, nil, 2, zap.NewNop())

	err := worker.Handle(context.Background(), jobs.Job{ID: "job-1", Attempt: 1})
	require.Error(t, err)
	assert.Equal(t, models.ReportStatusQueued, store.jobs["job-1"].Status)

	err = worker.Handle(context.Background(), jobs.Job{ID: "job-1", Attempt: 2})
	require.Error(t, err)
	job := store.jobs["job-1"]
	assert.Equal(t, models.ReportStatusFailed, job.Status)
	require.NotNil(t, job.ErrorMessage)
	assert.Equal(t, "render failed", *job.ErrorMessage)
}
