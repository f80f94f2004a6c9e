package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/keikchoco/alternative-learning-system/internal/models"
	appErrors "github.com/keikchoco/alternative-learning-system/pkg/errors"
)

type mockProgressRepo struct {
	records map[string]models.Progress
	err     error
}

func progressKey(studentID, moduleID string) string {
	return studentID + "/" + moduleID
}

func (m *mockProgressRepo) List(ctx context.Context, filter models.ProgressFilter) ([]models.Progress, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]models.Progress, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, r)
	}
	return out, nil
}

func (m *mockProgressRepo) FindByStudentModule(ctx context.Context, studentID, moduleID string) (*models.Progress, error) {
	if r, ok := m.records[progressKey(studentID, moduleID)]; ok {
		copied := r
		copied.Activities = append(models.ActivityList{}, r.Activities...)
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockProgressRepo) Create(ctx context.Context, record *models.Progress) error {
	if m.records == nil {
		m.records = make(map[string]models.Progress)
	}
	if record.ID == "" {
		record.ID = "generated"
	}
	m.records[progressKey(record.StudentID, record.ModuleID)] = *record
	return nil
}

func (m *mockProgressRepo) ReplaceActivities(ctx context.Context, id string, activities models.ActivityList) error {
	for key, r := range m.records {
		if r.ID == id {
			r.Activities = activities
			m.records[key] = r
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *mockProgressRepo) Delete(ctx context.Context, studentID, moduleID string) error {
	delete(m.records, progressKey(studentID, moduleID))
	return nil
}

type mockStudentFinder struct {
	known map[string]bool
}

func (m *mockStudentFinder) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if m.known[id] {
		return &models.Student{ID: id, BarangayID: "b1"}, nil
	}
	return nil, sql.ErrNoRows
}

func newProgressService(repo *mockProgressRepo, students *mockStudentFinder) *ProgressService {
	return NewProgressService(repo, students, validator.New(), zap.NewNop())
}

func validActivityInput(name string) ActivityInput {
	return ActivityInput{Name: name, Type: "Quiz", Score: 8, Total: 10, Date: "2026-03-01"}
}

func TestProgressServiceStudentBarangay(t *testing.T) {
	svc := newProgressService(&mockProgressRepo{}, &mockStudentFinder{known: map[string]bool{"s1": true}})

	barangayID, err := svc.StudentBarangay(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "b1", barangayID)

	_, err = svc.StudentBarangay(context.Background(), "missing")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestProgressServiceMutationsDropDashboardCaches(t *testing.T) {
	repo := &mockProgressRepo{records: map[string]models.Progress{
		"s1/m1": {ID: "p1", StudentID: "s1", ModuleID: "m1"},
	}}
	svc := newProgressService(repo, &mockStudentFinder{known: map[string]bool{"s1": true}})
	inv := &recordingInvalidator{}
	svc.SetCacheInvalidator(inv)

	_, err := svc.AddActivity(context.Background(), "s1", "m1", validActivityInput("Quiz 1"))
	require.NoError(t, err)
	assert.Equal(t, 1, inv.calls)

	require.NoError(t, svc.Delete(context.Background(), "s1", "m1"))
	assert.Equal(t, 2, inv.calls)

	// A rejected mutation leaves the caches alone.
	_, err = svc.AddActivity(context.Background(), "s1", "m1", validActivityInput("Quiz 2"))
	require.Error(t, err)
	assert.Equal(t, 2, inv.calls)
}

func TestProgressServiceCreate(t *testing.T) {
	repo := &mockProgressRepo{}
	svc := newProgressService(repo, &mockStudentFinder{known: map[string]bool{"s1": true}})

	record, err := svc.Create(context.Background(), CreateProgressRequest{
		StudentID:  "s1",
		ModuleID:   "m1",
		Activities: []ActivityInput{validActivityInput("Quiz 1")},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, record.ID)
	require.Len(t, record.Activities, 1)
	assert.NotEmpty(t, record.Activities[0].ID)
	assert.Equal(t, models.ActivityTypeQuiz, record.Activities[0].Type)
}

func TestProgressServiceCreateUnknownStudent(t *testing.T) {
	svc := newProgressService(&mockProgressRepo{}, &mockStudentFinder{})

	_, err := svc.Create(context.Background(), CreateProgressRequest{StudentID: "nope", ModuleID: "m1"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestProgressServiceCreateDuplicatePair(t *testing.T) {
	repo := &mockProgressRepo{records: map[string]models.Progress{
		"s1/m1": {ID: "p1", StudentID: "s1", ModuleID: "m1"},
	}}
	svc := newProgressService(repo, &mockStudentFinder{known: map[string]bool{"s1": true}})

	_, err := svc.Create(context.Background(), CreateProgressRequest{StudentID: "s1", ModuleID: "m1"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestProgressServiceCreateScoreAboveTotal(t *testing.T) {
	svc := newProgressService(&mockProgressRepo{}, &mockStudentFinder{known: map[string]bool{"s1": true}})

	input := validActivityInput("Quiz 1")
	input.Score = 11
	_, err := svc.Create(context.Background(), CreateProgressRequest{
		StudentID:  "s1",
		ModuleID:   "m1",
		Activities: []ActivityInput{input},
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestProgressServiceAddActivity(t *testing.T) {
	repo := &mockProgressRepo{records: map[string]models.Progress{
		"s1/m1": {ID: "p1", StudentID: "s1", ModuleID: "m1"},
	}}
	svc := newProgressService(repo, &mockStudentFinder{known: map[string]bool{"s1": true}})

	record, err := svc.AddActivity(context.Background(), "s1", "m1", validActivityInput("Quiz 1"))
	require.NoError(t, err)
	require.Len(t, record.Activities, 1)
	assert.NotEmpty(t, record.Activities[0].ID)
	assert.Len(t, repo.records["s1/m1"].Activities, 1)
}

func TestProgressServiceUpdateActivityKeepsStableID(t *testing.T) {
	repo := &mockProgressRepo{records: map[string]models.Progress{
		"s1/m1": {ID: "p1", StudentID: "s1", ModuleID: "m1", Activities: models.ActivityList{
			{ID: "a1", Name: "Quiz 1", Type: models.ActivityTypeQuiz, Score: 5, Total: 10, Date: "2026-03-01"},
			{ID: "a2", Name: "Project 1", Type: models.ActivityTypeProject, Score: 40, Total: 50, Date: "2026-03-02"},
		}},
	}}
	svc := newProgressService(repo, &mockStudentFinder{known: map[string]bool{"s1": true}})

	input := validActivityInput("Quiz 1 (retake)")
	input.Score = 9
	record, err := svc.UpdateActivity(context.Background(), "s1", "m1", 0, input)
	require.NoError(t, err)
	require.Len(t, record.Activities, 2)
	assert.Equal(t, "a1", record.Activities[0].ID)
	assert.Equal(t, "Quiz 1 (retake)", record.Activities[0].Name)
	assert.Equal(t, 9.0, record.Activities[0].Score)
	assert.Equal(t, "a2", record.Activities[1].ID)
}

func TestProgressServiceDeleteActivityShiftsLaterEntries(t *testing.T) {
	repo := &mockProgressRepo{records: map[string]models.Progress{
		"s1/m1": {ID: "p1", StudentID: "s1", ModuleID: "m1", Activities: models.ActivityList{
			{ID: "a1", Name: "First", Type: models.ActivityTypeQuiz, Score: 5, Total: 10},
			{ID: "a2", Name: "Second", Type: models.ActivityTypeQuiz, Score: 6, Total: 10},
			{ID: "a3", Name: "Third", Type: models.ActivityTypeQuiz, Score: 7, Total: 10},
		}},
	}}
	svc := newProgressService(repo, &mockStudentFinder{known: map[string]bool{"s1": true}})

	record, err := svc.DeleteActivity(context.Background(), "s1", "m1", 1)
	require.NoError(t, err)
	require.Len(t, record.Activities, 2)
	assert.Equal(t, "a1", record.Activities[0].ID)
	assert.Equal(t, "a3", record.Activities[1].ID)
}

func TestProgressServiceActivityIndexOutOfRange(t *testing.T) {
	repo := &mockProgressRepo{records: map[string]models.Progress{
		"s1/m1": {ID: "p1", StudentID: "s1", ModuleID: "m1", Activities: models.ActivityList{
			{ID: "a1", Name: "Only", Type: models.ActivityTypeQuiz, Score: 5, Total: 10},
		}},
	}}
	svc := newProgressService(repo, &mockStudentFinder{known: map[string]bool{"s1": true}})

	_, err := svc.DeleteActivity(context.Background(), "s1", "m1", 1)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)

	_, err = svc.UpdateActivity(context.Background(), "s1", "m1", -1, validActivityInput("x"))
	require.Error(t, err)
}

func TestProgressServiceDelete(t *testing.T) {
	repo := &mockProgressRepo{records: map[string]models.Progress{
		"s1/m1": {ID: "p1", StudentID: "s1", ModuleID: "m1"},
	}}
	svc := newProgressService(repo, &mockStudentFinder{known: map[string]bool{"s1": true}})

	require.NoError(t, svc.Delete(context.Background(), "s1", "m1"))
	assert.Empty(t, repo.records)

	err := svc.Delete(context.Background(), "s1", "m1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
