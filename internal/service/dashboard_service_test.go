package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/keikchoco/alternative-learning-system/internal/models"
	appErrors "github.com/keikchoco/alternative-learning-system/pkg/errors"
)

type mockDashboardStudents struct {
	students []models.Student
}

func (m *mockDashboardStudents) ListAll(ctx context.Context) ([]models.Student, error) {
	return m.students, nil
}

type mockBarangayRepo struct {
	barangays []models.Barangay
}

func (m *mockBarangayRepo) List(ctx context.Context) ([]models.Barangay, error) {
	return m.barangays, nil
}

type mockModuleRepo struct {
	modules []models.Module
}

func (m *mockModuleRepo) List(ctx context.Context) ([]models.Module, error) {
	return m.modules, nil
}

func newDashboardFixture() *DashboardService {
	students := &mockDashboardStudents{students: []models.Student{
		{ID: "s1", Status: models.StudentStatusActive, BarangayID: "b1"},
		{ID: "s2", Status: models.StudentStatusActive, BarangayID: "b1"},
		{ID: "s3", Status: models.StudentStatusInactive, BarangayID: "b2"},
	}}
	barangays := &mockBarangayRepo{barangays: []models.Barangay{
		{ID: "b1", Name: "Poblacion"},
		{ID: "b2", Name: "San Isidro"},
	}}
	modules := &mockModuleRepo{modules: []models.Module{{ID: "m1"}, {ID: "m2"}}}
	progress := &mockProgressRepo{records: map[string]models.Progress{
		"s1/m1": {ID: "p1", StudentID: "s1", ModuleID: "m1", Activities: models.ActivityList{
			{Type: models.ActivityTypeQuiz, Score: 8, Total: 10},
		}},
		"s2/m1": {ID: "p2", StudentID: "s2", ModuleID: "m1"},
	}}
	future := time.Now().UTC().Add(48 * time.Hour).Format("2006-01-02")
	events := &mockEventRepo{events: map[string]models.Event{
		"e1": {ID: "e1", Date: future, Type: models.EventTypeWorkshop},
	}}
	return NewDashboardService(students, barangays, modules, progress, events, nil, time.Minute, zap.NewNop())
}

func TestDashboardServiceStatistics(t *testing.T) {
	svc := newDashboardFixture()

	stats, err := svc.Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalStudents)
	assert.Equal(t, 2, stats.ActiveStudents)
	assert.Equal(t, 1, stats.InactiveStudents)
	assert.Equal(t, 2, stats.TotalBarangays)
	assert.Equal(t, 2, stats.TotalModules)
	assert.Equal(t, 1, stats.UpcomingEvents)
	assert.InDelta(t, 80, stats.Progress.AverageScore, 0.001)
	assert.InDelta(t, 50, stats.Progress.CompletionRate, 0.001)

	require.Len(t, stats.StudentsPerBarangay, 2)
	counts := map[string]int{}
	for _, entry := range stats.StudentsPerBarangay {
		counts[entry.BarangayID] = entry.Students
	}
	assert.Equal(t, 2, counts["b1"])
	assert.Equal(t, 1, counts["b2"])
}

func TestDashboardServiceCalendar(t *testing.T) {
	progress := &mockProgressRepo{}
	events := &mockEventRepo{events: map[string]models.Event{
		"e1": {ID: "e1", Date: "2026-03-05", Type: models.EventTypeLesson},
		"e2": {ID: "e2", Date: "2026-03-05", Type: models.EventTypeWorkshop},
		"e3": {ID: "e3", Date: "2026-04-01", Type: models.EventTypeLesson},
	}}
	svc := NewDashboardService(&mockDashboardStudents{}, &mockBarangayRepo{}, &mockModuleRepo{}, progress, events, nil, time.Minute, zap.NewNop())

	calendar, err := svc.Calendar(context.Background(), "2026-03")
	require.NoError(t, err)
	assert.Equal(t, "2026-03", calendar.Month)
	assert.Len(t, calendar.Days["2026-03-05"], 2)
	assert.NotContains(t, calendar.Days, "2026-04-01")
}

func TestDashboardServiceCalendarRejectsBadMonth(t *testing.T) {
	svc := newDashboardFixture()

	_, err := svc.Calendar(context.Background(), "March 2026")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}
