package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/keikchoco/alternative-learning-system/internal/fixture"
	"github.com/keikchoco/alternative-learning-system/internal/models"
	"github.com/keikchoco/alternative-learning-system/internal/service"
)

func newDashboardHandler(t *testing.T) *DashboardHandler {
	t.Helper()
	store, err := fixture.NewStore()
	require.NoError(t, err)
	svc := service.NewDashboardService(
		store.Students(),
		store.Barangays(),
		store.Modules(),
		store.Progress(),
		store.Events(),
		nil,
		time.Minute,
		zap.NewNop(),
	)
	return NewDashboardHandler(svc)
}

func TestDashboardHandlerStatistics(t *testing.T) {
	handler := newDashboardHandler(t)
	c, w := newTestContext(t, http.MethodGet, "/dashboard/statistics", nil)

	handler.Statistics(c)
	require.Equal(t, http.StatusOK, w.Code)

	var stats models.DashboardStatistics
	raw, err := json.Marshal(decodeEnvelope(t, w).Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &stats))

	assert.Equal(t, 4, stats.TotalStudents)
	assert.Equal(t, 3, stats.ActiveStudents)
	assert.Equal(t, 1, stats.InactiveStudents)
	assert.Equal(t, 6, stats.TotalBarangays)
	assert.Equal(t, 7, stats.TotalModules)
	assert.False(t, stats.GeneratedAt.IsZero())
}

func TestDashboardHandlerCalendar(t *testing.T) {
	handler := newDashboardHandler(t)
	c, w := newTestContext(t, http.MethodGet, "/dashboard/calendar?month=2024-09", nil)

	handler.Calendar(c)
	require.Equal(t, http.StatusOK, w.Code)

	var calendar models.CalendarMonth
	raw, err := json.Marshal(decodeEnvelope(t, w).Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &calendar))

	assert.Equal(t, "2024-09", calendar.Month)
	assert.Len(t, calendar.Days["2024-09-10"], 2)
	assert.NotContains(t, calendar.Days, "2024-10-05")
}

func TestDashboardHandlerCalendarBadMonth(t *testing.T) {
	handler := newDashboardHandler(t)
	c, w := newTestContext(t, http.MethodGet, "/dashboard/calendar?month=September", nil)

	handler.Calendar(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
