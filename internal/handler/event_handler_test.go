package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/keikchoco/alternative-learning-system/internal/fixture"
	"github.com/keikchoco/alternative-learning-system/internal/models"
	"github.com/keikchoco/alternative-learning-system/internal/service"
)

func newEventHandler(t *testing.T) (*EventHandler, *fixture.Store) {
	t.Helper()
	store, err := fixture.NewStore()
	require.NoError(t, err)
	svc := service.NewEventService(store.Events(), validator.New(), zap.NewNop())
	return NewEventHandler(svc), store
}

func decodeEvents(t *testing.T, data interface{}) []models.Event {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	var events []models.Event
	require.NoError(t, json.Unmarshal(raw, &events))
	return events
}

func TestEventHandlerListByRange(t *testing.T) {
	handler, _ := newEventHandler(t)
	c, w := newTestContext(t, http.MethodGet, "/events?from=2024-09-01&to=2024-09-30", nil)

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)

	events := decodeEvents(t, decodeEnvelope(t, w).Data)
	require.Len(t, events, 3)
	for _, e := range events {
		assert.True(t, e.Date >= "2024-09-01" && e.Date <= "2024-09-30")
	}
}

func TestEventHandlerListByType(t *testing.T) {
	handler, _ := newEventHandler(t)
	c, w := newTestContext(t, http.MethodGet, "/events?type=workshop", nil)

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)

	events := decodeEvents(t, decodeEnvelope(t, w).Data)
	require.Len(t, events, 1)
	assert.Equal(t, models.EventTypeWorkshop, events[0].Type)
}

func TestEventHandlerCreate(t *testing.T) {
	handler, store := newEventHandler(t)
	payload := service.CreateEventRequest{
		Date:     "2026-03-15",
		Time:     "09:30",
		Title:    "Community Orientation",
		Location: "Barangay Hall",
		Type:     "orientation",
	}
	c, w := newTestContext(t, http.MethodPost, "/events", payload)

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)

	events, err := store.Events().List(c.Request.Context(), models.EventFilter{From: "2026-03-15", To: "2026-03-15"})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Community Orientation", events[0].Title)
}

func TestEventHandlerCreateRejectsBadTime(t *testing.T) {
	handler, _ := newEventHandler(t)
	payload := service.CreateEventRequest{
		Date:     "2026-03-15",
		Time:     "9:30 AM",
		Title:    "Community Orientation",
		Location: "Barangay Hall",
		Type:     "orientation",
	}
	c, w := newTestContext(t, http.MethodPost, "/events", payload)

	handler.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeEnvelope(t, w).Error.Code)
}

func TestEventHandlerUpdateMissing(t *testing.T) {
	handler, _ := newEventHandler(t)
	payload := service.UpdateEventRequest{
		Date:     "2026-03-15",
		Time:     "09:30",
		Title:    "Moved Session",
		Location: "Covered Court",
		Type:     "lesson",
	}
	c, w := newTestContext(t, http.MethodPatch, "/events/evt-999", payload)
	c.Params = gin.Params{{Key: "id", Value: "evt-999"}}

	handler.Update(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestEventHandlerDelete(t *testing.T) {
	handler, store := newEventHandler(t)
	c, w := newTestContext(t, http.MethodDelete, "/events/evt-001", nil)
	c.Params = gin.Params{{Key: "id", Value: "evt-001"}}

	handler.Delete(c)
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNoContent, w.Code)

	_, err := store.Events().GetByID(c.Request.Context(), "evt-001")
	require.Error(t, err)
}
