package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keikchoco/alternative-learning-system/internal/models"
	appErrors "github.com/keikchoco/alternative-learning-system/pkg/errors"
)

type fakeEventAPI struct {
	events  []models.Event
	listErr error
}

func (f *fakeEventAPI) ListEvents(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.Event, len(f.events))
	copy(out, f.events)
	return out, nil
}

func (f *fakeEventAPI) CreateEvent(ctx context.Context, payload interface{}) (*models.Event, error) {
	return &models.Event{ID: "new", Date: "2026-03-20"}, nil
}

func (f *fakeEventAPI) UpdateEvent(ctx context.Context, id string, payload interface{}) (*models.Event, error) {
	return &models.Event{ID: id, Title: "Updated"}, nil
}

func (f *fakeEventAPI) DeleteEvent(ctx context.Context, id string) error {
	return nil
}

func TestEventStoreLoadAndByDate(t *testing.T) {
	api := &fakeEventAPI{events: []models.Event{
		{ID: "e1", Date: "2026-03-05"},
		{ID: "e2", Date: "2026-03-05"},
		{ID: "e3", Date: "2026-03-06"},
	}}
	s := NewEventStore(api)
	require.NoError(t, s.Load(context.Background()))

	byDate := s.ByDate()
	assert.Len(t, byDate["2026-03-05"], 2)
	assert.Len(t, byDate["2026-03-06"], 1)
}

func TestEventStoreFailedLoadKeepsPreviousData(t *testing.T) {
	api := &fakeEventAPI{events: []models.Event{{ID: "e1", Date: "2026-03-05"}}}
	s := NewEventStore(api)
	require.NoError(t, s.Load(context.Background()))

	api.listErr = errors.New("gateway down")
	require.Error(t, s.Load(context.Background()))
	snap := s.Snapshot()
	assert.Len(t, snap.Events, 1)
	assert.Error(t, snap.Err)
}

func TestEventStoreUpdateGuardedPerEvent(t *testing.T) {
	api := &fakeEventAPI{events: []models.Event{{ID: "e1"}, {ID: "e2"}}}
	s := NewEventStore(api)
	require.NoError(t, s.Load(context.Background()))

	require.True(t, s.inFlight.acquire("e1"))
	defer s.inFlight.release("e1")

	_, err := s.Update(context.Background(), "e1", nil)
	assert.ErrorIs(t, err, appErrors.ErrInFlight)

	updated, err := s.Update(context.Background(), "e2", nil)
	require.NoError(t, err)
	assert.Equal(t, "Updated", updated.Title)
}

func TestEventStoreCreateAndDelete(t *testing.T) {
	api := &fakeEventAPI{}
	s := NewEventStore(api)
	require.NoError(t, s.Load(context.Background()))

	event, err := s.Create(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, s.Snapshot().Events, 1)

	require.NoError(t, s.Delete(context.Background(), event.ID))
	assert.Empty(t, s.Snapshot().Events)
}
