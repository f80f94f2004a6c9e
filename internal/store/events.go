package store

import (
	"context"
	"sync"

	"github.com/keikchoco/alternative-learning-system/internal/filter"
	"github.com/keikchoco/alternative-learning-system/internal/models"
	appErrors "github.com/keikchoco/alternative-learning-system/pkg/errors"
)

// EventAPI is the slice of the gateway client the event store uses.
type EventAPI interface {
	ListEvents(ctx context.Context, filter models.EventFilter) ([]models.Event, error)
	CreateEvent(ctx context.Context, payload interface{}) (*models.Event, error)
	UpdateEvent(ctx context.Context, id string, payload interface{}) (*models.Event, error)
	DeleteEvent(ctx context.Context, id string) error
}

// EventSnapshot is a point-in-time view of the store.
type EventSnapshot struct {
	Events  []models.Event
	Filters models.EventFilter
	Loading bool
	Err     error
}

// EventStore keeps calendar events for the schedule views.
type EventStore struct {
	api EventAPI

	mu      sync.RWMutex
	events  []models.Event
	filters models.EventFilter
	loading bool
	err     error

	inFlight *inFlightSet
}

// NewEventStore constructs the store.
func NewEventStore(api EventAPI) *EventStore {
	return &EventStore{api: api, inFlight: newInFlightSet()}
}

// SetFilters replaces the active filters. The next Load uses them.
func (s *EventStore) SetFilters(filters models.EventFilter) {
	s.mu.Lock()
	s.filters = filters
	s.mu.Unlock()
}

// ClearFilters resets the filters to their zero values.
func (s *EventStore) ClearFilters() {
	s.SetFilters(models.EventFilter{})
}

// Load refreshes the slice from the gateway using the active filters.
func (s *EventStore) Load(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	filters := s.filters
	s.mu.Unlock()

	events, err := s.api.ListEvents(ctx, filters)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.err = err
	if err != nil {
		return err
	}
	s.events = events
	return nil
}

// Create records an event and appends it to the local slice.
func (s *EventStore) Create(ctx context.Context, payload interface{}) (*models.Event, error) {
	event, err := s.api.CreateEvent(ctx, payload)
	if err != nil {
		s.setErr(err)
		return nil, err
	}
	s.mu.Lock()
	s.events = append(s.events, *event)
	s.err = nil
	s.mu.Unlock()
	return event, nil
}

// Update rewrites an event. A concurrent mutation on the same event is
// rejected with ErrInFlight.
func (s *EventStore) Update(ctx context.Context, id string, payload interface{}) (*models.Event, error) {
	if !s.inFlight.acquire(id) {
		return nil, appErrors.ErrInFlight
	}
	defer s.inFlight.release(id)

	event, err := s.api.UpdateEvent(ctx, id, payload)
	if err != nil {
		s.setErr(err)
		return nil, err
	}
	s.mu.Lock()
	for i := range s.events {
		if s.events[i].ID == id {
			s.events[i] = *event
			break
		}
	}
	s.err = nil
	s.mu.Unlock()
	return event, nil
}

// Delete removes an event from the server and the local slice.
func (s *EventStore) Delete(ctx context.Context, id string) error {
	if !s.inFlight.acquire(id) {
		return appErrors.ErrInFlight
	}
	defer s.inFlight.release(id)

	if err := s.api.DeleteEvent(ctx, id); err != nil {
		s.setErr(err)
		return err
	}
	s.mu.Lock()
	for i := range s.events {
		if s.events[i].ID == id {
			s.events = append(s.events[:i], s.events[i+1:]...)
			break
		}
	}
	s.err = nil
	s.mu.Unlock()
	return nil
}

// ByDate groups the loaded events by their date for calendar rendering.
func (s *EventStore) ByDate() map[string][]models.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter.GroupEventsByDate(s.events)
}

// Snapshot returns a copy of the current state.
func (s *EventStore) Snapshot() EventSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := EventSnapshot{
		Events:  make([]models.Event, len(s.events)),
		Filters: s.filters,
		Loading: s.loading,
		Err:     s.err,
	}
	copy(out.Events, s.events)
	return out
}

func (s *EventStore) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}
