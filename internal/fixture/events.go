package fixture

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/keikchoco/alternative-learning-system/internal/filter"
	"github.com/keikchoco/alternative-learning-system/internal/models"
)

// EventSource serves calendar events from the seeded store.
type EventSource struct {
	store *Store
}

// List returns events matching the filter ordered by date then time.
func (s *EventSource) List(ctx context.Context, f models.EventFilter) ([]models.Event, error) {
	s.store.mu.RLock()
	matched := filter.Events(s.store.events, filter.EventCriteria{
		From: f.From,
		To:   f.To,
		Type: f.Type,
	})
	s.store.mu.RUnlock()

	out := make([]models.Event, len(matched))
	copy(out, matched)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}

// GetByID fetches one event.
func (s *EventSource) GetByID(ctx context.Context, id string) (*models.Event, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	for _, e := range s.store.events {
		if e.ID == id {
			copied := e
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

// Create appends an event, assigning identity and timestamps.
func (s *EventSource) Create(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = now
	}
	event.UpdatedAt = now

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	s.store.events = append(s.store.events, *event)
	return nil
}

// Update replaces the stored event matched by ID.
func (s *EventSource) Update(ctx context.Context, event *models.Event) error {
	event.UpdatedAt = time.Now().UTC()

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	for i, e := range s.store.events {
		if e.ID == event.ID {
			s.store.events[i] = *event
			return nil
		}
	}
	return sql.ErrNoRows
}

// Delete removes an event by ID.
func (s *EventSource) Delete(ctx context.Context, id string) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	for i, e := range s.store.events {
		if e.ID == id {
			s.store.events = append(s.store.events[:i], s.store.events[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}
