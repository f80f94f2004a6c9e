package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/keikchoco/alternative-learning-system/internal/models"
	appErrors "github.com/keikchoco/alternative-learning-system/pkg/errors"
)

type eventRepository interface {
	List(ctx context.Context, filter models.EventFilter) ([]models.Event, error)
	GetByID(ctx context.Context, id string) (*models.Event, error)
	Create(ctx context.Context, event *models.Event) error
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id string) error
}

// CreateEventRequest carries the payload for a new calendar event.
type CreateEventRequest struct {
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Time        string `json:"time" validate:"required,datetime=15:04"`
	Title       string `json:"title" validate:"required,max=200"`
	Location    string `json:"location" validate:"required,max=200"`
	Type        string `json:"type" validate:"required,oneof=orientation assessment workshop lesson"`
	Description string `json:"description" validate:"max=2000"`
}

// UpdateEventRequest carries the payload for editing an event.
type UpdateEventRequest struct {
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Time        string `json:"time" validate:"required,datetime=15:04"`
	Title       string `json:"title" validate:"required,max=200"`
	Location    string `json:"location" validate:"required,max=200"`
	Type        string `json:"type" validate:"required,oneof=orientation assessment workshop lesson"`
	Description string `json:"description" validate:"max=2000"`
}

// EventService manages calendar events.
type EventService struct {
	repo        eventRepository
	validator   *validator.Validate
	logger      *zap.Logger
	invalidator CacheInvalidator
}

// NewEventService constructs the service.
func NewEventService(repo eventRepository, validate *validator.Validate, logger *zap.Logger) *EventService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventService{repo: repo, validator: validate, logger: logger}
}

// SetCacheInvalidator registers a hook run after successful mutations.
func (s *EventService) SetCacheInvalidator(inv CacheInvalidator) {
	s.invalidator = inv
}

func (s *EventService) invalidate(ctx context.Context) {
	if s.invalidator != nil {
		s.invalidator.InvalidateCaches(ctx)
	}
}

// List returns events matching the filter, ordered by date then time.
func (s *EventService) List(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	events, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list events")
	}
	return events, nil
}

// Get returns a single event by identifier.
func (s *EventService) Get(ctx context.Context, id string) (*models.Event, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}
	return event, nil
}

// Create records a new event.
func (s *EventService) Create(ctx context.Context, req CreateEventRequest) (*models.Event, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload")
	}
	event := &models.Event{
		Date:        req.Date,
		Time:        req.Time,
		Title:       req.Title,
		Location:    req.Location,
		Type:        models.EventType(req.Type),
		Description: req.Description,
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create event")
	}
	s.invalidate(ctx)
	return event, nil
}

// Update rewrites an existing event.
func (s *EventService) Update(ctx context.Context, id string, req UpdateEventRequest) (*models.Event, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload")
	}
	event, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	event.Date = req.Date
	event.Time = req.Time
	event.Title = req.Title
	event.Location = req.Location
	event.Type = models.EventType(req.Type)
	event.Description = req.Description

	if err := s.repo.Update(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update event")
	}
	s.invalidate(ctx)
	return event, nil
}

// Delete removes an event.
func (s *EventService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete event")
	}
	s.invalidate(ctx)
	return nil
}
