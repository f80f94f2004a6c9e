package store

import (
	"context"
	"sync"

	"github.com/keikchoco/alternative-learning-system/internal/filter"
	"github.com/keikchoco/alternative-learning-system/internal/models"
	appErrors "github.com/keikchoco/alternative-learning-system/pkg/errors"
)

// ProgressAPI is the slice of the gateway client the progress store uses.
type ProgressAPI interface {
	ListProgress(ctx context.Context, filter models.ProgressFilter) ([]models.Progress, error)
	CreateProgress(ctx context.Context, payload interface{}) (*models.Progress, error)
	AddActivity(ctx context.Context, studentID, moduleID string, payload interface{}) (*models.Progress, error)
	UpdateActivity(ctx context.Context, studentID, moduleID string, index int, payload interface{}) (*models.Progress, error)
	DeleteActivity(ctx context.Context, studentID, moduleID string, index int) (*models.Progress, error)
	DeleteProgress(ctx context.Context, studentID, moduleID string) error
}

// ProgressSnapshot is a point-in-time view of the store.
type ProgressSnapshot struct {
	Records []models.Progress
	Filters models.ProgressFilter
	Loading bool
	Err     error
}

// ProgressStore keeps progress records for the tracking views. Mutations
// are keyed by the (student, module) pair so edits to one record never
// overlap.
type ProgressStore struct {
	api ProgressAPI

	mu      sync.RWMutex
	records []models.Progress
	filters models.ProgressFilter
	loading bool
	err     error

	inFlight *inFlightSet
}

// NewProgressStore constructs the store.
func NewProgressStore(api ProgressAPI) *ProgressStore {
	return &ProgressStore{api: api, inFlight: newInFlightSet()}
}

// SetFilters replaces the active filters. The next Load uses them.
func (s *ProgressStore) SetFilters(filters models.ProgressFilter) {
	s.mu.Lock()
	s.filters = filters
	s.mu.Unlock()
}

// ClearFilters resets the filters to their zero values.
func (s *ProgressStore) ClearFilters() {
	s.SetFilters(models.ProgressFilter{})
}

// Load refreshes the slice from the gateway using the active filters.
func (s *ProgressStore) Load(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	filters := s.filters
	s.mu.Unlock()

	records, err := s.api.ListProgress(ctx, filters)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.err = err
	if err != nil {
		return err
	}
	s.records = records
	return nil
}

// Create opens a progress record and appends it to the local slice.
func (s *ProgressStore) Create(ctx context.Context, payload interface{}) (*models.Progress, error) {
	record, err := s.api.CreateProgress(ctx, payload)
	if err != nil {
		s.setErr(err)
		return nil, err
	}
	s.mu.Lock()
	s.records = append(s.records, *record)
	s.err = nil
	s.mu.Unlock()
	return record, nil
}

// AddActivity appends an activity to a record.
func (s *ProgressStore) AddActivity(ctx context.Context, studentID, moduleID string, payload interface{}) (*models.Progress, error) {
	return s.mutateRecord(studentID, moduleID, func() (*models.Progress, error) {
		return s.api.AddActivity(ctx, studentID, moduleID, payload)
	})
}

// UpdateActivity replaces the activity at the given position.
func (s *ProgressStore) UpdateActivity(ctx context.Context, studentID, moduleID string, index int, payload interface{}) (*models.Progress, error) {
	return s.mutateRecord(studentID, moduleID, func() (*models.Progress, error) {
		return s.api.UpdateActivity(ctx, studentID, moduleID, index, payload)
	})
}

// DeleteActivity removes the activity at the given position.
func (s *ProgressStore) DeleteActivity(ctx context.Context, studentID, moduleID string, index int) (*models.Progress, error) {
	return s.mutateRecord(studentID, moduleID, func() (*models.Progress, error) {
		return s.api.DeleteActivity(ctx, studentID, moduleID, index)
	})
}

// Delete removes a whole record.
func (s *ProgressStore) Delete(ctx context.Context, studentID, moduleID string) error {
	key := studentID + "/" + moduleID
	if !s.inFlight.acquire(key) {
		return appErrors.ErrInFlight
	}
	defer s.inFlight.release(key)

	if err := s.api.DeleteProgress(ctx, studentID, moduleID); err != nil {
		s.setErr(err)
		return err
	}
	s.mu.Lock()
	for i := range s.records {
		if s.records[i].StudentID == studentID && s.records[i].ModuleID == moduleID {
			s.records = append(s.records[:i], s.records[i+1:]...)
			break
		}
	}
	s.err = nil
	s.mu.Unlock()
	return nil
}

// ByStudent returns the loaded records belonging to one student.
func (s *ProgressStore) ByStudent(studentID string) []models.Progress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter.Progress(s.records, filter.ProgressCriteria{StudentID: studentID})
}

// Statistics computes aggregate figures over the loaded records.
func (s *ProgressStore) Statistics() models.ProgressStatistics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter.Statistics(s.records)
}

// Snapshot returns a copy of the current state.
func (s *ProgressStore) Snapshot() ProgressSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := ProgressSnapshot{
		Records: make([]models.Progress, len(s.records)),
		Filters: s.filters,
		Loading: s.loading,
		Err:     s.err,
	}
	copy(out.Records, s.records)
	return out
}

func (s *ProgressStore) mutateRecord(studentID, moduleID string, op func() (*models.Progress, error)) (*models.Progress, error) {
	key := studentID + "/" + moduleID
	if !s.inFlight.acquire(key) {
		return nil, appErrors.ErrInFlight
	}
	defer s.inFlight.release(key)

	record, err := op()
	if err != nil {
		s.setErr(err)
		return nil, err
	}

	s.mu.Lock()
	replaced := false
	for i := range s.records {
		if s.records[i].StudentID == studentID && s.records[i].ModuleID == moduleID {
			s.records[i] = *record
			replaced = true
			break
		}
	}
	if !replaced {
		s.records = append(s.records, *record)
	}
	s.err = nil
	s.mu.Unlock()
	return record, nil
}

func (s *ProgressStore) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}
