package store

import (
	"context"
	"sync"

	"github.com/keikchoco/alternative-learning-system/internal/filter"
	"github.com/keikchoco/alternative-learning-system/internal/models"
	appErrors "github.com/keikchoco/alternative-learning-system/pkg/errors"
)

// StudentAPI is the slice of the gateway client the student store uses.
type StudentAPI interface {
	ListStudents(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error)
	CreateStudent(ctx context.Context, payload interface{}) (*models.Student, error)
	UpdateStudent(ctx context.Context, id string, payload interface{}) (*models.Student, error)
	DeleteStudent(ctx context.Context, id string) error
}

// StudentSnapshot is a point-in-time view of the store. Filtered is the
// loaded slice narrowed by the active filters; it is recomputed on every
// load, filter change, and mutation rather than on read.
type StudentSnapshot struct {
	Students   []models.Student
	Filtered   []models.Student
	Pagination *models.Pagination
	Filters    models.StudentFilter
	Loading    bool
	Err        error
}

// StudentStore keeps the roster slice for list views. A failed refresh
// records the error but leaves the previously loaded data in place.
type StudentStore struct {
	api StudentAPI

	mu         sync.RWMutex
	students   []models.Student
	filtered   []models.Student
	pagination *models.Pagination
	filters    models.StudentFilter
	loading    bool
	err        error

	inFlight *inFlightSet
}

// NewStudentStore constructs the store.
func NewStudentStore(api StudentAPI) *StudentStore {
	return &StudentStore{api: api, inFlight: newInFlightSet()}
}

// SetFilters replaces the active filters. The derived view is recomputed
// over the already loaded slice immediately; the next Load also uses them.
func (s *StudentStore) SetFilters(filters models.StudentFilter) {
	s.mu.Lock()
	s.filters = filters
	s.refilterLocked()
	s.mu.Unlock()
}

// ClearFilters resets the filters to their zero values.
func (s *StudentStore) ClearFilters() {
	s.SetFilters(models.StudentFilter{})
}

// Load refreshes the slice from the gateway using the active filters.
func (s *StudentStore) Load(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	filters := s.filters
	s.mu.Unlock()

	students, pagination, err := s.api.ListStudents(ctx, filters)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.err = err
	if err != nil {
		return err
	}
	s.students = students
	s.pagination = pagination
	s.refilterLocked()
	return nil
}

// Create registers a learner and appends it to the local slice.
func (s *StudentStore) Create(ctx context.Context, payload interface{}) (*models.Student, error) {
	student, err := s.api.CreateStudent(ctx, payload)
	if err != nil {
		s.setErr(err)
		return nil, err
	}
	s.mu.Lock()
	s.students = append(s.students, *student)
	s.err = nil
	s.refilterLocked()
	s.mu.Unlock()
	return student, nil
}

// Update rewrites a learner. A concurrent mutation on the same record is
// rejected with ErrInFlight.
func (s *StudentStore) Update(ctx context.Context, id string, payload interface{}) (*models.Student, error) {
	if !s.inFlight.acquire(id) {
		return nil, appErrors.ErrInFlight
	}
	defer s.inFlight.release(id)

	student, err := s.api.UpdateStudent(ctx, id, payload)
	if err != nil {
		s.setErr(err)
		return nil, err
	}
	s.mu.Lock()
	for i := range s.students {
		if s.students[i].ID == id {
			s.students[i] = *student
			break
		}
	}
	s.err = nil
	s.refilterLocked()
	s.mu.Unlock()
	return student, nil
}

// Delete removes a learner from the server and the local slice.
func (s *StudentStore) Delete(ctx context.Context, id string) error {
	if !s.inFlight.acquire(id) {
		return appErrors.ErrInFlight
	}
	defer s.inFlight.release(id)

	if err := s.api.DeleteStudent(ctx, id); err != nil {
		s.setErr(err)
		return err
	}
	s.mu.Lock()
	for i := range s.students {
		if s.students[i].ID == id {
			s.students = append(s.students[:i], s.students[i+1:]...)
			break
		}
	}
	s.err = nil
	s.refilterLocked()
	s.mu.Unlock()
	return nil
}

// Snapshot returns a copy of the current state.
func (s *StudentStore) Snapshot() StudentSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := StudentSnapshot{
		Students: make([]models.Student, len(s.students)),
		Filtered: make([]models.Student, len(s.filtered)),
		Filters:  s.filters,
		Loading:  s.loading,
		Err:      s.err,
	}
	copy(out.Students, s.students)
	copy(out.Filtered, s.filtered)
	if s.pagination != nil {
		p := *s.pagination
		out.Pagination = &p
	}
	return out
}

// refilterLocked recomputes the derived view. Callers hold s.mu.
func (s *StudentStore) refilterLocked() {
	s.filtered = filter.Students(s.students, filter.StudentCriteria{
		Name:       s.filters.Search,
		Status:     s.filters.Status,
		BarangayID: s.filters.BarangayID,
	})
}

func (s *StudentStore) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}
