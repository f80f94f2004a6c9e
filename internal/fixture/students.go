package fixture

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/keikchoco/alternative-learning-system/internal/filter"
	"github.com/keikchoco/alternative-learning-system/internal/models"
)

// StudentSource serves students from the seeded store.
type StudentSource struct {
	store *Store
}

// List returns students matching the filter with pagination applied after
// the in-memory derived-view filter.
func (s *StudentSource) List(ctx context.Context, f models.StudentFilter) ([]models.Student, int, error) {
	s.store.mu.RLock()
	matched := filter.Students(s.store.students, filter.StudentCriteria{
		Status:     f.Status,
		BarangayID: f.BarangayID,
	})
	s.store.mu.RUnlock()

	// Search matches name or LRN, same as the Postgres source.
	if search := strings.ToLower(strings.TrimSpace(f.Search)); search != "" {
		kept := matched[:0]
		for _, st := range matched {
			if strings.Contains(strings.ToLower(st.Name), search) || strings.Contains(st.LRN, search) {
				kept = append(kept, st)
			}
		}
		matched = kept
	}

	if f.SortBy == "name" {
		asc := strings.ToUpper(f.SortOrder) != "DESC"
		sort.SliceStable(matched, func(i, j int) bool {
			if asc {
				return matched[i].Name < matched[j].Name
			}
			return matched[i].Name > matched[j].Name
		})
	}

	total := len(matched)
	page := f.Page
	if page < 1 {
		page = 1
	}
	size := f.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	start := (page - 1) * size
	if start >= total {
		return []models.Student{}, total, nil
	}
	end := start + size
	if end > total {
		end = total
	}
	out := make([]models.Student, end-start)
	copy(out, matched[start:end])
	return out, total, nil
}

// ListAll returns every student sorted by name.
func (s *StudentSource) ListAll(ctx context.Context) ([]models.Student, error) {
	s.store.mu.RLock()
	out := make([]models.Student, len(s.store.students))
	copy(out, s.store.students)
	s.store.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// FindByID fetches one student.
func (s *StudentSource) FindByID(ctx context.Context, id string) (*models.Student, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	for _, st := range s.store.students {
		if st.ID == id {
			copied := st
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

// ExistsByLRN checks LRN uniqueness optionally excluding an ID.
func (s *StudentSource) ExistsByLRN(ctx context.Context, lrn string, excludeID string) (bool, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	for _, st := range s.store.students {
		if st.LRN == lrn && st.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

// Create appends a student, assigning identity and timestamps.
func (s *StudentSource) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	s.store.students = append(s.store.students, *student)
	return nil
}

// Update replaces the stored student matched by ID.
func (s *StudentSource) Update(ctx context.Context, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	for i, st := range s.store.students {
		if st.ID == student.ID {
			s.store.students[i] = *student
			return nil
		}
	}
	return sql.ErrNoRows
}

// Delete removes a student by ID.
func (s *StudentSource) Delete(ctx context.Context, id string) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	for i, st := range s.store.students {
		if st.ID == id {
			s.store.students = append(s.store.students[:i], s.store.students[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}
