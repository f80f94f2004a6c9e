package fixture

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/keikchoco/alternative-learning-system/internal/filter"
	"github.com/keikchoco/alternative-learning-system/internal/models"
)

// ProgressSource serves progress records from the seeded store.
type ProgressSource struct {
	store *Store
}

// List returns progress records matching the filter.
func (s *ProgressSource) List(ctx context.Context, f models.ProgressFilter) ([]models.Progress, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	matched := filter.Progress(s.store.progress, filter.ProgressCriteria{
		StudentID: f.StudentID,
		ModuleID:  f.ModuleID,
	})
	out := make([]models.Progress, len(matched))
	for i, p := range matched {
		out[i] = copyProgress(p)
	}
	return out, nil
}

// FindByStudentModule fetches the unique record for a (student, module) pair.
func (s *ProgressSource) FindByStudentModule(ctx context.Context, studentID, moduleID string) (*models.Progress, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	for _, p := range s.store.progress {
		if p.StudentID == studentID && p.ModuleID == moduleID {
			copied := copyProgress(p)
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

// Create appends a record, assigning identity and timestamps.
func (s *ProgressSource) Create(ctx context.Context, record *models.Progress) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	s.store.progress = append(s.store.progress, copyProgress(*record))
	return nil
}

// ReplaceActivities swaps the full activity sequence of a record.
func (s *ProgressSource) ReplaceActivities(ctx context.Context, id string, activities models.ActivityList) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	for i, p := range s.store.progress {
		if p.ID == id {
			replaced := make(models.ActivityList, len(activities))
			copy(replaced, activities)
			s.store.progress[i].Activities = replaced
			s.store.progress[i].UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return sql.ErrNoRows
}

// Delete removes the record for a (student, module) pair.
func (s *ProgressSource) Delete(ctx context.Context, studentID, moduleID string) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	for i, p := range s.store.progress {
		if p.StudentID == studentID && p.ModuleID == moduleID {
			s.store.progress = append(s.store.progress[:i], s.store.progress[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

// copyProgress deep-copies the record so callers never alias the stored
// activity slice.
func copyProgress(p models.Progress) models.Progress {
	activities := make(models.ActivityList, len(p.Activities))
	copy(activities, p.Activities)
	p.Activities = activities
	return p
}
