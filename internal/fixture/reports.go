package fixture

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/keikchoco/alternative-learning-system/internal/models"
	"github.com/keikchoco/alternative-learning-system/internal/repository"
)

// ReportSource keeps report jobs in memory for fixture deployments so
// the async export pipeline behaves the same without a database.
type ReportSource struct {
	store *Store
}

// Create appends a job with generated defaults.
func (s *ReportSource) Create(ctx context.Context, job *models.ReportJob) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.Status == "" {
		job.Status = models.ReportStatusQueued
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	s.store.reports = append(s.store.reports, *job)
	return nil
}

// GetByID fetches one job.
func (s *ReportSource) GetByID(ctx context.Context, id string) (*models.ReportJob, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	for _, job := range s.store.reports {
		if job.ID == id {
			copied := job
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

// Update applies the provided mutations to a stored job.
func (s *ReportSource) Update(ctx context.Context, id string, params repository.UpdateReportJobParams) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	for i := range s.store.reports {
		if s.store.reports[i].ID != id {
			continue
		}
		if params.Status != nil {
			s.store.reports[i].Status = *params.Status
		}
		if params.ResultURL != nil {
			url := *params.ResultURL
			s.store.reports[i].ResultURL = &url
		}
		if params.ErrorMessage != nil {
			msg := *params.ErrorMessage
			s.store.reports[i].ErrorMessage = &msg
		}
		if params.FinishedAt != nil {
			ts := *params.FinishedAt
			s.store.reports[i].FinishedAt = &ts
		}
		return nil
	}
	return sql.ErrNoRows
}

// ListQueued returns jobs still waiting for a worker, oldest first.
func (s *ReportSource) ListQueued(ctx context.Context, limit int) ([]models.ReportJob, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	out := []models.ReportJob{}
	for _, job := range s.store.reports {
		if job.Status == models.ReportStatusQueued {
			out = append(out, job)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

// ListFinishedBefore returns finished jobs older than the cutoff.
func (s *ReportSource) ListFinishedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ReportJob, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	out := []models.ReportJob{}
	for _, job := range s.store.reports {
		if job.Status == models.ReportStatusFinished && job.FinishedAt != nil && job.FinishedAt.Before(cutoff) {
			out = append(out, job)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}
