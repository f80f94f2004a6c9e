package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/keikchoco/alternative-learning-system/internal/models"
)

// ProgressRepository persists progress records. Activities live in a
// JSONB column, preserving the document shape of the wire format.
type ProgressRepository struct {
	db *sqlx.DB
}

// NewProgressRepository constructs a ProgressRepository.
func NewProgressRepository(db *sqlx.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// List returns progress records matching the filter.
func (r *ProgressRepository) List(ctx context.Context, filter models.ProgressFilter) ([]models.Progress, error) {
	base := "SELECT id, student_id, module_id, activities, created_at, updated_at FROM progress"
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.ModuleID != "" {
		conditions = append(conditions, fmt.Sprintf("module_id = $%d", len(args)+1))
		args = append(args, filter.ModuleID)
	}

	query := fmt.Sprintf("%s WHERE %s ORDER BY created_at ASC", base, strings.Join(conditions, " AND "))
	var records []models.Progress
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	return records, nil
}

// FindByStudentModule fetches the unique record for a (student, module) pair.
func (r *ProgressRepository) FindByStudentModule(ctx context.Context, studentID, moduleID string) (*models.Progress, error) {
	const query = `SELECT id, student_id, module_id, activities, created_at, updated_at
        FROM progress WHERE student_id = $1 AND module_id = $2`
	var record models.Progress
	if err := r.db.GetContext(ctx, &record, query, studentID, moduleID); err != nil {
		return nil, err
	}
	return &record, nil
}

// Create inserts a new progress record.
func (r *ProgressRepository) Create(ctx context.Context, record *models.Progress) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	const query = `INSERT INTO progress (id, student_id, module_id, activities, created_at, updated_at)
        VALUES (:id, :student_id, :module_id, :activities, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("create progress: %w", err)
	}
	return nil
}

// ReplaceActivities swaps the full activity sequence of a record. The
// whole array is written in one statement so positional updates cannot
// interleave with concurrent writers.
func (r *ProgressRepository) ReplaceActivities(ctx context.Context, id string, activities models.ActivityList) error {
	const query = `UPDATE progress SET activities = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, activities, time.Now().UTC()); err != nil {
		return fmt.Errorf("replace activities: %w", err)
	}
	return nil
}

// Delete removes the record for a (student, module) pair.
func (r *ProgressRepository) Delete(ctx context.Context, studentID, moduleID string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM progress WHERE student_id = $1 AND module_id = $2", studentID, moduleID); err != nil {
		return fmt.Errorf("delete progress: %w", err)
	}
	return nil
}
