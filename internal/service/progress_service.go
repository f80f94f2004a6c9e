package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/keikchoco/alternative-learning-system/internal/models"
	appErrors "github.com/keikchoco/alternative-learning-system/pkg/errors"
)

type progressRepository interface {
	List(ctx context.Context, filter models.ProgressFilter) ([]models.Progress, error)
	FindByStudentModule(ctx context.Context, studentID, moduleID string) (*models.Progress, error)
	Create(ctx context.Context, record *models.Progress) error
	ReplaceActivities(ctx context.Context, id string, activities models.ActivityList) error
	Delete(ctx context.Context, studentID, moduleID string) error
}

type studentFinder interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

// ActivityInput describes one scored entry in a request payload.
type ActivityInput struct {
	Name   string  `json:"name" validate:"required"`
	Type   string  `json:"type" validate:"required,oneof=Assessment Quiz Assignment Activity Project Participation"`
	Score  float64 `json:"score" validate:"gte=0"`
	Total  float64 `json:"total" validate:"gt=0"`
	Date   string  `json:"date" validate:"required,datetime=2006-01-02"`
	Remark string  `json:"remark"`
}

// CreateProgressRequest opens a progress record for a (student, module) pair.
type CreateProgressRequest struct {
	StudentID  string          `json:"student_id" validate:"required"`
	ModuleID   string          `json:"module_id" validate:"required"`
	Activities []ActivityInput `json:"activities" validate:"omitempty,dive"`
}

// ProgressService manages module progress records and their activity
// sequences. The wire format addresses activities by position; internally
// every activity carries a stable identifier assigned at creation, and
// positional operations are resolved against the current sequence before
// the whole array is rewritten.
type ProgressService struct {
	repo        progressRepository
	students    studentFinder
	validator   *validator.Validate
	logger      *zap.Logger
	invalidator CacheInvalidator
}

// NewProgressService constructs the service.
func NewProgressService(repo progressRepository, students studentFinder, validate *validator.Validate, logger *zap.Logger) *ProgressService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgressService{repo: repo, students: students, validator: validate, logger: logger}
}

// SetCacheInvalidator registers a hook run after successful mutations.
func (s *ProgressService) SetCacheInvalidator(inv CacheInvalidator) {
	s.invalidator = inv
}

func (s *ProgressService) invalidate(ctx context.Context) {
	if s.invalidator != nil {
		s.invalidator.InvalidateCaches(ctx)
	}
}

// List returns progress records for the filter.
func (s *ProgressService) List(ctx context.Context, filter models.ProgressFilter) ([]models.Progress, error) {
	records, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list progress records")
	}
	return records, nil
}

// StudentBarangay resolves the barangay the given student belongs to.
func (s *ProgressService) StudentBarangay(ctx context.Context, studentID string) (string, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student.BarangayID, nil
}

// Create opens a new progress record. At most one record may exist per
// (student, module) pair.
func (s *ProgressService) Create(ctx context.Context, req CreateProgressRequest) (*models.Progress, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid progress payload")
	}
	activities, err := s.buildActivities(req.Activities)
	if err != nil {
		return nil, err
	}

	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	if _, err := s.repo.FindByStudentModule(ctx, req.StudentID, req.ModuleID); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "progress record already exists for this student and module")
	} else if err != sql.ErrNoRows {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing progress")
	}

	record := &models.Progress{
		StudentID:  req.StudentID,
		ModuleID:   req.ModuleID,
		Activities: activities,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create progress record")
	}
	s.invalidate(ctx)
	return record, nil
}

// AddActivity appends a scored entry to an existing record.
func (s *ProgressService) AddActivity(ctx context.Context, studentID, moduleID string, input ActivityInput) (*models.Progress, error) {
	record, err := s.getRecord(ctx, studentID, moduleID)
	if err != nil {
		return nil, err
	}
	activity, err := s.buildActivity(input)
	if err != nil {
		return nil, err
	}

	record.Activities = append(record.Activities, activity)
	if err := s.repo.ReplaceActivities(ctx, record.ID, record.Activities); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add activity")
	}
	s.invalidate(ctx)
	return record, nil
}

// UpdateActivity replaces the activity at the given position. The stable
// identifier of the replaced entry is preserved so the entry keeps its
// identity across edits.
func (s *ProgressService) UpdateActivity(ctx context.Context, studentID, moduleID string, index int, input ActivityInput) (*models.Progress, error) {
	record, err := s.getRecord(ctx, studentID, moduleID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(record.Activities) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "activity index out of range")
	}
	activity, err := s.buildActivity(input)
	if err != nil {
		return nil, err
	}
	activity.ID = record.Activities[index].ID

	record.Activities[index] = activity
	if err := s.repo.ReplaceActivities(ctx, record.ID, record.Activities); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update activity")
	}
	s.invalidate(ctx)
	return record, nil
}

// DeleteActivity removes the activity at the given position. Entries after
// it shift down by one within the same record.
func (s *ProgressService) DeleteActivity(ctx context.Context, studentID, moduleID string, index int) (*models.Progress, error) {
	record, err := s.getRecord(ctx, studentID, moduleID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(record.Activities) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "activity index out of range")
	}

	record.Activities = append(record.Activities[:index], record.Activities[index+1:]...)
	if err := s.repo.ReplaceActivities(ctx, record.ID, record.Activities); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete activity")
	}
	s.invalidate(ctx)
	return record, nil
}

// Delete removes the whole record for a (student, module) pair.
func (s *ProgressService) Delete(ctx context.Context, studentID, moduleID string) error {
	if _, err := s.getRecord(ctx, studentID, moduleID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, studentID, moduleID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete progress record")
	}
	s.invalidate(ctx)
	return nil
}

func (s *ProgressService) getRecord(ctx context.Context, studentID, moduleID string) (*models.Progress, error) {
	record, err := s.repo.FindByStudentModule(ctx, studentID, moduleID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "progress record not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load progress record")
	}
	return record, nil
}

func (s *ProgressService) buildActivity(input ActivityInput) (models.Activity, error) {
	if err := s.validator.Struct(input); err != nil {
		return models.Activity{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid activity payload")
	}
	if input.Score > input.Total {
		return models.Activity{}, appErrors.Clone(appErrors.ErrValidation, "score cannot exceed total")
	}
	return models.Activity{
		ID:     uuid.NewString(),
		Name:   input.Name,
		Type:   models.ActivityType(input.Type),
		Score:  input.Score,
		Total:  input.Total,
		Date:   input.Date,
		Remark: input.Remark,
	}, nil
}

func (s *ProgressService) buildActivities(inputs []ActivityInput) (models.ActivityList, error) {
	activities := make(models.ActivityList, 0, len(inputs))
	for _, input := range inputs {
		activity, err := s.buildActivity(input)
		if err != nil {
			return nil, err
		}
		activities = append(activities, activity)
	}
	return activities, nil
}
