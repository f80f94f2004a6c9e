package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/keikchoco/alternative-learning-system/internal/models"
	appErrors "github.com/keikchoco/alternative-learning-system/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	ExistsByLRN(ctx context.Context, lrn string, excludeID string) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) error
}

// CreateStudentRequest holds payload for registering learners.
type CreateStudentRequest struct {
	LRN            string   `json:"lrn" validate:"required,len=12,numeric"`
	Name           string   `json:"name" validate:"required"`
	Status         string   `json:"status" validate:"required,oneof=active inactive"`
	Gender         string   `json:"gender" validate:"required,oneof=male female"`
	Address        string   `json:"address"`
	BarangayID     string   `json:"barangay_id" validate:"required"`
	Program        string   `json:"program" validate:"required"`
	EnrollmentDate string   `json:"enrollment_date" validate:"required,datetime=2006-01-02"`
	Modality       string   `json:"modality" validate:"required"`
	Percentile     *float64 `json:"percentile" validate:"omitempty,gte=0,lte=100"`
	Remark         *string  `json:"remark"`
}

// UpdateStudentRequest holds payload for editing learners.
type UpdateStudentRequest struct {
	LRN            string   `json:"lrn" validate:"required,len=12,numeric"`
	Name           string   `json:"name" validate:"required"`
	Status         string   `json:"status" validate:"required,oneof=active inactive"`
	Gender         string   `json:"gender" validate:"required,oneof=male female"`
	Address        string   `json:"address"`
	BarangayID     string   `json:"barangay_id" validate:"required"`
	Program        string   `json:"program" validate:"required"`
	EnrollmentDate string   `json:"enrollment_date" validate:"required,datetime=2006-01-02"`
	Modality       string   `json:"modality" validate:"required"`
	Percentile     *float64 `json:"percentile" validate:"omitempty,gte=0,lte=100"`
	Remark         *string  `json:"remark"`
}

// StudentService handles learner roster use-cases.
type StudentService struct {
	repo        studentRepository
	validator   *validator.Validate
	logger      *zap.Logger
	invalidator CacheInvalidator
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, validator: validate, logger: logger}
}

// SetCacheInvalidator registers a hook run after successful mutations.
func (s *StudentService) SetCacheInvalidator(inv CacheInvalidator) {
	s.invalidator = inv
}

func (s *StudentService) invalidate(ctx context.Context) {
	if s.invalidator != nil {
		s.invalidator.InvalidateCaches(ctx)
	}
}

// List returns students and pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return students, pagination, nil
}

// Get returns one student.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// Create registers a new learner.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	exists, err := s.repo.ExistsByLRN(ctx, req.LRN, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate lrn")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "lrn already registered")
	}
	student := &models.Student{
		LRN:            req.LRN,
		Name:           req.Name,
		Status:         models.StudentStatus(req.Status),
		Gender:         req.Gender,
		Address:        req.Address,
		BarangayID:     req.BarangayID,
		Program:        req.Program,
		EnrollmentDate: req.EnrollmentDate,
		Modality:       req.Modality,
		Percentile:     req.Percentile,
		Remark:         req.Remark,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	s.invalidate(ctx)
	return student, nil
}

// Update modifies an existing learner record.
func (s *StudentService) Update(ctx context.Context, id string, req UpdateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	exists, err := s.repo.ExistsByLRN(ctx, req.LRN, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate lrn")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "lrn already registered")
	}
	student.LRN = req.LRN
	student.Name = req.Name
	student.Status = models.StudentStatus(req.Status)
	student.Gender = req.Gender
	student.Address = req.Address
	student.BarangayID = req.BarangayID
	student.Program = req.Program
	student.EnrollmentDate = req.EnrollmentDate
	student.Modality = req.Modality
	student.Percentile = req.Percentile
	student.Remark = req.Remark
	if err := s.repo.Update(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	s.invalidate(ctx)
	return student, nil
}

// Delete removes a learner permanently.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	s.invalidate(ctx)
	return nil
}
