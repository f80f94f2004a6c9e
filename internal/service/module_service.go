package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/keikchoco/alternative-learning-system/internal/models"
	appErrors "github.com/keikchoco/alternative-learning-system/pkg/errors"
)

type moduleRepository interface {
	List(ctx context.Context) ([]models.Module, error)
}

// ModuleService serves the static curriculum module catalogue.
type ModuleService struct {
	repo   moduleRepository
	logger *zap.Logger
}

// NewModuleService constructs the service.
func NewModuleService(repo moduleRepository, logger *zap.Logger) *ModuleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ModuleService{repo: repo, logger: logger}
}

// List returns modules, optionally restricted to those applicable to a
// program level. Modules carrying the "All Programs" sentinel always match.
func (s *ModuleService) List(ctx context.Context, program string) ([]models.Module, error) {
	modules, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list modules")
	}
	if program == "" {
		return modules, nil
	}
	matched := make([]models.Module, 0, len(modules))
	for _, m := range modules {
		if m.AppliesTo(program) {
			matched = append(matched, m)
		}
	}
	return matched, nil
}
