package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/keikchoco/alternative-learning-system/internal/models"
	appErrors "github.com/keikchoco/alternative-learning-system/pkg/errors"
)

type barangayRepository interface {
	List(ctx context.Context) ([]models.Barangay, error)
}

const barangayCacheKey = "barangays:all"

// BarangayService serves the barangay reference data, cached because the
// collection changes rarely and every roster view needs it.
type BarangayService struct {
	repo     barangayRepository
	cache    *CacheService
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewBarangayService constructs the service.
func NewBarangayService(repo barangayRepository, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *BarangayService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BarangayService{repo: repo, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// List returns every barangay, from cache when warm.
func (s *BarangayService) List(ctx context.Context) ([]models.Barangay, error) {
	var cached []models.Barangay
	if hit, err := s.cache.Get(ctx, barangayCacheKey, &cached); err == nil && hit {
		return cached, nil
	}

	barangays, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list barangays")
	}

	if err := s.cache.Set(ctx, barangayCacheKey, barangays, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache barangays", zap.Error(err))
	}
	return barangays, nil
}
