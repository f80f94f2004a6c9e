package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/keikchoco/alternative-learning-system/internal/filter"
	"github.com/keikchoco/alternative-learning-system/internal/models"
	appErrors "github.com/keikchoco/alternative-learning-system/pkg/errors"
)

type dashboardStudentRepository interface {
	ListAll(ctx context.Context) ([]models.Student, error)
}

const (
	dashboardStatisticsCacheKey = "dashboard:statistics"
	dashboardCalendarCachePref  = "dashboard:calendar:"
)

// CacheInvalidator is implemented by services whose derived caches go
// stale when the underlying entities change. The student, progress and
// event services call it after every successful mutation.
type CacheInvalidator interface {
	InvalidateCaches(ctx context.Context)
}

// DashboardService aggregates roster, progress and event data for the
// admin landing page and the calendar view. Aggregation happens over the
// full in-memory slices, mirroring how the tracker computes its derived
// views everywhere else.
type DashboardService struct {
	students  dashboardStudentRepository
	barangays barangayRepository
	modules   moduleRepository
	progress  progressRepository
	events    eventRepository
	cache     *CacheService
	cacheTTL  time.Duration
	logger    *zap.Logger
}

// NewDashboardService constructs the service.
func NewDashboardService(
	students dashboardStudentRepository,
	barangays barangayRepository,
	modules moduleRepository,
	progress progressRepository,
	events eventRepository,
	cache *CacheService,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		students:  students,
		barangays: barangays,
		modules:   modules,
		progress:  progress,
		events:    events,
		cache:     cache,
		cacheTTL:  cacheTTL,
		logger:    logger,
	}
}

// Statistics computes the dashboard aggregate, served from cache when warm.
func (s *DashboardService) Statistics(ctx context.Context) (*models.DashboardStatistics, error) {
	var cached models.DashboardStatistics
	if hit, _ := s.cache.Get(ctx, dashboardStatisticsCacheKey, &cached); hit {
		return &cached, nil
	}

	students, err := s.students.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
	}
	barangays, err := s.barangays.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load barangays")
	}
	modules, err := s.modules.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load modules")
	}
	progress, err := s.progress.List(ctx, models.ProgressFilter{})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load progress records")
	}

	today := time.Now().UTC().Format("2006-01-02")
	upcoming, err := s.events.List(ctx, models.EventFilter{From: today})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load events")
	}

	stats := &models.DashboardStatistics{
		TotalStudents:  len(students),
		TotalBarangays: len(barangays),
		TotalModules:   len(modules),
		Progress:       filter.Statistics(progress),
		UpcomingEvents: len(upcoming),
		GeneratedAt:    time.Now().UTC(),
	}

	perBarangay := make(map[string]int, len(barangays))
	for _, st := range students {
		if st.Status == models.StudentStatusActive {
			stats.ActiveStudents++
		} else {
			stats.InactiveStudents++
		}
		perBarangay[st.BarangayID]++
	}
	stats.StudentsPerBarangay = make([]models.BarangayStudentCount, 0, len(barangays))
	for _, b := range barangays {
		stats.StudentsPerBarangay = append(stats.StudentsPerBarangay, models.BarangayStudentCount{
			BarangayID:   b.ID,
			BarangayName: b.Name,
			Students:     perBarangay[b.ID],
		})
	}

	if err := s.cache.Set(ctx, dashboardStatisticsCacheKey, stats, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache dashboard statistics", zap.Error(err))
	}
	return stats, nil
}

// Calendar returns the month's events grouped by date. The month argument
// uses the YYYY-MM form.
func (s *DashboardService) Calendar(ctx context.Context, month string) (*models.CalendarMonth, error) {
	if _, err := time.Parse("2006-01", month); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "month must use the YYYY-MM format")
	}

	cacheKey := dashboardCalendarCachePref + month
	var cached models.CalendarMonth
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return &cached, nil
	}

	// Dates are ISO-8601 strings, so a lexical range covers the month.
	events, err := s.events.List(ctx, models.EventFilter{
		From: month + "-01",
		To:   month + "-31",
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load events")
	}

	calendar := &models.CalendarMonth{
		Month: month,
		Days:  filter.GroupEventsByDate(events),
	}
	if err := s.cache.Set(ctx, cacheKey, calendar, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache calendar", zap.String("month", month), zap.Error(err))
	}
	return calendar, nil
}

// InvalidateCaches drops the dashboard aggregates, called after mutations
// that change the underlying figures.
func (s *DashboardService) InvalidateCaches(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, "dashboard:*"); err != nil {
		s.logger.Warn("failed to invalidate dashboard caches", zap.Error(err))
	}
}
