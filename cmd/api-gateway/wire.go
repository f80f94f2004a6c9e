package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/keikchoco/alternative-learning-system/internal/fixture"
	"github.com/keikchoco/alternative-learning-system/internal/models"
	"github.com/keikchoco/alternative-learning-system/internal/repository"
	"github.com/keikchoco/alternative-learning-system/pkg/config"
	"github.com/keikchoco/alternative-learning-system/pkg/database"
)

// The source interfaces mirror the contracts shared by the Postgres
// repositories and the fixture store, so either backend plugs into the
// services unchanged.

type studentSource interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	ListAll(ctx context.Context) ([]models.Student, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	ExistsByLRN(ctx context.Context, lrn string, excludeID string) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) error
}

type barangaySource interface {
	List(ctx context.Context) ([]models.Barangay, error)
}

type progressSource interface {
	List(ctx context.Context, filter models.ProgressFilter) ([]models.Progress, error)
	FindByStudentModule(ctx context.Context, studentID, moduleID string) (*models.Progress, error)
	Create(ctx context.Context, record *models.Progress) error
	ReplaceActivities(ctx context.Context, id string, activities models.ActivityList) error
	Delete(ctx context.Context, studentID, moduleID string) error
}

type eventSource interface {
	List(ctx context.Context, filter models.EventFilter) ([]models.Event, error)
	GetByID(ctx context.Context, id string) (*models.Event, error)
	Create(ctx context.Context, event *models.Event) error
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id string) error
}

type userSource interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id string, ts time.Time) error
	UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error
	CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error
	FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error
	RevokeUserRefreshTokens(ctx context.Context, userID string) error
}

type reportSource interface {
	Create(ctx context.Context, job *models.ReportJob) error
	GetByID(ctx context.Context, id string) (*models.ReportJob, error)
	Update(ctx context.Context, id string, params repository.UpdateReportJobParams) error
	ListQueued(ctx context.Context, limit int) ([]models.ReportJob, error)
	ListFinishedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ReportJob, error)
}

type dataSources struct {
	students  studentSource
	barangays barangaySource
	progress  progressSource
	events    eventSource
	users     userSource
	reports   reportSource
	modules   *fixture.ModuleSource

	close func() error
}

// buildSources selects the backing store from configuration. Curriculum
// modules are static reference data and always come from the embedded
// fixture set.
func buildSources(cfg *config.Config, logr *zap.Logger) (*dataSources, error) {
	fixtureStore, err := fixture.NewStore()
	if err != nil {
		return nil, err
	}

	if cfg.DataSource == config.SourceFixture {
		logr.Info("using embedded fixture data source")
		return &dataSources{
			students:  fixtureStore.Students(),
			barangays: fixtureStore.Barangays(),
			progress:  fixtureStore.Progress(),
			events:    fixtureStore.Events(),
			users:     fixtureStore.Users(),
			reports:   fixtureStore.Reports(),
			modules:   fixtureStore.Modules(),
			close:     func() error { return nil },
		}, nil
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return nil, err
	}
	logr.Info("using postgres data source", zap.String("database", cfg.Database.Name))
	return &dataSources{
		students:  repository.NewStudentRepository(db),
		barangays: repository.NewBarangayRepository(db),
		progress:  repository.NewProgressRepository(db),
		events:    repository.NewEventRepository(db),
		users:     repository.NewUserRepository(db),
		reports:   repository.NewReportRepository(db),
		modules:   fixtureStore.Modules(),
		close:     db.Close,
	}, nil
}
