// Package fixture provides the embedded-seed data source. It implements
// the same contracts as the Postgres repositories and backs demo and
// degraded deployments where no database is reachable. The store is
// selected explicitly at startup via configuration, never by runtime
// fallback.
package fixture

import (
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/keikchoco/alternative-learning-system/internal/models"
)

//go:embed data/*.json
var seedFS embed.FS

// Store holds every seeded collection behind a single lock. Seeding runs
// exactly once for the store's lifetime; later loads observe the seeded
// data plus any in-memory mutations.
type Store struct {
	mu sync.RWMutex

	students  []models.Student
	barangays []models.Barangay
	modules   []models.Module
	progress  []models.Progress
	events    []models.Event
	users     []models.User
	tokens    []models.RefreshToken
	reports   []models.ReportJob

	seedOnce sync.Once
	seedErr  error
}

// NewStore builds a store and seeds it from the embedded fixture data.
func NewStore() (*Store, error) {
	s := &Store{}
	if err := s.seed(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) seed() error {
	s.seedOnce.Do(func() {
		if err := loadSeed("data/students.json", &s.students); err != nil {
			s.seedErr = err
			return
		}
		if err := loadSeed("data/barangays.json", &s.barangays); err != nil {
			s.seedErr = err
			return
		}
		if err := loadSeed("data/modules.json", &s.modules); err != nil {
			s.seedErr = err
			return
		}
		if err := loadSeed("data/progress.json", &s.progress); err != nil {
			s.seedErr = err
			return
		}
		if err := loadSeed("data/events.json", &s.events); err != nil {
			s.seedErr = err
			return
		}
		if err := loadSeed("data/users.json", &s.users); err != nil {
			s.seedErr = err
			return
		}
	})
	return s.seedErr
}

func loadSeed(name string, dest interface{}) error {
	raw, err := seedFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read fixture %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("parse fixture %s: %w", name, err)
	}
	return nil
}

// Students returns the student source backed by this store.
func (s *Store) Students() *StudentSource { return &StudentSource{store: s} }

// Barangays returns the barangay source backed by this store.
func (s *Store) Barangays() *BarangaySource { return &BarangaySource{store: s} }

// Modules returns the module source backed by this store.
func (s *Store) Modules() *ModuleSource { return &ModuleSource{store: s} }

// Progress returns the progress source backed by this store.
func (s *Store) Progress() *ProgressSource { return &ProgressSource{store: s} }

// Events returns the event source backed by this store.
func (s *Store) Events() *EventSource { return &EventSource{store: s} }

// Users returns the user source backed by this store.
func (s *Store) Users() *UserSource { return &UserSource{store: s} }

// Reports returns the report job source backed by this store. Report
// jobs are never seeded; the slice starts empty.
func (s *Store) Reports() *ReportSource { return &ReportSource{store: s} }
