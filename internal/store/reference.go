package store

import (
	"context"
	"sync"

	"github.com/keikchoco/alternative-learning-system/internal/models"
)

// ReferenceAPI is the slice of the gateway client the reference store uses.
type ReferenceAPI interface {
	ListBarangays(ctx context.Context) ([]models.Barangay, error)
	ListModules(ctx context.Context, program string) ([]models.Module, error)
}

// ReferenceSnapshot is a point-in-time view of the store.
type ReferenceSnapshot struct {
	Barangays []models.Barangay
	Modules   []models.Module
	Loading   bool
	Err       error
}

// ReferenceStore keeps the read-only barangay and module lists. There are
// no mutations, so it carries no in-flight guard.
type ReferenceStore struct {
	api ReferenceAPI

	mu        sync.RWMutex
	barangays []models.Barangay
	modules   []models.Module
	loading   bool
	err       error
}

// NewReferenceStore constructs the store.
func NewReferenceStore(api ReferenceAPI) *ReferenceStore {
	return &ReferenceStore{api: api}
}

// Load refreshes both reference lists. The module list is scoped to the
// given program; pass the empty string for all modules.
func (s *ReferenceStore) Load(ctx context.Context, program string) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	barangays, err := s.api.ListBarangays(ctx)
	if err != nil {
		s.finish(err)
		return err
	}
	modules, err := s.api.ListModules(ctx, program)
	if err != nil {
		s.finish(err)
		return err
	}

	s.mu.Lock()
	s.barangays = barangays
	s.modules = modules
	s.loading = false
	s.err = nil
	s.mu.Unlock()
	return nil
}

// BarangayName resolves a barangay's display name. Unknown IDs resolve to
// "Unknown Barangay" so stale references still render.
func (s *ReferenceStore) BarangayName(id string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.barangays {
		if b.ID == id {
			return b.Name
		}
	}
	return "Unknown Barangay"
}

// Snapshot returns a copy of the current state.
func (s *ReferenceStore) Snapshot() ReferenceSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := ReferenceSnapshot{
		Barangays: make([]models.Barangay, len(s.barangays)),
		Modules:   make([]models.Module, len(s.modules)),
		Loading:   s.loading,
		Err:       s.err,
	}
	copy(out.Barangays, s.barangays)
	copy(out.Modules, s.modules)
	return out
}

func (s *ReferenceStore) finish(err error) {
	s.mu.Lock()
	s.loading = false
	s.err = err
	s.mu.Unlock()
}
