package fixture

import (
	"context"

	"github.com/keikchoco/alternative-learning-system/internal/models"
)

// BarangaySource serves the seeded barangay reference data.
type BarangaySource struct {
	store *Store
}

// List returns every barangay in seed order.
func (s *BarangaySource) List(ctx context.Context) ([]models.Barangay, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	out := make([]models.Barangay, len(s.store.barangays))
	copy(out, s.store.barangays)
	return out, nil
}

// ModuleSource serves the seeded curriculum modules. Modules are static
// reference data in every deployment, so this source backs the module
// endpoints regardless of the configured primary data source.
type ModuleSource struct {
	store *Store
}

// List returns every module in seed order.
func (s *ModuleSource) List(ctx context.Context) ([]models.Module, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	out := make([]models.Module, len(s.store.modules))
	copy(out, s.store.modules)
	return out, nil
}
