package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keikchoco/alternative-learning-system/internal/models"
)

type fakeReferenceAPI struct {
	barangays   []models.Barangay
	modules     []models.Module
	modulesErr  error
	lastProgram string
}

func (f *fakeReferenceAPI) ListBarangays(ctx context.Context) ([]models.Barangay, error) {
	return f.barangays, nil
}

func (f *fakeReferenceAPI) ListModules(ctx context.Context, program string) ([]models.Module, error) {
	f.lastProgram = program
	if f.modulesErr != nil {
		return nil, f.modulesErr
	}
	return f.modules, nil
}

func TestReferenceStoreLoad(t *testing.T) {
	api := &fakeReferenceAPI{
		barangays: []models.Barangay{{ID: "b1", Name: "Poblacion"}},
		modules:   []models.Module{{ID: "m1", Title: "Numeracy"}},
	}
	s := NewReferenceStore(api)

	require.NoError(t, s.Load(context.Background(), "A&E Elementary"))
	assert.Equal(t, "A&E Elementary", api.lastProgram)
	snap := s.Snapshot()
	assert.Len(t, snap.Barangays, 1)
	assert.Len(t, snap.Modules, 1)
	assert.NoError(t, snap.Err)
}

func TestReferenceStoreBarangayName(t *testing.T) {
	api := &fakeReferenceAPI{barangays: []models.Barangay{{ID: "b1", Name: "Poblacion"}}}
	s := NewReferenceStore(api)
	require.NoError(t, s.Load(context.Background(), ""))

	assert.Equal(t, "Poblacion", s.BarangayName("b1"))
	assert.Equal(t, "Unknown Barangay", s.BarangayName("missing"))
}

func TestReferenceStoreFailedLoadKeepsPreviousData(t *testing.T) {
	api := &fakeReferenceAPI{
		barangays: []models.Barangay{{ID: "b1", Name: "Poblacion"}},
		modules:   []models.Module{{ID: "m1"}},
	}
	s := NewReferenceStore(api)
	require.NoError(t, s.Load(context.Background(), ""))

	api.modulesErr = errors.New("gateway down")
	require.Error(t, s.Load(context.Background(), ""))
	snap := s.Snapshot()
	assert.Len(t, snap.Barangays, 1)
	assert.Len(t, snap.Modules, 1)
	assert.Error(t, snap.Err)
}
