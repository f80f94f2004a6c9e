package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/keikchoco/alternative-learning-system/internal/fixture"
	"github.com/keikchoco/alternative-learning-system/internal/models"
	"github.com/keikchoco/alternative-learning-system/internal/service"
)

func newReferenceHandler(t *testing.T) *ReferenceHandler {
	t.Helper()
	store, err := fixture.NewStore()
	require.NoError(t, err)
	barangays := service.NewBarangayService(store.Barangays(), nil, time.Minute, zap.NewNop())
	modules := service.NewModuleService(store.Modules(), zap.NewNop())
	return NewReferenceHandler(barangays, modules)
}

func TestReferenceHandlerListBarangays(t *testing.T) {
	handler := newReferenceHandler(t)
	c, w := newTestContext(t, http.MethodGet, "/barangays", nil)

	handler.ListBarangays(c)
	require.Equal(t, http.StatusOK, w.Code)

	var barangays []models.Barangay
	raw, err := json.Marshal(decodeEnvelope(t, w).Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &barangays))
	assert.Len(t, barangays, 6)
}

func TestReferenceHandlerListModulesByProgram(t *testing.T) {
	handler := newReferenceHandler(t)
	c, w := newTestContext(t, http.MethodGet, "/modules?program=A%26E+Elementary", nil)

	handler.ListModules(c)
	require.Equal(t, http.StatusOK, w.Code)

	var modules []models.Module
	raw, err := json.Marshal(decodeEnvelope(t, w).Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &modules))
	require.NotEmpty(t, modules)
	for _, m := range modules {
		assert.True(t, m.AppliesTo("A&E Elementary"))
	}
}
