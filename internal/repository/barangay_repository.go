package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/keikchoco/alternative-learning-system/internal/models"
)

// BarangayRepository reads the barangay reference table.
type BarangayRepository struct {
	db *sqlx.DB
}

// NewBarangayRepository constructs a BarangayRepository.
func NewBarangayRepository(db *sqlx.DB) *BarangayRepository {
	return &BarangayRepository{db: db}
}

// List returns every barangay ordered by name.
func (r *BarangayRepository) List(ctx context.Context) ([]models.Barangay, error) {
	var barangays []models.Barangay
	if err := r.db.SelectContext(ctx, &barangays, "SELECT id, name FROM barangays ORDER BY name ASC"); err != nil {
		return nil, fmt.Errorf("list barangays: %w", err)
	}
	return barangays, nil
}
