package models

// Barangay is the locality grouping students are assigned to.
// Read-mostly reference data.
type Barangay struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
