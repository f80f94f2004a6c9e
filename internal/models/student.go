package models

import "time"

// StudentStatus enumerates enrollment states.
type StudentStatus string

const (
	StudentStatusActive   StudentStatus = "active"
	StudentStatusInactive StudentStatus = "inactive"
)

// Student represents an ALS learner. The LRN (Learner Reference Number)
// is the 12-digit identifier issued by the education system and must be
// unique across the roster.
type Student struct {
	ID             string        `db:"id" json:"id"`
	LRN            string        `db:"lrn" json:"lrn"`
	Name           string        `db:"name" json:"name"`
	Status         StudentStatus `db:"status" json:"status"`
	Gender         string        `db:"gender" json:"gender"`
	Address        string        `db:"address" json:"address"`
	BarangayID     string        `db:"barangay_id" json:"barangay_id"`
	Program        string        `db:"program" json:"program"`
	EnrollmentDate string        `db:"enrollment_date" json:"enrollment_date"`
	Modality       string        `db:"modality" json:"modality"`
	Percentile     *float64      `db:"percentile" json:"percentile,omitempty"`
	Remark         *string       `db:"remark" json:"remark,omitempty"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time     `db:"updated_at" json:"updated_at"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search     string
	Status     *StudentStatus
	BarangayID string
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
