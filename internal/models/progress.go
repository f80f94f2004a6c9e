package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ActivityType enumerates recognised scored activity categories.
type ActivityType string

const (
	ActivityTypeAssessment    ActivityType = "Assessment"
	ActivityTypeQuiz          ActivityType = "Quiz"
	ActivityTypeAssignment    ActivityType = "Assignment"
	ActivityTypeActivity      ActivityType = "Activity"
	ActivityTypeProject       ActivityType = "Project"
	ActivityTypeParticipation ActivityType = "Participation"
)

// ActivityTypes lists every valid activity type.
var ActivityTypes = []ActivityType{
	ActivityTypeAssessment,
	ActivityTypeQuiz,
	ActivityTypeAssignment,
	ActivityTypeActivity,
	ActivityTypeProject,
	ActivityTypeParticipation,
}

// Activity is one scored entry inside a progress record. The ID is a
// server-assigned stable identifier; the wire format still addresses
// activities by position, and the service translates index to ID at the
// boundary.
type Activity struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Type   ActivityType `json:"type"`
	Score  float64      `json:"score"`
	Total  float64      `json:"total"`
	Date   string       `json:"date"`
	Remark string       `json:"remark,omitempty"`
}

// ActivityList persists the activity sequence as a JSONB column.
type ActivityList []Activity

// Value marshals activities for persistence.
func (a ActivityList) Value() (driver.Value, error) {
	if a == nil {
		a = ActivityList{}
	}
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal activities: %w", err)
	}
	return data, nil
}

// Scan unmarshals a JSONB payload into the activity slice.
func (a *ActivityList) Scan(value interface{}) error {
	if value == nil {
		*a = ActivityList{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for ActivityList", value)
	}
	if len(data) == 0 {
		*a = ActivityList{}
		return nil
	}
	if err := json.Unmarshal(data, a); err != nil {
		return fmt.Errorf("unmarshal activities: %w", err)
	}
	return nil
}

// Progress tracks one student's activity sequence within one module.
// At most one record exists per (student, module) pair.
type Progress struct {
	ID         string       `db:"id" json:"id"`
	StudentID  string       `db:"student_id" json:"student_id"`
	ModuleID   string       `db:"module_id" json:"module_id"`
	Activities ActivityList `db:"activities" json:"activities"`
	CreatedAt  time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time    `db:"updated_at" json:"updated_at"`
}

// ProgressFilter narrows progress listings.
type ProgressFilter struct {
	StudentID string
	ModuleID  string
}

// ProgressStatistics aggregates the scored activities across records.
type ProgressStatistics struct {
	AverageScore             float64              `json:"average_score"`
	CompletionRate           float64              `json:"completion_rate"`
	ModuleDistribution       map[string]int       `json:"module_distribution"`
	ActivityTypeDistribution map[ActivityType]int `json:"activity_type_distribution"`
}
