package models

import "time"

// BarangayStudentCount pairs a barangay with its enrolled learner count.
type BarangayStudentCount struct {
	BarangayID   string `json:"barangay_id"`
	BarangayName string `json:"barangay_name"`
	Students     int    `json:"students"`
}

// DashboardStatistics aggregates roster and progress figures for the
// admin landing page.
type DashboardStatistics struct {
	TotalStudents       int                    `json:"total_students"`
	ActiveStudents      int                    `json:"active_students"`
	InactiveStudents    int                    `json:"inactive_students"`
	TotalBarangays      int                    `json:"total_barangays"`
	TotalModules        int                    `json:"total_modules"`
	StudentsPerBarangay []BarangayStudentCount `json:"students_per_barangay"`
	Progress            ProgressStatistics     `json:"progress"`
	UpcomingEvents      int                    `json:"upcoming_events"`
	GeneratedAt         time.Time              `json:"generated_at"`
}

// CalendarMonth groups a month's events by date for calendar rendering.
type CalendarMonth struct {
	Month string             `json:"month"`
	Days  map[string][]Event `json:"days"`
}
