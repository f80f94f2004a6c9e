// Package filter computes derived views over entity collections. Every
// function is pure: the input slice is never mutated, a fresh slice is
// returned, and relative order of surviving elements is preserved.
package filter

import (
	"strings"

	"github.com/keikchoco/alternative-learning-system/internal/models"
)

// StudentCriteria describes the recognised student filter options.
// Zero values mean "no restriction".
type StudentCriteria struct {
	Name       string
	Status     *models.StudentStatus
	BarangayID string
}

// Students returns the subset of students matching the criteria. Name is a
// case-insensitive substring match against the display name.
func Students(students []models.Student, c StudentCriteria) []models.Student {
	name := strings.ToLower(strings.TrimSpace(c.Name))
	out := make([]models.Student, 0, len(students))
	for _, s := range students {
		if name != "" && !strings.Contains(strings.ToLower(s.Name), name) {
			continue
		}
		if c.Status != nil && s.Status != *c.Status {
			continue
		}
		if c.BarangayID != "" && s.BarangayID != c.BarangayID {
			continue
		}
		out = append(out, s)
	}
	return out
}

// ProgressCriteria describes the recognised progress filter options.
type ProgressCriteria struct {
	StudentID string
	ModuleID  string
}

// Progress returns the subset of progress records matching the criteria.
func Progress(records []models.Progress, c ProgressCriteria) []models.Progress {
	out := make([]models.Progress, 0, len(records))
	for _, r := range records {
		if c.StudentID != "" && r.StudentID != c.StudentID {
			continue
		}
		if c.ModuleID != "" && r.ModuleID != c.ModuleID {
			continue
		}
		out = append(out, r)
	}
	return out
}

// EventCriteria describes the recognised event filter options. From and To
// are inclusive YYYY-MM-DD bounds compared lexically.
type EventCriteria struct {
	From string
	To   string
	Type *models.EventType
}

// Events returns the subset of events matching the criteria.
func Events(events []models.Event, c EventCriteria) []models.Event {
	out := make([]models.Event, 0, len(events))
	for _, e := range events {
		if c.From != "" && e.Date < c.From {
			continue
		}
		if c.To != "" && e.Date > c.To {
			continue
		}
		if c.Type != nil && e.Type != *c.Type {
			continue
		}
		out = append(out, e)
	}
	return out
}

// GroupEventsByDate buckets events under their YYYY-MM-DD date for
// calendar display. Order within a bucket follows the source slice.
func GroupEventsByDate(events []models.Event) map[string][]models.Event {
	grouped := make(map[string][]models.Event)
	for _, e := range events {
		grouped[e.Date] = append(grouped[e.Date], e)
	}
	return grouped
}

// Statistics aggregates scored activities across progress records.
// AverageScore is the mean percentage over activities with a positive
// total; CompletionRate is the share of records holding at least one
// activity.
func Statistics(records []models.Progress) models.ProgressStatistics {
	stats := models.ProgressStatistics{
		ModuleDistribution:       make(map[string]int),
		ActivityTypeDistribution: make(map[models.ActivityType]int),
	}
	for _, t := range models.ActivityTypes {
		stats.ActivityTypeDistribution[t] = 0
	}

	var scoreSum float64
	var scored int
	var withActivities int
	for _, r := range records {
		stats.ModuleDistribution[r.ModuleID]++
		if len(r.Activities) > 0 {
			withActivities++
		}
		for _, a := range r.Activities {
			stats.ActivityTypeDistribution[a.Type]++
			if a.Total > 0 {
				scoreSum += a.Score / a.Total * 100
				scored++
			}
		}
	}
	if scored > 0 {
		stats.AverageScore = scoreSum / float64(scored)
	}
	if len(records) > 0 {
		stats.CompletionRate = float64(withActivities) / float64(len(records)) * 100
	}
	return stats
}
