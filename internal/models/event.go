package models

import "time"

// EventType enumerates the calendar event categories.
type EventType string

const (
	EventTypeOrientation EventType = "orientation"
	EventTypeAssessment  EventType = "assessment"
	EventTypeWorkshop    EventType = "workshop"
	EventTypeLesson      EventType = "lesson"
)

// Event is a calendar entry shown on the dashboard.
type Event struct {
	ID          string    `db:"id" json:"id"`
	Date        string    `db:"date" json:"date"`
	Time        string    `db:"time" json:"time"`
	Title       string    `db:"title" json:"title"`
	Location    string    `db:"location" json:"location"`
	Type        EventType `db:"type" json:"type"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// EventFilter narrows down calendar events. Dates are YYYY-MM-DD strings
// compared lexically, matching the stored format.
type EventFilter struct {
	From string
	To   string
	Type *EventType
}
