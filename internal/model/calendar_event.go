package model

import "time"

// Calendar event type prefixes. The full event type is
// "<prefix>:<slotid>:<courseid>" so repeated imports update rather than
// duplicate entries.
const (
	EventTypeStudent = "SSstu"
	EventTypeTeacher = "SSsup"
)

// CalendarEvent is one upserted calendar entry for a booked session.
type CalendarEvent struct {
	ID           int64     `json:"id"`
	GUID         string    `json:"guid"`
	EventType    string    `json:"event_type"`
	UserID       int64     `json:"user_id"`
	CourseID     int64     `json:"course_id"`
	Instance     int64     `json:"instance"` // owning scheduler activity
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	TimeStart    time.Time `json:"time_start"`
	TimeDuration int       `json:"time_duration"` // seconds
	Visible      bool      `json:"visible"`
}
