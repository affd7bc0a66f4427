package model

import "time"

// Slot is one bookable time window offered by a teacher inside a
// scheduler activity. Exclusivity limits simultaneous appointments;
// 0 means unlimited.
type Slot struct {
	ID              int64      `json:"id"`
	SchedulerID     int64      `json:"scheduler_id"`
	TeacherID       int64      `json:"teacher_id"`
	StartTime       time.Time  `json:"start_time"`
	Duration        int        `json:"duration"` // minutes
	Exclusivity     int        `json:"exclusivity"`
	Location        string     `json:"location"`
	Notes           string     `json:"notes"`
	NotesFormat     int        `json:"notes_format"`
	MeetingID       *int64     `json:"meeting_id"`  // remote meeting, nil when none
	MeetingURL      string     `json:"meeting_url"` // join URL, empty when none
	EmailReminderAt *time.Time `json:"email_reminder_at"` // nil = reminder disabled
	HideUntil       time.Time  `json:"hide_until"`
	TimeModified    time.Time  `json:"time_modified"`

	// Number of appointments currently booked against the slot.
	// Populated by repository queries, not a column.
	AppointmentCount int `json:"appointment_count"`
}

// Range returns the slot's time window.
func (s *Slot) Range() TimeRange {
	return TimeRange{Start: s.StartTime, Duration: s.Duration}
}

// IsBooked reports whether at least one appointment exists.
func (s *Slot) IsBooked() bool {
	return s.AppointmentCount > 0
}

// IsFull reports whether the slot accepts no further appointments.
// Exclusivity 0 never fills up.
func (s *Slot) IsFull() bool {
	return s.Exclusivity > 0 && s.AppointmentCount >= s.Exclusivity
}
