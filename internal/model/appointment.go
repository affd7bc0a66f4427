package model

import "time"

// Appointment is one student's booking against a slot.
type Appointment struct {
	ID        int64 `json:"id"`
	SlotID    int64 `json:"slot_id"`
	StudentID int64 `json:"student_id"`
	Attended  bool  `json:"attended"`
	Grade     *int  `json:"grade"` // nil = no grade recorded

	AppointmentNote       string `json:"appointment_note"`
	AppointmentNoteFormat int    `json:"appointment_note_format"`
	TeacherNote           string `json:"teacher_note"`
	TeacherNoteFormat     int    `json:"teacher_note_format"`
	StudentNote           string `json:"student_note"`
	StudentNoteFormat     int    `json:"student_note_format"`

	CreatedAt time.Time `json:"created_at"`
}
