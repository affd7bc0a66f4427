package model

// SchedulerActivity is one scheduler instance inside a course. Slots
// belong to exactly one activity. DeletionPending mirrors the host
// platform's recycle-bin state; pending activities are skipped silently
// during import.
type SchedulerActivity struct {
	ID              int64  `json:"id"`
	CourseID        int64  `json:"course_id"`
	Name            string `json:"name"`
	Intro           string `json:"intro"`
	DeletionPending bool   `json:"deletion_pending"`
}
