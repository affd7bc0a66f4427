package model

// Course is a host-platform course referenced by its unique shortname.
type Course struct {
	ID        int64  `json:"id"`
	Shortname string `json:"shortname"`
	Fullname  string `json:"fullname"`
}

// Enrolment roles within a course.
const (
	RoleTeacher = "teacher"
	RoleStudent = "student"
)
