package service

import (
	"context"
	"time"

	"github.com/campusbook/scheduler/internal/model"
)

// Store interfaces consumed by the services. The pgx repositories in
// internal/repository satisfy them; tests supply in-memory fakes.

type CourseStore interface {
	GetByShortname(ctx context.Context, shortname string) (*model.Course, error)
	GetByID(ctx context.Context, id int64) (*model.Course, error)
}

type SchedulerStore interface {
	ExistsInCourse(ctx context.Context, courseID int64) (bool, error)
	GetByCourseAndName(ctx context.Context, courseID int64, name string) (*model.SchedulerActivity, error)
	GetByID(ctx context.Context, id int64) (*model.SchedulerActivity, error)
}

type UserStore interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetCourseTeacher(ctx context.Context, courseID int64) (*model.User, error)
	FindEnrolledStudent(ctx context.Context, courseID int64, firstName, lastName string) (*model.User, error)
}

type SlotStore interface {
	Create(ctx context.Context, slot *model.Slot) error
	GetByID(ctx context.Context, id int64) (*model.Slot, error)
	ListByTeacher(ctx context.Context, teacherID int64, from, to time.Time) ([]*model.Slot, error)
	DuplicateExists(ctx context.Context, schedulerID int64, startTime time.Time, durationMinutes int, teacherID int64) (bool, error)
	Update(ctx context.Context, slot *model.Slot) error
	Delete(ctx context.Context, id int64) error
}

type AppointmentStore interface {
	Create(ctx context.Context, app *model.Appointment) error
	GetByID(ctx context.Context, id int64) (*model.Appointment, error)
	ListBySlot(ctx context.Context, slotID int64) ([]*model.Appointment, error)
	SetAttended(ctx context.Context, id int64, attended bool) error
}

type CalendarStore interface {
	Upsert(ctx context.Context, ev *model.CalendarEvent) error
	DeleteByEventType(ctx context.Context, eventType string) error
}

// TxRunner scopes a function to one storage transaction.
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}
