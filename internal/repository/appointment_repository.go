package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusbook/scheduler/internal/model"
	"github.com/campusbook/scheduler/internal/repository/base"
)

type AppointmentRepository struct {
	pool *pgxpool.Pool
}

func NewAppointmentRepository(pool *pgxpool.Pool) *AppointmentRepository {
	return &AppointmentRepository{pool: pool}
}

// Create inserts a new appointment against a slot.
func (r *AppointmentRepository) Create(ctx context.Context, app *model.Appointment) error {
	query := `
		INSERT INTO scheduler_appointments (
			slot_id, student_id, attended, grade,
			appointment_note, appointment_note_format,
			teacher_note, teacher_note_format,
			student_note, student_note_format
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`

	err := dbFrom(ctx, r.pool).QueryRow(
		ctx, query,
		app.SlotID,
		app.StudentID,
		app.Attended,
		app.Grade,
		app.AppointmentNote,
		app.AppointmentNoteFormat,
		app.TeacherNote,
		app.TeacherNoteFormat,
		app.StudentNote,
		app.StudentNoteFormat,
	).Scan(&app.ID, &app.CreatedAt)

	if err != nil {
		return fmt.Errorf("create appointment: %w", err)
	}

	return nil
}

// GetByID gets an appointment by ID.
func (r *AppointmentRepository) GetByID(ctx context.Context, id int64) (*model.Appointment, error) {
	query := `
		SELECT id, slot_id, student_id, attended, grade,
		       appointment_note, appointment_note_format,
		       teacher_note, teacher_note_format,
		       student_note, student_note_format, created_at
		FROM scheduler_appointments
		WHERE id = $1
	`

	var app model.Appointment
	err := dbFrom(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&app.ID,
		&app.SlotID,
		&app.StudentID,
		&app.Attended,
		&app.Grade,
		&app.AppointmentNote,
		&app.AppointmentNoteFormat,
		&app.TeacherNote,
		&app.TeacherNoteFormat,
		&app.StudentNote,
		&app.StudentNoteFormat,
		&app.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get appointment by id: %w", err)
	}

	return &app, nil
}

// ListBySlot returns all appointments booked against a slot.
func (r *AppointmentRepository) ListBySlot(ctx context.Context, slotID int64) ([]*model.Appointment, error) {
	query := `
		SELECT id, slot_id, student_id, attended, grade,
		       appointment_note, appointment_note_format,
		       teacher_note, teacher_note_format,
		       student_note, student_note_format, created_at
		FROM scheduler_appointments
		WHERE slot_id = $1
		ORDER BY created_at
	`

	rows, err := dbFrom(ctx, r.pool).Query(ctx, query, slotID)
	if err != nil {
		return nil, fmt.Errorf("list appointments by slot: %w", err)
	}
	defer rows.Close()

	var apps []*model.Appointment
	for rows.Next() {
		var app model.Appointment
		err := rows.Scan(
			&app.ID,
			&app.SlotID,
			&app.StudentID,
			&app.Attended,
			&app.Grade,
			&app.AppointmentNote,
			&app.AppointmentNoteFormat,
			&app.TeacherNote,
			&app.TeacherNoteFormat,
			&app.StudentNote,
			&app.StudentNoteFormat,
			&app.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		apps = append(apps, &app)
	}

	return apps, nil
}

// SetAttended updates the attended flag on an appointment.
func (r *AppointmentRepository) SetAttended(ctx context.Context, id int64, attended bool) error {
	query := `
		UPDATE scheduler_appointments
		SET attended = $1
		WHERE id = $2
	`

	result, err := dbFrom(ctx, r.pool).Exec(ctx, query, attended, id)
	if err != nil {
		return fmt.Errorf("set appointment attended: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("appointment not found")
	}

	return nil
}
