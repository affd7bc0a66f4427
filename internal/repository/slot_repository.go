package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusbook/scheduler/internal/model"
	"github.com/campusbook/scheduler/internal/repository/base"
)

type SlotRepository struct {
	pool *pgxpool.Pool
}

func NewSlotRepository(pool *pgxpool.Pool) *SlotRepository {
	return &SlotRepository{pool: pool}
}

const slotColumns = `
	s.id, s.scheduler_id, s.teacher_id, s.start_time, s.duration,
	s.exclusivity, s.location, s.notes, s.notes_format, s.meeting_id,
	s.meeting_url, s.email_reminder_at, s.hide_until, s.time_modified,
	(SELECT COUNT(*) FROM scheduler_appointments a WHERE a.slot_id = s.id) AS appointment_count`

func scanSlot(row pgx.Row) (*model.Slot, error) {
	var slot model.Slot
	err := row.Scan(
		&slot.ID,
		&slot.SchedulerID,
		&slot.TeacherID,
		&slot.StartTime,
		&slot.Duration,
		&slot.Exclusivity,
		&slot.Location,
		&slot.Notes,
		&slot.NotesFormat,
		&slot.MeetingID,
		&slot.MeetingURL,
		&slot.EmailReminderAt,
		&slot.HideUntil,
		&slot.TimeModified,
		&slot.AppointmentCount,
	)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// Create inserts a new slot.
func (r *SlotRepository) Create(ctx context.Context, slot *model.Slot) error {
	query := `
		INSERT INTO scheduler_slots (
			scheduler_id, teacher_id, start_time, duration, exclusivity,
			location, notes, notes_format, meeting_id, meeting_url,
			email_reminder_at, hide_until, time_modified
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`

	err := dbFrom(ctx, r.pool).QueryRow(
		ctx, query,
		slot.SchedulerID,
		slot.TeacherID,
		slot.StartTime,
		slot.Duration,
		slot.Exclusivity,
		slot.Location,
		slot.Notes,
		slot.NotesFormat,
		slot.MeetingID,
		slot.MeetingURL,
		slot.EmailReminderAt,
		slot.HideUntil,
		slot.TimeModified,
	).Scan(&slot.ID)

	if err != nil {
		return fmt.Errorf("create slot: %w", err)
	}

	return nil
}

// GetByID gets a slot with its appointment count.
func (r *SlotRepository) GetByID(ctx context.Context, id int64) (*model.Slot, error) {
	query := `SELECT` + slotColumns + `
		FROM scheduler_slots s
		WHERE s.id = $1
	`

	slot, err := scanSlot(dbFrom(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get slot by id: %w", err)
	}

	return slot, nil
}

// ListByTeacher returns a teacher's slots whose window intersects
// [from, to), with appointment counts, ordered by start time.
func (r *SlotRepository) ListByTeacher(ctx context.Context, teacherID int64, from, to time.Time) ([]*model.Slot, error) {
	query := `SELECT` + slotColumns + `
		FROM scheduler_slots s
		WHERE s.teacher_id = $1
		  AND s.start_time < $3
		  AND s.start_time + (s.duration * interval '1 minute') > $2
		ORDER BY s.start_time
	`

	rows, err := dbFrom(ctx, r.pool).Query(ctx, query, teacherID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list slots by teacher: %w", err)
	}
	defer rows.Close()

	var slots []*model.Slot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, slot)
	}

	return slots, nil
}

// DuplicateExists checks for an existing slot matching on the
// meaningful fields only: scheduler, start time, duration and teacher.
// Location, notes, exclusivity and the reminder fields are cosmetic or
// derived and deliberately excluded from the comparison.
func (r *SlotRepository) DuplicateExists(ctx context.Context, schedulerID int64, startTime time.Time, durationMinutes int, teacherID int64) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM scheduler_slots
			WHERE scheduler_id = $1
			  AND start_time = $2
			  AND duration = $3
			  AND teacher_id = $4
		)
	`

	var exists bool
	err := dbFrom(ctx, r.pool).QueryRow(ctx, query, schedulerID, startTime, durationMinutes, teacherID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check duplicate slot: %w", err)
	}

	return exists, nil
}

// Update rewrites the mutable slot fields.
func (r *SlotRepository) Update(ctx context.Context, slot *model.Slot) error {
	query := `
		UPDATE scheduler_slots
		SET start_time = $1, duration = $2, exclusivity = $3, location = $4,
		    notes = $5, notes_format = $6, meeting_id = $7, meeting_url = $8,
		    email_reminder_at = $9, hide_until = $10, time_modified = $11
		WHERE id = $12
	`

	result, err := dbFrom(ctx, r.pool).Exec(
		ctx, query,
		slot.StartTime,
		slot.Duration,
		slot.Exclusivity,
		slot.Location,
		slot.Notes,
		slot.NotesFormat,
		slot.MeetingID,
		slot.MeetingURL,
		slot.EmailReminderAt,
		slot.HideUntil,
		slot.TimeModified,
		slot.ID,
	)
	if err != nil {
		return fmt.Errorf("update slot: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("slot not found")
	}

	return nil
}

// Delete removes a slot; its appointments go with it via the cascading
// foreign key.
func (r *SlotRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM scheduler_slots WHERE id = $1`

	result, err := dbFrom(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("slot not found")
	}

	return nil
}
