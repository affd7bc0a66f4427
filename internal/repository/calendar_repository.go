package repository

import (
	"context"
	"fmt"

	"github.com/campusbook/scheduler/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CalendarEventRepository struct {
	pool *pgxpool.Pool
}

func NewCalendarEventRepository(pool *pgxpool.Pool) *CalendarEventRepository {
	return &CalendarEventRepository{pool: pool}
}

// Upsert creates or updates the event keyed by (event_type, user_id),
// so repeated imports of the same slot update the calendar entry
// instead of duplicating it.
func (r *CalendarEventRepository) Upsert(ctx context.Context, ev *model.CalendarEvent) error {
	if ev.GUID == "" {
		ev.GUID = uuid.NewString()
	}

	query := `
		INSERT INTO calendar_events (
			guid, event_type, user_id, course_id, instance,
			name, description, time_start, time_duration, visible
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (event_type, user_id) DO UPDATE
		SET course_id = EXCLUDED.course_id,
		    instance = EXCLUDED.instance,
		    name = EXCLUDED.name,
		    description = EXCLUDED.description,
		    time_start = EXCLUDED.time_start,
		    time_duration = EXCLUDED.time_duration,
		    visible = EXCLUDED.visible
		RETURNING id
	`

	err := dbFrom(ctx, r.pool).QueryRow(
		ctx, query,
		ev.GUID,
		ev.EventType,
		ev.UserID,
		ev.CourseID,
		ev.Instance,
		ev.Name,
		ev.Description,
		ev.TimeStart,
		ev.TimeDuration,
		ev.Visible,
	).Scan(&ev.ID)

	if err != nil {
		return fmt.Errorf("upsert calendar event: %w", err)
	}

	return nil
}

// DeleteByEventType removes all events of one type, used when a slot is
// deleted.
func (r *CalendarEventRepository) DeleteByEventType(ctx context.Context, eventType string) error {
	query := `DELETE FROM calendar_events WHERE event_type = $1`

	if _, err := dbFrom(ctx, r.pool).Exec(ctx, query, eventType); err != nil {
		return fmt.Errorf("delete calendar events: %w", err)
	}

	return nil
}
