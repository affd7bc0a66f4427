package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusbook/scheduler/internal/model"
	"github.com/campusbook/scheduler/internal/repository/base"
)

type SchedulerRepository struct {
	pool *pgxpool.Pool
}

func NewSchedulerRepository(pool *pgxpool.Pool) *SchedulerRepository {
	return &SchedulerRepository{pool: pool}
}

// ExistsInCourse checks whether the course hosts any scheduler activity.
func (r *SchedulerRepository) ExistsInCourse(ctx context.Context, courseID int64) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM schedulers
			WHERE course_id = $1
		)
	`

	var exists bool
	err := r.pool.QueryRow(ctx, query, courseID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check scheduler exists: %w", err)
	}

	return exists, nil
}

// GetByCourseAndName finds the activity by exact name within a course.
func (r *SchedulerRepository) GetByCourseAndName(ctx context.Context, courseID int64, name string) (*model.SchedulerActivity, error) {
	query := `
		SELECT id, course_id, name, intro, deletion_pending
		FROM schedulers
		WHERE course_id = $1 AND name = $2
		ORDER BY id
		LIMIT 1
	`

	var activity model.SchedulerActivity
	err := r.pool.QueryRow(ctx, query, courseID, name).Scan(
		&activity.ID,
		&activity.CourseID,
		&activity.Name,
		&activity.Intro,
		&activity.DeletionPending,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get scheduler by course and name: %w", err)
	}

	return &activity, nil
}

// GetByID gets an activity by ID.
func (r *SchedulerRepository) GetByID(ctx context.Context, id int64) (*model.SchedulerActivity, error) {
	query := `
		SELECT id, course_id, name, intro, deletion_pending
		FROM schedulers
		WHERE id = $1
	`

	var activity model.SchedulerActivity
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&activity.ID,
		&activity.CourseID,
		&activity.Name,
		&activity.Intro,
		&activity.DeletionPending,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get scheduler by id: %w", err)
	}

	return &activity, nil
}
