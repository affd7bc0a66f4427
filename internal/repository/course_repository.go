package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusbook/scheduler/internal/model"
	"github.com/campusbook/scheduler/internal/repository/base"
)

type CourseRepository struct {
	pool *pgxpool.Pool
}

func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

// GetByShortname finds a course by its unique shortname.
func (r *CourseRepository) GetByShortname(ctx context.Context, shortname string) (*model.Course, error) {
	query := `
		SELECT id, shortname, fullname
		FROM courses
		WHERE shortname = $1
	`

	var course model.Course
	err := r.pool.QueryRow(ctx, query, shortname).Scan(
		&course.ID,
		&course.Shortname,
		&course.Fullname,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get course by shortname: %w", err)
	}

	return &course, nil
}

// GetByID gets a course by ID.
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*model.Course, error) {
	query := `
		SELECT id, shortname, fullname
		FROM courses
		WHERE id = $1
	`

	var course model.Course
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&course.ID,
		&course.Shortname,
		&course.Fullname,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get course by id: %w", err)
	}

	return &course, nil
}
