package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusbook/scheduler/internal/model"
	"github.com/campusbook/scheduler/internal/repository/base"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// GetByID gets a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `
		SELECT id, username, first_name, last_name
		FROM users
		WHERE id = $1
	`

	var user model.User
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.FirstName,
		&user.LastName,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}

	return &user, nil
}

// GetCourseTeacher returns the single user holding the teacher role in
// the course. Nil when the course has no teacher.
func (r *UserRepository) GetCourseTeacher(ctx context.Context, courseID int64) (*model.User, error) {
	query := `
		SELECT u.id, u.username, u.first_name, u.last_name
		FROM users u
		JOIN enrolments e ON e.user_id = u.id
		WHERE e.course_id = $1 AND e.role = $2
		ORDER BY u.id
		LIMIT 1
	`

	var user model.User
	err := r.pool.QueryRow(ctx, query, courseID, model.RoleTeacher).Scan(
		&user.ID,
		&user.Username,
		&user.FirstName,
		&user.LastName,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get course teacher: %w", err)
	}

	return &user, nil
}

// FindEnrolledStudent matches a student enrolled in the course by first
// and last name. Nil when no enrolled student matches, or when the name
// is ambiguous (more than one match).
func (r *UserRepository) FindEnrolledStudent(ctx context.Context, courseID int64, firstName, lastName string) (*model.User, error) {
	query := `
		SELECT u.id, u.username, u.first_name, u.last_name
		FROM users u
		JOIN enrolments e ON e.user_id = u.id
		WHERE e.course_id = $1 AND e.role = $2
		  AND u.first_name = $3 AND u.last_name = $4
	`

	rows, err := r.pool.Query(ctx, query, courseID, model.RoleStudent, firstName, lastName)
	if err != nil {
		return nil, fmt.Errorf("find enrolled student: %w", err)
	}
	defer rows.Close()

	var matches []*model.User
	for rows.Next() {
		var user model.User
		err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.FirstName,
			&user.LastName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		matches = append(matches, &user)
	}

	// Ambiguous names reject the row rather than picking an arbitrary user.
	if len(matches) != 1 {
		return nil, nil
	}

	return matches[0], nil
}
