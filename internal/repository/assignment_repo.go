package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"unibot/internal/domain"
)

// AssignmentRepository ordena siempre por due_date ascendente con las fechas nulas al final.
type AssignmentRepository interface {
	Create(ctx context.Context, assignment domain.Assignment) error
	ListByCourse(ctx context.Context, courseID string, limit int) ([]domain.Assignment, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.Assignment, error)
	ListByFaculty(ctx context.Context, facultyID string) ([]domain.Assignment, error)
}

type PgAssignmentRepository struct {
	pool *pgxpool.Pool
}

func NewPgAssignmentRepository(pool *pgxpool.Pool) *PgAssignmentRepository {
	return &PgAssignmentRepository{pool: pool}
}

const assignmentSelect = `
	SELECT a.id, a.course_id, c.code, c.name, a.faculty_id, a.title, a.content, a.due_date, a.created_at, a.updated_at
	FROM assignments a
	JOIN courses c ON c.id = a.course_id
`

func (r *PgAssignmentRepository) Create(ctx context.Context, assignment domain.Assignment) error {
	const query = `
		INSERT INTO assignments (id, course_id, faculty_id, title, content, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		assignment.ID,
		assignment.CourseID,
		assignment.FacultyID,
		assignment.Title,
		assignment.Content,
		assignment.DueDate,
		assignment.CreatedAt,
		assignment.UpdatedAt,
	)
	return err
}

func (r *PgAssignmentRepository) ListByCourse(ctx context.Context, courseID string, limit int) ([]domain.Assignment, error) {
	const where = `
		WHERE a.course_id = $1
		ORDER BY a.due_date ASC NULLS LAST, a.created_at DESC, a.id
		LIMIT $2
	`
	return r.list(ctx, assignmentSelect+where, courseID, normalizeLimit(limit))
}

func (r *PgAssignmentRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Assignment, error) {
	const where = `
		WHERE a.course_id IN (SELECT course_id FROM enrollments WHERE student_id = $1)
		ORDER BY a.due_date ASC NULLS LAST, a.created_at DESC, a.id
		LIMIT $2
	`
	return r.list(ctx, assignmentSelect+where, userID, normalizeLimit(limit))
}

func (r *PgAssignmentRepository) ListByFaculty(ctx context.Context, facultyID string) ([]domain.Assignment, error) {
	const where = `
		WHERE a.faculty_id = $1
		ORDER BY a.created_at DESC, a.id
	`
	return r.list(ctx, assignmentSelect+where, facultyID)
}

func (r *PgAssignmentRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.Assignment, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := []domain.Assignment{}
	for rows.Next() {
		var a domain.Assignment
		err = rows.Scan(
			&a.ID,
			&a.CourseID,
			&a.CourseCode,
			&a.CourseName,
			&a.FacultyID,
			&a.Title,
			&a.Content,
			&a.DueDate,
			&a.CreatedAt,
			&a.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return assignments, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 5
	}
	return limit
}
