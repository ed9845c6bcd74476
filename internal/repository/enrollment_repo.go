package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"unibot/internal/domain"
)

// EnrollmentRepository expone las inscripciones de un estudiante ya unidas a curso y docente.
type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment domain.Enrollment) error
	ListByUser(ctx context.Context, userID string) ([]domain.EnrollmentDetail, error)
}

type PgEnrollmentRepository struct {
	pool *pgxpool.Pool
}

func NewPgEnrollmentRepository(pool *pgxpool.Pool) *PgEnrollmentRepository {
	return &PgEnrollmentRepository{pool: pool}
}

func (r *PgEnrollmentRepository) Create(ctx context.Context, enrollment domain.Enrollment) error {
	const query = `
		INSERT INTO enrollments (id, student_id, course_id, enrollment_num, enrolled_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		enrollment.ID,
		enrollment.StudentID,
		enrollment.CourseID,
		enrollment.EnrollmentNum,
		enrollment.EnrolledAt,
	)
	return mapWriteErr(err)
}

// ListByUser devuelve las inscripciones más recientes primero.
func (r *PgEnrollmentRepository) ListByUser(ctx context.Context, userID string) ([]domain.EnrollmentDetail, error) {
	const query = `
		SELECT e.id, e.student_id, e.course_id, e.enrollment_num, e.enrolled_at,
		       c.id, c.code, c.name, c.department, c.description, c.syllabus, c.faculty_id,
		       NULLIF(COALESCE(NULLIF(TRIM(f.first_name || ' ' || f.last_name), ''), f.username), ''),
		       c.created_at, c.updated_at
		FROM enrollments e
		JOIN courses c ON c.id = e.course_id
		LEFT JOIN users f ON f.id = c.faculty_id
		WHERE e.student_id = $1
		ORDER BY e.enrolled_at DESC, e.id
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := []domain.EnrollmentDetail{}
	for rows.Next() {
		var (
			d           domain.EnrollmentDetail
			facultyName *string
		)
		err = rows.Scan(
			&d.ID,
			&d.StudentID,
			&d.CourseID,
			&d.EnrollmentNum,
			&d.EnrolledAt,
			&d.Course.ID,
			&d.Course.Code,
			&d.Course.Name,
			&d.Course.Department,
			&d.Course.Description,
			&d.Course.Syllabus,
			&d.Course.FacultyID,
			&facultyName,
			&d.Course.CreatedAt,
			&d.Course.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		d.Course.FacultyName = derefString(facultyName)
		details = append(details, d)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}
