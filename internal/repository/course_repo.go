package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"unibot/internal/domain"
)

type CourseRepository interface {
	Create(ctx context.Context, course domain.Course) error
	GetByID(ctx context.Context, id string) (domain.Course, error)
	List(ctx context.Context) ([]domain.Course, error)
	ListByFaculty(ctx context.Context, facultyID string) ([]domain.Course, error)
	ListByStudent(ctx context.Context, studentID string) ([]domain.Course, error)
	UpdateSyllabus(ctx context.Context, courseID, facultyID, syllabus string) (domain.Course, error)
}

type PgCourseRepository struct {
	pool *pgxpool.Pool
}

func NewPgCourseRepository(pool *pgxpool.Pool) *PgCourseRepository {
	return &PgCourseRepository{pool: pool}
}

// courseSelect resuelve el nombre del docente igual que el listado del panel:
// nombre completo y, si está vacío, username.
const courseSelect = `
	SELECT c.id, c.code, c.name, c.department, c.description, c.syllabus, c.faculty_id,
	       NULLIF(COALESCE(NULLIF(TRIM(f.first_name || ' ' || f.last_name), ''), f.username), ''),
	       c.created_at, c.updated_at
	FROM courses c
	LEFT JOIN users f ON f.id = c.faculty_id
`

func (r *PgCourseRepository) Create(ctx context.Context, course domain.Course) error {
	const query = `
		INSERT INTO courses (id, code, name, department, description, syllabus, faculty_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	var facultyID interface{}
	if course.FacultyID != nil {
		facultyID = *course.FacultyID
	}
	_, err := r.pool.Exec(ctx, query,
		course.ID,
		course.Code,
		course.Name,
		course.Department,
		course.Description,
		course.Syllabus,
		facultyID,
		course.CreatedAt,
		course.UpdatedAt,
	)
	return mapWriteErr(err)
}

func (r *PgCourseRepository) GetByID(ctx context.Context, id string) (domain.Course, error) {
	return scanCourse(r.pool.QueryRow(ctx, courseSelect+` WHERE c.id = $1`, id))
}

func (r *PgCourseRepository) List(ctx context.Context) ([]domain.Course, error) {
	return r.list(ctx, courseSelect+` ORDER BY c.name`)
}

func (r *PgCourseRepository) ListByFaculty(ctx context.Context, facultyID string) ([]domain.Course, error) {
	return r.list(ctx, courseSelect+` WHERE c.faculty_id = $1 ORDER BY c.name`, facultyID)
}

func (r *PgCourseRepository) ListByStudent(ctx context.Context, studentID string) ([]domain.Course, error) {
	const where = `
		WHERE c.id IN (SELECT course_id FROM enrollments WHERE student_id = $1)
		ORDER BY c.name
	`
	return r.list(ctx, courseSelect+where, studentID)
}

// UpdateSyllabus solo actualiza si el curso pertenece al docente indicado.
func (r *PgCourseRepository) UpdateSyllabus(ctx context.Context, courseID, facultyID, syllabus string) (domain.Course, error) {
	const query = `
		UPDATE courses SET syllabus = $3, updated_at = now()
		WHERE id = $1 AND faculty_id = $2
	`
	tag, err := r.pool.Exec(ctx, query, courseID, facultyID, syllabus)
	if err != nil {
		return domain.Course{}, mapReadErr(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Course{}, ErrNotFound
	}
	return r.GetByID(ctx, courseID)
}

func (r *PgCourseRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.Course, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courses := []domain.Course{}
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return courses, nil
}

func scanCourse(row pgx.Row) (domain.Course, error) {
	var (
		c           domain.Course
		facultyName *string
	)
	err := row.Scan(
		&c.ID,
		&c.Code,
		&c.Name,
		&c.Department,
		&c.Description,
		&c.Syllabus,
		&c.FacultyID,
		&facultyName,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return domain.Course{}, mapReadErr(err)
	}
	c.FacultyName = derefString(facultyName)
	return c, nil
}
