package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"unibot/internal/domain"
	"unibot/internal/repository"
)

var (
	ErrCourseServiceNotConfigured = errors.New("course service not configured")
	ErrForbidden                  = errors.New("forbidden")
	ErrNotFound                   = errors.New("not found")
	ErrInvalidCourseInput         = errors.New("invalid course input")
)

const (
	defaultFeedbackRating = 5
	minFeedbackRating     = 1
	maxFeedbackRating     = 5
)

// Actor es quien ejecuta la operación, tal como viene en el access token.
type Actor struct {
	UserID string
	Role   domain.Role
}

// CourseService expone cursos, inscripciones, tareas y feedback con chequeo de rol.
type CourseService struct {
	courses     repository.CourseRepository
	enrollments repository.EnrollmentRepository
	assignments repository.AssignmentRepository
	feedback    repository.FeedbackRepository
	now         func() time.Time
}

func NewCourseService(
	courses repository.CourseRepository,
	enrollments repository.EnrollmentRepository,
	assignments repository.AssignmentRepository,
	feedback repository.FeedbackRepository,
) *CourseService {
	return &CourseService{
		courses:     courses,
		enrollments: enrollments,
		assignments: assignments,
		feedback:    feedback,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

type NewAssignmentInput struct {
	CourseID string
	Title    string
	Content  string
	DueDate  *time.Time
}

// ListCourses: estudiantes ven sus cursos, docentes los que dictan, admin todos.
func (s *CourseService) ListCourses(ctx context.Context, actor Actor) ([]domain.Course, error) {
	if s == nil || s.courses == nil {
		return nil, ErrCourseServiceNotConfigured
	}
	switch actor.Role {
	case domain.RoleStudent:
		return s.courses.ListByStudent(ctx, actor.UserID)
	case domain.RoleFaculty:
		return s.courses.ListByFaculty(ctx, actor.UserID)
	case domain.RoleAdmin:
		return s.courses.List(ctx)
	default:
		return nil, ErrForbidden
	}
}

func (s *CourseService) GetCourse(ctx context.Context, courseID string) (domain.Course, error) {
	if s == nil || s.courses == nil {
		return domain.Course{}, ErrCourseServiceNotConfigured
	}
	course, err := s.courses.GetByID(ctx, strings.TrimSpace(courseID))
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Course{}, ErrNotFound
	}
	return course, err
}

func (s *CourseService) MyEnrollments(ctx context.Context, actor Actor) ([]domain.EnrollmentDetail, error) {
	if s == nil || s.enrollments == nil {
		return nil, ErrCourseServiceNotConfigured
	}
	if actor.Role != domain.RoleStudent {
		return nil, ErrForbidden
	}
	return s.enrollments.ListByUser(ctx, actor.UserID)
}

// UpdateSyllabus solo la puede hacer el docente a cargo del curso.
func (s *CourseService) UpdateSyllabus(ctx context.Context, actor Actor, courseID, syllabus string) (domain.Course, error) {
	if s == nil || s.courses == nil {
		return domain.Course{}, ErrCourseServiceNotConfigured
	}
	if actor.Role != domain.RoleFaculty {
		return domain.Course{}, ErrForbidden
	}
	courseID = strings.TrimSpace(courseID)
	if courseID == "" {
		return domain.Course{}, ErrInvalidCourseInput
	}
	course, err := s.courses.UpdateSyllabus(ctx, courseID, actor.UserID, syllabus)
	if errors.Is(err, repository.ErrNotFound) {
		// el curso no existe o es de otro docente
		return domain.Course{}, ErrNotFound
	}
	if err != nil {
		return domain.Course{}, fmt.Errorf("update syllabus: %w", err)
	}
	return course, nil
}

func (s *CourseService) FacultyAssignments(ctx context.Context, actor Actor) ([]domain.Assignment, error) {
	if s == nil || s.assignments == nil {
		return nil, ErrCourseServiceNotConfigured
	}
	if actor.Role != domain.RoleFaculty {
		return nil, ErrForbidden
	}
	return s.assignments.ListByFaculty(ctx, actor.UserID)
}

// CreateAssignment crea una tarea en un curso del propio docente.
func (s *CourseService) CreateAssignment(ctx context.Context, actor Actor, input NewAssignmentInput) (domain.Assignment, error) {
	if s == nil || s.assignments == nil || s.courses == nil {
		return domain.Assignment{}, ErrCourseServiceNotConfigured
	}
	if actor.Role != domain.RoleFaculty {
		return domain.Assignment{}, ErrForbidden
	}
	title := strings.TrimSpace(input.Title)
	if title == "" || strings.TrimSpace(input.CourseID) == "" {
		return domain.Assignment{}, ErrInvalidCourseInput
	}

	course, err := s.GetCourse(ctx, input.CourseID)
	if err != nil {
		return domain.Assignment{}, err
	}
	if course.FacultyID == nil || *course.FacultyID != actor.UserID {
		return domain.Assignment{}, ErrForbidden
	}

	now := s.now()
	assignment := domain.Assignment{
		ID:         uuid.NewString(),
		CourseID:   course.ID,
		CourseCode: course.Code,
		CourseName: course.Name,
		FacultyID:  actor.UserID,
		Title:      title,
		Content:    input.Content,
		DueDate:    input.DueDate,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.assignments.Create(ctx, assignment); err != nil {
		return domain.Assignment{}, fmt.Errorf("create assignment: %w", err)
	}
	return assignment, nil
}

// SubmitFeedback guarda un comentario; rating 0 significa "no informado" y toma 5.
func (s *CourseService) SubmitFeedback(ctx context.Context, actor Actor, comment string, rating int) (domain.Feedback, error) {
	if s == nil || s.feedback == nil {
		return domain.Feedback{}, ErrCourseServiceNotConfigured
	}
	comment = strings.TrimSpace(comment)
	if comment == "" || strings.TrimSpace(actor.UserID) == "" {
		return domain.Feedback{}, ErrInvalidCourseInput
	}
	if rating == 0 {
		rating = defaultFeedbackRating
	}
	if rating < minFeedbackRating || rating > maxFeedbackRating {
		return domain.Feedback{}, ErrInvalidCourseInput
	}
	fb := domain.Feedback{
		ID:        uuid.NewString(),
		UserID:    actor.UserID,
		Comment:   comment,
		Rating:    rating,
		CreatedAt: s.now(),
	}
	if err := s.feedback.Create(ctx, fb); err != nil {
		return domain.Feedback{}, fmt.Errorf("create feedback: %w", err)
	}
	return fb, nil
}

func (s *CourseService) MyFeedback(ctx context.Context, actor Actor) ([]domain.Feedback, error) {
	if s == nil || s.feedback == nil {
		return nil, ErrCourseServiceNotConfigured
	}
	return s.feedback.ListByUser(ctx, actor.UserID)
}
