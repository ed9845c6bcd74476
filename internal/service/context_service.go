package service

import (
	"context"
	"fmt"

	"unibot/internal/domain"
	"unibot/internal/repository"
)

// ContextBuilder define contrato para armar el contexto académico de un usuario.
type ContextBuilder interface {
	BuildContext(ctx context.Context, userID string) (domain.EnrollmentContext, error)
}

// EnrollmentContextBuilder lee inscripciones, cursos y tareas; nunca escribe.
type EnrollmentContextBuilder struct {
	enrollments repository.EnrollmentRepository
	assignments repository.AssignmentRepository
}

func NewEnrollmentContextBuilder(enrollments repository.EnrollmentRepository, assignments repository.AssignmentRepository) *EnrollmentContextBuilder {
	return &EnrollmentContextBuilder{enrollments: enrollments, assignments: assignments}
}

func (b *EnrollmentContextBuilder) BuildContext(ctx context.Context, userID string) (domain.EnrollmentContext, error) {
	details, err := b.enrollments.ListByUser(ctx, userID)
	if err != nil {
		return domain.EnrollmentContext{}, fmt.Errorf("list enrollments: %w", err)
	}
	if len(details) == 0 {
		return domain.NewNotEnrolledContext(), nil
	}

	courses := make([]domain.CourseSummary, 0, len(details))
	for _, d := range details {
		assignments, err := b.assignments.ListByCourse(ctx, d.Course.ID, domain.MaxContextAssignments)
		if err != nil {
			return domain.EnrollmentContext{}, fmt.Errorf("list assignments for course %s: %w", d.Course.Code, err)
		}
		if len(assignments) > domain.MaxContextAssignments {
			assignments = assignments[:domain.MaxContextAssignments]
		}

		summary := domain.CourseSummary{
			Code:                d.Course.Code,
			Name:                d.Course.Name,
			Department:          d.Course.Department,
			FacultyDisplayName:  facultyDisplayName(d.Course),
			Description:         d.Course.Description,
			SyllabusText:        d.Course.Syllabus,
			UpcomingAssignments: make([]domain.AssignmentSummary, 0, len(assignments)),
		}
		for _, a := range assignments {
			summary.UpcomingAssignments = append(summary.UpcomingAssignments, domain.AssignmentSummary{
				Title:   a.Title,
				DueDate: a.DueDate,
			})
		}
		courses = append(courses, summary)
	}

	return domain.EnrollmentContext{Courses: courses}, nil
}

func facultyDisplayName(course domain.Course) string {
	if course.FacultyID == nil {
		return domain.NoFacultyMarker
	}
	return course.FacultyName
}
