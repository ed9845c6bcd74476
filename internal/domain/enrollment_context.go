package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	// MaxContextAssignments limita las tareas por curso dentro del contexto.
	MaxContextAssignments = 5
	// ContextDueDateLayout es el formato fijo YYYY-MM-DD HH:MM (siempre en UTC).
	ContextDueDateLayout = "2006-01-02 15:04"
	NoDueDateMarker      = "No due date"
	NoFacultyMarker      = "TBA"
	NotEnrolledSentence  = "The student is not currently enrolled in any courses."
)

type AssignmentSummary struct {
	Title   string
	DueDate *time.Time
}

// DueLabel devuelve la fecha formateada o el marcador de "sin fecha".
func (a AssignmentSummary) DueLabel() string {
	if a.DueDate == nil {
		return NoDueDateMarker
	}
	return a.DueDate.UTC().Format(ContextDueDateLayout)
}

type CourseSummary struct {
	Code                string
	Name                string
	Department          string
	FacultyDisplayName  string
	Description         string
	SyllabusText        string
	UpcomingAssignments []AssignmentSummary
}

// EnrollmentContext es el resumen por request de lo que cursa un estudiante.
// Con NotEnrolled en true, Courses siempre está vacío.
type EnrollmentContext struct {
	NotEnrolled bool
	Courses     []CourseSummary
}

// NewNotEnrolledContext construye el marcador explícito de "sin inscripciones".
func NewNotEnrolledContext() EnrollmentContext {
	return EnrollmentContext{NotEnrolled: true}
}

// Render produce el texto que se le pasa al LLM como contexto.
func (c EnrollmentContext) Render() string {
	if c.NotEnrolled {
		return NotEnrolledSentence
	}

	parts := []string{"=== Student's Enrolled Courses ==="}
	for _, course := range c.Courses {
		parts = append(parts, fmt.Sprintf(
			"\n📚 %s — %s\n   Department: %s\n   Faculty: %s\n   Description: %s\n   Syllabus: %s\n",
			course.Code, course.Name, course.Department, course.FacultyDisplayName, course.Description, course.SyllabusText,
		))
		if len(course.UpcomingAssignments) == 0 {
			continue
		}
		parts = append(parts, "   Assignments:")
		for _, a := range course.UpcomingAssignments {
			parts = append(parts, fmt.Sprintf("   - %s (Due: %s)", a.Title, a.DueLabel()))
		}
	}
	return strings.Join(parts, "\n")
}
