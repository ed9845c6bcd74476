package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"unibot/internal/domain"
	"unibot/internal/repository"
)

// Intent es la categoría detectada por palabras clave.
type Intent string

const (
	IntentCourseListing Intent = "course_listing"
	IntentSyllabus      Intent = "syllabus"
	IntentAssignments   Intent = "assignments"
	IntentGreeting      Intent = "greeting"
	IntentHelp          Intent = "help"
	IntentDefault       Intent = "default"
)

const (
	maxFallbackAssignments = 5
	fallbackDueDateLayout  = "Jan 02, 2006"
)

const (
	notEnrolledReply      = "You don't seem to be enrolled in any courses yet. Please contact your department for enrollment."
	syllabusMissingReply  = "Syllabus not yet uploaded by faculty."
	syllabusSpecifyReply  = "Please specify which course's syllabus you'd like to see. You can mention the course code or name."
	noAssignmentsReply    = "No assignments found for your enrolled courses."
	greetingTemplate      = "Hey %s! 👋 I'm UNIBOT, your university assistant.\n\nI can help you with:\n• 📚 Course information & syllabi\n• 📝 Assignment deadlines\n• 🗓️ Schedules & procedures\n\nWhat would you like to know?"
	greetingUnknownName   = "there"
	capabilitiesReply     = "I'm **UNIBOT** — your 24/7 university assistant! Here's what I can do:\n\n1. 📚 **Course Info** — Ask about your enrolled courses\n2. 📋 **Syllabi** — View course syllabi updated by faculty\n3. 📝 **Assignments** — Check upcoming deadlines\n4. 🏫 **Campus Info** — Administrative procedures\n\nTry asking: *\"What courses am I enrolled in?\"* or *\"Show me the syllabus for CS101\"*"
	defaultReply          = "I'd be happy to help! You can ask me about:\n• Your enrolled courses\n• Course syllabi and content\n• Assignment deadlines\n• Campus procedures\n\nTry being more specific, and I'll give you a detailed answer! 😊"
	courseListHeader      = "Here are your enrolled courses:\n\n"
	courseListFooter      = "\n\nWould you like to know more about any specific course?"
	assignmentsListHeader = "Here are your upcoming assignments:\n\n"
)

type intentRule struct {
	intent   Intent
	keywords []string
	respond  func(r *FallbackResponder, ctx context.Context, userID, lowered string) string
}

// intentRules se evalúa en orden; gana la primera regla que matchea.
var intentRules = []intentRule{
	{IntentCourseListing, []string{"course", "enrolled", "classes", "subjects"}, (*FallbackResponder).respondCourseListing},
	{IntentSyllabus, []string{"syllabus", "curriculum", "topics"}, (*FallbackResponder).respondSyllabus},
	{IntentAssignments, []string{"assignment", "homework", "due", "deadline"}, (*FallbackResponder).respondAssignments},
	{IntentGreeting, []string{"hello", "hi", "hey", "good"}, (*FallbackResponder).respondGreeting},
	{IntentHelp, []string{"help", "what can you do", "features"}, (*FallbackResponder).respondHelp},
}

// Classify devuelve la intención de un mensaje. El match es por substring sobre
// el texto en minúsculas, así que "hi" también aparece dentro de "this".
func Classify(message string) Intent {
	rule, ok := matchRule(strings.ToLower(message))
	if !ok {
		return IntentDefault
	}
	return rule.intent
}

func matchRule(lowered string) (intentRule, bool) {
	for _, rule := range intentRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lowered, kw) {
				return rule, true
			}
		}
	}
	return intentRule{}, false
}

// FallbackResponder responde con reglas fijas y datos locales, sin llamar al LLM.
// Para el mismo mensaje y los mismos datos la salida es idéntica byte a byte.
type FallbackResponder struct {
	users       repository.UserRepository
	enrollments repository.EnrollmentRepository
	assignments repository.AssignmentRepository
	logger      *zap.Logger
}

func NewFallbackResponder(
	users repository.UserRepository,
	enrollments repository.EnrollmentRepository,
	assignments repository.AssignmentRepository,
	logger *zap.Logger,
) *FallbackResponder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FallbackResponder{
		users:       users,
		enrollments: enrollments,
		assignments: assignments,
		logger:      logger,
	}
}

// Respond clasifica el mensaje y arma la respuesta de la categoría elegida.
func (r *FallbackResponder) Respond(ctx context.Context, userID, message string) string {
	lowered := strings.ToLower(message)
	rule, ok := matchRule(lowered)
	if !ok {
		return defaultReply
	}
	return rule.respond(r, ctx, userID, lowered)
}

func (r *FallbackResponder) respondCourseListing(ctx context.Context, userID, _ string) string {
	enrollments := r.loadEnrollments(ctx, userID)
	if len(enrollments) == 0 {
		return notEnrolledReply
	}
	lines := make([]string, 0, len(enrollments))
	for _, e := range enrollments {
		lines = append(lines, fmt.Sprintf("📚 **%s** — %s", e.Course.Code, e.Course.Name))
	}
	return courseListHeader + strings.Join(lines, "\n") + courseListFooter
}

func (r *FallbackResponder) respondSyllabus(ctx context.Context, userID, lowered string) string {
	for _, e := range r.loadEnrollments(ctx, userID) {
		if !mentionsCourse(lowered, e.Course) {
			continue
		}
		text := e.Course.Syllabus
		if strings.TrimSpace(text) == "" {
			text = syllabusMissingReply
		}
		return fmt.Sprintf("📋 **Syllabus for %s — %s:**\n\n%s", e.Course.Code, e.Course.Name, text)
	}
	return syllabusSpecifyReply
}

func mentionsCourse(lowered string, course domain.Course) bool {
	code := strings.ToLower(strings.TrimSpace(course.Code))
	name := strings.ToLower(strings.TrimSpace(course.Name))
	return (code != "" && strings.Contains(lowered, code)) || (name != "" && strings.Contains(lowered, name))
}

func (r *FallbackResponder) respondAssignments(ctx context.Context, userID, _ string) string {
	items, err := r.assignments.ListByUser(ctx, userID, maxFallbackAssignments)
	if err != nil {
		r.logger.Warn("fallback assignments lookup failed", zap.Error(err), zap.String("user_id", userID))
		items = nil
	}
	if len(items) > maxFallbackAssignments {
		items = items[:maxFallbackAssignments]
	}
	if len(items) == 0 {
		return noAssignmentsReply
	}
	lines := make([]string, 0, len(items))
	for _, a := range items {
		due := "TBA"
		if a.DueDate != nil {
			due = a.DueDate.UTC().Format(fallbackDueDateLayout)
		}
		lines = append(lines, fmt.Sprintf("📝 **%s** (%s) — Due: %s", a.Title, a.CourseCode, due))
	}
	return assignmentsListHeader + strings.Join(lines, "\n")
}

func (r *FallbackResponder) respondGreeting(ctx context.Context, userID, _ string) string {
	name := greetingUnknownName
	user, err := r.users.GetByID(ctx, userID)
	if err != nil {
		r.logger.Warn("fallback user lookup failed", zap.Error(err), zap.String("user_id", userID))
	} else if n := user.GreetingName(); n != "" {
		name = n
	}
	return fmt.Sprintf(greetingTemplate, name)
}

func (r *FallbackResponder) respondHelp(_ context.Context, _, _ string) string {
	return capabilitiesReply
}

// loadEnrollments trata un error del store como "sin datos".
func (r *FallbackResponder) loadEnrollments(ctx context.Context, userID string) []domain.EnrollmentDetail {
	enrollments, err := r.enrollments.ListByUser(ctx, userID)
	if err != nil {
		r.logger.Warn("fallback enrollments lookup failed", zap.Error(err), zap.String("user_id", userID))
		return nil
	}
	return enrollments
}
