package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"unibot/internal/service"
)

// CourseHandler expone cursos, inscripciones, tareas y feedback.
type CourseHandler struct {
	logger     *zap.Logger
	courseServ *service.CourseService
}

func NewCourseHandler(logger *zap.Logger, courseServ *service.CourseService) *CourseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseHandler{
		logger:     logger,
		courseServ: courseServ,
	}
}

// ListCourses maneja GET /api/courses.
func (h *CourseHandler) ListCourses(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	courses, err := h.courseServ.ListCourses(c.Request.Context(), actor)
	if err != nil {
		h.writeError(c, "list courses failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": courses})
}

// GetCourse maneja GET /api/courses/:id.
func (h *CourseHandler) GetCourse(c *gin.Context) {
	course, err := h.courseServ.GetCourse(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, "get course failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"course": course})
}

// MyEnrollments maneja GET /api/courses/enrollments.
func (h *CourseHandler) MyEnrollments(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	enrollments, err := h.courseServ.MyEnrollments(c.Request.Context(), actor)
	if err != nil {
		h.writeError(c, "list enrollments failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"enrollments": enrollments})
}

// UpdateSyllabus maneja POST /api/courses/syllabus.
func (h *CourseHandler) UpdateSyllabus(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	var req struct {
		CourseID string `json:"course_id" binding:"required"`
		Syllabus string `json:"syllabus"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid syllabus request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	course, err := h.courseServ.UpdateSyllabus(c.Request.Context(), actor, req.CourseID, req.Syllabus)
	if err != nil {
		h.writeError(c, "update syllabus failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"course": course})
}

// ListAssignments maneja GET /api/courses/assignments (docentes).
func (h *CourseHandler) ListAssignments(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	assignments, err := h.courseServ.FacultyAssignments(c.Request.Context(), actor)
	if err != nil {
		h.writeError(c, "list assignments failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assignments": assignments})
}

// CreateAssignment maneja POST /api/courses/assignments.
func (h *CourseHandler) CreateAssignment(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	var req struct {
		CourseID string     `json:"course_id" binding:"required"`
		Title    string     `json:"title" binding:"required"`
		Content  string     `json:"content"`
		DueDate  *time.Time `json:"due_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid assignment request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	assignment, err := h.courseServ.CreateAssignment(c.Request.Context(), actor, service.NewAssignmentInput{
		CourseID: req.CourseID,
		Title:    req.Title,
		Content:  req.Content,
		DueDate:  req.DueDate,
	})
	if err != nil {
		h.writeError(c, "create assignment failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"assignment": assignment})
}

// ListFeedback maneja GET /api/courses/feedback.
func (h *CourseHandler) ListFeedback(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	items, err := h.courseServ.MyFeedback(c.Request.Context(), actor)
	if err != nil {
		h.writeError(c, "list feedback failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"feedback": items})
}

// SubmitFeedback maneja POST /api/courses/feedback.
func (h *CourseHandler) SubmitFeedback(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	var req struct {
		Comment string `json:"comment" binding:"required"`
		Rating  int    `json:"rating"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid feedback request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	fb, err := h.courseServ.SubmitFeedback(c.Request.Context(), actor, req.Comment, req.Rating)
	if err != nil {
		h.writeError(c, "submit feedback failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"feedback": fb})
}

func (h *CourseHandler) writeError(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrInvalidCourseInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
	default:
		h.logger.Error(msg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
