package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"unibot/internal/domain"
	"unibot/internal/service"
)

// NewRouter configura el router de Gin con middlewares y las rutas de /api.
func NewRouter(
	logger *zap.Logger,
	jwtSvc *service.JWTService,
	userH *UserHandler,
	chatH *ChatHandler,
	courseH *CourseHandler,
) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := gin.New()

	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	api := r.Group("/api")
	api.GET("", apiRoot)

	auth := api.Group("/auth")
	auth.POST("/register", userH.Register)
	auth.POST("/login", userH.Login)
	auth.POST("/refresh", userH.RefreshToken)
	auth.POST("/logout", userH.Logout)

	protected := api.Group("")
	protected.Use(JWTAuthMiddleware(jwtSvc))

	protected.GET("/auth/profile", userH.GetProfile)
	protected.PATCH("/auth/profile", userH.UpdateProfile)

	courses := protected.Group("/courses")
	courses.GET("", courseH.ListCourses)
	courses.GET("/enrollments", courseH.MyEnrollments)
	courses.POST("/syllabus", courseH.UpdateSyllabus)
	courses.GET("/assignments", courseH.ListAssignments)
	courses.POST("/assignments", courseH.CreateAssignment)
	courses.GET("/feedback", courseH.ListFeedback)
	courses.POST("/feedback", courseH.SubmitFeedback)
	courses.GET("/:id", courseH.GetCourse)

	chat := protected.Group("/chat")
	chat.POST("", chatH.PostMessage)
	chat.GET("/history", chatH.History)
	chat.GET("/recent", RequireRole(domain.RoleAdmin), chatH.Recent)
	chat.GET("/recent/export", RequireRole(domain.RoleAdmin), chatH.ExportRecent)

	return r
}

func apiRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    "UNIBOT API",
		"version": "1.0",
		"endpoints": gin.H{
			"auth":    "/api/auth/",
			"courses": "/api/courses/",
			"chat":    "/api/chat/",
		},
	})
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
