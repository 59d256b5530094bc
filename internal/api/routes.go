package api

import (
	"net/http"
	"time"

	"studyhub/classroom-app/internal/domain"
	"studyhub/classroom-app/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires every handler onto the router.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	tokenLifetime time.Duration,
	authService service.AuthService,
	classroomService service.ClassroomService,
	assignmentService service.AssignmentService,
	submissionService service.SubmissionService,
) {
	authHandler := NewAuthHandler(authService, tokenLifetime)
	classroomHandler := NewClassroomHandler(classroomService)
	assignmentHandler := NewAssignmentHandler(assignmentService)
	submissionHandler := NewSubmissionHandler(submissionService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", authHandler.Me)

		// --- Classroom Routes ---
		classroomGroup := protected.Group("/classrooms")
		{
			classroomGroup.POST("", RoleMiddleware(domain.RoleTeacher), classroomHandler.Create)
			classroomGroup.GET("/:id", classroomHandler.Get)
			classroomGroup.POST("/:id/students", RoleMiddleware(domain.RoleTeacher), classroomHandler.AddStudent)
			classroomGroup.GET("/:id/assignments", assignmentHandler.ListByClassroom)
		}

		// --- Assignment Routes ---
		// Instructor-only operations are enforced by the Authorizer against the
		// classroom; the role middleware only gates the obvious role mismatches.
		assignmentGroup := protected.Group("/assignments")
		{
			assignmentGroup.POST("", RoleMiddleware(domain.RoleTeacher), assignmentHandler.Create)
			assignmentGroup.GET("/:id", assignmentHandler.Get)
			assignmentGroup.PUT("/:id", RoleMiddleware(domain.RoleTeacher), assignmentHandler.Update)
			assignmentGroup.DELETE("/:id", RoleMiddleware(domain.RoleTeacher), assignmentHandler.Delete)

			// --- Submission Routes ---
			assignmentGroup.POST("/:id/submissions", RoleMiddleware(domain.RoleStudent), submissionHandler.Submit)
			assignmentGroup.GET("/:id/submissions", submissionHandler.List)
			assignmentGroup.PUT("/:id/submissions/:submissionId/grade", RoleMiddleware(domain.RoleTeacher), submissionHandler.Grade)
			assignmentGroup.GET("/:id/submissions/:submissionId/download", submissionHandler.Download)
		}
	}
}
