package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prepmate/prepmate/internal/api/handlers"
	"github.com/prepmate/prepmate/internal/api/middleware"
)

type Deps struct {
	Interview *handlers.InterviewHandler
	Resume    *handlers.ResumeHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Protected routes (JWT)
	auth := r.Group("/")
	auth.Use(middleware.JWTAuth())

	auth.POST("/interview/start", d.Interview.Start)
	auth.GET("/interview/history", d.Interview.History)
	auth.GET("/interview/:interview_id/transcript", d.Interview.Transcript)
	auth.POST("/interview/:interview_id/next", d.Interview.Next)
	auth.POST("/interview/:interview_id/feedback", d.Interview.Feedback)

	auth.POST("/resume/upload", d.Resume.Upload)
	auth.GET("/resume/latest", d.Resume.Latest)
}
