package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/prepmate/prepmate/config"
	"github.com/prepmate/prepmate/internal/api/handlers"
	"github.com/prepmate/prepmate/internal/api/middleware"
	"github.com/prepmate/prepmate/internal/api/routes"
	"github.com/prepmate/prepmate/internal/cache"
	"github.com/prepmate/prepmate/internal/logger"
	"github.com/prepmate/prepmate/internal/models"
	"github.com/prepmate/prepmate/internal/providers/llm"
	mongorepo "github.com/prepmate/prepmate/internal/repositories/mongo"
	pgrepo "github.com/prepmate/prepmate/internal/repositories/postgres"
	"github.com/prepmate/prepmate/internal/services"
	"github.com/prepmate/prepmate/internal/storage"
)

func main() {
	_ = godotenv.Load()

	l := logger.New()
	ctx := context.Background()

	if err := config.InitMongo(); err != nil {
		log.Fatalf("MongoDB init error: %v", err)
	}
	l.Info("MongoDB connected")

	if err := config.EnsureMongoIndexes(); err != nil {
		log.Fatalf("MongoDB index error: %v", err)
	}

	if err := config.InitPostgres(); err != nil {
		log.Fatalf("PostgreSQL init error: %v", err)
	}
	if err := config.PostgresDB.AutoMigrate(&models.ResumeFile{}); err != nil {
		log.Fatalf("PostgreSQL migrate error: %v", err)
	}
	l.Info("PostgreSQL connected")

	if err := config.InitRedis(); err != nil {
		log.Fatalf("Redis init error: %v", err)
	}
	l.Info("Redis connected")

	generator, err := llm.NewVertexGemini(ctx, llm.Config{
		ProjectID:       os.Getenv("VERTEX_PROJECT_ID"),
		Location:        os.Getenv("VERTEX_LOCATION"),
		Model:           os.Getenv("VERTEX_MODEL"),
		CredentialsFile: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
	})
	if err != nil {
		log.Fatalf("Vertex init error: %v", err)
	}
	defer generator.Close()

	uploader, err := storage.NewGCSUploader(ctx, os.Getenv("GCS_BUCKET"))
	if err != nil {
		log.Fatalf("GCS init error: %v", err)
	}
	defer uploader.Close()

	c := cache.NewRedisCache(config.RedisClient)

	interviewRepo := mongorepo.NewInterviewRepo(config.MongoDatabase())
	resumeRepo := pgrepo.NewResumeFileRepo(config.PostgresDB)

	interviewSvc := services.NewInterviewService(interviewRepo, generator, c, l)
	feedbackSvc := services.NewFeedbackService(interviewRepo, generator, c, l)
	resumeSvc := services.NewResumeFileService(resumeRepo, uploader)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(l))

	routes.RegisterRoutes(r, routes.Deps{
		Interview: handlers.NewInterviewHandler(interviewSvc, feedbackSvc),
		Resume:    handlers.NewResumeHandler(resumeSvc),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
