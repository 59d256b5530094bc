package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studyhub/classroom-app/internal/api"
	"studyhub/classroom-app/internal/config"
	"studyhub/classroom-app/internal/repository/mongo"
	"studyhub/classroom-app/internal/service"
	"studyhub/classroom-app/internal/storage"

	"github.com/gin-gonic/gin"
)

// @title Classroom Collaboration API
// @version 1.0
// @description API for classrooms, assignments, submissions and grading.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	log.Println("Starting Classroom App Server...")

	// --- Configuration ---
	// A missing JWT secret is a startup failure by design.
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	// --- Ensure Indexes ---
	log.Println("Ensuring database indexes...")
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsureClassroomIndexes(ctx, appDB.Collection("classrooms"))
		mongo.EnsureAssignmentIndexes(ctx, appDB.Collection("assignments"))
		mongo.EnsureSubmissionIndexes(ctx, appDB.Collection("submissions"))
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Blob Storage ---
	var blobs storage.BlobStore
	switch cfg.Storage.Backend {
	case "s3":
		log.Println("Initializing S3 blob store...")
		blobs, err = storage.NewS3BlobStore(cfg.S3)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize S3 blob store: %v", err)
		}
	default:
		log.Println("Using inline MongoDB blob store.")
		blobs = storage.NewMongoBlobStore(appDB)
	}

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	userRepo := mongo.NewMongoUserRepository(appDB)
	classroomRepo := mongo.NewMongoClassroomRepository(appDB)
	assignmentRepo := mongo.NewMongoAssignmentRepository(appDB)
	submissionRepo := mongo.NewMongoSubmissionRepository(appDB)

	// --- Initialize Services ---
	log.Println("Initializing services...")
	authz := service.NewAuthorizer(classroomRepo)
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	classroomService := service.NewClassroomService(classroomRepo, userRepo, authz)
	assignmentService := service.NewAssignmentService(assignmentRepo, submissionRepo, blobs, authz)
	submissionService := service.NewSubmissionService(assignmentRepo, submissionRepo, userRepo, blobs, authz)

	// --- Initialize Gin Engine ---
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.JWT.Secret, cfg.JWT.Expiration, authService, classroomService, assignmentService, submissionService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
