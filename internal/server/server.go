// Package server contains the HTTP handlers for the application's API
// endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	"commentpulse/internal/cleaner"
	"commentpulse/internal/config"
	"commentpulse/internal/database"
	"commentpulse/internal/middleware"
	"commentpulse/internal/models"
	"commentpulse/internal/repository"
	"commentpulse/internal/search"
	"commentpulse/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus

	projectRepo   repository.ProjectRepository
	commentRepo   repository.CommentRepository
	sentimentRepo repository.SentimentRepository

	index  search.Indexer
	worker service.CleanerClient

	cleanService     *service.CleanService
	syncService      *service.SyncService
	searchService    *service.SearchService
	projectService   *service.ProjectService
	commentService   *service.CommentService
	analyticsService *service.AnalyticsService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	return NewServerWithDeps(cfg, db, search.NewClient(cfg), cleaner.New(cfg))
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes the DB, index and
// worker client.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, index search.Indexer, worker service.CleanerClient) (*Server, error) {
	projectRepo := repository.NewProjectRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	sentimentRepo := repository.NewSentimentRepository(db)

	prom := middleware.InitMetrics("commentpulse-api")

	server := &Server{
		config:         cfg,
		db:             db,
		promMiddleware: prom,
		projectRepo:    projectRepo,
		commentRepo:    commentRepo,
		sentimentRepo:  sentimentRepo,
		index:          index,
		worker:         worker,
	}

	server.syncService = service.NewSyncService(commentRepo, projectRepo, sentimentRepo, index)
	server.cleanService = service.NewCleanService(projectRepo, commentRepo, worker, server.syncService)
	server.searchService = service.NewSearchService(index)
	server.projectService = service.NewProjectService(projectRepo, commentRepo)
	server.commentService = service.NewCommentService(commentRepo)
	server.analyticsService = service.NewAnalyticsService(projectRepo, commentRepo)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Tenant resolution must precede the context middleware so tenant ids
	// reach the structured logger.
	app.Use(middleware.TenantMiddleware())
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, " + middleware.TenantHeader,
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "CommentPulse Metrics Dashboard",
	}))

	// Upload + clean pipeline
	data := api.Group("/data")
	data.Post("/upload", s.UploadAndClean)

	// Stored-comment reads and index-backed search
	comments := api.Group("/comment")
	comments.Get("/search", s.SearchComments)
	comments.Get("/recent", s.GetRecentCleaned)
	comments.Get("/project/:pid", s.GetProjectComments)

	// Project lifecycle views
	projects := api.Group("/project")
	projects.Get("/", s.GetProjects)
	projects.Get("/:pid", s.GetProject)

	// Index maintenance
	index := api.Group("/index")
	index.Post("/sync", s.SyncAll)
	index.Post("/sync/:pid", s.SyncProject)

	// Worker-side sentiment scoring
	api.Post("/sentiment/analyze/:pid", s.AnalyzeSentiment)

	// Derived analytics
	api.Get("/graph/:pid", s.GetReplyNetwork)
	api.Get("/visual/keywords/:pid", s.GetKeywords)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	searchStatus := "healthy"
	if err := s.index.Ping(ctx); err != nil {
		searchStatus = "unhealthy"
	}

	status := fiber.StatusOK
	overall := "ready"
	if dbStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overall = "not ready"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"database": dbStatus,
			// A degraded index keeps the service up; search endpoints fail
			// individually with SEARCH_UNAVAILABLE.
			"search": searchStatus,
		},
		"time": time.Now(),
	})
}

// Start starts the server
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName:   "CommentPulse API",
		BodyLimit: 50 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	// Best effort; the index may come up later and the first sync creates it.
	if err := s.index.EnsureIndex(context.Background()); err != nil {
		log.Printf("search index not ready at startup: %v", err)
	}

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
