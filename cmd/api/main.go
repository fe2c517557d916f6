// @title ExamHub Submission API
// @version 1.0
// @description Submission lifecycle and auto-grading API of the ExamHub exam platform.
// @contact.name API Support
// @host localhost:8090
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"examhub/internal/adapter"
	"examhub/internal/cache"
	"examhub/internal/config"
	"examhub/internal/database"
	"examhub/internal/handler"
	"examhub/internal/logger"
	"examhub/internal/middleware"
	"examhub/internal/repository"
	"examhub/internal/service"
	"examhub/internal/validation"

	_ "examhub/cmd/api/docs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)

		return err
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	if cfg.JWT.SecretKey == "" {
		appLogger.Fatal("JWT secret is not configured (jwt.secret_key or JWT_SECRET)")
	}

	db, err := database.NewSQLXOracleDB(cfg.DB, cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Successfully connected to Redis")
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)

	// Repositories
	txManager := repository.NewTransactionManagerAdapter(db)
	submissionRepository := repository.NewSQLXSubmissionRepository(db)
	answerRepository := repository.NewSQLXAnswerRepository(db)
	examRepository := repository.NewSQLXExamRepository(db)
	assignmentRepository := repository.NewSQLXAssignmentRepository(db)
	classDirectory := repository.NewSQLXClassDirectory(db)
	participationRepository := repository.NewSQLXContestParticipationRepository(db)

	// Services
	examCatalog := service.NewExamCatalog(examRepository, cacheAdapter, cfg.CacheTTLs.ExamQuestions)
	submissionService := service.NewSubmissionService(service.SubmissionServiceDeps{
		Submissions: submissionRepository,
		Answers:     answerRepository,
		Assignments: assignmentRepository,
		Classes:     classDirectory,
		Catalog:     examCatalog,
		Notifier:    service.NewContestNotifier(participationRepository, txManager),
		TxManager:   txManager,
		OpenReview:  cfg.Submission.OpenReview,
	})
	appLogger.Info("SubmissionService initialized", zap.Bool("openReview", cfg.Submission.OpenReview))

	// Handlers
	validator := validation.NewValidator()
	submissionHandler := handler.NewSubmissionHandler(submissionService, validator)
	healthHandler := handler.NewHealthHandler(map[string]handler.Pinger{
		"database": handler.PingFunc(db.PingContext),
		"redis":    cacheAdapter,
	})

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(recover.New())
	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,PATCH,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept,Authorization", MaxAge: 300}))

	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/health", healthHandler.Check)

	protected := middleware.Protected(middleware.NewHMACTokenVerifier(cfg.JWT.SecretKey))
	handler.RegisterSubmissionRoutes(app.Group("/api"), submissionHandler, protected, middleware.NewValidationMiddleware(validator))

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
