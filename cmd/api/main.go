package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/anujdevsingh/gram-panchayat/internal/adapter/handler"
	"github.com/anujdevsingh/gram-panchayat/internal/adapter/repository"
	"github.com/anujdevsingh/gram-panchayat/internal/domain/entities"
	"github.com/anujdevsingh/gram-panchayat/internal/infrastructure/cache"
	"github.com/anujdevsingh/gram-panchayat/internal/infrastructure/database"
	"github.com/anujdevsingh/gram-panchayat/internal/infrastructure/external/conference"
	"github.com/anujdevsingh/gram-panchayat/internal/infrastructure/external/summarizer"
	"github.com/anujdevsingh/gram-panchayat/internal/infrastructure/external/translator"
	httpmw "github.com/anujdevsingh/gram-panchayat/internal/infrastructure/http/middleware"
	"github.com/anujdevsingh/gram-panchayat/internal/infrastructure/storage"
	"github.com/anujdevsingh/gram-panchayat/internal/scheduler"
	agendaUsecase "github.com/anujdevsingh/gram-panchayat/internal/usecase/agenda"
	authUsecase "github.com/anujdevsingh/gram-panchayat/internal/usecase/auth"
	gsUsecase "github.com/anujdevsingh/gram-panchayat/internal/usecase/gramsabha"
	issueUsecase "github.com/anujdevsingh/gram-panchayat/internal/usecase/issue"
	summaryUsecase "github.com/anujdevsingh/gram-panchayat/internal/usecase/summary"
	transcriptionUsecase "github.com/anujdevsingh/gram-panchayat/internal/usecase/transcription"
	translationUsecase "github.com/anujdevsingh/gram-panchayat/internal/usecase/translation"
	"github.com/anujdevsingh/gram-panchayat/pkg/config"
	"github.com/anujdevsingh/gram-panchayat/pkg/jwt"
	pkglogger "github.com/anujdevsingh/gram-panchayat/pkg/logger"
	pkgvalidator "github.com/anujdevsingh/gram-panchayat/pkg/validator"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := pkglogger.New(&cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Echo instance
	e := echo.New()
	e.Validator = pkgvalidator.New()
	e.HideBanner = true
	e.HidePort = false

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "Set-Cookie", "Cookie"},
		AllowCredentials: true,
	}))

	// Initialize Database
	logger.Info("connecting to database")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	// Initialize Redis
	logger.Info("connecting to redis")
	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Initialize object storage
	logger.Info("connecting to object storage")
	objectStore, err := storage.NewMinIOClient(&cfg.Storage)
	if err != nil {
		logger.Fatal("failed to connect to object storage", zap.Error(err))
	}

	// Initialize external clients
	summarizerClient := summarizer.NewClient(&cfg.Summarizer)
	translatorClient := translator.NewCachedClient(translator.NewClient(&cfg.Translator), cache.NewMemoryStore())
	conferenceClient := conference.NewClient(&cfg.Conference)
	asmClient := aai.NewClient(cfg.AssemblyAI.APIKey)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	panchayatRepo := repository.NewPanchayatRepository(db)
	issueRepo := repository.NewIssueRepository(db)
	summaryRepo := repository.NewIssueSummaryRepository(db)
	requestRepo := repository.NewSummaryRequestRepository(db)
	meetingRepo := repository.NewGramSabhaRepository(db)

	// Initialize JWT manager
	jwtManager := jwt.NewManager(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// Initialize services
	authService := authUsecase.NewService(userRepo, jwtManager, logger)
	issueService := issueUsecase.NewService(issueRepo, objectStore, logger)
	agendaService := agendaUsecase.NewService(summaryRepo, logger)
	meetingService := gsUsecase.NewService(meetingRepo, agendaService, conferenceClient, logger)
	summaryService := summaryUsecase.NewService(panchayatRepo, issueRepo, summaryRepo, requestRepo, summarizerClient, logger)
	translationJob := translationUsecase.NewJob(summaryRepo, meetingRepo, panchayatRepo, translatorClient, logger)
	transcriptionService := transcriptionUsecase.NewService(issueRepo, objectStore, asmClient, translatorClient, logger)

	// Start background jobs
	jobLock := cache.NewJobLock(redisClient, cfg.Jobs.LockTTL)
	sched := scheduler.NewScheduler(summaryService, transcriptionService, translationJob, meetingService, jobLock, &cfg.Jobs, logger)
	if err := sched.Start(); err != nil {
		logger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	// Initialize handlers
	authHandler := handler.NewAuth(authService, jwtManager, logger)
	panchayatHandler := handler.NewPanchayatHandler(panchayatRepo, logger)
	issueHandler := handler.NewIssueHandler(issueService, logger)
	agendaHandler := handler.NewAgendaHandler(agendaService, logger)
	meetingHandler := handler.NewGramSabhaHandler(meetingService, logger)

	authMW := httpmw.EchoAuth(jwtManager, userRepo)
	officialMW := httpmw.RequireOfficial()
	adminMW := httpmw.RequireRole(entities.UserRoleAdmin)

	router := handler.NewRouter(cfg, authHandler, panchayatHandler, issueHandler, agendaHandler, meetingHandler, authMW, officialMW, adminMW)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		logger.Info("starting server",
			zap.String("addr", addr),
			zap.String("environment", cfg.Server.Environment))

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped gracefully")
}
