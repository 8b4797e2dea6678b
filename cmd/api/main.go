package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/prepmind-dev/prepmind-api/internal/config"
	"github.com/prepmind-dev/prepmind-api/internal/database"
	"github.com/prepmind-dev/prepmind-api/internal/handler"
	"github.com/prepmind-dev/prepmind-api/internal/middleware"
	"github.com/prepmind-dev/prepmind-api/internal/observability"
	"github.com/prepmind-dev/prepmind-api/internal/repository"
	"github.com/prepmind-dev/prepmind-api/internal/router"
	"github.com/prepmind-dev/prepmind-api/internal/service"
	"github.com/prepmind-dev/prepmind-api/pkg/ai"
	"github.com/prepmind-dev/prepmind-api/pkg/sandbox"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	observability.RegisterMetrics()

	mongoClient, err := database.ConnectMongo(cfg.MongoURI)
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(ctx)
	}()
	db := mongoClient.Database(cfg.MongoDatabase)

	// Redis only backs the history cache; the API runs without it.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, history cache disabled")
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	// NATS completion events are best effort as well.
	var nc *nats.Conn
	if cfg.NATSURL != "" {
		nc, err = nats.Connect(cfg.NATSURL, nats.Name(cfg.AppName))
		if err != nil {
			logger.Warn().Err(err).Msg("nats unavailable, completion events disabled")
			nc = nil
		} else {
			defer nc.Drain()
		}
	}

	gateway, err := buildGateway(cfg, logger)
	if err != nil {
		log.Fatalf("failed to create AI gateway: %v", err)
	}

	runner, err := sandbox.NewDockerRunner(sandbox.Config{
		Host:          cfg.DockerHost,
		Timeout:       cfg.ExecutionTimeout,
		MemoryLimitMB: int64(cfg.CodeRunMemoryMB),
		CPUShares:     int64(cfg.CodeRunCPUShares),
		Logger:        logger,
	})
	if err != nil {
		log.Fatalf("failed to create sandbox runner: %v", err)
	}
	defer runner.Close()

	validate := validator.New(validator.WithRequiredStructEnabled())

	sessionRepo := repository.NewInterviewSessionRepository(db)
	profileRepo := repository.NewUserProfileRepository(db)

	questionService := service.NewQuestionService(gateway, logger)
	evaluationService := service.NewEvaluationService(gateway, logger)
	interviewService := service.NewInterviewService(sessionRepo, profileRepo, questionService, evaluationService, nc, logger)
	executionService := service.NewExecutionService(runner, cfg.ExecutionTimeout, logger)
	chatService := service.NewChatService(gateway, logger)
	historyService := service.NewHistoryService(sessionRepo, redisClient, cfg.HistoryCacheTTL, logger)

	assessmentHandler := handler.NewAssessmentHandler(questionService, evaluationService, validate, logger)
	interviewHandler := handler.NewInterviewHandler(interviewService, historyService, validate, logger)
	executionHandler := handler.NewExecutionHandler(executionService, validate, logger)
	chatHandler := handler.NewChatHandler(chatService, validate, logger)
	catalogHandler := handler.NewCatalogHandler()

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AssessmentHandler: assessmentHandler,
		ExecutionHandler:  executionHandler,
		ChatHandler:       chatHandler,
		InterviewHandler:  interviewHandler,
		CatalogHandler:    catalogHandler,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func buildGateway(cfg config.Config, logger zerolog.Logger) (ai.Gateway, error) {
	switch cfg.AIProvider {
	case "openai":
		return ai.NewOpenAIGateway(ai.OpenAIConfig{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.OpenAIModel,
			Logger: logger,
		})
	default:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return ai.NewGeminiGateway(ctx, ai.GeminiConfig{
			APIKey: cfg.GeminiAPIKey,
			Model:  cfg.GeminiModel,
			Logger: logger,
		})
	}
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
