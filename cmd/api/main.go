// @title GyanDeep API
// @version 1.0
// @description Timed multiple-choice practice for competitive exams: quiz sessions, results, leaderboard and the question bank manager.
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

	_ "gyandeep/cmd/api/docs"
	"gyandeep/internal/adapter"
	"gyandeep/internal/adapter/analyzer"
	"gyandeep/internal/adapter/embedding"
	"gyandeep/internal/adapter/llm"
	"gyandeep/internal/adapter/quizgen"
	"gyandeep/internal/cache"
	"gyandeep/internal/config"
	"gyandeep/internal/database"
	"gyandeep/internal/domain"
	"gyandeep/internal/event"
	"gyandeep/internal/handler"
	"gyandeep/internal/logger"
	"gyandeep/internal/metrics"
	"gyandeep/internal/middleware"
	"gyandeep/internal/repository"
	"gyandeep/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if cfg.DB.MigrateOnStart {
		if err := database.RunMigrations(db, cfg.DB.Driver); err != nil {
			appLogger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	questionRepo := repository.NewQuestionDatabaseAdapter(db)
	categoryRepo := repository.NewCategoryDatabaseAdapter(db)
	resultRepo := repository.NewResultDatabaseAdapter(db)
	userRepo := repository.NewSQLXUserRepository(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(reg)

	var (
		redisClient  *redis.Client
		cacheAdapter domain.Cache
	)
	if cfg.Redis.Enabled() {
		redisClient, err = cache.NewRedisClient(cfg.Redis)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		redisClient.AddHook(appMetrics.RedisHook())
		cacheAdapter = adapter.NewRedisCacheAdapter(redisClient)
		appLogger.Info("Redis cache enabled", zap.String("address", cfg.Redis.Address))
	} else {
		appLogger.Warn("Redis is not configured. Results are read from the database and the leaderboard is disabled.")
	}

	var (
		generator domain.QuestionGenerator
		perfAI    domain.PerformanceAnalyzer
	)
	model, err := llm.New(ctx, cfg.LLM)
	if err != nil {
		appLogger.Warn("LLM is not available. AI generation and analysis are disabled.", zap.Error(err))
	} else {
		gen, err := quizgen.NewLLMQuizGenerator(model, cfg.LLM.Timeout, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to create question generator", zap.Error(err))
		}
		generator = gen
		perfAI = analyzer.NewLLMPerformanceAnalyzer(model, cfg.LLM.Timeout)
		appLogger.Info("LLM initialized", zap.String("provider", cfg.LLM.Provider), zap.String("model", cfg.LLM.Model))
	}

	embedder, err := embedding.New(cfg, cacheAdapter, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create embedding service", zap.Error(err))
	}

	userService := service.NewUserService(userRepo, appLogger)
	authService, err := service.NewAuthService(userRepo, cfg.JWT)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}
	categoryService := service.NewCategoryService(categoryRepo, questionRepo, txManager, appLogger)
	if err := categoryService.EnsureDefaults(ctx); err != nil {
		appLogger.Fatal("Failed to seed default categories", zap.Error(err))
	}
	questionService := service.NewQuestionService(questionRepo, txManager, appLogger)
	resultService := service.NewResultService(
		resultRepo,
		questionRepo,
		service.NewResultCacheService(cacheAdapter, cfg.CacheTTLs),
		perfAI,
		appMetrics,
		appLogger,
	)
	aiService := service.NewAIService(questionRepo, txManager, generator, embedder, appMetrics, cfg, appLogger)

	var leaderboardService service.LeaderboardService
	if redisClient != nil {
		leaderboardService = service.NewLeaderboardService(redisClient, cfg.Leaderboard, appLogger)
		if cfg.Leaderboard.SeedMock {
			if err := leaderboardService.SeedMock(ctx); err != nil {
				appLogger.Warn("Failed to seed leaderboard", zap.Error(err))
			}
		}
	}

	bus := event.NewBus(appLogger)
	service.NewQuizCompletedHandler(resultService, userService, leaderboardService, appLogger).Register(bus)

	sessionService := service.NewSessionService(questionRepo, categoryService, userService, bus, appMetrics, cfg.Quiz, appLogger)
	go sessionService.Run(ctx)

	routes := handler.Routes{
		AuthService: authService,
		Auth:        handler.NewAuthHandler(authService, userService),
		User:        handler.NewUserHandler(userService, resultService, categoryService),
		Session:     handler.NewSessionHandler(sessionService),
		Result:      handler.NewResultHandler(resultService),
		Admin:       handler.NewAdminHandler(questionService, categoryService, userService, aiService),
		Health:      handler.NewHealthHandler(db, cacheAdapter),
		Metrics:     reg,
	}
	if leaderboardService != nil {
		routes.Leaderboard = handler.NewLeaderboardHandler(leaderboardService)
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		BodyLimit:    cfg.Server.BodyLimit,
		ErrorHandler: middleware.ErrorHandler(),
	})
	app.Use(recover.New())
	app.Use(middleware.RequestLogger(appMetrics))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
		MaxAge:       300,
	}))
	app.Get("/swagger/*", swagger.HandlerDefault)
	handler.Register(app, routes)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", os.Getenv("ENV")))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	sessionService.Shutdown()
	bus.Stop()
	appLogger.Info("Server exited gracefully")
}
