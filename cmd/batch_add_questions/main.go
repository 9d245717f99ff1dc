package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"gyandeep/internal/adapter"
	"gyandeep/internal/adapter/embedding"
	"gyandeep/internal/adapter/llm"
	"gyandeep/internal/adapter/quizgen"
	"gyandeep/internal/cache"
	"gyandeep/internal/config"
	"gyandeep/internal/database"
	"gyandeep/internal/domain"
	"gyandeep/internal/logger"
	"gyandeep/internal/metrics"
	"gyandeep/internal/repository"
	"gyandeep/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	topics   []string
	perTopic int
)

var rootCmd = &cobra.Command{
	Use:   "batch_add_questions",
	Short: "Generate new questions for a list of topics with the configured LLM",
	Long: `Generates questions for every topic, drops the ones that duplicate the
bank and stores the rest under the ai_generated category.

Topics come from --topics or, when omitted, from batch.topics in the config.`,
	RunE: run,
}

func init() {
	rootCmd.Flags().StringSliceVarP(&topics, "topics", "t", nil, "comma-separated topics to generate questions for")
	rootCmd.Flags().IntVarP(&perTopic, "per-topic", "n", 0, "questions to request per topic (default batch.questions_per_topic)")
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()
	log := logger.Get()

	if len(topics) == 0 {
		topics = cfg.Batch.Topics
	}
	if perTopic <= 0 {
		perTopic = cfg.Batch.QuestionsPerTopic
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	var cacheAdapter domain.Cache
	if cfg.Redis.Enabled() {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer redisClient.Close()
		cacheAdapter = adapter.NewRedisCacheAdapter(redisClient)
	} else {
		log.Warn("Redis cache is not configured. Embeddings will not be cached.")
		cacheAdapter = adapter.NoopCache{}
	}

	model, err := llm.New(ctx, cfg.LLM)
	if err != nil {
		return fmt.Errorf("failed to initialize LLM: %w", err)
	}
	generator, err := quizgen.NewLLMQuizGenerator(model, cfg.LLM.Timeout, log)
	if err != nil {
		return err
	}
	embedder, err := embedding.New(cfg, cacheAdapter, log)
	if err != nil {
		return err
	}

	questionRepo := repository.NewQuestionDatabaseAdapter(db)
	txManager := repository.NewTransactionManagerAdapter(db)
	aiService := service.NewAIService(questionRepo, txManager, generator, embedder,
		metrics.New(prometheus.NewRegistry()), cfg, log)

	reports, err := aiService.GenerateBatch(ctx, topics, perTopic)
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range reports {
		if r.Error != "" {
			failed++
			log.Error("Topic failed", zap.String("topic", r.Topic), zap.String("error", r.Error))
			continue
		}
		log.Info("Topic done",
			zap.String("topic", r.Topic),
			zap.Int("generated", r.Generated),
			zap.Int("duplicates", r.Duplicates))
	}
	log.Info("Batch process completed", zap.Int("topics", len(reports)), zap.Int("failed", failed))

	if failed == len(reports) {
		return fmt.Errorf("every topic failed: %s", strings.Join(topics, ", "))
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
