package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"gyandeep/cmd/seed_initial_data/internal/seedmodels"
	"gyandeep/internal/config"
	"gyandeep/internal/database"
	"gyandeep/internal/domain"
	"gyandeep/internal/logger"
	"gyandeep/internal/repository"

	"go.uber.org/zap"
)

const (
	seedFilePath = "configs/seed_data/initial_questions.json"
)

func firstN(s string, n int) string {
	if len(s) < n {
		return s
	}
	return s[:n]
}

func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	path := seedFilePath
	if p := os.Getenv("SEED_FILE"); p != "" {
		path = p
	}

	log.Info("Starting initial data seeding process", zap.String("driver", cfg.DB.Driver))
	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if cfg.DB.MigrateOnStart {
		if err := database.RunMigrations(db, cfg.DB.Driver); err != nil {
			log.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	byteValue, err := os.ReadFile(path)
	if err != nil {
		log.Fatal("Failed to read seed file", zap.String("path", path), zap.Error(err))
	}

	var seedCategories []seedmodels.SeedCategory
	if err := json.Unmarshal(byteValue, &seedCategories); err != nil {
		log.Fatal("Failed to unmarshal seed data", zap.Error(err))
	}
	log.Info("Loaded seed data", zap.Int("categories", len(seedCategories)))

	s := &seeder{
		tx:         repository.NewTransactionManagerAdapter(db),
		categories: repository.NewCategoryDatabaseAdapter(db),
		questions:  repository.NewQuestionDatabaseAdapter(db),
		log:        log,
	}

	if err := s.seedDefaults(ctx); err != nil {
		log.Fatal("Failed to seed default categories", zap.Error(err))
	}
	for _, sc := range seedCategories {
		created, err := s.seedCategory(ctx, sc)
		if err != nil {
			log.Error("Error seeding category, transaction rolled back", zap.String("category", sc.ID), zap.Error(err))
			continue
		}
		log.Info("Seeded category", zap.String("category", sc.ID), zap.Int("created", created))
	}
	log.Info("Initial data seeding process completed")
}

type seeder struct {
	tx         domain.TransactionManager
	categories domain.CategoryRepository
	questions  domain.QuestionRepository
	log        *zap.Logger
}

func (s *seeder) seedDefaults(ctx context.Context) error {
	return s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		for _, c := range domain.DefaultCategories() {
			existing, err := s.categories.GetByID(ctx, c.ID)
			if err != nil {
				return fmt.Errorf("error checking category %s: %w", c.ID, err)
			}
			if existing != nil {
				continue
			}
			if err := s.categories.Save(ctx, c); err != nil {
				return fmt.Errorf("failed to save category %s: %w", c.ID, err)
			}
		}
		return nil
	})
}

// seedCategory writes the category and its questions in one transaction and
// skips questions whose id is already present.
func (s *seeder) seedCategory(ctx context.Context, sc seedmodels.SeedCategory) (int, error) {
	category := sc.ToDomain()
	if errs := category.Validate(); len(errs) > 0 {
		return 0, errs
	}

	created := 0
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.categories.GetByID(ctx, category.ID)
		if err != nil {
			return fmt.Errorf("error checking category %s: %w", category.ID, err)
		}
		if existing == nil {
			if err := s.categories.Save(ctx, category); err != nil {
				return fmt.Errorf("failed to save category %s: %w", category.ID, err)
			}
			s.log.Info("Created category", zap.String("id", category.ID), zap.String("name", category.Name))
		}

		for _, sq := range sc.Questions {
			q := sq.ToDomain(category.ID)
			if errs := q.Validate(); len(errs) > 0 {
				s.log.Warn("Skipping invalid seed question",
					zap.String("question_preview", firstN(sq.Question, 40)), zap.Error(errs))
				continue
			}
			found, err := s.questions.GetByID(ctx, q.ID)
			if err != nil {
				return fmt.Errorf("error checking question %s: %w", q.ID, err)
			}
			if found != nil {
				continue
			}
			if err := s.questions.Create(ctx, q); err != nil {
				return fmt.Errorf("failed to save question '%s': %w", firstN(q.Question, 50), err)
			}
			created++
		}
		return nil
	})
	return created, err
}
