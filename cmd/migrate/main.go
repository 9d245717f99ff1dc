package main

import (
	"fmt"
	"os"

	"gyandeep/internal/config"
	"gyandeep/internal/database"
	"gyandeep/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var steps int

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back the GyanDeep schema",
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply every pending migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		db, err := database.Open(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		return database.RunMigrations(db, cfg.DB.Driver)
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the last migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if steps < 1 {
			return fmt.Errorf("--steps must be at least 1")
		}
		cfg, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		db, err := database.Open(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := database.RollbackMigrations(db, cfg.DB.Driver, steps); err != nil {
			return err
		}
		logger.Get().Info("Rolled back migrations", zap.String("dialect", cfg.DB.Driver), zap.Int("steps", steps))
		return nil
	},
}

func setup() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, nil
}

func init() {
	downCmd.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")
	rootCmd.AddCommand(upCmd, downCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
