package database

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"gyandeep/database/migrations"
	"gyandeep/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// RunMigrations applies every pending up migration for the dialect.
func RunMigrations(db *sqlx.DB, dialect string) error {
	if dialect == "oracle" {
		return runOracleMigrations(db)
	}

	m, err := newMigrate(db, dialect)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not apply migrations: %w", err)
	}

	version, dirty, _ := m.Version()
	logger.Get().Info("Migrations completed successfully",
		zap.String("dialect", dialect),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty))
	return nil
}

// RollbackMigrations reverts the given number of migrations.
func RollbackMigrations(db *sqlx.DB, dialect string, steps int) error {
	if dialect == "oracle" {
		return fmt.Errorf("rollback is not supported for oracle; apply the down scripts manually")
	}
	m, err := newMigrate(db, dialect)
	if err != nil {
		return err
	}
	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not roll back migrations: %w", err)
	}
	return nil
}

func newMigrate(db *sqlx.DB, dialect string) (*migrate.Migrate, error) {
	src, err := iofs.New(migrations.FS, dialect)
	if err != nil {
		return nil, fmt.Errorf("could not read %s migrations: %w", dialect, err)
	}

	var driver migratedb.Driver
	switch dialect {
	case "sqlite":
		driver, err = migratesqlite.WithInstance(db.DB, &migratesqlite.Config{})
	case "postgres":
		driver, err = migratepgx.WithInstance(db.DB, &migratepgx.Config{})
	default:
		return nil, fmt.Errorf("unsupported migration dialect %q", dialect)
	}
	if err != nil {
		return nil, fmt.Errorf("could not create %s migration driver: %w", dialect, err)
	}

	return migrate.NewWithInstance("iofs", src, dialect, driver)
}

const oracleVersionTable = "schema_migrations"

// runOracleMigrations executes each embedded up script statement by statement
// and records applied files in schema_migrations.
func runOracleMigrations(db *sqlx.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	l := logger.Get()

	if _, err := db.ExecContext(ctx, "SELECT 1 FROM "+oracleVersionTable+" WHERE 1 = 0"); err != nil {
		if _, err := db.ExecContext(ctx, "CREATE TABLE "+oracleVersionTable+" (version VARCHAR2(255) PRIMARY KEY, applied_at TIMESTAMP NOT NULL)"); err != nil {
			return fmt.Errorf("could not create %s: %w", oracleVersionTable, err)
		}
	}

	files, err := fs.Glob(migrations.FS, "oracle/*.up.sql")
	if err != nil {
		return fmt.Errorf("could not read migrations directory: %w", err)
	}
	sort.Strings(files)

	for _, file := range files {
		var applied int
		if err := db.GetContext(ctx, &applied, db.Rebind("SELECT COUNT(*) FROM "+oracleVersionTable+" WHERE version = ?"), file); err != nil {
			return fmt.Errorf("could not check migration %s: %w", file, err)
		}
		if applied > 0 {
			continue
		}

		content, err := fs.ReadFile(migrations.FS, file)
		if err != nil {
			return fmt.Errorf("could not read migration file %s: %w", file, err)
		}
		for _, stmt := range SplitStatements(string(content)) {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("could not execute migration %s: %w", file, err)
			}
		}
		if _, err := db.ExecContext(ctx, db.Rebind("INSERT INTO "+oracleVersionTable+" (version, applied_at) VALUES (?, ?)"), file, time.Now().UTC()); err != nil {
			return fmt.Errorf("could not record migration %s: %w", file, err)
		}
		l.Info("Executed migration", zap.String("file", file))
	}

	l.Info("Migrations completed successfully", zap.String("dialect", "oracle"))
	return nil
}

// SplitStatements breaks a script on semicolons that end a line. Oracle
// rejects trailing semicolons and multiple statements per Exec.
func SplitStatements(script string) []string {
	var stmts []string
	var current strings.Builder
	for _, line := range strings.Split(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		if strings.HasSuffix(trimmed, ";") {
			current.WriteString(strings.TrimSuffix(trimmed, ";"))
			stmts = append(stmts, current.String())
			current.Reset()
			continue
		}
		current.WriteString(trimmed)
		current.WriteString(" ")
	}
	if rest := strings.TrimSpace(current.String()); rest != "" {
		stmts = append(stmts, rest)
	}
	return stmts
}
