package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gyandeep/internal/config"
	"gyandeep/internal/logger"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver "pgx"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/reflectx"
	_ "github.com/sijms/go-ora/v2" // Oracle driver "oracle"
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // SQLite driver "sqlite"
)

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
	sqlx.BindDriver("oracle", sqlx.NAMED)
}

// DriverName maps the configured dialect onto the registered database/sql driver.
func DriverName(dialect string) (string, error) {
	switch dialect {
	case "sqlite":
		return "sqlite", nil
	case "postgres":
		return "pgx", nil
	case "oracle":
		return "oracle", nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", dialect)
	}
}

// Open connects to the configured database and pings it.
func Open(cfg *config.Config) (*sqlx.DB, error) {
	driver, err := DriverName(cfg.DB.Driver)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.DB.Driver, err)
	}

	switch cfg.DB.Driver {
	case "oracle":
		// Oracle reports unquoted column names in upper case.
		db.Mapper = reflectx.NewMapperTagFunc("db", strings.ToUpper, strings.ToUpper)
		db.SetMaxOpenConns(10)
	case "postgres":
		db.SetMaxOpenConns(20)
	case "sqlite":
		db.SetMaxOpenConns(4)
	}
	db.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", cfg.DB.Driver, err)
	}

	logger.Get().Info("Connected to database", zap.String("driver", cfg.DB.Driver))
	return db, nil
}
