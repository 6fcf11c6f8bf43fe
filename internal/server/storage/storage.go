// Package storage opens the credential store named in the server config and
// prepares its schema. SQL backends are migrated with goose from the
// embedded migrations.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/nexusauth/internal/dbx"
	"github.com/dmitrijs2005/nexusauth/internal/logging"
	"github.com/dmitrijs2005/nexusauth/internal/server/migrations"
	"github.com/dmitrijs2005/nexusauth/internal/server/repositories/users"
)

const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

const defaultSQLiteDSN = "users.db"

type Config struct {
	Backend   string
	UsersFile string
	DSN       string
}

// Store bundles the opened repository with the connection behind it, if any.
type Store struct {
	Users   users.Repository
	Backend string
	db      *sql.DB
}

// sqlOpen is a seam for tests.
var sqlOpen = sql.Open

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// goose keeps its base FS and dialect in package state.
var gooseMu sync.Mutex

// Open builds the repository for cfg.Backend. An empty backend means file.
func Open(ctx context.Context, cfg Config, logger logging.Logger) (*Store, error) {
	backend := cfg.Backend
	if backend == "" {
		backend = BackendFile
	}

	switch backend {
	case BackendFile:
		if cfg.UsersFile == "" {
			return nil, fmt.Errorf("users file path is empty")
		}
		logger.Info(ctx, "Using JSON file store", "path", cfg.UsersFile)
		return &Store{Users: users.NewFileRepository(cfg.UsersFile), Backend: backend}, nil

	case BackendMemory:
		logger.Warn(ctx, "Using in-memory store, accounts are lost on restart")
		return &Store{Users: users.NewMemoryRepository(), Backend: backend}, nil

	case BackendSQLite:
		dsn := cfg.DSN
		if dsn == "" {
			dsn = defaultSQLiteDSN
		}
		return openSQL(ctx, logger, backend, "sqlite", dsn, "sqlite3", dbx.SQLite)

	case BackendPostgres:
		if cfg.DSN == "" {
			return nil, fmt.Errorf("postgres store needs a DSN")
		}
		return openSQL(ctx, logger, backend, "pgx", cfg.DSN, "pgx", dbx.Postgres)

	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}

func openSQL(ctx context.Context, logger logging.Logger, backend, driver, dsn, gooseDialect string, dialect dbx.Dialect) (*Store, error) {
	db, err := sqlOpen(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", backend, err)
	}
	if dialect == dbx.SQLite {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", backend, err)
	}

	if err := RunMigrations(ctx, db, gooseDialect); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", backend, err)
	}

	logger.Info(ctx, "Using SQL store", "backend", backend)
	return &Store{
		Users:   users.NewSQLRepository(db, dialect),
		Backend: backend,
		db:      db,
	}, nil
}

// RunMigrations applies the embedded migrations using the given goose
// dialect ("sqlite3" or "pgx").
func RunMigrations(ctx context.Context, db *sql.DB, gooseDialect string) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(gooseDialect); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

// Close releases the database connection of SQL backends.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
