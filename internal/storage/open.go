package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/itportal/internal/filex"
	"github.com/dmitrijs2005/itportal/internal/storage/migrations"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// RunMigrations applies the embedded schema for dialect to db.
func RunMigrations(ctx context.Context, db *sql.DB, dialect Dialect) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(string(dialect)); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	dir := "sqlite"
	if dialect == DialectPostgres {
		dir = "postgres"
	}
	return goose.UpContext(ctx, db, dir)
}

// RedisKeyPrefix namespaces portal keys on a shared redis server.
const RedisKeyPrefix = "itportal:"

// Open returns the repository for driver ("sqlite", "postgres", "redis"
// or "memory"). SQL backends get their schema migrated.
func Open(ctx context.Context, driver, dsn string) (Repository, error) {
	var (
		sqlDriver string
		dialect   Dialect
	)

	switch driver {
	case "memory":
		return NewMemoryRepository(), nil
	case "redis":
		return NewRedisRepository(ctx, dsn, RedisKeyPrefix)
	case "sqlite":
		sqlDriver, dialect = "sqlite", DialectSQLite
	case "postgres":
		sqlDriver, dialect = "pgx", DialectPostgres
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", driver)
	}

	if path := filex.SQLitePath(dsn); dialect == DialectSQLite && path != "" {
		if _, err := filex.EnsureParentDir(path); err != nil {
			return nil, fmt.Errorf("storage unavailable: %w", err)
		}
	}

	db, err := sql.Open(sqlDriver, dsn)
	if err != nil {
		return nil, err
	}
	if dialect == DialectSQLite {
		// one connection keeps ":memory:" databases coherent and
		// serialises writers on a file
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage unavailable: %w", err)
	}
	if err := RunMigrations(ctx, db, dialect); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage migrations: %w", err)
	}

	return NewSQLRepository(db, dialect), nil
}
