// Copyright (c) 2026 Avail Team
// Avail - calendar availability checker
// This source code is licensed under the MIT license found in the LICENSE file.

package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// cacheEntry is the bun model of one row in avail_cache.
type cacheEntry struct {
	bun.BaseModel `bun:"table:avail_cache"`
	Key           string    `bun:"cache_key,pk,type:varchar(255)"`
	Payload       []byte    `bun:"payload,notnull"`
	ExpiresAt     int64     `bun:"expires_at,notnull"` // unix seconds
}

// sqlOpenFunc is swapped by tests.
var sqlOpenFunc = sql.Open

// SQLStore keeps cache entries in a relational database through bun. SQLite
// is the default; postgres and mysql let several users share one cache.
type SQLStore struct {
	db *bun.DB
}

// NewSQLStore opens dsn with the driver for dbType and creates the cache
// table if it does not exist.
func NewSQLStore(ctx context.Context, dbType, dsn string) (*SQLStore, error) {
	if dsn == "" {
		return nil, errors.New("sql cache: empty dsn")
	}
	driverName := dbType
	// The pgx stdlib registers driver name "pgx"; map "postgres" to that driver.
	if dbType == "postgres" {
		driverName = "pgx"
	}
	sqlDB, err := sqlOpenFunc(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sql cache: failed to open database: %w", err)
	}
	// For in-memory SQLite a second connection would see an empty database.
	if dbType == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	}

	s := &SQLStore{db: createBunDB(sqlDB, dbType)}
	if _, err := s.db.NewCreateTable().Model((*cacheEntry)(nil)).IfNotExists().Exec(ctx); err != nil {
		_ = s.db.Close()
		return nil, fmt.Errorf("sql cache: failed to create table: %w", err)
	}
	return s, nil
}

// createBunDB wraps sqlDB with the dialect matching dbType.
func createBunDB(sqlDB *sql.DB, dbType string) *bun.DB {
	switch dbType {
	case "postgres":
		return bun.NewDB(sqlDB, pgdialect.New())
	case "mysql":
		return bun.NewDB(sqlDB, mysqldialect.New())
	default:
		return bun.NewDB(sqlDB, sqlitedialect.New())
	}
}

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var e cacheEntry
	err := s.db.NewSelect().Model(&e).
		Where("cache_key = ?", key).
		Where("expires_at > ?", nowFunc().Unix()).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return e.Payload, true, nil
}

// Set replaces the row for key inside a transaction so the statement works
// the same on every dialect.
func (s *SQLStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*cacheEntry)(nil)).Where("cache_key = ?", key).Exec(ctx); err != nil {
			return err
		}
		e := &cacheEntry{Key: key, Payload: value, ExpiresAt: nowFunc().Add(ttl).Unix()}
		_, err := tx.NewInsert().Model(e).Exec(ctx)
		return err
	})
}

// Clear deletes every row. Bun refuses an unqualified DELETE, hence 1 = 1.
func (s *SQLStore) Clear(ctx context.Context) error {
	_, err := s.db.NewDelete().Model((*cacheEntry)(nil)).Where("1 = 1").Exec(ctx)
	return err
}

func (s *SQLStore) Close() error { return s.db.Close() }
