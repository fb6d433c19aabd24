// Package storage caches the region directory in a local SQLite database so
// repeated collection runs do not re-download the code table.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"aptrade/internal/region"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// SaveRegions replaces the cached directory with the given entries.
func (r *SQLiteRepository) SaveRegions(ctx context.Context, regions []region.Region) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM regions`); err != nil {
		return fmt.Errorf("clear regions: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO regions (code, province, municipality, position, fetched_at)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i, reg := range regions {
		if _, err := stmt.ExecContext(ctx, reg.Code, reg.Province, reg.Municipality, i, now); err != nil {
			return fmt.Errorf("insert region %s: %w", reg.Code, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// LoadRegions returns the cached directory in its original order, or an
// empty slice when the cache is empty or older than maxAge.
func (r *SQLiteRepository) LoadRegions(ctx context.Context, maxAge time.Duration) ([]region.Region, error) {
	var fetchedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, `SELECT MIN(fetched_at) FROM regions`).Scan(&fetchedAt)
	if err != nil {
		return nil, fmt.Errorf("read cache age: %w", err)
	}
	if !fetchedAt.Valid {
		return nil, nil
	}
	if maxAge > 0 && time.Since(fetchedAt.Time) > maxAge {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT code, province, municipality FROM regions ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query regions: %w", err)
	}
	defer rows.Close()

	var out []region.Region
	for rows.Next() {
		var reg region.Region
		if err := rows.Scan(&reg.Code, &reg.Province, &reg.Municipality); err != nil {
			return nil, fmt.Errorf("scan region: %w", err)
		}
		out = append(out, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate regions: %w", err)
	}
	return out, nil
}
