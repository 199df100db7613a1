package db

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"
)

const (
	migrationsDir = "migrations"
	seedDir       = "seed"
)

// Migrate applies the SQL files under migrations/ in migrationFS that have not
// been recorded in schema_migrations yet. Each file runs in its own
// transaction together with its bookkeeping row.
func Migrate(ctx context.Context, d *DB, migrationFS fs.FS) error {
	return applyOnce(ctx, d, migrationFS, migrationsDir, "schema_migrations")
}

// Seed applies the SQL files under seed/ in seedFS once each, recorded in
// schema_seeds. Rows deleted after seeding stay deleted across restarts.
func Seed(ctx context.Context, d *DB, seedFS fs.FS) error {
	return applyOnce(ctx, d, seedFS, seedDir, "schema_seeds")
}

// applyOnce runs every .sql file of dir that is not yet listed in the
// bookkeeping table, in lexical order.
func applyOnce(ctx context.Context, d *DB, fsys fs.FS, dir, table string) error {
	if _, err := d.Exec(ctx, `CREATE TABLE IF NOT EXISTS `+table+` (version TEXT PRIMARY KEY, applied INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("ensure %s: %w", table, err)
	}

	files, err := sqlFiles(fsys, dir)
	if err != nil {
		return fmt.Errorf("read %s dir: %w", dir, err)
	}

	for _, fname := range files {
		// use filename (without extension) as version key
		version := strings.TrimSuffix(fname, path.Ext(fname))

		var count int
		if err := d.QueryRow(ctx, `SELECT COUNT(1) FROM `+table+` WHERE version = ?`, version).Scan(&count); err != nil {
			return fmt.Errorf("scan %s applied count: %w", dir, err)
		}
		if count > 0 {
			continue
		}

		b, err := fs.ReadFile(fsys, path.Join(dir, fname))
		if err != nil {
			return fmt.Errorf("read %s: %w", fname, err)
		}

		tx, err := d.GetConn().BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin %s: %w", fname, err)
		}
		if _, err := tx.ExecContext(ctx, string(b)); err != nil {
			tx.Rollback()
			return fmt.Errorf("exec %s: %w", fname, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO `+table+` (version, applied) VALUES (?, strftime('%s','now'))`, version); err != nil {
			tx.Rollback()
			return fmt.Errorf("record %s: %w", fname, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", fname, err)
		}
		d.logger.Info("sql file applied", slog.String("dir", dir), slog.String("version", version))
	}

	return nil
}

// sqlFiles lists the .sql files of dir in lexical order.
func sqlFiles(fsys fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(e.Name()), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}
