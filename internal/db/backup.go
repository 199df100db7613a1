package db

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Backup writes a consistent snapshot of the open database to dst using
// VACUUM INTO. dst must not exist yet.
func Backup(ctx context.Context, d *DB, dst string) error {
	if _, err := os.Stat(dst); err == nil {
		return fmt.Errorf("backup target %s already exists", dst)
	}
	if _, err := d.Exec(ctx, `VACUUM INTO ?`, dst); err != nil {
		return fmt.Errorf("vacuum into %s: %w", dst, err)
	}
	d.logger.Info("database backed up", slog.String("dst", dst))
	return nil
}

// Restore replaces the database file at dst with the backup at src. The
// database must not be open while restoring. The copy goes through a
// temporary file in the same directory so a failed restore leaves dst intact.
func Restore(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open backup: %w", err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), filepath.Base(dst)+".restore-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		return fmt.Errorf("copy backup: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync restore: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close restore: %w", err)
	}

	// stale journal files would be replayed against the restored file
	for _, suffix := range []string{"-wal", "-shm", "-journal"} {
		if err := os.Remove(dst + suffix); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s%s: %w", dst, suffix, err)
		}
	}

	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("replace database: %w", err)
	}
	return nil
}
