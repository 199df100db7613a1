package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	dbfs "github.com/etnagroup/residence/db"
	"github.com/etnagroup/residence/internal/config"
	"github.com/etnagroup/residence/internal/db"
)

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func openDB(ctx context.Context, cfg *config.Config) (*db.DB, error) {
	level, _ := cfg.SlogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	conn, err := db.New(ctx, cfg.DatabasePath, logger)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return conn, nil
}

func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			conn, err := openDB(ctx, cfg)
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := db.Migrate(ctx, conn, dbfs.Migrations); err != nil {
				return err
			}
			if seed, _ := cmd.Flags().GetBool("seed"); seed {
				if err := db.Seed(ctx, conn, dbfs.SeedFiles); err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Database %s is up to date.\n", cfg.DatabasePath)
			return nil
		},
	}
	cmd.Flags().Bool("seed", false, "Also apply seed data")
	return cmd
}

func SeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the sample complex, buildings and units",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			conn, err := openDB(ctx, cfg)
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := db.Seed(ctx, conn, dbfs.SeedFiles); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Seed data applied.")
			return nil
		},
	}
}

func BackupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Write a snapshot of the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				out = cfg.DatabasePath + ".bak"
			}

			ctx := cmd.Context()
			conn, err := openDB(ctx, cfg)
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := db.Backup(ctx, conn, out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Database backup written to %s.\n", out)
			return nil
		},
	}
	cmd.Flags().String("out", "", "Backup file path (default <database_path>.bak)")
	return cmd
}

func RestoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Replace the database with a backup; stop the server first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			from, _ := cmd.Flags().GetString("from")
			if from == "" {
				from = cfg.DatabasePath + ".bak"
			}

			if err := db.Restore(from, cfg.DatabasePath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Database restored from %s.\n", from)
			return nil
		},
	}
	cmd.Flags().String("from", "", "Backup file path (default <database_path>.bak)")
	return cmd
}
