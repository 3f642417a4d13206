package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"

	"github.com/sgk-rpa/rpa-dashboard/internal/adapters/secondary/postgres"
	"github.com/sgk-rpa/rpa-dashboard/internal/core/domain"
)

type importCmd struct {
	databaseURL string
	variant     string
	file        string
	logger      func() *slog.Logger
}

func newImportCmd(logger func() *slog.Logger) *cobra.Command {
	ic := &importCmd{logger: logger}
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace a variant's records in Postgres with a JSON export",
		RunE:  ic.run,
	}

	cmd.Flags().StringVar(&ic.databaseURL, "database-url", os.Getenv("DATABASE_URL"), "Postgres URL (defaults to DATABASE_URL)")
	cmd.Flags().StringVar(&ic.variant, "variant", domain.VariantEntry, "Dashboard variant")
	cmd.Flags().StringVar(&ic.file, "file", "", "Path to the JSON export")

	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func (ic *importCmd) run(cmd *cobra.Command, _ []string) error {
	if ic.databaseURL == "" {
		return errors.New("a database URL is required (--database-url or DATABASE_URL)")
	}

	data, err := os.ReadFile(ic.file)
	if err != nil {
		return fmt.Errorf("read export: %w", err)
	}
	records, err := domain.ParseRawRecords(data)
	if err != nil {
		return fmt.Errorf("parse %s: %w", ic.file, err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, postgres.PoolConfig{URL: ic.databaseURL, MaxConns: 2, MinConns: 1})
	if err != nil {
		return err
	}
	defer pool.Close()

	info, err := postgres.NewRecordStore(pool).Import(ctx, ic.variant, filepath.Base(ic.file), records)
	if err != nil {
		return err
	}

	ic.logger().Info("export imported", "variant", info.Variant, "records", info.RecordCount)
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "imported %d records into %s (%s)\n",
		info.RecordCount, info.Variant, info.ImportedAt.Format(time.RFC3339))
	return err
}

type migrateCmd struct {
	databaseURL string
	dir         string
	down        bool
}

func newMigrateCmd() *cobra.Command {
	mc := &migrateCmd{}
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database migrations",
		RunE:  mc.run,
	}

	cmd.Flags().StringVar(&mc.databaseURL, "database-url", os.Getenv("DATABASE_URL"), "Postgres URL (defaults to DATABASE_URL)")
	cmd.Flags().StringVar(&mc.dir, "dir", "migrations", "Migrations directory")
	cmd.Flags().BoolVar(&mc.down, "down", false, "Revert every migration instead")

	return cmd
}

func (mc *migrateCmd) run(cmd *cobra.Command, _ []string) error {
	if mc.databaseURL == "" {
		return errors.New("a database URL is required (--database-url or DATABASE_URL)")
	}

	dir, err := filepath.Abs(mc.dir)
	if err != nil {
		return fmt.Errorf("resolve migrations directory: %w", err)
	}

	mig, err := migrate.New("file://"+dir, mc.databaseURL)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}
	defer func() { _, _ = mig.Close() }()

	if mc.down {
		err = mig.Down()
	} else {
		err = mig.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	version, dirty, err := mig.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		_, err = fmt.Fprintln(cmd.OutOrStdout(), "no migrations applied")
		return err
	case err != nil:
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "schema at version %d (dirty=%t)\n", version, dirty)
	return err
}
