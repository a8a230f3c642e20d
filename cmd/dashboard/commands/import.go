package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/aistocks/internal/loader"
	"github.com/wonny/aistocks/internal/store"
	"github.com/wonny/aistocks/pkg/database"
	"github.com/wonny/aistocks/pkg/logger"
)

// importCmd copies a record file into PostgreSQL
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a record file into PostgreSQL",
	Long: `Parses a record file and upserts every (date, instrument) value into
data.stock_snapshots. Unlike the server, a load failure aborts the import.

Requires DATABASE_URL.

Example:
  go run ./cmd/dashboard import --file stock_data.json`,
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required for import")
	}

	path := cfg.Data.File
	if dataFile != "" {
		path = dataFile
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
	defer cancel()

	start := time.Now()
	log := logger.New(cfg)

	records, err := loader.New(loader.NewFileSource(path), log).LoadStrict(ctx)
	if err != nil {
		return err
	}

	db, err := database.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	repo := store.NewRepository(db.Pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}

	rows, err := repo.SaveRecords(ctx, records)
	if err != nil {
		return fmt.Errorf("save records (%d rows written): %w", rows, err)
	}

	log.WithFields(map[string]interface{}{
		"file":     path,
		"records":  len(records),
		"rows":     rows,
		"duration": time.Since(start).String(),
	}).Info("Import completed")

	PrintSuccess(fmt.Sprintf("Imported %d records (%d rows) in %.2fs", len(records), rows, time.Since(start).Seconds()))
	return nil
}
