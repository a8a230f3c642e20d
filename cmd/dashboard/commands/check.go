package commands

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/aistocks/internal/catalog"
	"github.com/wonny/aistocks/pkg/database"
	"github.com/wonny/aistocks/pkg/redis"
)

// checkCmd verifies configuration and connectivity
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check configuration, data source and connections",
	Long: `Runs the startup path without serving:

- loads configuration and the catalog
- loads the record file strictly (errors are reported, not replaced)
- pings PostgreSQL when DATABASE_URL is set, with pool statistics
- pings Redis when REDIS_ENABLED=true

Example:
  go run ./cmd/dashboard check
  go run ./cmd/dashboard check --file stock_data.json`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	out := os.Stdout
	PrintHeader(out, "AI Stocks Dashboard Check")

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	PrintSuccess(fmt.Sprintf("Config loaded (ENV: %s, source: %s)", a.cfg.Env, a.source.Name()))

	hash, err := catalog.Hash(a.catalog)
	if err != nil {
		return err
	}
	PrintSuccess(fmt.Sprintf("Catalog: %d instruments, %d categories (sha256 %s)",
		len(a.catalog.Instruments), len(a.catalog.Categories), hash[:12]))

	records, err := a.loader.LoadStrict(ctx)
	if err != nil {
		return fmt.Errorf("record source: %w", err)
	}
	if len(records) == 0 {
		PrintWarning("Record source is empty")
	} else {
		PrintSuccess(fmt.Sprintf("Records: %d (%s to %s)",
			len(records), records[0].DateString(), records[len(records)-1].DateString()))
	}

	if a.cfg.Database.URL != "" {
		if err := checkDatabase(ctx, a); err != nil {
			return err
		}
	}

	if a.redis.Enabled() {
		if err := a.redis.Redis().Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}
		PrintSuccess(fmt.Sprintf("Redis reachable (rate limit %d/%s)", redis.DataSourceRateLimit.Limit, redis.DataSourceRateLimit.Window))
	}

	fmt.Fprintln(out)
	PrintSuccess("All checks passed")
	return nil
}

func checkDatabase(ctx context.Context, a *app) error {
	db := a.db
	if db == nil {
		var err error
		db, err = database.New(ctx, a.cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()
	}

	status, err := db.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("database health check: %w", err)
	}

	PrintSuccess(fmt.Sprintf("Database %s reachable in %v", redactURL(a.cfg.Database.URL), status.ResponseTime))
	PrintKeyValue(os.Stdout, "Max Connections", fmt.Sprintf("%d", status.Stats.MaxConns), 17)
	PrintKeyValue(os.Stdout, "Total Connections", fmt.Sprintf("%d", status.Stats.TotalConns), 17)
	PrintKeyValue(os.Stdout, "Idle Connections", fmt.Sprintf("%d", status.Stats.IdleConns), 17)
	return nil
}

// redactURL hides the password of a connection URL
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "(invalid url)"
	}
	return u.Redacted()
}
