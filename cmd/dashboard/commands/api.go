package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/aistocks/internal/api"
	"github.com/wonny/aistocks/internal/api/handlers"
	"github.com/wonny/aistocks/internal/dataset"
	"github.com/wonny/aistocks/internal/scheduler"
	"github.com/wonny/aistocks/internal/scheduler/jobs"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Starts the HTTP and WebSocket API server.

The record file is loaded once at startup and reloaded on RELOAD_SCHEDULE.
A failed load serves an empty dataset.

Endpoints:
  GET  /health            - Health check
  GET  /api/catalog       - Instruments, categories, interval presets
  GET  /api/records       - Records inside a time window
  GET  /api/instruments   - Filtered and sorted instrument cards
  GET  /api/view          - Cards and chart series for a selection
  GET  /api/value         - One value on one date
  GET  /api/jobs          - Scheduler statistics
  POST /api/reload        - Reload the record file now
  GET  /ws                - Interactive session

Example:
  go run ./cmd/dashboard api
  go run ./cmd/dashboard api --port 9090`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Config, logger, catalog and record source
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}
	log := a.log

	// 2. Initial load
	data := dataset.New(a.loader, log)
	snap := data.Reload(ctx)
	log.WithFields(map[string]interface{}{
		"source":  snap.Source,
		"records": len(snap.Records),
	}).Info("Initial dataset loaded")

	// 3. Periodic reloads
	reloadJob := jobs.NewDatasetReloadJob(data, a.source, a.cfg.Data.ReloadSchedule, log)
	var sched *scheduler.Scheduler
	if a.cfg.Data.ReloadSchedule != "" {
		sched = scheduler.New(log)
		if err := sched.AddJob(reloadJob); err != nil {
			return fmt.Errorf("schedule reload: %w", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	// 4. Handlers and router
	dashboard, err := handlers.NewDashboardHandler(a.catalog, data, log)
	if err != nil {
		return err
	}
	router := api.NewRouter(a.cfg, api.Handlers{
		Dashboard: dashboard,
		Jobs:      handlers.NewJobsHandler(sched, reloadJob, data, log),
		Sessions:  handlers.NewSessionHandler(a.catalog, data, log),
	}, log)

	// 5. Serve until interrupted
	server := api.New(a.cfg, log, router)

	PrintSuccess(fmt.Sprintf("Server running on http://localhost:%s", a.cfg.Port))
	PrintInfo("Press Ctrl+C to stop")

	if err := server.Run(ctx, 30*time.Second); err != nil {
		return err
	}

	log.Info("Server stopped")
	return nil
}
