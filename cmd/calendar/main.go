package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cleanops/calendar-backend/internal/config"
	"github.com/cleanops/calendar-backend/internal/domain/calendar"
	"github.com/cleanops/calendar-backend/internal/domain/cleaner"
	"github.com/cleanops/calendar-backend/internal/fixtures"
	"github.com/cleanops/calendar-backend/internal/handler/cli"
	"github.com/cleanops/calendar-backend/internal/pkg/cron"
	"github.com/cleanops/calendar-backend/internal/pkg/logging"
	"github.com/cleanops/calendar-backend/internal/pkg/webhook"
	"github.com/cleanops/calendar-backend/internal/repository/memory"
	"github.com/cleanops/calendar-backend/internal/service/aggregator"
	calendarService "github.com/cleanops/calendar-backend/internal/service/calendar"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand(loadService).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadService fetches the calendar data once and serves views from it.
func loadService(ctx context.Context, opts cli.Options) (calendar.CalendarService, error) {
	if opts.Mock {
		os.Setenv("MOCK_DATA", "true")
	}
	if opts.WebhookURL != "" {
		os.Setenv("WEBHOOK_BASE_URL", opts.WebhookURL)
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	// Logs go to stderr so they never mix with the rendered grid.
	logger := logging.New(logging.Options{
		Level:   getLogLevel(),
		Env:     cfg.App.Env,
		Version: cfg.App.Version,
		Output:  os.Stderr,
	})

	var source cleaner.Source
	if cfg.App.MockData {
		source = fixtures.NewMockSource(time.Now().UTC())
	} else {
		source = webhook.NewClient(cfg.Webhook, logger)
	}

	repo := memory.NewSnapshotRepository()
	regions := cleaner.NewRegionDirectory(cleaner.DefaultRegions()...)
	if _, err := cron.NewRefreshJobs(source, repo, regions, nil, logger).Refresh(ctx); err != nil {
		return nil, err
	}
	return calendarService.NewCalendarService(repo, regions, aggregator.New(logger)), nil
}

func getLogLevel() string {
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		return level
	}
	return slog.LevelWarn.String()
}
