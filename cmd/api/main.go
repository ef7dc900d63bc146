package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cleanops/calendar-backend/internal/config"
	"github.com/cleanops/calendar-backend/internal/domain/booking"
	"github.com/cleanops/calendar-backend/internal/domain/cleaner"
	"github.com/cleanops/calendar-backend/internal/domain/timegrid"
	"github.com/cleanops/calendar-backend/internal/fixtures"
	appHTTP "github.com/cleanops/calendar-backend/internal/handler/http"
	"github.com/cleanops/calendar-backend/internal/pkg/cron"
	"github.com/cleanops/calendar-backend/internal/pkg/logging"
	"github.com/cleanops/calendar-backend/internal/pkg/sse"
	"github.com/cleanops/calendar-backend/internal/pkg/webhook"
	"github.com/cleanops/calendar-backend/internal/repository/memory"
	"github.com/cleanops/calendar-backend/internal/service/aggregator"
	bookingService "github.com/cleanops/calendar-backend/internal/service/booking"
	calendarService "github.com/cleanops/calendar-backend/internal/service/calendar"
	"golang.org/x/sync/errgroup"
)

// upstream serves calendar data and accepts bookings.
type upstream interface {
	cleaner.Source
	booking.Gateway
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logger := logging.New(logging.Options{
		Level:   cfg.App.LogLevel,
		Env:     cfg.App.Env,
		Version: cfg.App.Version,
	})
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var source upstream
	if cfg.App.MockData {
		week := timegrid.WeekStart(time.Now().UTC())
		logger.Warn("Serving built-in demo data", "week", timegrid.WeekKey(week))
		source = fixtures.NewMockSource(week)
	} else {
		source = webhook.NewClient(cfg.Webhook, logger)
	}

	snapshotRepo := memory.NewSnapshotRepository()
	regions := cleaner.NewRegionDirectory(cleaner.DefaultRegions()...)
	hub := sse.NewHub()

	refreshJobs := cron.NewRefreshJobs(source, snapshotRepo, regions, hub, logger)
	scheduler := cron.NewScheduler(ctx, logger)
	refreshJobs.RegisterJobs(scheduler, cfg.Refresh.Interval)

	calendarSvc := calendarService.NewCalendarService(snapshotRepo, regions, aggregator.New(logger))
	bookingSvc := bookingService.NewBookingService(source, snapshotRepo, refreshJobs, logger)

	calendarHandler := appHTTP.NewCalendarHandler(calendarSvc, refreshJobs)
	bookingHandler := appHTTP.NewBookingHandler(bookingSvc)
	streamHandler := appHTTP.NewStreamHandler(hub, calendarSvc)

	router := appHTTP.NewRouter(
		logger,
		cfg.CORS.AllowedOrigins,
		calendarHandler,
		bookingHandler,
		streamHandler,
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	scheduler.Start()
	defer scheduler.Stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server running", "addr", server.Addr, "mock_data", cfg.App.MockData)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
