package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"

	httpapi "github.com/i474232898/holiday-planner/internal/api/http"
	"github.com/i474232898/holiday-planner/internal/logging"
	"github.com/i474232898/holiday-planner/internal/scheduler"
	"github.com/i474232898/holiday-planner/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the holiday list over HTTP, optionally re-importing on a schedule",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	log := logging.New("serve")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, backend, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}

	// Scheduler that periodically imports the year window and saves it.
	var job scheduler.Job
	if cfg.Source != "none" {
		job = func(ctx context.Context) error {
			summary, err := importWindow(ctx, cfg, st, time.Now())
			if err != nil {
				return err
			}
			log.Info("sync imported holidays", "added", summary.Added, "failed_years", len(summary.FailedYears))
			if summary.Added == 0 {
				return nil
			}
			return backend.Save(ctx, st.All())
		}
	}
	sched := scheduler.New(cfg.SyncInterval, job, logging.New("scheduler"))
	if err := sched.Start(); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer sched.Stop()

	app := newServer(st, sched)

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "port", cfg.Port)
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("fiber server stopped: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("error during shutdown", "error", err)
	}
	return nil
}

// newServer builds the Fiber app with middleware, health check and API routes.
// sched may be nil.
func newServer(st *store.HolidayStore, sched *scheduler.Scheduler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "holiday-planner",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "ok",
			"service":  "holiday-planner",
			"holidays": st.Count(),
			"sync":     syncStatus(sched),
		})
	})

	httpapi.RegisterRoutes(app, st)
	return app
}

func syncStatus(sched *scheduler.Scheduler) fiber.Map {
	if sched == nil || !sched.Enabled() {
		return fiber.Map{"enabled": false}
	}
	lastRun, runs, lastErr := sched.Status()
	status := fiber.Map{"enabled": true, "runs": runs}
	if !lastRun.IsZero() {
		status["last_run"] = lastRun.UTC().Format(time.RFC3339)
	}
	if lastErr != nil {
		status["last_error"] = lastErr.Error()
	}
	return status
}
