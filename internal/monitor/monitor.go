// Package monitor implements watch mode: the identity probe runs on a
// cron schedule and failures are reported to the configured channel as
// HTML-formatted alerts.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
	"golang.org/x/sync/errgroup"

	"github.com/edgard/botcheck/internal/config"
	"github.com/edgard/botcheck/internal/database"
	"github.com/edgard/botcheck/internal/probe"
)

// Monitor schedules recurring identity probes using gocron.
type Monitor struct {
	client *probe.Client
	store  database.Store // nil disables history recording
	cfg    config.WatchConfig
	chatID string
	logger *slog.Logger
}

// New creates a monitor. A nil store disables probe history recording.
func New(client *probe.Client, store database.Store, cfg config.WatchConfig, chatID string, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		client: client,
		store:  store,
		cfg:    cfg,
		chatID: chatID,
		logger: logger.With("component", "monitor"),
	}
}

// Run starts the scheduler and blocks until the context is cancelled.
// The first probe fires immediately; subsequent ones follow the cron
// schedule. Shutdown waits for a running probe to complete.
func (m *Monitor) Run(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.CronJob(m.cfg.Schedule, true), // true = use seconds field if present
		gocron.NewTask(func(taskCtx context.Context) {
			m.tick(taskCtx)
		}, ctx),
		gocron.WithName("identity_probe"),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule identity probe: %w", err)
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		m.logger.Info("Starting watch scheduler", "schedule", m.cfg.Schedule, "alert", m.cfg.Alert)
		scheduler.Start()

		<-gCtx.Done()
		m.logger.Info("Shutdown signal received, stopping scheduler...")

		if err := scheduler.Shutdown(); err != nil {
			m.logger.Error("Error during scheduler shutdown", "error", err)
			return fmt.Errorf("scheduler shutdown failed: %w", err)
		}
		return nil
	})

	err = g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	m.logger.Info("Watch mode stopped gracefully.")
	return nil
}

// tick runs one identity probe, records it, and alerts on failure.
func (m *Monitor) tick(ctx context.Context) {
	start := time.Now()

	result, err := m.client.GetMe(ctx)
	if err != nil {
		m.logger.Error("Identity probe failed", "error", err, "duration", time.Since(start))
		m.alert(ctx, fmt.Sprintf("identity probe failed: %v", err))
		return
	}

	m.record(ctx, result)

	if !result.OK() {
		desc := result.Description()
		if desc == "" {
			desc = fmt.Sprintf("unexpected response (status %d)", result.StatusCode)
		}
		m.logger.Warn("Identity probe rejected by API",
			"status", result.StatusCode, "description", desc)
		m.alert(ctx, desc)
		return
	}

	m.logger.Info("Identity probe succeeded",
		"status", result.StatusCode, "duration", result.Duration)
}

// alert sends an HTML-formatted failure notice to the channel.
func (m *Monitor) alert(ctx context.Context, reason string) {
	if !m.cfg.Alert {
		return
	}

	text := fmt.Sprintf("❌ <b>BOT CHECK FAILED</b>\n🕒 %s\n\n%s",
		time.Now().Format("2006-01-02 15:04:05"), reason)

	result, err := m.client.SendAlert(ctx, m.chatID, text)
	if err != nil {
		m.logger.Error("Failed to send alert", "error", err)
		return
	}
	if !result.OK() {
		m.logger.Error("Alert rejected by API",
			"status", result.StatusCode, "description", result.Description())
	}
}

func (m *Monitor) record(ctx context.Context, result *probe.Result) {
	if m.store == nil {
		return
	}
	p := &database.Probe{
		Method:     result.Method,
		StatusCode: result.StatusCode,
		OK:         result.OK(),
		Response:   string(result.Body),
		DurationMS: result.Duration.Milliseconds(),
	}
	if err := m.store.SaveProbe(ctx, p); err != nil {
		m.logger.Warn("failed to record probe", "method", result.Method, "error", err)
	}
}
