// Package verify runs the manual verification sequence: identity probe,
// then message-send probe, printing both raw API responses.
package verify

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/edgard/botcheck/internal/database"
	"github.com/edgard/botcheck/internal/probe"
)

// Runner performs a single verification run. Execution is strictly
// linear: identity probe, send probe, done. Any HTTP response is printed
// regardless of status so API failure payloads stay visible; only
// transport failures abort the run.
type Runner struct {
	client  *probe.Client
	store   database.Store // nil disables history recording
	chatID  string
	message string
	out     io.Writer
	logger  *slog.Logger
}

// NewRunner creates a verification runner. A nil store disables probe
// history recording; the verification itself never depends on it.
func NewRunner(client *probe.Client, store database.Store, chatID, message string, out io.Writer, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		client:  client,
		store:   store,
		chatID:  chatID,
		message: message,
		out:     out,
		logger:  logger.With("component", "verify"),
	}
}

// Run executes the verification sequence and prints both responses
// pretty-printed. It returns an error on transport failure or when a
// response body is not JSON.
func (r *Runner) Run(ctx context.Context) error {
	me, err := r.client.GetMe(ctx)
	if err != nil {
		return err
	}
	if err := r.print("Bot Info", me); err != nil {
		return err
	}
	r.record(ctx, me)

	if user, err := me.BotUser(); err == nil {
		r.logger.Info("bot identity retrieved",
			"bot_id", user.ID, "bot_username", user.Username)
	} else {
		r.logger.Warn("identity probe did not return a bot user",
			"status", me.StatusCode, "description", me.Description())
	}

	sent, err := r.client.SendMessage(ctx, r.chatID, r.message)
	if err != nil {
		return err
	}
	if err := r.print("\nSend Message Response", sent); err != nil {
		return err
	}
	r.record(ctx, sent)

	return nil
}

func (r *Runner) print(label string, result *probe.Result) error {
	pretty, err := result.Pretty()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(r.out, "%s: %s\n", label, pretty)
	return err
}

// record saves the probe to the history store. Recording is best effort:
// a store failure must never fail the verification.
func (r *Runner) record(ctx context.Context, result *probe.Result) {
	if r.store == nil {
		return
	}
	p := &database.Probe{
		Method:     result.Method,
		StatusCode: result.StatusCode,
		OK:         result.OK(),
		Response:   string(result.Body),
		DurationMS: result.Duration.Milliseconds(),
	}
	if err := r.store.SaveProbe(ctx, p); err != nil {
		r.logger.Warn("failed to record probe", "method", result.Method, "error", err)
	}
}
