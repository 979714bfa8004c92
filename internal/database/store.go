package database

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the interface for probe history operations.
// Methods accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// SaveProbe inserts a new probe record.
	SaveProbe(ctx context.Context, probe *Probe) error

	// RecentProbes retrieves the most recent 'limit' probe records.
	RecentProbes(ctx context.Context, limit int) ([]Probe, error)
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// SaveProbe inserts a new probe record.
func (s *sqlxStore) SaveProbe(ctx context.Context, probe *Probe) error {
	if probe == nil {
		return fmt.Errorf("cannot save nil probe")
	}
	if probe.Method == "" {
		return fmt.Errorf("probe must have a non-empty method")
	}

	probe.CreatedAt = time.Now().UTC()

	query := `
        INSERT INTO probes (created_at, method, status_code, ok, response, duration_ms)
        VALUES (:created_at, :method, :status_code, :ok, :response, :duration_ms);
    `

	result, err := s.db.NamedExecContext(ctx, query, probe)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving probe", "method", probe.Method, "error", err)
		return fmt.Errorf("failed to save probe (%s): %w", probe.Method, err)
	}

	if id, err := result.LastInsertId(); err == nil {
		//nolint:gosec // integer overflow conversion is acceptable here
		probe.ID = uint(id)
	} else {
		s.logger.WarnContext(ctx, "Could not retrieve last insert ID after saving probe",
			"method", probe.Method, "error", err)
	}

	s.logger.DebugContext(ctx, "Probe saved",
		"method", probe.Method, "status", probe.StatusCode, "ok", probe.OK)
	return nil
}

// RecentProbes retrieves the most recent 'limit' probe records.
func (s *sqlxStore) RecentProbes(ctx context.Context, limit int) ([]Probe, error) {
	if limit <= 0 {
		limit = 20
	} else if limit > 100 {
		limit = 100
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var probes []Probe
	query := `
        SELECT id, created_at, method, status_code, ok, response, duration_ms
        FROM probes
        ORDER BY created_at DESC, id DESC
        LIMIT ?;
    `

	if err := s.db.SelectContext(ctx, &probes, query, limit); err != nil {
		s.logger.ErrorContext(ctx, "Error fetching recent probes", "limit", limit, "error", err)
		return nil, fmt.Errorf("failed to fetch recent probes: %w", err)
	}

	return probes, nil
}
