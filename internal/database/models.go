package database

import (
	"time"
)

// Probe represents one verification request made against the Bot API.
// Both manual verification runs and scheduled watch ticks record their
// probes here so past results can be reviewed with the history command.
type Probe struct {
	ID        uint      `db:"id"`
	CreatedAt time.Time `db:"created_at"`

	Method     string `db:"method"` // Bot API method name (getMe, sendMessage)
	StatusCode int    `db:"status_code"`
	OK         bool   `db:"ok"`
	Response   string `db:"response"` // raw response body as received
	DurationMS int64  `db:"duration_ms"`
}
