package pseudocode

import (
	"io"
	"log/slog"
	"time"
)

// Config holds configuration options for program execution.
type Config struct {
	// Output receives OUTPUT text as it is produced, in addition to the
	// text captured in the result. If nil, output is only captured.
	Output io.Writer

	// Logger receives Debug records for each executed statement and each
	// state change. If nil, nothing is logged.
	Logger *slog.Logger

	// Seed seeds RAND and RANDOM. Zero picks a time-based seed; set it to
	// get repeatable runs.
	Seed int64

	// Now returns the current time for NOW. Default: time.Now.
	Now func() time.Time
}

// applyDefaults fills in default values for unset Config fields.
func (c *Config) applyDefaults() {
	if c.Logger == nil {
		c.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if c.Now == nil {
		c.Now = time.Now
	}
}
