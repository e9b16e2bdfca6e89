package tasks

import "time"

// Config holds configuration for the task queue system.
type Config struct {
	// Enabled turns the background queue on. When off, downloads run inline.
	Enabled bool

	// Workers is the number of concurrent task workers. Default: 2
	Workers int

	// ReleaseAfter is when stuck tasks are released back to queue. Default: 45m
	ReleaseAfter time.Duration

	// CleanupInterval is how often to clean up completed tasks. Default: 1h
	CleanupInterval time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Enabled:         true,
		Workers:         2,
		ReleaseAfter:    45 * time.Minute,
		CleanupInterval: 1 * time.Hour,
	}
}
