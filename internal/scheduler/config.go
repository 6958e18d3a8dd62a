package scheduler

import "time"

// Config controls sweep cadence and batch sizes.
type Config struct {
	RunInterval   time.Duration
	BatchSize     int
	BookingMaxAge time.Duration
}

func DefaultConfig() Config {
	return Config{
		RunInterval:   time.Minute,
		BatchSize:     100,
		BookingMaxAge: 30 * 24 * time.Hour,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.RunInterval <= 0 {
		c.RunInterval = defaults.RunInterval
	}
	if c.BatchSize <= 0 {
		c.BatchSize = defaults.BatchSize
	}
	if c.BookingMaxAge <= 0 {
		c.BookingMaxAge = defaults.BookingMaxAge
	}
	return c
}
