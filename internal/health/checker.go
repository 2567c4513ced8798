// Package health runs the background storage probe. The checker owns no
// request-path logic; it only publishes whether the store is reachable.
package health

import (
	"context"
	"database/sql"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

const DefaultInterval = 2 * time.Second

type Checker struct {
	DB       *sql.DB
	Interval time.Duration

	serving atomic.Bool
}

func New(db *sql.DB, interval time.Duration) *Checker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	c := &Checker{DB: db, Interval: interval}
	// Optimistic until the first probe completes.
	c.serving.Store(true)
	return c
}

// Serving reports the result of the most recent probe.
func (c *Checker) Serving() bool { return c.serving.Load() }

// Run probes the store until the context is cancelled. It is meant to be
// spawned once at startup; cancellation stops the loop promptly.
func (c *Checker) Run(ctx context.Context) {
	logrus.Info("starting health check loop")
	ticker := time.NewTicker(c.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.probe(ctx)
		}
	}
}

func (c *Checker) probe(ctx context.Context) {
	logrus.Debug("running health check query")
	var one int
	if err := c.DB.QueryRowContext(ctx, `SELECT 1`).Scan(&one); err != nil {
		if ctx.Err() == nil {
			logrus.Errorf("health check failed: %v", err)
		}
		c.serving.Store(false)
		return
	}
	c.serving.Store(true)
}
