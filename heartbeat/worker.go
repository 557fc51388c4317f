// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

// Package heartbeat implements the background worker that reports its configuration once at
// startup and then logs a heartbeat on a fixed interval until shut down.
package heartbeat

import (
	"sync"
	"time"

	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	"github.com/go-kit/log"
	"github.com/xmidt-org/envprobe/clock"
	"github.com/xmidt-org/envprobe/environment"
	"github.com/xmidt-org/envprobe/logging"
	"github.com/xmidt-org/envprobe/xmetrics"
)

const (
	// DefaultInterval is the period between heartbeats when none is configured
	DefaultInterval = 30 * time.Second

	HeartbeatsTotal = "heartbeats_total"
)

// Metrics is the heartbeat module function
func Metrics() []xmetrics.Metric {
	return []xmetrics.Metric{
		{
			Name:      HeartbeatsTotal,
			Type:      xmetrics.CounterType,
			Subsystem: "worker",
			Help:      "The total number of worker heartbeats",
		},
	}
}

// Options configures a Worker.  A nil Options uses all defaults.
type Options struct {
	Logger   log.Logger
	Clock    clock.Interface
	Interval time.Duration

	// Heartbeats counts each completed interval
	Heartbeats metrics.Counter
}

func (o *Options) logger() log.Logger {
	if o != nil && o.Logger != nil {
		return o.Logger
	}

	return logging.DefaultLogger()
}

func (o *Options) clock() clock.Interface {
	if o != nil && o.Clock != nil {
		return o.Clock
	}

	return clock.System()
}

func (o *Options) interval() time.Duration {
	if o != nil && o.Interval > 0 {
		return o.Interval
	}

	return DefaultInterval
}

func (o *Options) heartbeats() metrics.Counter {
	if o != nil && o.Heartbeats != nil {
		return o.Heartbeats
	}

	return discard.NewCounter()
}

// Worker is a concurrent.Runnable that emits one heartbeat per interval
type Worker struct {
	snapshot   environment.Snapshot
	logger     log.Logger
	clock      clock.Interface
	interval   time.Duration
	heartbeats metrics.Counter

	once sync.Once
}

// New creates a Worker that reports on the given snapshot
func New(s environment.Snapshot, o *Options) *Worker {
	return &Worker{
		snapshot:   s,
		logger:     o.logger(),
		clock:      o.clock(),
		interval:   o.interval(),
		heartbeats: o.heartbeats(),
	}
}

// Run logs the startup banner and starts the heartbeat loop.  Closing shutdown stops the loop.
// This method is idempotent.
func (w *Worker) Run(waitGroup *sync.WaitGroup, shutdown <-chan struct{}) error {
	w.once.Do(func() {
		info := logging.Info(w.logger)
		info.Log(
			logging.MessageKey(), "starting worker",
			"environment", w.snapshot.Get("APP_ENV", "unknown"),
			"database", w.snapshot.Present(environment.DatabaseCheck.Key),
			"redis", w.snapshot.Present(environment.CacheCheck.Key),
			"rabbitmq", w.snapshot.Present(environment.QueueCheck.Key),
			"interval", w.interval,
		)

		ticker := w.clock.NewTicker(w.interval)
		waitGroup.Add(1)
		go w.loop(waitGroup, shutdown, ticker)
	})

	return nil
}

func (w *Worker) loop(waitGroup *sync.WaitGroup, shutdown <-chan struct{}, ticker clock.Ticker) {
	defer waitGroup.Done()
	defer ticker.Stop()

	info := logging.Info(w.logger)
	for {
		info.Log(logging.MessageKey(), "waiting for jobs")
		select {
		case <-shutdown:
			info.Log(logging.MessageKey(), "worker stopped")
			return

		case <-ticker.C():
			w.heartbeats.Add(1)
			info.Log(logging.MessageKey(), "heartbeat OK")
		}
	}
}
