// Package clock abstracts the time operations used by the status handlers and the
// heartbeat loop so that tests can drive them without waiting on real time.
package clock

import "time"

// Interface represents the subset of the stdlib time package that envprobe depends on
type Interface interface {
	Now() time.Time
	NewTicker(time.Duration) Ticker
}

type systemClock struct{}

func (sc systemClock) Now() time.Time {
	return time.Now()
}

func (sc systemClock) NewTicker(d time.Duration) Ticker {
	return systemTicker{time.NewTicker(d)}
}

// System returns a clock backed by the time package
func System() Interface {
	return systemClock{}
}
