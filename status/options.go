// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package status

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	"github.com/xmidt-org/envprobe/clock"
	"github.com/xmidt-org/envprobe/server"
)

// Options configures a Handler.  The zero value is usable.
type Options struct {
	// Service is the service identity reported by the index route
	Service string

	// Version is the version reported by the index route
	Version string

	// Greeting is the first line of the feature-test fallback body
	Greeting string

	// FeatureTest enables the fallback for unmatched paths and the /crash route
	FeatureTest bool

	// Clock supplies the index timestamp.  If unset, clock.System() is used.
	Clock clock.Interface

	// Terminator is invoked by /crash.  If unset, Exit is used.
	Terminator Terminator

	// Crashes counts /crash requests.  If unset, crashes are not counted.
	Crashes metrics.Counter
}

func (o *Options) service() string {
	if o != nil && len(o.Service) > 0 {
		return o.Service
	}

	return server.DefaultService
}

func (o *Options) version() string {
	if o != nil && len(o.Version) > 0 {
		return o.Version
	}

	return server.DefaultVersion
}

func (o *Options) greeting() string {
	if o != nil && len(o.Greeting) > 0 {
		return o.Greeting
	}

	return server.DefaultGreeting
}

func (o *Options) featureTest() bool {
	return o != nil && o.FeatureTest
}

func (o *Options) clock() clock.Interface {
	if o != nil && o.Clock != nil {
		return o.Clock
	}

	return clock.System()
}

func (o *Options) terminator() Terminator {
	if o != nil && o.Terminator != nil {
		return o.Terminator
	}

	return Exit
}

func (o *Options) crashes() metrics.Counter {
	if o != nil && o.Crashes != nil {
		return o.Crashes
	}

	return discard.NewCounter()
}
