// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"github.com/xmidt-org/envprobe/concurrent"
	"github.com/xmidt-org/envprobe/logging"
	"github.com/xmidt-org/envprobe/server"
	"github.com/xmidt-org/envprobe/status"
	"github.com/xmidt-org/envprobe/xhttp"
)

const (
	applicationName = "envprobe"
)

func envprobe(arguments []string) int {
	b, err := server.NewBootstrap(applicationName, arguments[1:], status.Metrics)
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	} else if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to initialize %s: %s\n", applicationName, err)
		return 1
	}

	defer b.Close()

	var (
		c       = b.Configuration
		handler = status.NewHandler(
			b.Snapshot,
			&status.Options{
				Service:     c.Service,
				Version:     c.Version,
				Greeting:    c.Greeting,
				FeatureTest: c.FeatureTest,
				Terminator:  status.TerminatorFunc(b.Exit),
				Crashes:     b.Registry.NewCounter(status.CrashRequestsTotal),
			},
		)

		primary = xhttp.NewRunnable(
			b.ServerOptions(c.ServerName, c.PrimaryAddress()),
			status.New(handler, c.ServerName, b.Logger, b.Registry),
		)

		runnables = concurrent.RunnableSet{primary}
		servers   = []*xhttp.Runnable{primary}
	)

	if metricsServer := b.MetricsServer(); metricsServer != nil {
		runnables = append(runnables, metricsServer)
		servers = append(servers, metricsServer)
	}

	logging.Info(b.Logger).Log(
		logging.MessageKey(), "configured",
		"featureTest", c.FeatureTest,
		"entries", b.Snapshot.Len(),
	)

	signals := make(chan os.Signal, 10)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signals)

	return b.Run(signals, runnables, servers...)
}

func main() {
	os.Exit(envprobe(os.Args))
}
