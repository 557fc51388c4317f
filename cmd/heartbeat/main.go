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
	"github.com/xmidt-org/envprobe/heartbeat"
	"github.com/xmidt-org/envprobe/server"
	"github.com/xmidt-org/envprobe/xhttp"
)

const (
	applicationName = "heartbeat"
)

func run(arguments []string) int {
	b, err := server.NewBootstrap(applicationName, arguments[1:], heartbeat.Metrics)
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	} else if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to initialize %s: %s\n", applicationName, err)
		return 1
	}

	defer b.Close()

	var (
		worker = heartbeat.New(
			b.Snapshot,
			&heartbeat.Options{
				Logger:     b.Logger,
				Interval:   b.Configuration.HeartbeatInterval,
				Heartbeats: b.Registry.NewCounter(heartbeat.HeartbeatsTotal),
			},
		)

		runnables = concurrent.RunnableSet{worker}
		servers   []*xhttp.Runnable
	)

	if metricsServer := b.MetricsServer(); metricsServer != nil {
		runnables = append(runnables, metricsServer)
		servers = append(servers, metricsServer)
	}

	signals := make(chan os.Signal, 10)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signals)

	return b.Run(signals, runnables, servers...)
}

func main() {
	os.Exit(run(os.Args))
}
