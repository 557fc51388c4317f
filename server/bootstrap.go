package server

import (
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/go-kit/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/xmidt-org/envprobe/concurrent"
	"github.com/xmidt-org/envprobe/environment"
	"github.com/xmidt-org/envprobe/logging"
	"github.com/xmidt-org/envprobe/xhttp"
	"github.com/xmidt-org/envprobe/xmetrics"
)

// Bootstrap holds everything an envprobe binary builds before it starts its own components
type Bootstrap struct {
	Name          string
	Configuration *Configuration
	Viper         *viper.Viper
	Logger        log.Logger
	Snapshot      environment.Snapshot
	Registry      xmetrics.Registry

	closer io.Closer
}

// NewBootstrap reads configuration from the arguments (excluding the program name), the
// environment, and any configuration file.  It then creates the logger, captures the environment
// snapshot with any dotenv overlays, and builds the metrics registry from this package's Metrics
// and the given modules.
func NewBootstrap(applicationName string, arguments []string, modules ...xmetrics.Module) (*Bootstrap, error) {
	var (
		f = pflag.NewFlagSet(applicationName, pflag.ContinueOnError)
		v = NewViper(applicationName)
	)

	c, err := Initialize(applicationName, arguments, f, v)
	if err != nil {
		return nil, err
	}

	lo, err := LoggingOptions(v)
	if err != nil {
		return nil, err
	}

	logger, closer := logging.New(lo)
	b := &Bootstrap{
		Name:          applicationName,
		Configuration: c,
		Viper:         v,
		Logger:        log.With(logger, xhttp.ServerKey(), c.ServerName),
		closer:        closer,
	}

	if b.Snapshot, err = environment.WithEnvFiles(environment.Capture(), c.EnvFile...); err != nil {
		b.Close()
		return nil, err
	}

	if b.Registry, err = xmetrics.NewRegistry(&c.Metrics, append([]xmetrics.Module{Metrics}, modules...)...); err != nil {
		b.Close()
		return nil, fmt.Errorf("unable to create metrics registry: %w", err)
	}

	return b, nil
}

// Close flushes and releases the logger's output
func (b *Bootstrap) Close() error {
	return b.closer.Close()
}

// Exit flushes the log and then ends the process with the given code
func (b *Bootstrap) Exit(code int) {
	b.Close()
	os.Exit(code)
}

// ServerOptions produces the xhttp options for a listener with this bootstrap's timeouts
func (b *Bootstrap) ServerOptions(name, address string) xhttp.ServerOptions {
	return xhttp.ServerOptions{
		Logger:            b.Logger,
		Name:              name,
		Address:           address,
		ReadTimeout:       b.Configuration.ReadTimeout,
		ReadHeaderTimeout: b.Configuration.ReadHeaderTimeout,
		WriteTimeout:      b.Configuration.WriteTimeout,
		IdleTimeout:       b.Configuration.IdleTimeout,
		ShutdownTimeout:   b.Configuration.ShutdownTimeout,
		MaxConnections:    b.Configuration.MaxConnections,
		Rejected:          b.Registry.NewCounter(RejectedConnectionsTotal).With(ServerLabel, name),
		Active:            b.Registry.NewGauge(ActiveConnections).With(ServerLabel, name),
	}
}

// MetricsServer returns the Runnable that serves the registry, or nil if the metrics port is 0
func (b *Bootstrap) MetricsServer() *xhttp.Runnable {
	address := b.Configuration.MetricsAddress()
	if len(address) == 0 {
		return nil
	}

	return xhttp.NewRunnable(
		b.ServerOptions(b.Configuration.MetricsServerName(), address),
		MetricsHandler(b.Registry),
	)
}

// Run executes the runnable and blocks until SIGINT or SIGTERM arrives on signals, or until one of
// the servers stops on its own.  Everything is then shut down.  The returned value is the process
// exit code: 0 for a graceful shutdown, 1 if anything failed.
func (b *Bootstrap) Run(signals chan os.Signal, runnable concurrent.Runnable, servers ...*xhttp.Runnable) int {
	waitGroup, shutdown, err := concurrent.Execute(runnable)
	if err != nil {
		logging.Error(b.Logger).Log(logging.MessageKey(), "unable to start", logging.ErrorKey(), err)
		close(shutdown)
		concurrent.WaitTimeout(waitGroup, 2*b.Configuration.ShutdownTimeout)
		return 1
	}

	for _, s := range servers {
		go func(done <-chan struct{}) {
			select {
			case <-done:
				select {
				case signals <- syscall.SIGTERM:
				default:
				}

			case <-shutdown:
			}
		}(s.Done())
	}

	logging.Info(b.Logger).Log(logging.MessageKey(), fmt.Sprintf("%s is up and running", b.Name))
	s := SignalWait(b.Logger, signals, os.Interrupt, syscall.SIGTERM)
	logging.Info(b.Logger).Log(logging.MessageKey(), "shutting down", "signal", s)
	close(shutdown)

	if !concurrent.WaitTimeout(waitGroup, 2*b.Configuration.ShutdownTimeout) {
		logging.Error(b.Logger).Log(logging.MessageKey(), "timed out waiting for shutdown")
		return 1
	}

	code := 0
	for _, s := range servers {
		if err := s.Err(); err != nil {
			logging.Error(b.Logger).Log(logging.MessageKey(), "server failed", logging.ErrorKey(), err)
			code = 1
		}
	}

	return code
}
