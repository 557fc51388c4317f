package xhttp

import (
	"context"
	"errors"
	stdlog "log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/log"
	"github.com/xmidt-org/envprobe/logging"
	"github.com/xmidt-org/envprobe/xlistener"
)

var (
	serverKey interface{} = "server"
)

// ServerKey returns the contextual logging key for the server name
func ServerKey() interface{} {
	return serverKey
}

// NewServerLogger adapts a go-kit Logger onto a golang Logger in a way that is appropriate
// for http.Server.ErrorLog.
func NewServerLogger(logger log.Logger) *stdlog.Logger {
	if logger == nil {
		logger = logging.DefaultLogger()
	}

	return stdlog.New(
		log.NewStdlibAdapter(logging.Error(logger)),
		"", // having a prefix gives the adapter trouble
		stdlog.LstdFlags|stdlog.LUTC,
	)
}

// NewServerConnStateLogger adapts a go-kit Logger onto a connection state handler appropriate
// for http.Server.ConnState.  Connection states are logged at debug level.
func NewServerConnStateLogger(logger log.Logger) func(net.Conn, http.ConnState) {
	if logger == nil {
		logger = logging.DefaultLogger()
	}

	debug := logging.Debug(logger)
	return func(c net.Conn, cs http.ConnState) {
		debug.Log(
			"remoteAddress", c.RemoteAddr(),
			"state", cs,
		)
	}
}

// StartOptions represents the subset of server options that have to do with how
// an HTTP server is started.
type StartOptions struct {
	// Logger is the go-kit Logger to use for server startup and error logging.  If not
	// supplied, logging.DefaultLogger() is used instead.
	Logger log.Logger

	// Listener is the optional net.Listener to use.  If not supplied, the http.Server default
	// listener is used.
	Listener net.Listener

	// DisableKeepAlives indicates whether the server should honor keep alives
	DisableKeepAlives bool
}

// NewStarter returns a starter closure for the given HTTP server.  The start options are first
// applied to the server instance, and the server instance must not have already been started prior
// to invoking this method.
//
// The returned closure invokes Serve when a Listener is configured and ListenAndServe otherwise.
func NewStarter(o StartOptions, s httpServer) func() error {
	if o.Logger == nil {
		o.Logger = logging.DefaultLogger()
	}

	s.SetKeepAlivesEnabled(!o.DisableKeepAlives)

	var starter func() error
	if o.Listener != nil {
		starter = func() error {
			return s.Serve(o.Listener)
		}
	} else {
		starter = s.ListenAndServe
	}

	return func() error {
		logging.Info(o.Logger).Log(logging.MessageKey(), "starting server")
		err := starter()
		if errors.Is(err, http.ErrServerClosed) {
			logging.Info(o.Logger).Log(logging.MessageKey(), "server closed")
		} else {
			logging.Error(o.Logger).Log(logging.MessageKey(), "server exited", logging.ErrorKey(), err)
		}

		return err
	}
}

// httpServer exposes the set of methods expected of an http.Server by this package.
type httpServer interface {
	ListenAndServe() error
	Serve(net.Listener) error
	SetKeepAlivesEnabled(bool)
}

// ServerOptions describes the superset of options for both construction an http.Server and
// starting it.
type ServerOptions struct {
	// Logger is the go-kit Logger to use for server startup and error logging.  If not
	// supplied, logging.DefaultLogger() is used instead.
	Logger log.Logger

	// Name is the human-readable server name placed into every log entry
	Name string

	// Address is the bind address of the server.  If not supplied, defaults to the internal net/http default.
	Address string

	// ReadTimeout is the maximum duration for reading the entire request.  If not supplied, defaults to the
	// internal net/http default.
	ReadTimeout time.Duration

	// ReadHeaderTimeout is the amount of time allowed to read request headers.  If not supplied, defaults to
	// the internal net/http default.
	ReadHeaderTimeout time.Duration

	// WriteTimeout is the maximum duration before timing out writes of the response.  If not supplied, defaults
	// to the internal net/http default.
	WriteTimeout time.Duration

	// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled.
	// If not supplied, defaults to the internal net/http default.
	IdleTimeout time.Duration

	// MaxHeaderBytes controls the maximum number of bytes the server will read parsing the request header's
	// keys and values.  If not supplied, defaults to the internal net/http default.
	MaxHeaderBytes int

	// ShutdownTimeout bounds how long a graceful shutdown waits for active connections.
	// If not supplied, DefaultShutdownTimeout is used.
	ShutdownTimeout time.Duration

	// Listener is the optional net.Listener to use.  If not supplied, the http.Server default
	// listener is used.
	Listener net.Listener

	// DisableKeepAlives indicates whether the server should honor keep alives
	DisableKeepAlives bool

	// MaxConnections caps the number of open connections accepted by a Runnable.  Nonpositive means no limit.
	MaxConnections int

	// Rejected counts connections refused because of MaxConnections
	Rejected metrics.Counter

	// Active tracks the number of open connections
	Active metrics.Gauge
}

// DefaultShutdownTimeout is used when ServerOptions.ShutdownTimeout is unset
const DefaultShutdownTimeout = 5 * time.Second

func (so *ServerOptions) logger() log.Logger {
	logger := so.Logger
	if logger == nil {
		logger = logging.DefaultLogger()
	}

	return log.With(logger,
		ServerKey(), so.Name,
		"address", so.Address,
	)
}

func (so *ServerOptions) shutdownTimeout() time.Duration {
	if so.ShutdownTimeout > 0 {
		return so.ShutdownTimeout
	}

	return DefaultShutdownTimeout
}

// StartOptions produces a StartOptions with the corresponding values from this ServerOptions
func (so *ServerOptions) StartOptions() StartOptions {
	return StartOptions{
		Logger:            so.logger(),
		Listener:          so.Listener,
		DisableKeepAlives: so.DisableKeepAlives,
	}
}

// NewServer creates a Server from a supplied set of options.
func NewServer(o ServerOptions, handler http.Handler) *http.Server {
	logger := o.logger()
	return &http.Server{
		Addr:              o.Address,
		Handler:           handler,
		ReadTimeout:       o.ReadTimeout,
		ReadHeaderTimeout: o.ReadHeaderTimeout,
		WriteTimeout:      o.WriteTimeout,
		IdleTimeout:       o.IdleTimeout,
		MaxHeaderBytes:    o.MaxHeaderBytes,
		ErrorLog:          NewServerLogger(logger),
		ConnState:         NewServerConnStateLogger(logger),
	}
}

// Runnable binds an http.Server to the concurrent.Runnable lifecycle.  Run starts serving in the
// background, and closing the shutdown channel gracefully shuts the server down.
type Runnable struct {
	options ServerOptions
	server  *http.Server

	once sync.Once
	done chan struct{}
	err  error
}

// NewRunnable creates a Runnable that serves the given handler with the supplied options
func NewRunnable(o ServerOptions, handler http.Handler) *Runnable {
	return &Runnable{
		options: o,
		server:  NewServer(o, handler),
		done:    make(chan struct{}),
	}
}

// Server returns the underlying http.Server
func (r *Runnable) Server() *http.Server {
	return r.server
}

// listen opens the Runnable's listener, decorated with connection accounting
func (r *Runnable) listen(logger log.Logger) (net.Listener, error) {
	return xlistener.New(xlistener.Options{
		Logger:         logger,
		MaxConnections: r.options.MaxConnections,
		Rejected:       r.options.Rejected,
		Active:         r.options.Active,
		Address:        r.options.Address,
		Next:           r.options.Listener,
	})
}

// Run opens the listener and starts serving in the background.  A listener that cannot be
// opened is returned as an error.  This method is idempotent.
func (r *Runnable) Run(waitGroup *sync.WaitGroup, shutdown <-chan struct{}) (err error) {
	r.once.Do(func() {
		logger := r.options.logger()

		var l net.Listener
		if l, err = r.listen(logger); err != nil {
			logging.Error(logger).Log(logging.MessageKey(), "unable to listen", logging.ErrorKey(), err)
			r.err = err
			close(r.done)
			return
		}

		so := r.options.StartOptions()
		so.Listener = l
		starter := NewStarter(so, r.server)

		waitGroup.Add(2)
		go func() {
			defer waitGroup.Done()
			defer close(r.done)
			if err := starter(); !errors.Is(err, http.ErrServerClosed) {
				r.err = err
			}
		}()

		go func() {
			defer waitGroup.Done()
			select {
			case <-shutdown:
			case <-r.done:
				return
			}

			ctx, cancel := context.WithTimeout(context.Background(), r.options.shutdownTimeout())
			defer cancel()
			if err := r.server.Shutdown(ctx); err != nil {
				logging.Error(logger).Log(logging.MessageKey(), "graceful shutdown failed", logging.ErrorKey(), err)
				r.server.Close()
			}
		}()
	})

	return
}

// Done returns a channel that is closed once the server has stopped serving, for any reason
func (r *Runnable) Done() <-chan struct{} {
	return r.done
}

// Err returns the error that stopped the server, or nil if the server is still running or
// was shut down gracefully.  Err should only be consulted after Done is closed.
func (r *Runnable) Err() error {
	select {
	case <-r.done:
		return r.err
	default:
		return nil
	}
}
