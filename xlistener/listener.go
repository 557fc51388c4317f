// Package xlistener decorates a net.Listener with connection accounting and an optional
// cap on the number of open connections.
package xlistener

import (
	"errors"
	"net"
	"strconv"
	"sync"
	"syscall"

	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	"github.com/go-kit/log"
	"github.com/xmidt-org/envprobe/logging"
)

// netListen is the factory function for creating a net.Listener.  Only tests change this variable.
var netListen = net.Listen

// Options defines the available options for configuring a listener
type Options struct {
	// Logger is the go-kit logger to use for output.  If unset, logging.DefaultLogger() is used.
	Logger log.Logger

	// MaxConnections is the maximum number of open connections the listener will permit.  If this
	// value is not positive, there is no limit.
	MaxConnections int

	// Rejected is incremented each time the listener rejects a connection.  If unset, a discard Counter is used.
	Rejected metrics.Counter

	// Active tracks the number of open connections.  If unset, a discard Gauge is used.
	Active metrics.Gauge

	// Network is the network to listen on.  Only used if Next is unset.  Defaults to "tcp".
	Network string

	// Address is the address to listen on.  Only used if Next is unset.  Defaults to ":http".
	Address string

	// Next is the net.Listener to decorate.  If set, Network and Address are ignored.
	Next net.Listener
}

// New constructs a net.Listener from a set of options.  When Next is unset, a new listener is opened
// and the caller owns it: it should be closed if higher level errors occur.
func New(o Options) (net.Listener, error) {
	if o.Logger == nil {
		o.Logger = logging.DefaultLogger()
	}

	var semaphore chan struct{}
	if o.MaxConnections > 0 {
		semaphore = make(chan struct{}, o.MaxConnections)
	}

	if o.Rejected == nil {
		o.Rejected = discard.NewCounter()
	}

	if o.Active == nil {
		o.Active = discard.NewGauge()
	}

	next := o.Next
	if next == nil {
		if len(o.Network) == 0 {
			o.Network = "tcp"
		}

		if len(o.Address) == 0 {
			o.Address = ":http"
		}

		var err error
		if next, err = netListen(o.Network, o.Address); err != nil {
			return nil, err
		}
	}

	return &listener{
		Listener:  next,
		logger:    log.With(o.Logger, "listenNetwork", next.Addr().Network(), "listenAddress", next.Addr().String()),
		semaphore: semaphore,
		rejected:  o.Rejected,
		active:    o.Active,
	}, nil
}

// listener decorates a net.Listener with metrics and optional maximum connection enforcement
type listener struct {
	net.Listener
	logger    log.Logger
	semaphore chan struct{}
	rejected  metrics.Counter
	active    metrics.Gauge
}

// acquire obtains a semaphore slot without blocking.  Without a semaphore, it always succeeds.
func (l *listener) acquire() bool {
	if l.semaphore == nil {
		l.active.Add(1.0)
		return true
	}

	select {
	case l.semaphore <- struct{}{}:
		l.active.Add(1.0)
		return true
	default:
		return false
	}
}

func (l *listener) release() {
	l.active.Add(-1.0)
	if l.semaphore != nil {
		<-l.semaphore
	}
}

// Accept waits for the next connection that fits under MaxConnections.  Connections over the
// limit are closed immediately and counted as rejected.
func (l *listener) Accept() (net.Conn, error) {
	for {
		c, err := l.Listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil, err
			}

			sysValue := ""
			var errno syscall.Errno
			if errors.As(err, &errno) {
				sysValue = "0x" + strconv.FormatInt(int64(errno), 16)
			}

			logging.Error(l.logger).Log(logging.MessageKey(), "failed to accept connection", logging.ErrorKey(), err, "sysValue", sysValue)
			if errno == syscall.ENFILE {
				return nil, syscall.EMFILE
			}

			return nil, err
		}

		if !l.acquire() {
			logging.Warn(l.logger).Log(logging.MessageKey(), "rejected connection", "remoteAddress", c.RemoteAddr().String())
			l.rejected.Add(1.0)
			c.Close()
			continue
		}

		logging.Debug(l.logger).Log(logging.MessageKey(), "accepted connection", "remoteAddress", c.RemoteAddr().String())
		return &conn{Conn: c, release: l.release}, nil
	}
}

// conn reports back to its listener when closed
type conn struct {
	net.Conn
	releaseOnce sync.Once
	release     func()
}

// Close closes the decorated connection and releases its slot.  Release happens at most once.
func (c *conn) Close() error {
	err := c.Conn.Close()
	c.releaseOnce.Do(c.release)
	return err
}
