package xlistener

import (
	"errors"
	"net"
	"syscall"
	"testing"
	"time"

	"github.com/go-kit/kit/metrics/generic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xmidt-org/envprobe/logging"
)

func testNewDefault(t *testing.T) {
	defer func() { netListen = net.Listen }()

	var (
		assert       = assert.New(t)
		require      = require.New(t)
		expectedNext = new(mockListener)
		listenAddr   = new(mockAddr)
	)

	listenAddr.On("Network").Return("tcp").Once()
	listenAddr.On("String").Return(":http").Once()
	expectedNext.On("Addr").Return(listenAddr).Twice()

	netListen = func(network, address string) (net.Listener, error) {
		assert.Equal("tcp", network)
		assert.Equal(":http", address)
		return expectedNext, nil
	}

	l, err := New(Options{})
	require.NoError(err)
	require.NotNil(l)

	assert.Equal(expectedNext, l.(*listener).Listener)
	assert.Nil(l.(*listener).semaphore)
	assert.NotNil(l.(*listener).rejected)
	assert.NotNil(l.(*listener).active)

	expectedNext.AssertExpectations(t)
	listenAddr.AssertExpectations(t)
}

func testNewListenError(t *testing.T) {
	defer func() { netListen = net.Listen }()

	var (
		assert        = assert.New(t)
		expectedError = errors.New("expected")
	)

	netListen = func(network, address string) (net.Listener, error) {
		return nil, expectedError
	}

	l, actualError := New(Options{Address: ":8080"})
	assert.Nil(l)
	assert.Equal(expectedError, actualError)
}

func TestNew(t *testing.T) {
	t.Run("Default", testNewDefault)
	t.Run("ListenError", testNewListenError)
}

func testListenerAcceptError(t *testing.T, maxConnections int) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		rejected      = generic.NewCounter("test")
		active        = generic.NewGauge("test")
		expectedError = errors.New("expected")
		expectedNext  = new(mockListener)
		listenAddr    = new(mockAddr)
	)

	listenAddr.On("Network").Return("tcp").Once()
	listenAddr.On("String").Return(":http").Once()
	expectedNext.On("Addr").Return(listenAddr).Twice()
	expectedNext.On("Accept").Return(nil, expectedError).Once()
	expectedNext.On("Accept").Return(nil, syscall.ENFILE).Once()

	l, err := New(Options{
		Logger:         logging.NewTestLogger(nil, t),
		MaxConnections: maxConnections,
		Rejected:       rejected,
		Active:         active,
		Next:           expectedNext,
	})

	require.NoError(err)
	require.NotNil(l)

	c, actualError := l.Accept()
	assert.Nil(c)
	assert.Equal(expectedError, actualError)

	c, actualError = l.Accept()
	assert.Nil(c)
	assert.Equal(syscall.EMFILE, actualError)

	assert.Equal(0.0, rejected.Value())
	assert.Equal(0.0, active.Value())

	listenAddr.AssertExpectations(t)
	expectedNext.AssertExpectations(t)
}

func dial(t *testing.T, l net.Listener) net.Conn {
	c, err := net.DialTimeout("tcp", l.Addr().String(), 5*time.Second)
	require.NoError(t, err)
	return c
}

func testListenerMaxConnections(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		rejected = generic.NewCounter("test")
		active   = generic.NewGauge("test")
	)

	l, err := New(Options{
		Logger:         logging.NewTestLogger(nil, t),
		MaxConnections: 1,
		Rejected:       rejected,
		Active:         active,
		Network:        "tcp",
		Address:        "127.0.0.1:0",
	})

	require.NoError(err)
	defer l.Close()

	first := dial(t, l)
	defer first.Close()

	accepted, err := l.Accept()
	require.NoError(err)
	assert.Equal(1.0, active.Value())

	second := dial(t, l)
	defer second.Close()

	// the second connection is rejected while the first is open
	results := make(chan net.Conn, 1)
	go func() {
		c, _ := l.Accept()
		results <- c
	}()

	require.Eventually(func() bool { return rejected.Value() >= 1.0 }, 5*time.Second, 10*time.Millisecond)
	require.NoError(accepted.Close())
	accepted.Close()
	assert.Equal(0.0, active.Value())

	third := dial(t, l)
	defer third.Close()

	select {
	case c := <-results:
		require.NotNil(c)
		assert.Equal(1.0, active.Value())
		c.Close()
	case <-time.After(5 * time.Second):
		require.Fail("the third connection was not accepted")
	}

	assert.Equal(0.0, active.Value())
}

func TestListener(t *testing.T) {
	t.Run("AcceptError", func(t *testing.T) {
		t.Run("UnlimitedConnections", func(t *testing.T) { testListenerAcceptError(t, 0) })
		t.Run("MaxConnections", func(t *testing.T) { testListenerAcceptError(t, 1) })
	})

	t.Run("MaxConnections", testListenerMaxConnections)
}
