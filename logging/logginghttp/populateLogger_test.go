package logginghttp

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-kit/log/level"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xmidt-org/envprobe/logging"
)

func TestKeys(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(requestIDKey, RequestIDKey())
	assert.Equal(requestMethodKey, RequestMethodKey())
	assert.Equal(requestPathKey, RequestPathKey())
	assert.Equal(remoteAddrKey, RemoteAddrKey())
}

func testPopulateLoggerDefault(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		response = httptest.NewRecorder()
		request  = httptest.NewRequest("GET", "/", nil)

		nextCalled = false
		next       = http.HandlerFunc(func(rw http.ResponseWriter, request *http.Request) {
			nextCalled = true
			assert.Equal(response, rw)
			assert.NotNil(logging.GetLogger(request.Context()))
		})

		constructor = PopulateLogger(nil)
	)

	require.NotNil(constructor)

	decorated := constructor(next)
	require.NotNil(decorated)

	decorated.ServeHTTP(response, request)
	assert.True(nextCalled)
}

func testPopulateLoggerCustom(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		logger   = logging.NewCaptureLogger()
		response = httptest.NewRecorder()
		request  = httptest.NewRequest("GET", "/env?ignored=true", nil)

		decorated = PopulateLogger(logger)(http.HandlerFunc(func(_ http.ResponseWriter, request *http.Request) {
			logging.GetLogger(request.Context()).Log(logging.MessageKey(), "inside")
		}))
	)

	decorated.ServeHTTP(response, request)

	entry := <-logger.Output()
	require.NotNil(entry)
	assert.Equal("inside", entry[logging.MessageKey()])
	assert.Equal("GET", entry[RequestMethodKey()])
	assert.Equal("/env", entry[RequestPathKey()])
	assert.Equal(request.RemoteAddr, entry[RemoteAddrKey()])
	assert.NotEmpty(entry[RequestIDKey()])
}

func TestPopulateLogger(t *testing.T) {
	t.Run("Default", testPopulateLoggerDefault)
	t.Run("Custom", testPopulateLoggerCustom)
}

func TestLogRequest(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		logger   = logging.NewCaptureLogger()
		response = httptest.NewRecorder()
		request  = httptest.NewRequest("GET", "/health", nil)

		logged  = false
		handler = PopulateLogger(logger, StandardKeyValues)(
			LogRequest(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				// the entry must already be recorded when the handler runs
				logged = len(logger.Output()) == 1
			})),
		)
	)

	handler.ServeHTTP(response, request)
	assert.True(logged)

	entry := <-logger.Output()
	require.NotNil(entry)
	assert.Equal("request", entry[logging.MessageKey()])
	assert.Equal(level.InfoValue(), entry[level.Key()])
	assert.Equal("/health", entry[RequestPathKey()])
	assert.NotContains(entry, RequestIDKey())
}
