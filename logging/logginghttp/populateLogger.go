package logginghttp

import (
	"net/http"

	"github.com/go-kit/log"
	"github.com/segmentio/ksuid"
	"github.com/xmidt-org/envprobe/logging"
)

var (
	requestIDKey     interface{} = "requestID"
	requestMethodKey interface{} = "requestMethod"
	requestPathKey   interface{} = "requestPath"
	remoteAddrKey    interface{} = "remoteAddr"
)

// RequestIDKey returns the contextual logging key for the identifier assigned to each request
func RequestIDKey() interface{} {
	return requestIDKey
}

// RequestMethodKey returns the contextual logging key for an HTTP request's method
func RequestMethodKey() interface{} {
	return requestMethodKey
}

// RequestPathKey returns the contextual logging key for an HTTP request's URL path
func RequestPathKey() interface{} {
	return requestPathKey
}

// RemoteAddrKey returns the contextual logging key for an HTTP request's remote address,
// as filled in by the enclosing http.Server.
func RemoteAddrKey() interface{} {
	return remoteAddrKey
}

// LoggerFunc is a strategy for adding key/value pairs (possibly) based on an HTTP request.
// Functions of this type must append key/value pairs to the supplied slice and then return
// the new slice.
type LoggerFunc func([]interface{}, *http.Request) []interface{}

// RequestID is a LoggerFunc that tags the request with a fresh KSUID
func RequestID(kv []interface{}, _ *http.Request) []interface{} {
	return append(kv, requestIDKey, ksuid.New().String())
}

// StandardKeyValues is a LoggerFunc that adds the request method, path, and remote address.
func StandardKeyValues(kv []interface{}, request *http.Request) []interface{} {
	return append(kv,
		requestMethodKey, request.Method,
		requestPathKey, request.URL.Path,
		remoteAddrKey, request.RemoteAddr,
	)
}

// PopulateLogger produces an Alice-style decorator that emits a decorated go-kit logger into the request context.
// Downstream code can then use this logger via logging.GetLogger(request.Context()).
//
// If no LoggerFuncs are supplied, RequestID and StandardKeyValues are used.  A nil base
// means the default logger is decorated.
func PopulateLogger(base log.Logger, lf ...LoggerFunc) func(http.Handler) http.Handler {
	if base == nil {
		base = logging.DefaultLogger()
	}

	if len(lf) == 0 {
		lf = []LoggerFunc{RequestID, StandardKeyValues}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, request *http.Request) {
			kv := []interface{}{}
			for _, f := range lf {
				kv = f(kv, request)
			}

			ctx := logging.WithLogger(request.Context(), log.With(base, kv...))
			next.ServeHTTP(rw, request.WithContext(ctx))
		})
	}
}

// LogRequest produces an Alice-style decorator that writes one info entry per request, using the
// request's contextual logger, before the request is handled.  Logging failures are ignored.
func LogRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, request *http.Request) {
		logging.Info(logging.GetLogger(request.Context())).Log(logging.MessageKey(), "request")
		next.ServeHTTP(rw, request)
	})
}
