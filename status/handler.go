// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package status

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-kit/kit/metrics"
	"github.com/xmidt-org/envprobe/clock"
	"github.com/xmidt-org/envprobe/environment"
	"github.com/xmidt-org/envprobe/logging"
)

const (
	// EnvironmentKey names the configuration value reported as the index environment label
	EnvironmentKey = "APP_ENV"

	// UnknownEnvironment is reported when EnvironmentKey is not set
	UnknownEnvironment = "unknown"

	HostnameKey     = "HOSTNAME"
	UnknownHostname = "unknown"
	SecretKey       = "SECRET_KEY"
	SecretNotSet    = "NOT_SET"

	jsonContentType = "application/json"
	textContentType = "text/plain; charset=utf-8"
)

// Index is the body of the root route
type Index struct {
	Service     string  `json:"service"`
	Version     string  `json:"version"`
	Environment string  `json:"environment"`
	Timestamp   float64 `json:"timestamp"`
}

// Handler answers every status route from a single immutable Snapshot.  All methods are safe
// for concurrent use.
type Handler struct {
	snapshot environment.Snapshot

	service     string
	version     string
	greeting    string
	featureTest bool
	clock       clock.Interface
	terminator  Terminator
	crashes     metrics.Counter
}

// NewHandler creates a Handler over the given snapshot.  A nil Options uses all defaults.
func NewHandler(s environment.Snapshot, o *Options) *Handler {
	return &Handler{
		snapshot:    s,
		service:     o.service(),
		version:     o.version(),
		greeting:    o.greeting(),
		featureTest: o.featureTest(),
		clock:       o.clock(),
		terminator:  o.terminator(),
		crashes:     o.crashes(),
	}
}

// FeatureTest reports whether the fallback and /crash routes are enabled
func (h *Handler) FeatureTest() bool {
	return h.featureTest
}

func (h *Handler) writeJSON(response http.ResponseWriter, request *http.Request, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		logging.Error(logging.GetLogger(request.Context())).Log(logging.MessageKey(), "could not marshal response", logging.ErrorKey(), err)
		response.Header().Set("Content-Type", jsonContentType)
		response.WriteHeader(http.StatusInternalServerError)
		fmt.Fprintf(response, `{"message": %q}`, err.Error())
		return
	}

	response.Header().Set("Content-Type", jsonContentType)
	response.WriteHeader(http.StatusOK)
	response.Write(body)
}

// Health is the liveness probe
func (h *Handler) Health(response http.ResponseWriter, _ *http.Request) {
	response.Header().Set("Content-Type", textContentType)
	response.WriteHeader(http.StatusOK)
	io.WriteString(response, "OK")
}

// Index reports the service identity, the environment label, and the current time in
// fractional Unix seconds
func (h *Handler) Index(response http.ResponseWriter, request *http.Request) {
	now := h.clock.Now()
	h.writeJSON(response, request, Index{
		Service:     h.service,
		Version:     h.version,
		Environment: h.snapshot.Get(EnvironmentKey, UnknownEnvironment),
		Timestamp:   float64(now.UnixNano()) / 1e9,
	})
}

// Env writes every snapshot entry, masking sensitive values
func (h *Handler) Env(response http.ResponseWriter, request *http.Request) {
	h.writeJSON(response, request, h.snapshot.Masked())
}

func (h *Handler) check(c environment.Check) http.HandlerFunc {
	return func(response http.ResponseWriter, request *http.Request) {
		h.writeJSON(response, request, map[string]string{
			c.Name: c.Status(h.snapshot),
		})
	}
}

// DBCheck reports whether DATABASE_URL looks like a postgres URL
func (h *Handler) DBCheck(response http.ResponseWriter, request *http.Request) {
	h.check(environment.DatabaseCheck)(response, request)
}

// CacheCheck reports whether REDIS_URL looks like a redis URL
func (h *Handler) CacheCheck(response http.ResponseWriter, request *http.Request) {
	h.check(environment.CacheCheck)(response, request)
}

// QueueCheck reports whether RABBITMQ_URL looks like an amqp URL
func (h *Handler) QueueCheck(response http.ResponseWriter, request *http.Request) {
	h.check(environment.QueueCheck)(response, request)
}

// Services writes the presence flag of every known dependency
func (h *Handler) Services(response http.ResponseWriter, request *http.Request) {
	h.writeJSON(response, request, environment.Describe(h.snapshot))
}

// Fallback answers unmatched paths in the feature-test variant.  The secret is written unmasked.
func (h *Handler) Fallback(response http.ResponseWriter, _ *http.Request) {
	response.Header().Set("Content-Type", textContentType)
	response.WriteHeader(http.StatusOK)
	fmt.Fprintf(
		response,
		"🚀 %s\nHostname: %s\nSecret: %s\n",
		h.greeting,
		h.snapshot.Get(HostnameKey, UnknownHostname),
		h.snapshot.Get(SecretKey, SecretNotSet),
	)
}

// Crash terminates the process with CrashExitCode.  No response is written.  If the Terminator
// returns, the handler aborts the request with http.ErrAbortHandler.
func (h *Handler) Crash(_ http.ResponseWriter, request *http.Request) {
	logging.Error(logging.GetLogger(request.Context())).Log(
		logging.MessageKey(), "crash requested",
		"exitCode", CrashExitCode,
	)

	h.crashes.Add(1)
	h.terminator.Terminate(CrashExitCode)
	panic(http.ErrAbortHandler)
}
