// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package status

import (
	"net/http"

	"github.com/go-kit/log"
	"github.com/justinas/alice"
	"github.com/xmidt-org/envprobe/logging/logginghttp"
	"github.com/xmidt-org/envprobe/server"
	"github.com/xmidt-org/envprobe/xmetrics"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Tracing produces an Alice-style decorator that starts a server span for each request
func Tracing(operation string) alice.Constructor {
	return func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, operation)
	}
}

// NewChain builds the decorators applied in front of the router: tracing, the request logger,
// the per-request log entry, and the request metrics.  A nil registry omits the metrics.
func NewChain(operation string, logger log.Logger, r xmetrics.Registry) alice.Chain {
	chain := alice.New(
		Tracing(operation),
		logginghttp.PopulateLogger(logger),
		logginghttp.LogRequest,
	)

	if r != nil {
		chain = chain.Append(server.InstrumentHandler(r))
	}

	return chain
}

// New is the full status http.Handler: the decorator chain in front of the router
func New(h *Handler, operation string, logger log.Logger, r xmetrics.Registry) http.Handler {
	return NewChain(operation, logger, r).Then(NewRouter(h))
}
