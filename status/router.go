// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package status

import (
	"net/http"

	"github.com/gorilla/mux"
)

const (
	HealthPath     = "/health"
	IndexPath      = "/"
	EnvPath        = "/env"
	DBCheckPath    = "/db-check"
	CacheCheckPath = "/cache-check"
	QueueCheckPath = "/queue-check"
	ServicesPath   = "/services"
	CrashPath      = "/crash"
)

// NewRouter binds each route of the given Handler to its literal path.  Unless the
// Handler's feature-test variant is enabled, unmatched paths get the router's 404.
// Request paths are matched as sent, without cleaning or redirects.
func NewRouter(h *Handler) *mux.Router {
	router := mux.NewRouter().SkipClean(true)

	routes := []struct {
		path    string
		handler http.HandlerFunc
	}{
		{HealthPath, h.Health},
		{IndexPath, h.Index},
		{EnvPath, h.Env},
		{DBCheckPath, h.DBCheck},
		{CacheCheckPath, h.CacheCheck},
		{QueueCheckPath, h.QueueCheck},
		{ServicesPath, h.Services},
	}

	if h.FeatureTest() {
		routes = append(routes, struct {
			path    string
			handler http.HandlerFunc
		}{CrashPath, h.Crash})

		router.NotFoundHandler = http.HandlerFunc(h.Fallback)
	}

	for _, r := range routes {
		router.Path(r.path).Methods(http.MethodGet).HandlerFunc(r.handler)
	}

	return router
}
