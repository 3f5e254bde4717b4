package restapi

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// datasetCacheSeconds is the client cache lifetime for static GTFS
// listings.
const datasetCacheSeconds = 300

// SetRoutes registers all API endpoints.
func (api *RestAPI) SetRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", api.healthHandler)

	mux.HandleFunc("GET /eta", api.etaHandler)
	mux.HandleFunc("GET /plan", api.planHandler)
	mux.HandleFunc("POST /report", api.reportHandler)

	// The static dataset only changes on reload, so let clients cache it.
	mux.Handle("GET /stops", CacheControlMiddleware(datasetCacheSeconds, http.HandlerFunc(api.stopsHandler)))
	mux.Handle("GET /routes", CacheControlMiddleware(datasetCacheSeconds, http.HandlerFunc(api.routesHandler)))
	mux.Handle("GET /routes/{id}/stops", CacheControlMiddleware(datasetCacheSeconds, http.HandlerFunc(api.routeStopsHandler)))

	if api.Metrics != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(api.Metrics.Registry, promhttp.HandlerOpts{}))
	}
}

// SetupAPIRoutes creates the router with the full middleware chain
// applied globally.
func (api *RestAPI) SetupAPIRoutes() http.Handler {
	mux := http.NewServeMux()
	api.SetRoutes(mux)

	var handler http.Handler = mux
	handler = CompressionMiddleware(handler)
	if api.rateLimiter != nil {
		handler = api.rateLimiter.Handler(handler)
	}
	handler = securityHeaders(handler)
	handler = api.requestLogging(handler)
	handler = RequestIDMiddleware(handler)
	return handler
}
