// Package router assembles the service's HTTP surface: plain net/http
// endpoints for liveness, readiness and metrics, and a huma API for
// everything else, composed through functional options.
package router

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
)

// Opt customizes a [huma.API] during router construction.
type Opt func(huma.API)

// OptUseMiddleware attaches middlewares to the API (or group) it is applied to.
func OptUseMiddleware(middlewares ...func(huma.Context, func(huma.Context))) Opt {
	return func(api huma.API) { api.UseMiddleware(middlewares...) }
}

// OptGroup applies opts to a sub-group of the API mounted at prefix.
func OptGroup(prefix string, opts ...Opt) Opt {
	return func(api huma.API) {
		group := huma.NewGroup(api, prefix)
		for _, opt := range opts {
			opt(group)
		}
	}
}

// OptAutoRegister registers every Register* method of each handler,
// see [huma.AutoRegister].
func OptAutoRegister(handlers ...any) Opt {
	return func(api huma.API) {
		for _, handler := range handlers {
			huma.AutoRegister(api, handler)
		}
	}
}

// New builds the root handler. readiness reports whether dependencies
// (typically the contacts database) can serve traffic; writeMetrics renders
// the Prometheus exposition on /metrics.
func New(
	title, version string,
	readiness http.HandlerFunc,
	writeMetrics http.HandlerFunc,
	opts ...Opt,
) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/liveness", func(http.ResponseWriter, *http.Request) {})
	mux.HandleFunc("/readiness", readiness)
	mux.HandleFunc("/metrics", writeMetrics)

	root := humago.New(mux, huma.DefaultConfig(title, version))
	for _, opt := range opts {
		opt(root)
	}

	return mux
}
