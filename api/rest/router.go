// Package rest
package rest

import (
	"net/http"

	"cpugauge/api/rest/handler"
	"cpugauge/api/rest/middleware"
	"cpugauge/internal/logger"
)

type RouterDeps struct {
	Metrics *handler.MetricsHandler
	// Feed is optional; without it /ws is not routed.
	Feed http.HandlerFunc
}

func NewRouter(deps *RouterDeps, log logger.Logger) http.Handler {
	mux := http.NewServeMux()

	globalMw := middleware.New()
	globalMw.Use(middleware.Recover(log))
	globalMw.Use(middleware.Logging(log))

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("GET /metrics", deps.Metrics.Get)
	mux.HandleFunc("GET /metrics/cpu/{id}", deps.Metrics.GetCPU)

	if deps.Feed != nil {
		mux.HandleFunc("GET /ws", deps.Feed)
	}

	return globalMw.Apply(mux)
}
