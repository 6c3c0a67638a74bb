// Package middleware
package middleware

import (
	"net/http"
	"time"

	"cpugauge/internal/logger"
)

type Middleware func(http.Handler) http.Handler

type Stack struct {
	mws []Middleware
}

func New() *Stack {
	return &Stack{}
}

func (s *Stack) Use(mw Middleware) {
	s.mws = append(s.mws, mw)
}

// Then wraps h so that the first registered middleware runs outermost.
func (s *Stack) Then(h http.Handler) http.Handler {
	for i := len(s.mws) - 1; i >= 0; i-- {
		h = s.mws[i](h)
	}
	return h
}

func (s *Stack) Apply(mux *http.ServeMux) http.Handler {
	return s.Then(mux)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func Logging(log logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			log.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"time", time.Since(start),
			)
		})
	}
}

func Recover(log logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("http handler panic", "path", r.URL.Path, "panic", rec)
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
