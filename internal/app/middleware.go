package app

import (
	"context"
	"net/http"
	"time"

	"github.com/asutp/flowdesk/internal/config"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const RequestIdHeader = "X-Request-Id"

type requestIdKey struct{}

// RequestIdFrom returns the id assigned to the request, or an empty string.
func RequestIdFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIdKey{}).(string)
	return id
}

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, cfg config.Application) {
	r.Use(requestIdMiddleware)
	r.Use(requestLoggingMiddleware)
	r.Use(corsMiddleware(cfg.Server.AllowedOrigin))
	r.Use(mux.CORSMethodMiddleware(r))
	r.Use(preflightMiddleware)
}

// requestIdMiddleware keeps a caller supplied X-Request-Id or generates one.
func requestIdMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		requestId := req.Header.Get(RequestIdHeader)
		if requestId == "" {
			requestId = uuid.NewString()
		}
		w.Header().Set(RequestIdHeader, requestId)
		ctx := context.WithValue(req.Context(), requestIdKey{}, requestId)
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func requestLoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, req)

		entry := log.WithFields(log.Fields{
			"request_id": RequestIdFrom(req.Context()),
			"method":     req.Method,
			"path":       req.URL.Path,
			"status":     recorder.status,
			"duration":   time.Since(start),
		})
		if recorder.status >= http.StatusInternalServerError {
			entry.Error("request failed")
		} else {
			entry.Debug("request handled")
		}
	})
}

func corsMiddleware(allowedOrigin string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+RequestIdHeader)
			w.Header().Set("Access-Control-Expose-Headers", RequestIdHeader)
			next.ServeHTTP(w, req)
		})
	}
}

// preflightMiddleware answers OPTIONS itself; handlers only see real requests.
func preflightMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, req)
	})
}
