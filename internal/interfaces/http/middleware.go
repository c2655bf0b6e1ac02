package httpinterface

import (
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{w, http.StatusOK}
		next.ServeHTTP(rec, r)

		log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start),
		}).Debug("http request")
	})
}

func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				writeError(w, fmt.Errorf("panic serving %s: %v", r.URL.Path, rec))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// rateLimiter spaces requests so that at most rps are served per second.
func rateLimiter(rps int) func(http.Handler) http.Handler {
	limiter := ratelimit.New(rps)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limiter.Take()
			next.ServeHTTP(w, r)
		})
	}
}
