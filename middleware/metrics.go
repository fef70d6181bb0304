package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Dosada05/tournament-admin/metrics"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Metrics records request counters and latency labelled by the chi route pattern,
// so /matches/42 and /matches/7 share one series.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metrics.RequestInProgress.Inc()
		defer metrics.RequestInProgress.Dec()

		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		startTime := time.Now()

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		labels := []string{strconv.Itoa(status), r.Method, route}

		metrics.RequestCounter.WithLabelValues(labels...).Inc()
		metrics.RequestDuration.WithLabelValues(labels...).Observe(time.Since(startTime).Seconds())
	})
}
