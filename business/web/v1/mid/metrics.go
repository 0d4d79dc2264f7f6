package mid

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/ddknet/node/foundation/web"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ddk",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Count of handled requests by method and status code.",
	}, []string{"method", "code"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ddk",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Duration of handling a request.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})

	goroutines = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "ddk",
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Number of requests being handled.",
	})
)

// Metrics updates program counters.
func Metrics() web.Middleware {

	// This is the actual middleware function to be executed.
	m := func(handler web.Handler) web.Handler {

		// Create the handler that will be attached in the middleware chain.
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			goroutines.Inc()
			defer goroutines.Dec()

			started := time.Now()

			// Call the next handler.
			err := handler(ctx, w, r)

			code := http.StatusOK
			if v, verr := web.GetValues(ctx); verr == nil && v.StatusCode != 0 {
				code = v.StatusCode
			}

			requestsTotal.WithLabelValues(r.Method, strconv.Itoa(code)).Inc()
			requestDuration.WithLabelValues(r.Method).Observe(time.Since(started).Seconds())

			// Return the error so it can be handled further up the chain.
			return err
		}

		return h
	}

	return m
}
