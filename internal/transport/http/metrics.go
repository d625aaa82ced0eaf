package httptransport

import (
	"expvar"
	"net/http"

	"pizza-service/internal/metrics"
)

var (
	metricOrderCreateTotal  = expvar.NewInt("order_create_total")
	metricOrderCreateErrors = expvar.NewInt("order_create_errors_total")
	metricAuthLoginErrors   = expvar.NewInt("auth_login_errors_total")
)

// MetricsMiddleware counts every request by method, marks the caller active
// and records the request duration as the service latency.
func MetricsMiddleware(agg *metrics.Aggregator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			marker := agg.StartLatencyTimer()
			agg.RecordRequest(r.Method)
			if u, ok := UserFromContext(r.Context()); ok {
				agg.TouchActiveUser(u.ID)
			}
			defer agg.StopLatencyTimer(marker, metrics.ServiceLatency)
			next.ServeHTTP(w, r)
		})
	}
}

// PizzaLatencyMiddleware records how long order creation took end to end.
func PizzaLatencyMiddleware(agg *metrics.Aggregator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			marker := agg.StartLatencyTimer()
			defer agg.StopLatencyTimer(marker, metrics.PizzaLatency)
			next.ServeHTTP(w, r)
		})
	}
}
