package middleware

import (
	"net/http"
	"strconv"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/kruthikhak/Care-Connect/internal/infrastructure/observability"
	"go.opentelemetry.io/otel/attribute"
)

// ObservabilityMiddleware adds OpenTelemetry tracing and Prometheus metrics to HTTP requests
func ObservabilityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := observability.StartSpan(r.Context(), r.Method+" "+r.URL.Path)
		defer span.End()

		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r.WithContext(ctx))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		// The pattern is only known once chi has routed the request.
		route := routePattern(r)
		span.SetName(r.Method + " " + route)

		labels := []string{r.Method, route, strconv.Itoa(status)}
		observability.HTTPRequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
		observability.HTTPRequestsTotal.WithLabelValues(labels...).Inc()

		observability.SetSpanAttributes(span,
			attribute.String("http.method", r.Method),
			attribute.String("http.route", route),
			attribute.String("http.user_agent", r.UserAgent()),
			attribute.Int("http.status_code", status),
		)
	})
}
