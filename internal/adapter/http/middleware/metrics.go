package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/iho/bankledger/internal/infrastructure/metrics"
)

// Metrics returns a middleware recording request counts, latency and
// in-flight requests on m.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			m.HTTPRequestsInFlight.Inc()
			defer m.HTTPRequestsInFlight.Dec()

			wrapped := &metricsRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			path := normalizePath(r.URL.Path)

			m.HTTPRequests.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
			m.HTTPDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}

type metricsRecorder struct {
	http.ResponseWriter

	statusCode int
}

func (r *metricsRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

// Path segments following these prefixes are identifiers.
var idPrefixes = []struct {
	prefix      string
	placeholder string
}{
	{"/api/v1/accounts/", ":number"},
	{"/api/v1/transactions/", ":utr"},
	{"/api/v1/customers/", ":id"},
}

// Fixed routes that share an identifier prefix.
var staticPaths = map[string]bool{
	"/api/v1/transactions/deposit":  true,
	"/api/v1/transactions/withdraw": true,
	"/api/v1/transactions/transfer": true,
}

// normalizePath replaces identifiers with placeholders to bound label
// cardinality: /api/v1/accounts/ACC001/transactions becomes
// /api/v1/accounts/:number/transactions.
func normalizePath(path string) string {
	if staticPaths[path] {
		return path
	}

	for _, p := range idPrefixes {
		rest, ok := strings.CutPrefix(path, p.prefix)
		if !ok || rest == "" {
			continue
		}

		suffix := ""
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			suffix = rest[i:]
		}

		return p.prefix + p.placeholder + suffix
	}

	return path
}
