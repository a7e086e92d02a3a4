package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/bankledger/internal/usecase"
)

const (
	// IdempotencyKeyHeader is the header name for idempotency keys.
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayHeader marks a response served from the store.
	IdempotencyReplayHeader = "X-Idempotency-Replay"

	defaultIdempotencyTTL = 24 * time.Hour
	processingMarker      = "processing"
)

// storedResponse is what the store keeps for a completed request.
type storedResponse struct {
	Status int    `json:"status"`
	Body   []byte `json:"body"`
}

// IdempotencyMiddleware replays the first successful response for a repeated
// Idempotency-Key. Keys are scoped to the request path.
type IdempotencyMiddleware struct {
	store  usecase.IdempotencyStore
	ttl    time.Duration
	logger zerolog.Logger
}

// NewIdempotencyMiddleware creates a new IdempotencyMiddleware. A ttl of
// zero keeps responses for 24 hours.
func NewIdempotencyMiddleware(store usecase.IdempotencyStore, ttl time.Duration, logger zerolog.Logger) *IdempotencyMiddleware {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}

	return &IdempotencyMiddleware{store: store, ttl: ttl, logger: logger}
}

// Wrap wraps an http.Handler with idempotency checking.
func (m *IdempotencyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost && r.Method != http.MethodPut {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get(IdempotencyKeyHeader)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}
		key = r.URL.Path + ":" + key

		exists, cached, err := m.store.CheckAndSet(r.Context(), key, nil, m.ttl)
		if err != nil {
			m.logger.Error().Err(err).Str("key", key).Msg("idempotency check failed")
			writeJSONError(w, http.StatusInternalServerError, "idempotency check failed")
			return
		}

		if exists {
			m.replay(w, cached)
			return
		}

		recorder := &responseRecorder{
			ResponseWriter: w,
			body:           &bytes.Buffer{},
			statusCode:     http.StatusOK,
		}
		next.ServeHTTP(recorder, r)

		if recorder.statusCode < 200 || recorder.statusCode >= 300 {
			if err := m.store.Release(r.Context(), key); err != nil {
				m.logger.Warn().Err(err).Str("key", key).Msg("failed to release idempotency key")
			}
			return
		}

		payload, err := json.Marshal(storedResponse{Status: recorder.statusCode, Body: recorder.body.Bytes()})
		if err == nil {
			err = m.store.Update(r.Context(), key, payload, m.ttl)
		}
		if err != nil {
			m.logger.Warn().Err(err).Str("key", key).Msg("failed to store idempotent response")
		}
	})
}

func (m *IdempotencyMiddleware) replay(w http.ResponseWriter, cached []byte) {
	if cached == nil || string(cached) == processingMarker {
		writeJSONError(w, http.StatusConflict, "request with this idempotency key is in progress")
		return
	}

	var stored storedResponse
	if err := json.Unmarshal(cached, &stored); err != nil || stored.Status == 0 {
		writeJSONError(w, http.StatusInternalServerError, "corrupt idempotent response")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(IdempotencyReplayHeader, "true")
	w.WriteHeader(stored.Status)
	w.Write(stored.Body)
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}
