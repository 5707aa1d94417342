package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/R3E-Network/storefront/pkg/api"
	"github.com/R3E-Network/storefront/pkg/logger"
)

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) api.ErrorBody {
	t.Helper()
	var body api.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestUserIdentity(t *testing.T) {
	var seen int64
	h := UserIdentity("x_user_id")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserIDFromRequest(r)
		require.True(t, ok)
		seen = id
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		header string
		status int
		code   string
	}{
		{"missing", "", http.StatusBadRequest, "MISSING_HEADER"},
		{"not integer", "abc", http.StatusBadRequest, "INVALID_HEADER"},
		{"fraction", "1.5", http.StatusBadRequest, "INVALID_HEADER"},
		{"valid", " 12 ", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/purchases/1", nil)
			if tt.header != "" {
				req.Header.Set("x_user_id", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.code != "" {
				assert.Equal(t, tt.code, decodeError(t, rec).Code)
			}
		})
	}
	assert.Equal(t, int64(12), seen)
}

func TestUserIdentity_MissingHeaderMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	UserIdentity("x_user_id")(http.HandlerFunc(okHandler)).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/payments", nil))

	assert.Equal(t, "Missing x_user_id header", decodeError(t, rec).Message)
}

func TestTracing(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWriter(&buf, "info", "text")

	var ctxTrace string
	h := Tracing(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxTrace = logger.TraceID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	traceID := rec.Header().Get(TraceHeader)
	require.NotEmpty(t, traceID)
	assert.Equal(t, traceID, ctxTrace)
	assert.Contains(t, buf.String(), "trace_id="+traceID)
	assert.Contains(t, buf.String(), "status=418")

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(TraceHeader, "given")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "given", rec.Header().Get(TraceHeader))
}

func TestMetrics_UsesRouteTemplate(t *testing.T) {
	r := mux.NewRouter()
	r.Use(Metrics())
	r.HandleFunc("/purchases/{id:[0-9]+}", okHandler)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/purchases/3", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2, nil)
	h := rl.Handler(http.HandlerFunc(okHandler))

	send := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/purchases", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1:1000").Code)
	assert.Equal(t, http.StatusOK, send("10.0.0.1:1001").Code)

	limited := send("10.0.0.1:1002")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "1", limited.Header().Get("Retry-After"))
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", decodeError(t, limited).Code)

	// other hosts have their own bucket
	assert.Equal(t, http.StatusOK, send("10.0.0.2:1000").Code)
	assert.Equal(t, 2, rl.Len())
}

func TestRateLimiter_IgnoresCallerHeader(t *testing.T) {
	rl := NewRateLimiter(1, 1, nil)
	h := rl.Handler(http.HandlerFunc(okHandler))

	limited := 0
	for i := 0; i < 50; i++ {
		req := httptest.NewRequest(http.MethodPost, "/users", nil)
		req.Header.Set("x_user_id", fmt.Sprintf("junk-%d", i))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code == http.StatusTooManyRequests {
			limited++
		}
	}

	assert.Equal(t, 49, limited)
	assert.Equal(t, 1, rl.Len())
}

func TestRateLimiter_SweepsIdleClients(t *testing.T) {
	rl := NewRateLimiter(10, 10, nil)
	base := time.Now()
	rl.now = func() time.Time { return base }

	for i := 0; i < limiterSweepSize; i++ {
		rl.limiters[fmt.Sprintf("idle-%d", i)] = &clientLimiter{lastSeen: base.Add(-time.Hour)}
	}

	rl.getLimiter("fresh")
	assert.Equal(t, 1, rl.Len())
}

func TestRateLimiter_EvictsOldestWhenFull(t *testing.T) {
	rl := NewRateLimiter(10, 10, nil)
	rl.maxClients = 3
	base := time.Now()
	tick := 0
	rl.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	for _, host := range []string{"a", "b", "c", "d", "e"} {
		rl.getLimiter(host)
	}

	assert.Equal(t, 3, rl.Len())
	assert.NotContains(t, rl.limiters, "a")
	assert.NotContains(t, rl.limiters, "b")
	assert.Contains(t, rl.limiters, "e")
}

func TestCORSMiddleware(t *testing.T) {
	h := NewCORSMiddleware([]string{"https://shop.example", ".trusted.example"}, "x_user_id").
		Handler(http.HandlerFunc(okHandler))

	req := httptest.NewRequest(http.MethodOptions, "/users", nil)
	req.Header.Set("Origin", "https://shop.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://shop.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "x_user_id")

	req = httptest.NewRequest(http.MethodGet, "/users/1", nil)
	req.Header.Set("Origin", "https://api.trusted.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "https://api.trusted.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/users/1", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORSMiddleware_DisabledWithoutOrigins(t *testing.T) {
	next := http.HandlerFunc(okHandler)
	h := NewCORSMiddleware(nil, "x_user_id").Handler(next)

	req := httptest.NewRequest(http.MethodOptions, "/users", nil)
	req.Header.Set("Origin", "https://shop.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
