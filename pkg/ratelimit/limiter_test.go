package ratelimit_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/videovault/pkg/ratelimit"
)

func TestNew_InvalidConfig(t *testing.T) {
	t.Parallel()

	_, err := ratelimit.New(ratelimit.Config{Rate: 0, Burst: 1})
	assert.ErrorIs(t, err, ratelimit.ErrInvalidLimit)

	_, err = ratelimit.New(ratelimit.Config{Rate: 1, Burst: 0})
	assert.ErrorIs(t, err, ratelimit.ErrInvalidLimit)
}

func TestLimiter_Allow(t *testing.T) {
	t.Parallel()

	l, err := ratelimit.New(ratelimit.Config{Rate: 0.001, Burst: 2})
	require.NoError(t, err)

	assert.True(t, l.Allow("a").Allowed)
	assert.True(t, l.Allow("a").Allowed)

	denied := l.Allow("a")
	assert.False(t, denied.Allowed)
	assert.Positive(t, denied.RetryAfter)

	assert.True(t, l.Allow("b").Allowed, "keys are independent")
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	l, err := ratelimit.New(ratelimit.Config{Rate: 0.001, Burst: 1})
	require.NoError(t, err)

	h := ratelimit.Middleware(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	do := func(ip string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		r.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w
	}

	assert.Equal(t, http.StatusNoContent, do("203.0.113.1").Code)

	w := do("203.0.113.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusNoContent, do("203.0.113.2").Code)
}

func TestMiddleware_CustomHandlerAndEmptyKey(t *testing.T) {
	t.Parallel()

	l, err := ratelimit.New(ratelimit.Config{Rate: 0.001, Burst: 1})
	require.NoError(t, err)

	key := "fixed"
	h := ratelimit.Middleware(l,
		ratelimit.WithKeyFunc(func(*http.Request) string { return key }),
		ratelimit.WithOnLimitReached(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}),
	)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)

	key = ""
	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
