package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(l *Limiter, start time.Time) *time.Time {
	now := start
	l.now = func() time.Time { return now }
	return &now
}

func TestAllow_BudgetAndRefill(t *testing.T) {
	l := New(3, time.Minute)
	now := fixedClock(l, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	for i := 0; i < 3; i++ {
		ok, _ := l.Allow("1.2.3.4")
		require.True(t, ok, "request %d", i)
	}
	ok, wait := l.Allow("1.2.3.4")
	assert.False(t, ok)
	assert.InDelta(t, 20*time.Second, wait, float64(time.Second))

	// Other clients have their own budget.
	ok, _ = l.Allow("5.6.7.8")
	assert.True(t, ok)

	*now = now.Add(time.Minute)
	for i := 0; i < 3; i++ {
		ok, _ := l.Allow("1.2.3.4")
		assert.True(t, ok, "after window, request %d", i)
	}
}

func TestAllow_Disabled(t *testing.T) {
	l := New(0, time.Minute)
	for i := 0; i < 100; i++ {
		ok, _ := l.Allow("x")
		require.True(t, ok)
	}
}

func TestSweep(t *testing.T) {
	l := New(5, time.Minute)
	now := fixedClock(l, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	l.Allow("a")
	*now = now.Add(time.Hour)
	l.Allow("b")
	assert.Equal(t, 1, l.Sweep(10*time.Minute))
	assert.Len(t, l.clients, 1)
}

func TestMiddleware(t *testing.T) {
	l := New(2, time.Minute)
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	do := func() *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPost, "/game/move", nil)
		r.RemoteAddr = "10.0.0.1:5555"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w
	}

	assert.Equal(t, http.StatusNoContent, do().Code)
	assert.Equal(t, http.StatusNoContent, do().Code)
	w := do()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"rate_limited"}`, w.Body.String())
	assert.Equal(t, "30", w.Header().Get("Retry-After"))
}
