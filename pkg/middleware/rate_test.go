package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimitBlocksAfterBudget(t *testing.T) {
	handler := RateLimit(2, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(ip string) int {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 2; i++ {
		if code := do("10.0.0.1:1234"); code != http.StatusOK {
			t.Fatalf("request %d: got %d, want %d", i+1, code, http.StatusOK)
		}
	}
	if code := do("10.0.0.1:1234"); code != http.StatusTooManyRequests {
		t.Fatalf("over budget: got %d, want %d", code, http.StatusTooManyRequests)
	}

	// A different client has its own budget.
	if code := do("10.0.0.2:1234"); code != http.StatusOK {
		t.Fatalf("other client: got %d, want %d", code, http.StatusOK)
	}
}

func TestLimiterWindowResets(t *testing.T) {
	l := newLimiter(1, time.Minute)
	now := time.Now()

	if !l.allow("a", now) {
		t.Fatal("first request must pass")
	}
	if l.allow("a", now) {
		t.Fatal("second request in the same window must be rejected")
	}
	if !l.allow("a", now.Add(2*time.Minute)) {
		t.Fatal("a fresh window must readmit the client")
	}
}

func TestLimiterEvictsExpiredVisitors(t *testing.T) {
	l := newLimiter(1, time.Minute)
	now := time.Now()

	for _, ip := range []string{"a", "b", "c"} {
		l.allow(ip, now)
	}

	// Past the sweep point every stale entry is dropped before the new
	// client is admitted.
	l.allow("d", now.Add(5*time.Minute))

	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.visitors) != 1 {
		t.Fatalf("got %d visitors, want 1", len(l.visitors))
	}
}
