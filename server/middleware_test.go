package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/giygas/symptom-advisor/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		w.Header().Set("X-Remote", r.RemoteAddr)
		w.WriteHeader(http.StatusOK)
	})
}

func TestGetTokenCost(t *testing.T) {
	tests := []struct {
		path string
		cost int64
	}{
		{"/metrics", 0},
		{"/health", 5},
		{"/api/v1/symptoms", 5},
		{"/api/v1/languages", 5},
		{"/api/v1/turns", 50},
		{"/api/v1/turns/voice", 200},
		{"/api/v1/medicines/ibuprofen/label", 20},
		{"/unknown", 5},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		if got := getTokenCost(req); got != tt.cost {
			t.Errorf("getTokenCost(%s) = %d, want %d", tt.path, got, tt.cost)
		}
	}
}

func TestRateLimiterBlocksWhenEmpty(t *testing.T) {
	rl := NewRateLimiter(0.001, 100)
	h := rl.Middleware(okHandler())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/turns", nil)
		req.RemoteAddr = "10.1.1.1:1000"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
		if rr.Code == http.StatusTooManyRequests && rr.Header().Get("Retry-After") != "60" {
			t.Error("Expected Retry-After header on 429")
		}
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("Expected 200,200,429 got %v", codes)
	}

	// other clients have their own bucket
	req := httptest.NewRequest(http.MethodPost, "/api/v1/turns", nil)
	req.RemoteAddr = "10.1.1.2:1000"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("Expected independent bucket for second client, got %d", rr.Code)
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(0.001, 100)
	rl.getBucket("idle").TakeAvailable(0)
	rl.getBucket("busy").TakeAvailable(50)

	if got := testutil.ToFloat64(metrics.RateLimiterBuckets); got != 2 {
		t.Errorf("Expected bucket gauge 2, got %v", got)
	}

	if removed := rl.cleanup(); removed != 1 {
		t.Errorf("Expected 1 bucket removed, got %d", removed)
	}
	if _, ok := rl.clients["busy"]; !ok {
		t.Error("Expected busy client to be kept")
	}
	if got := testutil.ToFloat64(metrics.RateLimiterBuckets); got != 1 {
		t.Errorf("Expected bucket gauge 1, got %v", got)
	}
}

func TestRealIPMiddleware(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"no headers", nil, "192.0.2.1:1234"},
		{"forwarded for", map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1"}, "203.0.113.5"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.7"}, "198.51.100.7"},
		{"forwarded wins", map[string]string{"X-Forwarded-For": "203.0.113.9", "X-Real-IP": "198.51.100.7"}, "203.0.113.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			req.RemoteAddr = "192.0.2.1:1234"
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rr := httptest.NewRecorder()
			RealIPMiddleware(okHandler()).ServeHTTP(rr, req)

			if got := rr.Header().Get("X-Remote"); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestRequestSizeMiddleware(t *testing.T) {
	cfg := testConfig()
	h := RequestSizeMiddleware(cfg)(okHandler())

	t.Run("small body", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/turns", strings.NewReader(`{"text":"fever"}`)))
		if rr.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d", rr.Code)
		}
	})

	t.Run("declared body too large", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/turns", strings.NewReader(strings.Repeat("a", 2048))))
		if rr.Code != http.StatusRequestEntityTooLarge {
			t.Errorf("Expected 413, got %d", rr.Code)
		}
		if !strings.Contains(rr.Body.String(), `"code":413`) {
			t.Errorf("Expected JSON error body, got %s", rr.Body.String())
		}
	})

	t.Run("undeclared body too large", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/turns", strings.NewReader(strings.Repeat("a", 2048)))
		req.ContentLength = -1
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusRequestEntityTooLarge {
			t.Errorf("Expected 413 from body limit, got %d", rr.Code)
		}
	})

	t.Run("headers too large", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("X-Padding", strings.Repeat("b", 2048))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusRequestHeaderFieldsTooLarge {
			t.Errorf("Expected 431, got %d", rr.Code)
		}
	})
}
