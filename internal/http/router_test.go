package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"blogapi/internal/auth"
	"blogapi/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	svc, err := auth.NewService("router-test-secret", "1h")
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	// A nil db proves the request never reaches storage on these paths.
	return NewRouter(config.Config{}, nil, svc)
}

func serve(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return body
}

func TestRootEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := serve(r, http.MethodGet, "/")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := decodeEnvelope(t, w)
	if body["success"] != true {
		t.Fatalf("success = %v", body["success"])
	}
	if body["requestId"] == "" || body["requestId"] == nil {
		t.Fatalf("requestId missing from envelope")
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("X-Request-ID header missing")
	}
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := serve(r, http.MethodGet, "/health")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := decodeEnvelope(t, w)
	if body["success"] != true {
		t.Fatalf("success = %v", body["success"])
	}
}

func TestUnknownRoute(t *testing.T) {
	r := newTestRouter(t)

	w := serve(r, http.MethodGet, "/no/such/route")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	body := decodeEnvelope(t, w)
	if body["code"].(float64) != 40401 {
		t.Fatalf("code = %v, want 40401", body["code"])
	}
	if body["success"] != false {
		t.Fatalf("success = %v", body["success"])
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("X-Request-ID header missing on 404")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	r := newTestRouter(t)

	w := serve(r, http.MethodPatch, "/api/posts/1")

	body := decodeEnvelope(t, w)
	if body["code"].(float64) != 40500 {
		t.Fatalf("code = %v, want 40500", body["code"])
	}
}

func TestProtectedRouteWithoutCredentials(t *testing.T) {
	r := newTestRouter(t)

	// The nil db would panic on any storage access; reaching the handler
	// would surface as a 50000, not a 40100.
	w := serve(r, http.MethodDelete, "/api/posts/1")

	body := decodeEnvelope(t, w)
	if body["code"].(float64) != 40100 {
		t.Fatalf("code = %v, want 40100", body["code"])
	}
}

func TestProtectedUserRouteWithoutCredentials(t *testing.T) {
	r := newTestRouter(t)

	w := serve(r, http.MethodDelete, "/api/users/1")

	body := decodeEnvelope(t, w)
	if body["code"].(float64) != 40100 {
		t.Fatalf("code = %v, want 40100", body["code"])
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := serve(r, http.MethodGet, "/metrics")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestCORSHeadersOnPreflight(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/posts", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got == "" {
		t.Fatalf("missing Access-Control-Allow-Origin header")
	}
}
