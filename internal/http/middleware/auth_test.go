package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"blogapi/internal/auth"
)

func newAuthRouter(t *testing.T, svc *auth.Service) (*gin.Engine, *bool) {
	t.Helper()
	called := false
	r := gin.New()
	r.Use(RequestID())
	r.GET("/protected", RequireAuth(svc), func(c *gin.Context) {
		called = true
		user, ok := CurrentUser(c)
		if !ok {
			t.Errorf("CurrentUser not set after RequireAuth")
		}
		c.JSON(http.StatusOK, gin.H{"id": user.ID})
	})
	return r, &called
}

func doProtected(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	r.ServeHTTP(w, req)
	return w
}

func envelopeCode(t *testing.T, w *httptest.ResponseRecorder) float64 {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	code, ok := body["code"].(float64)
	if !ok {
		t.Fatalf("missing code in %s", w.Body.String())
	}
	return code
}

func TestRequireAuthMissingHeader(t *testing.T) {
	svc, err := auth.NewService("test-secret", "1h")
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	r, called := newAuthRouter(t, svc)

	w := doProtected(r, "")

	if *called {
		t.Fatalf("handler must not run without credentials")
	}
	if w.Code != http.StatusBadRequest {
		t.Fatalf("transport status = %d, want 400", w.Code)
	}
	if code := envelopeCode(t, w); code != 40100 {
		t.Fatalf("code = %v, want 40100", code)
	}
}

func TestRequireAuthMalformedHeader(t *testing.T) {
	svc, err := auth.NewService("test-secret", "1h")
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	for _, header := range []string{
		"Basic dXNlcjpwYXNz",
		"Bearer",
		"Bearer ",
		"token-without-scheme",
	} {
		r, called := newAuthRouter(t, svc)
		w := doProtected(r, header)
		if *called {
			t.Fatalf("handler ran for header %q", header)
		}
		if code := envelopeCode(t, w); code != 40100 {
			t.Fatalf("header %q: code = %v, want 40100", header, code)
		}
	}
}

func TestRequireAuthInvalidToken(t *testing.T) {
	svc, err := auth.NewService("test-secret", "1h")
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	r, called := newAuthRouter(t, svc)

	w := doProtected(r, "Bearer not.a.token")

	if *called {
		t.Fatalf("handler ran with an invalid token")
	}
	if code := envelopeCode(t, w); code != 40100 {
		t.Fatalf("code = %v, want 40100", code)
	}
}

func TestRequireAuthExpiredToken(t *testing.T) {
	svc, err := auth.NewService("test-secret", "1h")
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	token, err := svc.GenerateToken(auth.Claims{"id": "1", "exp": time.Now().Unix() - 60})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	r, called := newAuthRouter(t, svc)

	w := doProtected(r, "Bearer "+token)

	if *called {
		t.Fatalf("handler ran with an expired token")
	}
	if code := envelopeCode(t, w); code != 40101 {
		t.Fatalf("code = %v, want 40101", code)
	}
}

func TestRequireAuthValidToken(t *testing.T) {
	svc, err := auth.NewService("test-secret", "1h")
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	token, err := svc.GenerateUserToken("9", "carol", "carol@example.com")
	if err != nil {
		t.Fatalf("GenerateUserToken: %v", err)
	}
	r, called := newAuthRouter(t, svc)

	w := doProtected(r, "Bearer "+token)

	if !*called {
		t.Fatalf("handler did not run with valid credentials")
	}
	if w.Code != http.StatusOK {
		t.Fatalf("transport status = %d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["id"] != "9" {
		t.Fatalf("identity id = %v", body["id"])
	}
}
