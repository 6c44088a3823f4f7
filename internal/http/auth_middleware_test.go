package http

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"subtrack/internal/service"
)

func newTestVerifier(t *testing.T) (*service.TokenVerifier, *rsa.PrivateKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("marshal public key: %v", err)
	}
	pubPEM := string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
	verifier, err := service.NewTokenVerifier([]string{pubPEM}, nil, "")
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}
	return verifier, key
}

func signToken(t *testing.T, key *rsa.PrivateKey, subject string) string {
	t.Helper()
	claims := service.TokenClaims{Email: subject + "@example.com", Name: "Test User"}
	claims.Subject = subject
	claims.IssuedAt = jwt.NewNumericDate(time.Now().UTC())
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().UTC().Add(time.Hour))
	raw, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return raw
}

func performRequest(r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware_ResolvesPrincipal(t *testing.T) {
	gin.SetMode(gin.TestMode)
	verifier, key := newTestVerifier(t)

	r := gin.New()
	r.GET("/protected", AuthMiddleware(verifier), func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok || principal.ID != "sub-1" {
			c.Status(http.StatusUnauthorized)
			return
		}
		c.Status(http.StatusOK)
	})

	rec := performRequest(r, http.MethodGet, "/protected", signToken(t, key, "sub-1"), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_AcceptsBearerPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)
	verifier, key := newTestVerifier(t)

	r := gin.New()
	r.GET("/protected", AuthMiddleware(verifier), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	rec := performRequest(r, http.MethodGet, "/protected", "Bearer "+signToken(t, key, "sub-1"), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_RejectsMissingToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	verifier, _ := newTestVerifier(t)

	r := gin.New()
	r.GET("/protected", AuthMiddleware(verifier), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	rec := performRequest(r, http.MethodGet, "/protected", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_RejectsUntrustedToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	verifier, _ := newTestVerifier(t)
	_, rogueKey := newTestVerifier(t)

	r := gin.New()
	r.GET("/protected", AuthMiddleware(verifier), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	rec := performRequest(r, http.MethodGet, "/protected", signToken(t, rogueKey, "sub-1"), nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error != "token_untrusted" {
		t.Fatalf("expected token_untrusted kind, got %q", body.Error)
	}
}
