package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func newAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("JWT_ISSUER", "")
	t.Setenv("JWT_AUDIENCE", "")

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", JWTAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("user_id")})
	})
	return r
}

func signToken(t *testing.T, secret string, claims jwt.RegisteredClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	r := newAuthRouter(t)
	token := signToken(t, testSecret, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	w := doRequest(r, "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestJWTAuthRejectsMissingToken(t *testing.T) {
	r := newAuthRouter(t)

	w := doRequest(r, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestJWTAuthRejectsBadSignature(t *testing.T) {
	r := newAuthRouter(t)
	token := signToken(t, "wrong-secret", jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	w := doRequest(r, "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestJWTAuthRejectsExpiredToken(t *testing.T) {
	r := newAuthRouter(t)
	token := signToken(t, testSecret, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	})

	w := doRequest(r, "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestJWTAuthRejectsMissingSubject(t *testing.T) {
	r := newAuthRouter(t)
	token := signToken(t, testSecret, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	w := doRequest(r, "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestJWTAuthChecksIssuerWhenConfigured(t *testing.T) {
	r := newAuthRouter(t)
	t.Setenv("JWT_ISSUER", "prepmate")

	// The middleware reads config at construction; rebuild with the
	// issuer set.
	r = gin.New()
	r.GET("/whoami", JWTAuth(), func(c *gin.Context) { c.Status(http.StatusOK) })

	token := signToken(t, testSecret, jwt.RegisteredClaims{
		Subject:   "user-1",
		Issuer:    "someone-else",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	if w := doRequest(r, "Bearer "+token); w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong issuer: status = %d, want 401", w.Code)
	}

	token = signToken(t, testSecret, jwt.RegisteredClaims{
		Subject:   "user-1",
		Issuer:    "prepmate",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	if w := doRequest(r, "Bearer "+token); w.Code != http.StatusOK {
		t.Fatalf("matching issuer: status = %d, want 200", w.Code)
	}
}
