package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const testSecret = "test-secret"

type stubDenylist struct {
	revoked map[string]bool
	err     error
}

func (s *stubDenylist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if s.revoked == nil {
		s.revoked = make(map[string]bool)
	}
	s.revoked[jti] = true
	return nil
}

func (s *stubDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.revoked[jti], nil
}

func signToken(t *testing.T, method jwt.SigningMethod, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func defaultClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":         "7",
		"username":    "omar",
		"role":        "admin",
		"permissions": []string{"manage_users", "view_dashboard"},
		"jti":         "CLA-0001",
		"exp":         time.Now().Add(time.Hour).Unix(),
	}
}

func invokeAuth(t *testing.T, header string, denylist *stubDenylist) (echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(testSecret, denylist)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return c, handler(c)
}

func assertHTTPError(t *testing.T, err error, wantStatus int) {
	t.Helper()
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *echo.HTTPError, got %T: %v", err, err)
	}
	if httpErr.Code != wantStatus {
		t.Fatalf("status = %d, want %d (%v)", httpErr.Code, wantStatus, httpErr.Message)
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	_, err := invokeAuth(t, "", &stubDenylist{})
	assertHTTPError(t, err, http.StatusUnauthorized)
}

func TestAuth_MalformedHeader(t *testing.T) {
	_, err := invokeAuth(t, "Basic abc123", &stubDenylist{})
	assertHTTPError(t, err, http.StatusUnauthorized)
}

func TestAuth_InvalidSignature(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, defaultClaims()).SignedString([]byte("other-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	_, err = invokeAuth(t, "Bearer "+token, &stubDenylist{})
	assertHTTPError(t, err, http.StatusUnauthorized)
}

func TestAuth_ExpiredToken(t *testing.T) {
	claims := defaultClaims()
	claims["exp"] = time.Now().Add(-time.Minute).Unix()
	token := signToken(t, jwt.SigningMethodHS256, claims)

	_, err := invokeAuth(t, "Bearer "+token, &stubDenylist{})
	assertHTTPError(t, err, http.StatusUnauthorized)
}

func TestAuth_ValidTokenInjectsClaims(t *testing.T) {
	token := signToken(t, jwt.SigningMethodHS256, defaultClaims())

	c, err := invokeAuth(t, "Bearer "+token, &stubDenylist{})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := c.Get("user_id").(int64); got != 7 {
		t.Fatalf("user_id = %d", got)
	}
	if got := c.Get("username").(string); got != "omar" {
		t.Fatalf("username = %q", got)
	}
	if got := c.Get("role").(string); got != "admin" {
		t.Fatalf("role = %q", got)
	}
	perms := c.Get("permissions").(map[string]struct{})
	if _, ok := perms["manage_users"]; !ok {
		t.Fatalf("permissions missing manage_users: %v", perms)
	}
	if c.Get("token").(string) != token {
		t.Fatal("raw token not stored in context")
	}
}

func TestAuth_RevokedToken(t *testing.T) {
	token := signToken(t, jwt.SigningMethodHS256, defaultClaims())
	denylist := &stubDenylist{revoked: map[string]bool{"CLA-0001": true}}

	_, err := invokeAuth(t, "Bearer "+token, denylist)
	assertHTTPError(t, err, http.StatusUnauthorized)
}

func TestAuth_DenylistUnavailable(t *testing.T) {
	token := signToken(t, jwt.SigningMethodHS256, defaultClaims())
	denylist := &stubDenylist{err: errors.New("redis down")}

	_, err := invokeAuth(t, "Bearer "+token, denylist)
	assertHTTPError(t, err, http.StatusServiceUnavailable)
}

// A token without a permissions claim still passes auth; downstream
// permission checks see an empty set, not a nil map.
func TestAuth_NoPermissionsClaim(t *testing.T) {
	claims := defaultClaims()
	delete(claims, "permissions")
	token := signToken(t, jwt.SigningMethodHS256, claims)

	c, err := invokeAuth(t, "Bearer "+token, &stubDenylist{})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	perms, ok := c.Get("permissions").(map[string]struct{})
	if !ok || perms == nil {
		t.Fatalf("permissions = %v", c.Get("permissions"))
	}
	if len(perms) != 0 {
		t.Fatalf("expected empty set, got %v", perms)
	}
}
