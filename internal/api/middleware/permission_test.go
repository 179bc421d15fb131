package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/c-library/catalog-admin/internal/core/domain"
)

func invokePermission(t *testing.T, perms map[string]struct{}, required domain.Permission) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/theses/latest", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if perms != nil {
		c.Set("permissions", perms)
	}

	handler := RequirePermission(required)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

func TestRequirePermission_Granted(t *testing.T) {
	perms := map[string]struct{}{string(domain.PermManageTheses): {}}
	rec := invokePermission(t, perms, domain.PermManageTheses)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRequirePermission_Denied(t *testing.T) {
	perms := map[string]struct{}{string(domain.PermViewDashboard): {}}
	rec := invokePermission(t, perms, domain.PermManageTheses)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), string(domain.PermManageTheses)) {
		t.Fatalf("response does not name the missing permission: %s", rec.Body.String())
	}
}

func TestRequirePermission_NoClaims(t *testing.T) {
	rec := invokePermission(t, nil, domain.PermManageUsers)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d", rec.Code)
	}
}

// An admin role alone does not grant feature access; the permission set is
// the only thing consulted here.
func TestRequirePermission_RoleIgnored(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/theses/latest", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("role", "admin")
	c.Set("permissions", map[string]struct{}{})

	handler := RequirePermission(domain.PermManageTheses)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d", rec.Code)
	}
}
