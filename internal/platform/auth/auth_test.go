package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const testSecret = "test-secret"

func signToken(t *testing.T, roles []string, secret string) string {
	t.Helper()
	claims := &Claims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func invoke(t *testing.T, mw echo.MiddlewareFunc, req *http.Request) (error, echo.Context) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	h := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	return h(c), c
}

func TestJWTMiddleware_ValidToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, []string{RoleViewer}, testSecret))

	err, c := invoke(t, JWTMiddleware(JWTConfig{Secret: testSecret}), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	roles := RolesFromContext(c.Request().Context())
	if len(roles) != 1 || roles[0] != RoleViewer {
		t.Errorf("expected viewer role in context, got %v", roles)
	}
	if UserIDFromContext(c.Request().Context()) != "u-1" {
		t.Error("expected subject in context")
	}
}

func TestJWTMiddleware_MissingToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	err, _ := invoke(t, JWTMiddleware(JWTConfig{Secret: testSecret}), req)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %v", err)
	}
}

func TestJWTMiddleware_WrongSecret(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, []string{RoleScheduler}, "other"))
	err, _ := invoke(t, JWTMiddleware(JWTConfig{Secret: testSecret}), req)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %v", err)
	}
}

func withRoles(req *http.Request, mw echo.MiddlewareFunc, roles []string) (error, echo.Context) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	seed := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			ctx = contextWithRoles(ctx, roles)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
	h := seed(mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) }))
	return h(c), c
}

func TestRequireRole_Allowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	err, _ := withRoles(req, RequireRole(RoleScheduler), []string{RoleScheduler})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRequireRole_Denied(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	err, _ := withRoles(req, RequireRole(RoleScheduler), []string{RoleViewer})
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %v", err)
	}
}

func TestRequireRole_SchedulerImpliesViewer(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	err, _ := withRoles(req, RequireRole(RoleViewer), []string{RoleScheduler})
	if err != nil {
		t.Errorf("expected scheduler to pass viewer gate, got %v", err)
	}
}

func TestDevAuthMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	err, c := invoke(t, DevAuthMiddleware(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	roles := RolesFromContext(c.Request().Context())
	if len(roles) != 1 || roles[0] != RoleScheduler {
		t.Errorf("expected scheduler role, got %v", roles)
	}
}

func contextWithRoles(ctx context.Context, roles []string) context.Context {
	return context.WithValue(ctx, UserRolesKey, roles)
}
