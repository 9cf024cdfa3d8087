package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/vitrine/catalog-admin/internal/core/domain"
)

func TestRBAC_Allows(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(RoleKey, domain.RoleUser)

	called := false
	mw := RBAC(domain.RoleAdmin, domain.RoleUser)
	handler := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequireAdmin_AcceptsAdmin(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/category", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(RoleKey, domain.RoleAdmin)

	called := false
	handler := RequireAdmin()(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusCreated)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called || rec.Code != http.StatusCreated {
		t.Fatalf("expected admin to pass the gate, got %d", rec.Code)
	}
}

func TestRequireAdmin_Forbids(t *testing.T) {
	cases := map[string]any{
		"user role": domain.RoleUser,
		"no claims": nil,
		"unknown":   "guest",
	}

	for name, role := range cases {
		t.Run(name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/category", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if role != nil {
				c.Set(RoleKey, role)
			}

			handler := RequireAdmin()(func(c echo.Context) error {
				t.Fatalf("should not reach next handler")
				return nil
			})
			if err := handler(c); err != nil {
				e.HTTPErrorHandler(err, c)
			}

			if rec.Code != http.StatusForbidden {
				t.Fatalf("expected 403, got %d", rec.Code)
			}
			if msg := messageOf(t, rec); msg != "access denied, admin only" {
				t.Fatalf("unexpected message %q", msg)
			}
		})
	}
}
