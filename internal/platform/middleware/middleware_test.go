package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/orbook/orbook/internal/platform/apperr"
)

func TestRequestID_Generated(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var captured string
	h := RequestID()(func(c echo.Context) error {
		captured = RequestIDFrom(c)
		return nil
	})
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured == "" {
		t.Error("expected a generated request id")
	}
	if rec.Header().Get("X-Request-ID") != captured {
		t.Error("expected request id echoed in response header")
	}
}

func TestRequestID_Inbound(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "rid-123")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := RequestID()(func(c echo.Context) error { return nil })
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rid := RequestIDFrom(c); rid != "rid-123" {
		t.Errorf("expected inbound id preserved, got %s", rid)
	}
}

func TestRequestIDFrom_BeforeMiddleware(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if rid := RequestIDFrom(c); rid != "" {
		t.Errorf("expected empty id before middleware, got %q", rid)
	}
}

func TestRecovery_Panic(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := Recovery(zerolog.Nop())(func(c echo.Context) error {
		panic("boom")
	})
	err := h(c)
	if err == nil {
		t.Fatal("expected error after recovered panic")
	}
	if apperr.KindOf(err) != apperr.KindUnexpected {
		t.Errorf("kind = %v, want unexpected", apperr.KindOf(err))
	}
	if apperr.Status(err) != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", apperr.Status(err))
	}
}

// A panic surfaces to the client as the same opaque 500 body as any other
// unexpected error.
func TestRecovery_PanicThroughErrorHandler(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(zerolog.Nop())
	e.Use(Recovery(zerolog.Nop()))
	e.GET("/", func(c echo.Context) error { panic("boom") })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var body struct {
		Error struct {
			Kind    string `json:"kind"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Error.Kind != "unexpected" {
		t.Errorf("kind = %q, want unexpected", body.Error.Kind)
	}
	if strings.Contains(body.Error.Message, "boom") {
		t.Errorf("panic detail leaked to client: %q", body.Error.Message)
	}
}

func TestLogger_PassesThrough(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	h := Logger(zerolog.Nop())(func(c echo.Context) error {
		called = true
		return nil
	})
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Error("expected next handler to run")
	}
}
