package controller

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/Freeeeeet/tutor_center/internal/controller/httpapi"
)

func TestHTTPControllerHealthAndNotFound(t *testing.T) {
	ctrl := NewHTTPController(httpapi.Services{}, zap.NewNop())

	resp, err := ctrl.App().Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health status = %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatal("request id header not set")
	}

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.Header.Set("X-Request-ID", "req-1")
	resp, err = ctrl.App().Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusNotFound || !strings.Contains(string(body), `"error_code":"NOT_FOUND"`) {
		t.Fatalf("missing route: %d %s", resp.StatusCode, body)
	}
	if got := resp.Header.Get("X-Request-ID"); got != "req-1" {
		t.Fatalf("request id = %q", got)
	}
}
