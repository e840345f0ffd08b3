package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/bike-catalog/internal/logger"
	"github.com/wichananm65/bike-catalog/internal/metrics"
)

func TestMiddleware_PanicIsLoggedAndCounted(t *testing.T) {
	var buf bytes.Buffer
	m := metrics.New()
	app := fiber.New()
	setupMiddleware(app, logger.New("info", "json", &buf), m)
	app.Get("/explode", func(c *fiber.Ctx) error {
		panic("boom")
	})
	app.Get("/metrics", m.Handler())

	res, err := app.Test(httptest.NewRequest("GET", "/explode", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("expected 500 after panic, got %d", res.StatusCode)
	}
	if res.Header.Get(fiber.HeaderXRequestID) == "" {
		t.Fatalf("expected a request id header")
	}

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected one access log line, got %q: %v", buf.String(), err)
	}
	if entry["path"] != "/explode" || entry["status"] != float64(500) {
		t.Fatalf("unexpected access log entry %v", entry)
	}

	res2, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	if err != nil {
		t.Fatalf("metrics request failed: %v", err)
	}
	body, _ := io.ReadAll(res2.Body)
	want := `bike_http_requests_total{method="GET",path="/explode",status="500"} 1`
	if !strings.Contains(string(body), want) {
		t.Fatalf("expected %q in metrics output", want)
	}
}
