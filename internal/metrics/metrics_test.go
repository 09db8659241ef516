package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(bookingOutcomes.WithLabelValues("conflict"))
	BookingOutcome("conflict")
	assert.Equal(t, before+1, testutil.ToFloat64(bookingOutcomes.WithLabelValues("conflict")))

	before = testutil.ToFloat64(webhooks.WithLabelValues("PAID", "duplicate"))
	Webhook("PAID", "duplicate")
	assert.Equal(t, before+1, testutil.ToFloat64(webhooks.WithLabelValues("PAID", "duplicate")))
}

func TestMiddlewareAndHandler(t *testing.T) {
	app := fiber.New()
	app.Use(Middleware())
	app.Get("/spaces/:id", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/metrics", Handler())

	resp, err := app.Test(httptest.NewRequest("GET", "/spaces/123", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 1.0, testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/spaces/:id", "200")))

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "coworkhub_http_requests_total")
}
