package observability

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiberMiddlewareCountsByRoute(t *testing.T) {
	p := NewProm()
	app := fiber.New()
	app.Use(p.FiberMiddleware())
	app.Get("/items/:id", func(c *fiber.Ctx) error { return c.SendString("ok") })

	for _, id := range []string{"1", "2"} {
		resp, err := app.Test(httptest.NewRequest("GET", "/items/"+id, nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(p.RequestsTotal.WithLabelValues("GET", "/items/:id", "200")))
}

func TestRecordAuth(t *testing.T) {
	p := NewProm()
	p.RecordAuth("login", OutcomeRejected)
	p.RecordAuth("login", OutcomeRejected)
	p.RecordAuth("login", OutcomeSuccess)

	assert.Equal(t, 2.0, testutil.ToFloat64(p.AuthOutcomes.WithLabelValues("login", OutcomeRejected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.AuthOutcomes.WithLabelValues("login", OutcomeSuccess)))

	var nilProm *Prom
	assert.NotPanics(t, func() { nilProm.RecordAuth("login", OutcomeSuccess) })
}

func TestHandlerExposesMetrics(t *testing.T) {
	p := NewProm()
	p.RecordAuth("register", OutcomeSuccess)

	app := fiber.New()
	app.Get("/metrics", p.Handler())

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `travelbook_auth_outcomes_total{operation="register",outcome="success"} 1`)
}
