package observability

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Auth outcomes recorded by RecordAuth.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

type Prom struct {
	RequestsTotal    *prometheus.CounterVec
	RequestsDuration *prometheus.HistogramVec
	InFlight         *prometheus.GaugeVec
	// Auth
	AuthOutcomes *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// NewProm registers the HTTP and auth metrics on a fresh registry, together
// with the Go runtime and process collectors.
func NewProm() *Prom {
	reg := prometheus.NewRegistry()
	p := &Prom{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "travelbook",
				Name:      "http_requests_total",
				Help:      "Total HTTP requests processed",
			},
			[]string{"method", "route", "status"},
		),
		RequestsDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "travelbook",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency distributions.",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"method", "route", "status"},
		),
		InFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "travelbook",
				Name:      "http_in_flight_requests",
				Help:      "Current number of in-flight HTTP requests.",
			},
			[]string{"method"},
		),
		AuthOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "travelbook",
				Subsystem: "auth",
				Name:      "outcomes_total",
				Help:      "Authentication operations by name and outcome.",
			},
			[]string{"operation", "outcome"}, // outcome=success|rejected|error
		),
		gatherer: reg,
	}
	reg.MustRegister(
		p.RequestsTotal, p.RequestsDuration, p.InFlight, p.AuthOutcomes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return p
}

// FiberMiddleware records count and latency of every request by route template.
func (p *Prom) FiberMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		method := c.Method()

		p.InFlight.WithLabelValues(method).Inc()
		defer p.InFlight.WithLabelValues(method).Dec()

		err := c.Next()

		// route template is only known after routing
		route := c.Route().Path
		if route == "" {
			route = "unmatched"
		}
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		code := strconv.Itoa(status)
		p.RequestsTotal.WithLabelValues(method, route, code).Inc()
		p.RequestsDuration.WithLabelValues(method, route, code).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler serves the registry in the Prometheus text format.
func (p *Prom) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(p.gatherer, promhttp.HandlerOpts{}))
}

// RecordAuth counts one authentication operation (register, login, reset, ...).
func (p *Prom) RecordAuth(operation, outcome string) {
	if p == nil {
		return
	}
	p.AuthOutcomes.WithLabelValues(operation, outcome).Inc()
}
