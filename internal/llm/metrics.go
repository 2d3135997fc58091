package llm

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "interviewer"

// Metrics holds the Prometheus collectors for model calls.
type Metrics struct {
	requestDuration *prometheus.HistogramVec
	requestsTotal   *prometheus.CounterVec
	tokensTotal     *prometheus.CounterVec
	costTotal       *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "llm_request_duration_seconds",
				Help:      "Duration of LLM provider calls in seconds",
				Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"model", "purpose"},
		),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "llm_requests_total",
				Help:      "Total number of LLM provider calls",
			},
			[]string{"model", "purpose", "status"}, // status: success, error
		),
		tokensTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "llm_tokens_total",
				Help:      "Total tokens consumed by LLM provider calls",
			},
			[]string{"model", "type"}, // type: input, output
		),
		costTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "llm_cost_usd_total",
				Help:      "Estimated cost in USD of LLM provider calls",
			},
			[]string{"model"},
		),
	}
	reg.MustRegister(m.requestDuration, m.requestsTotal, m.tokensTotal, m.costTotal)
	return m
}

// MetricsProvider is a decorator that records each call in Prometheus.
type MetricsProvider struct {
	inner   Provider
	metrics *Metrics
}

// WithMetrics wraps a Provider with Prometheus instrumentation.
// A nil Metrics returns p unchanged.
func WithMetrics(p Provider, m *Metrics) Provider {
	if m == nil {
		return p
	}
	return &MetricsProvider{inner: p, metrics: m}
}

func (p *MetricsProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := p.inner.Generate(ctx, req)

	model := p.inner.ModelID()
	purpose := PurposeFrom(ctx)
	p.metrics.requestDuration.WithLabelValues(model, purpose).Observe(time.Since(start).Seconds())

	status := "success"
	if err != nil {
		status = "error"
	}
	p.metrics.requestsTotal.WithLabelValues(model, purpose, status).Inc()

	if resp != nil {
		p.metrics.tokensTotal.WithLabelValues(model, "input").Add(float64(resp.Usage.InputTokens))
		p.metrics.tokensTotal.WithLabelValues(model, "output").Add(float64(resp.Usage.OutputTokens))
		if cost := LookupCost(model); cost != nil {
			p.metrics.costTotal.WithLabelValues(model).Add(cost.Cost(resp.Usage.InputTokens, resp.Usage.OutputTokens))
		}
	}

	return resp, err
}

func (p *MetricsProvider) ModelID() string {
	return p.inner.ModelID()
}
