package server

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/tartampluch/go-agewidget/internal/config"
	"github.com/tartampluch/go-agewidget/internal/engine"
)

// Metrics holds the Prometheus collectors of the publisher. Each Server owns
// its registry so tests can create as many servers as they like.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests       *prometheus.CounterVec
	Renders            *prometheus.CounterVec
	BoardRows          prometheus.Gauge
	BoardErrors        prometheus.Gauge
	AnniversariesToday prometheus.Gauge
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: config.MetricsNamespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"route", "status"},
		),
		Renders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: config.MetricsNamespace,
				Name:      "renders_total",
				Help:      "Total number of board renders by trigger",
			},
			[]string{"trigger"},
		),
		BoardRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: config.MetricsNamespace,
			Name:      "board_rows",
			Help:      "Rows on the last published board",
		}),
		BoardErrors: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: config.MetricsNamespace,
			Name:      "board_error_rows",
			Help:      "Rows with an invalid date on the last published board",
		}),
		AnniversariesToday: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: config.MetricsNamespace,
			Name:      "anniversaries_today",
			Help:      "Anniversaries on the last published board",
		}),
	}

	m.registry.MustRegister(m.HTTPRequests, m.Renders, m.BoardRows, m.BoardErrors, m.AnniversariesToday)
	return m
}

// Registry exposes the registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRender records one render of board.
func (m *Metrics) ObserveRender(trigger string, board engine.Board) {
	errs, today := 0, 0
	for _, r := range board.Rows {
		if r.IsError {
			errs++
		}
		if r.IsAnniversaryToday {
			today++
		}
	}
	m.Renders.WithLabelValues(trigger).Inc()
	m.BoardRows.Set(float64(len(board.Rows)))
	m.BoardErrors.Set(float64(errs))
	m.AnniversariesToday.Set(float64(today))
}

func (m *Metrics) observeRequest(route string, status int) {
	m.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}
