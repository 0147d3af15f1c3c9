// Package metrics exposes operational counters on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	LoginsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "guardianrx_logins_total",
		Help: "Successful staff logins.",
	})

	AlertsDerived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "guardianrx_alerts_derived_total",
		Help: "Alerts produced by regeneration runs.",
	})

	AlertsResolved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "guardianrx_alerts_resolved_total",
		Help: "Alerts marked resolved by staff.",
	})

	ImportedRows = promauto.NewCounter(prometheus.CounterOpts{
		Name: "guardianrx_imported_rows_total",
		Help: "Medicine rows accepted from stock imports.",
	})

	SkippedImportRows = promauto.NewCounter(prometheus.CounterOpts{
		Name: "guardianrx_skipped_import_rows_total",
		Help: "Malformed rows dropped during stock imports.",
	})
)

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler { return promhttp.Handler() }
