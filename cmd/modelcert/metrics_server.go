package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/opendqbf/modelcert/internal/metrics"
)

// serveMetrics blocks serving a Prometheus scrape endpoint on addr; callers
// run it in its own goroutine.
func serveMetrics(addr string, collectors *metrics.Collectors) {
	reg := prometheus.NewRegistry()
	collectors.MustRegister(reg)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	log.WithField("addr", addr).Info("serving metrics")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.WithError(err).Error("metrics server exited")
	}
}
