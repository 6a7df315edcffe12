// Package metrics exposes optional Prometheus counters for the
// verification engine, grounded in pkg/metrics/experimental_register.go
// and cmd/olm/main.go's promhttp wiring from the teacher repository. It
// is off by default; the CLI only registers and serves these when
// --metrics-addr is set.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Collectors groups the counters the engine increments as it runs.
type Collectors struct {
	SATCalls    *prometheus.CounterVec
	QBFCalls    *prometheus.CounterVec
	CheckResult *prometheus.CounterVec
}

// New constructs a fresh, unregistered Collectors.
func New() *Collectors {
	return &Collectors{
		SATCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "modelcert_sat_calls_total",
			Help: "Number of incremental SAT facade solve calls made.",
		}, []string{"component"}),
		QBFCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "modelcert_qbf_oracle_calls_total",
			Help: "Number of 2-QBF oracle invocations made.",
		}, []string{"outcome"}),
		CheckResult: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "modelcert_check_result_total",
			Help: "Outcome of each verification check, by check name.",
		}, []string{"check", "outcome"}),
	}
}

// MustRegister registers every collector against reg.
func (c *Collectors) MustRegister(reg *prometheus.Registry) {
	reg.MustRegister(c.SATCalls, c.QBFCalls, c.CheckResult)
}
