// Package metrics provides the Prometheus metrics of the panel server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry is the Prometheus registry for all panel metrics.
var Registry = prometheus.NewRegistry()

var initialized = false

// Init registers all collectors with the registry. Called once during
// startup; repeated calls are no-ops.
func Init() error {
	if initialized {
		return nil
	}

	if err := Registry.Register(collectors.NewGoCollector()); err != nil {
		return err
	}
	if err := Registry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return err
	}
	if err := registerHTTPMetrics(); err != nil {
		return err
	}
	if err := registerUpstreamMetrics(); err != nil {
		return err
	}

	initialized = true
	return nil
}

// MustInit initializes metrics and panics on error.
func MustInit() {
	if err := Init(); err != nil {
		panic("failed to initialize metrics: " + err.Error())
	}
}

var (
	// UpstreamFailures counts failed calls to the remote services by
	// service and operation.
	UpstreamFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "syspanel_upstream_failures_total",
			Help: "Total number of failed upstream service calls",
		},
		[]string{"service", "operation"},
	)
)

func registerUpstreamMetrics() error {
	return Registry.Register(UpstreamFailures)
}
