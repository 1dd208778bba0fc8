// Package telemetry counts locator resolutions and releases.
package telemetry

import (
	"context"

	"github.com/xraph/go-utils/metrics"

	"github.com/xraph/locator"
)

const namespace = "locator"

// Counters holds the counters fed by Middleware.
type Counters struct {
	Resolutions        metrics.Counter
	ResolutionFailures metrics.Counter
	Releases           metrics.Counter
	ReleaseFailures    metrics.Counter
}

// New creates zeroed counters.
func New() *Counters {
	return &Counters{
		Resolutions: metrics.NewCounter("resolutions_total",
			metrics.WithNamespace(namespace),
			metrics.WithDescription("Services resolved successfully"),
		),
		ResolutionFailures: metrics.NewCounter("resolution_failures_total",
			metrics.WithNamespace(namespace),
			metrics.WithDescription("Service resolutions that failed"),
		),
		Releases: metrics.NewCounter("releases_total",
			metrics.WithNamespace(namespace),
			metrics.WithDescription("Instances handed back to the container"),
		),
		ReleaseFailures: metrics.NewCounter("release_failures_total",
			metrics.WithNamespace(namespace),
			metrics.WithDescription("Releases that failed"),
		),
	}
}

// Snapshot returns the current counter values keyed by metric name.
func (c *Counters) Snapshot() map[string]float64 {
	snapshot := make(map[string]float64, 4)
	for _, counter := range []metrics.Counter{c.Resolutions, c.ResolutionFailures, c.Releases, c.ReleaseFailures} {
		snapshot[counter.Describe().Name] = counter.Value()
	}

	return snapshot
}

// Middleware returns locator middleware that feeds c.
func (c *Counters) Middleware() locator.Middleware {
	return &locator.FuncMiddleware{
		AfterResolveFunc: func(_ context.Context, _ locator.ServiceRef, _ any, err error) error {
			if err != nil {
				c.ResolutionFailures.Inc()
			} else {
				c.Resolutions.Inc()
			}

			return nil
		},
		AfterReleaseFunc: func(_ context.Context, _ any, err error) error {
			if err != nil {
				c.ReleaseFailures.Inc()
			} else {
				c.Releases.Inc()
			}

			return nil
		},
	}
}
