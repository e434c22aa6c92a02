package orchestrator

import (
	"context"
	"time"

	"github.com/dusk-indust/consilium/internal/specialist"
	"golang.org/x/sync/errgroup"
)

// ProbeResult is the availability of one specialist as observed from the
// orchestrator.
type ProbeResult struct {
	Agent   string            `json:"agent"`
	Status  specialist.Health `json:"status"`
	Latency time.Duration     `json:"-"`
	Detail  string            `json:"detail,omitempty"`
}

// ProbeAll checks every specialist's health endpoint concurrently, each
// probe bounded by timeout. The returned slice is in roster order with
// one entry per specialist; an unreachable specialist reports unhealthy
// with the error in Detail. Probes never fail the call as a whole.
func ProbeAll(ctx context.Context, client specialist.Client, roster []specialist.Identity, timeout time.Duration) []ProbeResult {
	results := make([]ProbeResult, len(roster))
	g, gctx := errgroup.WithContext(ctx)

	for i, sp := range roster {
		g.Go(func() error {
			probeCtx, cancel := context.WithTimeout(gctx, timeout)
			defer cancel()

			start := time.Now()
			health, err := client.Health(probeCtx, sp)

			res := ProbeResult{Agent: sp.Name, Latency: time.Since(start)}
			if err != nil {
				res.Status = specialist.HealthUnhealthy
				res.Detail = err.Error()
			} else {
				res.Status = health.Status
				res.Detail = health.Detail
			}
			results[i] = res
			return nil
		})
	}

	g.Wait()
	return results
}

// DeriveHealth collapses per-specialist probes into one service status:
// healthy when every specialist is healthy, unhealthy when none responds
// usefully, degraded otherwise.
func DeriveHealth(probes []ProbeResult) specialist.Health {
	healthy, unhealthy := 0, 0
	for _, p := range probes {
		switch p.Status {
		case specialist.HealthHealthy:
			healthy++
		case specialist.HealthUnhealthy:
			unhealthy++
		}
	}

	switch {
	case len(probes) == 0 || unhealthy == len(probes):
		return specialist.HealthUnhealthy
	case healthy == len(probes):
		return specialist.HealthHealthy
	default:
		return specialist.HealthDegraded
	}
}
