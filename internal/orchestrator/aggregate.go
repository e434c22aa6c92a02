package orchestrator

import (
	"context"
	"fmt"
)

// Aggregator combines the per-specialist outcomes of one consultation
// into a single Result, delegating summary text to a Synthesizer.
type Aggregator struct {
	synth Synthesizer
}

// NewAggregator creates an Aggregator with the given synthesis strategy.
func NewAggregator(synth Synthesizer) *Aggregator {
	return &Aggregator{synth: synth}
}

// Synthesize derives the overall status from the outcome set and produces
// the combined summary. Status derivation is order-independent over the
// set; the summary is built from answered outcomes only, kept in roster
// order, so identical outcome sets always synthesize identically. With
// zero answered outcomes no synthesis is attempted and the summary stays
// empty.
func (a *Aggregator) Synthesize(ctx context.Context, req Request, outcomes []AgentOutcome) (*Result, error) {
	result := &Result{
		ID:       req.ID,
		Question: req.Question,
		Outcomes: outcomes,
		Status:   deriveStatus(outcomes),
	}

	if result.Status == StatusUnavailable {
		return result, nil
	}

	answered := make([]AgentOutcome, 0, len(outcomes))
	for _, ao := range outcomes {
		if ao.Outcome.Answered() {
			answered = append(answered, ao)
		}
	}

	summary, err := a.synth.Synthesize(ctx, req, answered)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: synthesize consultation %s: %w", req.ID, err)
	}
	result.Summary = summary

	return result, nil
}

// deriveStatus classifies an outcome set. Monotonic in the count of
// answered outcomes: all answered is Complete, none is Unavailable,
// anything between is Partial.
func deriveStatus(outcomes []AgentOutcome) Status {
	answered := 0
	for _, ao := range outcomes {
		if ao.Outcome.Answered() {
			answered++
		}
	}

	switch {
	case answered == 0:
		return StatusUnavailable
	case answered == len(outcomes):
		return StatusComplete
	default:
		return StatusPartial
	}
}
