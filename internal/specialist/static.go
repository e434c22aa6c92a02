package specialist

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"
)

// Compile-time interface check.
var _ Responder = (*StaticResponder)(nil)

// StaticResponder answers every question with canned text. It backs the
// fake-specialist development binary and in-process test servers; it
// knows nothing about retrieval or generation.
type StaticResponder struct {
	// Name is echoed in every answer payload.
	Name string

	// Answer is the fixed reply. When empty, a reply is derived from the
	// question.
	Answer string

	// Delay is slept before answering, to simulate a slow specialist.
	Delay time.Duration

	// FailRate in [0,1] makes that fraction of calls fail with an error.
	FailRate float64

	// Status is the reported health. Defaults to healthy.
	Status Health
}

// Respond returns the canned answer after the configured delay.
func (r *StaticResponder) Respond(ctx context.Context, req AskRequest) (AskResponse, error) {
	if r.Delay > 0 {
		select {
		case <-time.After(r.Delay):
		case <-ctx.Done():
			return AskResponse{}, ctx.Err()
		}
	}

	if r.FailRate > 0 && rand.Float64() < r.FailRate {
		return AskResponse{}, fmt.Errorf("simulated failure")
	}

	answer := r.Answer
	if answer == "" {
		answer = fmt.Sprintf("%s opinion on %q: no concerns identified.", r.Name, req.Question)
	}
	return AskResponse{Agent: r.Name, Answer: answer}, nil
}

// CheckHealth reports the configured status.
func (r *StaticResponder) CheckHealth(ctx context.Context) HealthResponse {
	status := r.Status
	if status == "" {
		status = HealthHealthy
	}
	return HealthResponse{Status: status}
}
