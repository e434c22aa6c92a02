package specialist

import "context"

// Client is the interface for calling one specialist agent.
type Client interface {
	// Ask sends a question to the specialist and resolves to exactly one
	// Outcome. Transport and protocol failures are absorbed into the
	// Outcome; Ask never panics and never returns an error value. The
	// per-call deadline is the identity's Timeout, layered under ctx.
	Ask(ctx context.Context, sp Identity, req AskRequest) Outcome

	// Health probes the specialist's health endpoint.
	Health(ctx context.Context, sp Identity) (HealthResponse, error)
}
