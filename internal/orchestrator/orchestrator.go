package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/dusk-indust/consilium/internal/specialist"
)

// Request is one consultation travelling through the orchestrator. It is
// immutable once created and scoped to a single Consult call.
type Request struct {
	// ID uniquely identifies the consultation.
	ID string

	// Question is the validated question text.
	Question string

	// Locale is an optional language hint forwarded to specialists.
	Locale string
}

// AgentOutcome pairs one configured specialist with the resolved outcome
// of its call. Exactly one exists per specialist per consultation.
type AgentOutcome struct {
	Agent   specialist.Identity
	Outcome specialist.Outcome
}

// Status classifies a finished consultation.
type Status string

const (
	// StatusComplete means every specialist answered.
	StatusComplete Status = "complete"

	// StatusPartial means at least one specialist answered and at least
	// one timed out or failed.
	StatusPartial Status = "partial"

	// StatusUnavailable means no specialist answered.
	StatusUnavailable Status = "unavailable"
)

// Result is the product of one consultation. Outcomes holds exactly one
// entry per configured specialist, in roster order, regardless of
// completion order on the wire.
type Result struct {
	ID       string
	Question string
	Outcomes []AgentOutcome
	Status   Status

	// Summary is the synthesized combined opinion. Empty exactly when
	// Status is StatusUnavailable.
	Summary string
}

// ProgressStatus is the state of one specialist call within a
// consultation.
type ProgressStatus string

const (
	ProgressPending      ProgressStatus = "pending"
	ProgressWorking      ProgressStatus = "working"
	ProgressAnswered     ProgressStatus = "answered"
	ProgressTimedOut     ProgressStatus = "timed_out"
	ProgressFailed       ProgressStatus = "failed"
	ProgressSynthesizing ProgressStatus = "synthesizing"
	ProgressDone         ProgressStatus = "done"
)

// ProgressEvent is emitted as a consultation advances. Agent is empty for
// consultation-level events.
type ProgressEvent struct {
	ConsultationID string
	Agent          string
	Status         ProgressStatus
	Message        string
	At             time.Time
}

// Orchestrator accepts one external question and drives it to a Result.
type Orchestrator interface {
	// Consult validates the question, fans it out to every configured
	// specialist, and synthesizes the outcomes into one Result. The error
	// is non-nil only for invalid input or a canceled consultation;
	// individual specialist failures are absorbed into the Result.
	Consult(ctx context.Context, question, locale string) (*Result, error)

	// Roster returns the configured specialist set in configured order.
	Roster() []specialist.Identity
}

// ValidationError rejects an inbound question before any specialist call
// is made.
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("orchestrator: invalid %s: %s", e.Field, e.Reason)
}
