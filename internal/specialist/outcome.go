package specialist

import "time"

// OutcomeKind tags the result of one ask call.
type OutcomeKind string

const (
	// OutcomeAnswered means the specialist returned a well-formed answer
	// within its timeout.
	OutcomeAnswered OutcomeKind = "answered"

	// OutcomeTimedOut means the per-call deadline elapsed before a
	// response arrived.
	OutcomeTimedOut OutcomeKind = "timed_out"

	// OutcomeFailed means the call failed for a transport or protocol
	// reason. Cause carries the classification.
	OutcomeFailed OutcomeKind = "failed"
)

// FailureCause is a short machine-readable classification of a failed
// ask call.
type FailureCause string

const (
	// CauseConnection covers refused connections, resets, and DNS
	// failures.
	CauseConnection FailureCause = "connection"

	// CauseProtocol covers non-success status codes, malformed payloads,
	// and empty answers.
	CauseProtocol FailureCause = "protocol"

	// CauseTimeout covers transport-level timeouts other than the
	// per-call deadline (dial or handshake timeouts).
	CauseTimeout FailureCause = "timeout"

	// CauseUnexpected covers everything else.
	CauseUnexpected FailureCause = "unexpected"
)

// Outcome is the resolved result of one ask call. Every call produces
// exactly one Outcome; timeouts and failures are values here, not errors.
type Outcome struct {
	Kind OutcomeKind

	// Answer holds the specialist's text when Kind is OutcomeAnswered.
	Answer string

	// Latency is the wall-clock duration of the call.
	Latency time.Duration

	// Cause is set when Kind is OutcomeFailed.
	Cause FailureCause

	// Err is the underlying error for failed calls. Never serialized.
	Err error
}

// Answered builds a successful outcome.
func Answered(answer string, latency time.Duration) Outcome {
	return Outcome{Kind: OutcomeAnswered, Answer: answer, Latency: latency}
}

// TimedOut builds an outcome for a call that exceeded its deadline.
func TimedOut(latency time.Duration) Outcome {
	return Outcome{Kind: OutcomeTimedOut, Latency: latency}
}

// Failed builds an outcome for a call that failed before resolving.
func Failed(cause FailureCause, err error, latency time.Duration) Outcome {
	return Outcome{Kind: OutcomeFailed, Cause: cause, Err: err, Latency: latency}
}

// Answered reports whether the outcome carries a usable answer.
func (o Outcome) Answered() bool {
	return o.Kind == OutcomeAnswered
}
