package specialist

import "time"

// Identity describes one configured specialist agent. The set of
// identities is loaded once at startup and never mutated, so values can
// be read by any number of concurrent consultations without locking.
type Identity struct {
	// Name uniquely identifies the specialist within the roster.
	Name string

	// Endpoint is the base URL of the specialist service.
	Endpoint string

	// Timeout bounds a single ask call to this specialist.
	Timeout time.Duration

	// Priority breaks ties during answer deduplication. Lower wins.
	Priority int
}

// --- Health ---

// Health is the coarse availability state reported by a specialist.
type Health string

const (
	HealthHealthy   Health = "healthy"
	HealthDegraded  Health = "degraded"
	HealthUnhealthy Health = "unhealthy"
)

// --- Wire Types ---

// AskRequest is the payload for POST {endpoint}/ask.
type AskRequest struct {
	Question string `json:"question"`
	Locale   string `json:"locale,omitempty"`
}

// AskResponse is a specialist's answer to an ask call.
type AskResponse struct {
	Agent  string `json:"agent"`
	Answer string `json:"answer"`
}

// HealthResponse is the payload for GET {endpoint}/health.
type HealthResponse struct {
	Status Health `json:"status"`
	Detail string `json:"detail,omitempty"`
}
