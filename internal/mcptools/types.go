package mcptools

// --- MCP tool types for the consultation server mode ---
// These tools are exposed when the binary runs as an MCP server so agentic
// clients can call structured tools instead of the HTTP API.

// ConsultInput is the input for the consult MCP tool.
type ConsultInput struct {
	Question string `json:"question" jsonschema:"the patient question to put before the specialist panel"`
	Locale   string `json:"locale,omitempty" jsonschema:"optional BCP 47 language tag for the answer"`
}

// ConsultOutput is the result of the consult MCP tool.
type ConsultOutput struct {
	ConsultationID string        `json:"consultationId"`
	OverallStatus  string        `json:"overallStatus"` // "complete", "partial" or "unavailable"
	Summary        string        `json:"summary,omitempty"`
	PerAgent       []AgentReport `json:"perAgent"`
	Message        string        `json:"message,omitempty"`
}

// AgentReport is one specialist's contribution within ConsultOutput.
type AgentReport struct {
	Agent  string `json:"agent"`
	Status string `json:"status"` // "answered", "timed_out" or "failed"
	Answer string `json:"answer,omitempty"`
	Cause  string `json:"cause,omitempty"`
}

// ListSpecialistsInput is the input for the list_specialists MCP tool.
type ListSpecialistsInput struct{}

// ListSpecialistsOutput is the result of the list_specialists MCP tool.
type ListSpecialistsOutput struct {
	Specialists []SpecialistInfo `json:"specialists"`
}

// SpecialistInfo is a brief overview of one configured specialist.
type SpecialistInfo struct {
	Name     string `json:"name"`
	Endpoint string `json:"endpoint"`
	Timeout  string `json:"timeout"`
	Priority int    `json:"priority"`
}

// CheckHealthInput is the input for the check_health MCP tool.
type CheckHealthInput struct{}

// CheckHealthOutput is the result of the check_health MCP tool.
type CheckHealthOutput struct {
	Status      string         `json:"status"` // "healthy", "degraded" or "unhealthy"
	Specialists []HealthReport `json:"specialists"`
}

// HealthReport is one specialist's probed availability.
type HealthReport struct {
	Agent  string `json:"agent"`
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}
