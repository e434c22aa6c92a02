package mcptools

import (
	"context"
	"errors"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dusk-indust/consilium/internal/orchestrator"
	"github.com/dusk-indust/consilium/internal/specialist"
)

// ConsultService handles MCP tool calls for the consultation server mode.
// It wraps an Orchestrator to run consultations and probe the roster.
type ConsultService struct {
	orch          orchestrator.Orchestrator
	client        specialist.Client
	healthTimeout time.Duration
}

// NewConsultService creates a ConsultService. The specialist client is
// used for health probes only; consultations go through orch.
func NewConsultService(orch orchestrator.Orchestrator, client specialist.Client, healthTimeout time.Duration) *ConsultService {
	return &ConsultService{
		orch:          orch,
		client:        client,
		healthTimeout: healthTimeout,
	}
}

// Consult distributes a question to every specialist and returns the
// consolidated outcome.
func (s *ConsultService) Consult(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ConsultInput,
) (*mcp.CallToolResult, ConsultOutput, error) {
	result, err := s.orch.Consult(ctx, input.Question, input.Locale)
	if err != nil {
		var verr *orchestrator.ValidationError
		if errors.As(err, &verr) {
			return nil, ConsultOutput{}, verr
		}
		return nil, ConsultOutput{
			OverallStatus: "aborted",
			Message:       err.Error(),
		}, nil
	}

	out := ConsultOutput{
		ConsultationID: result.ID,
		OverallStatus:  string(result.Status),
		Summary:        result.Summary,
		PerAgent:       make([]AgentReport, len(result.Outcomes)),
	}
	for i, ao := range result.Outcomes {
		report := AgentReport{
			Agent:  ao.Agent.Name,
			Status: string(ao.Outcome.Kind),
		}
		switch ao.Outcome.Kind {
		case specialist.OutcomeAnswered:
			report.Answer = ao.Outcome.Answer
		case specialist.OutcomeFailed:
			report.Cause = string(ao.Outcome.Cause)
		}
		out.PerAgent[i] = report
	}
	return nil, out, nil
}

// ListSpecialists reports the configured roster in presentation order.
func (s *ConsultService) ListSpecialists(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ ListSpecialistsInput,
) (*mcp.CallToolResult, ListSpecialistsOutput, error) {
	roster := s.orch.Roster()
	out := ListSpecialistsOutput{
		Specialists: make([]SpecialistInfo, len(roster)),
	}
	for i, sp := range roster {
		out.Specialists[i] = SpecialistInfo{
			Name:     sp.Name,
			Endpoint: sp.Endpoint,
			Timeout:  sp.Timeout.String(),
			Priority: sp.Priority,
		}
	}
	return nil, out, nil
}

// CheckHealth probes every specialist and reports the collapsed status.
func (s *ConsultService) CheckHealth(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ CheckHealthInput,
) (*mcp.CallToolResult, CheckHealthOutput, error) {
	probes := orchestrator.ProbeAll(ctx, s.client, s.orch.Roster(), s.healthTimeout)

	out := CheckHealthOutput{
		Status:      string(orchestrator.DeriveHealth(probes)),
		Specialists: make([]HealthReport, len(probes)),
	}
	for i, p := range probes {
		out.Specialists[i] = HealthReport{
			Agent:  p.Agent,
			Status: string(p.Status),
			Detail: p.Detail,
		}
	}
	return nil, out, nil
}
