package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dusk-indust/consilium/internal/orchestrator"
	"github.com/dusk-indust/consilium/internal/specialist"
)

// ConsultRequest is the body of POST /consult.
type ConsultRequest struct {
	Question string `json:"question"`
	Locale   string `json:"locale,omitempty"`
}

// ConsultResponse reports the consolidated outcome of one consultation.
// Summary is null when no specialist answered.
type ConsultResponse struct {
	ConsultationID string        `json:"consultation_id"`
	Question       string        `json:"question"`
	OverallStatus  string        `json:"overall_status"`
	Summary        *string       `json:"summary"`
	PerAgent       []AgentResult `json:"per_agent"`
}

// AgentResult is one specialist's contribution to a consultation. Answer
// is null unless the specialist answered.
type AgentResult struct {
	Agent     string  `json:"agent"`
	Status    string  `json:"status"`
	Answer    *string `json:"answer"`
	Cause     string  `json:"cause,omitempty"`
	LatencyMS int64   `json:"latency_ms"`
}

// AgentInfo describes one configured specialist for GET /agents.
type AgentInfo struct {
	Name     string `json:"name"`
	Endpoint string `json:"endpoint"`
	Timeout  string `json:"timeout"`
	Priority int    `json:"priority"`
}

// ProgressEntry is one recorded progress event for GET /progress/:id.
type ProgressEntry struct {
	Agent   string    `json:"agent,omitempty"`
	Status  string    `json:"status"`
	Message string    `json:"message,omitempty"`
	At      time.Time `json:"at"`
}

func (s *Server) handleRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"service":     "consilium",
		"version":     s.version,
		"specialists": len(s.orch.Roster()),
	})
}

func (s *Server) handleConsult(c echo.Context) error {
	var req ConsultRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx := c.Request().Context()
	result, err := s.orch.Consult(ctx, req.Question, req.Locale)
	if err != nil {
		var verr *orchestrator.ValidationError
		switch {
		case errors.As(err, &verr):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": verr.Error()})
		case ctx.Err() != nil:
			// The caller went away mid-consultation; there is nobody
			// left to answer.
			return err
		default:
			s.logger.Error("consultation failed", "error", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
	}

	return c.JSON(http.StatusOK, toConsultResponse(result))
}

func (s *Server) handleHealthz(c echo.Context) error {
	roster := s.orch.Roster()
	probes := orchestrator.ProbeAll(c.Request().Context(), s.client, roster, s.healthTimeout)
	overall := orchestrator.DeriveHealth(probes)

	status := http.StatusOK
	if overall == specialist.HealthUnhealthy {
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, echo.Map{
		"status":      overall,
		"specialists": probes,
	})
}

func (s *Server) handleAgents(c echo.Context) error {
	roster := s.orch.Roster()
	agents := make([]AgentInfo, len(roster))
	for i, sp := range roster {
		agents[i] = AgentInfo{
			Name:     sp.Name,
			Endpoint: sp.Endpoint,
			Timeout:  sp.Timeout.String(),
			Priority: sp.Priority,
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"agents": agents})
}

func (s *Server) handleProgress(c echo.Context) error {
	id := c.Param("id")
	events, ok := s.journal.Events(id)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown consultation"})
	}

	entries := make([]ProgressEntry, len(events))
	for i, ev := range events {
		entries[i] = ProgressEntry{
			Agent:   ev.Agent,
			Status:  string(ev.Status),
			Message: ev.Message,
			At:      ev.At,
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"consultation_id": id,
		"events":          entries,
	})
}

func toConsultResponse(result *orchestrator.Result) ConsultResponse {
	resp := ConsultResponse{
		ConsultationID: result.ID,
		Question:       result.Question,
		OverallStatus:  string(result.Status),
		PerAgent:       make([]AgentResult, len(result.Outcomes)),
	}
	if result.Status != orchestrator.StatusUnavailable {
		resp.Summary = &result.Summary
	}

	for i, ao := range result.Outcomes {
		ar := AgentResult{
			Agent:     ao.Agent.Name,
			Status:    string(ao.Outcome.Kind),
			LatencyMS: ao.Outcome.Latency.Milliseconds(),
		}
		if ao.Outcome.Kind == specialist.OutcomeAnswered {
			answer := ao.Outcome.Answer
			ar.Answer = &answer
		}
		if ao.Outcome.Kind == specialist.OutcomeFailed {
			ar.Cause = string(ao.Outcome.Cause)
		}
		resp.PerAgent[i] = ar
	}
	return resp
}
