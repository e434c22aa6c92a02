package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/dusk-indust/consilium/internal/specialist"
	"github.com/google/uuid"
)

// Compile-time interface check.
var _ Orchestrator = (*Service)(nil)

// DefaultMaxQuestionLen bounds inbound questions when no explicit limit
// is configured.
const DefaultMaxQuestionLen = 4096

// Service implements Orchestrator. It validates the inbound question,
// then drives the FanOut and the Aggregator in sequence and returns the
// Result unchanged; it adds no merge logic of its own. The roster is
// fixed at construction and read-only afterwards, so one Service serves
// any number of concurrent consultations.
type Service struct {
	roster     []specialist.Identity
	fanout     *FanOut
	agg        *Aggregator
	onProgress func(ProgressEvent)
	maxLen     int
	logger     *slog.Logger
	newID      func() string
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithMaxQuestionLen overrides the maximum accepted question length in
// bytes. Zero disables the bound.
func WithMaxQuestionLen(n int) ServiceOption {
	return func(s *Service) {
		s.maxLen = n
	}
}

// WithLogger replaces the default logger.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithIDGenerator overrides consultation ID minting.
func WithIDGenerator(fn func() string) ServiceOption {
	return func(s *Service) {
		s.newID = fn
	}
}

// NewService creates the orchestration service for a fixed roster.
// onProgress observes the consultation lifecycle; it may be nil.
func NewService(roster []specialist.Identity, client specialist.Client, synth Synthesizer, onProgress func(ProgressEvent), opts ...ServiceOption) *Service {
	s := &Service{
		roster:     slices.Clone(roster),
		onProgress: onProgress,
		maxLen:     DefaultMaxQuestionLen,
		logger:     slog.Default(),
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.fanout = NewFanOut(client, onProgress)
	s.agg = NewAggregator(synth)
	return s
}

// Consult implements Orchestrator. Validation happens before any
// specialist call; an invalid question costs zero downstream traffic.
func (s *Service) Consult(ctx context.Context, question, locale string) (*Result, error) {
	question = strings.TrimSpace(question)
	if err := s.validate(question); err != nil {
		return nil, err
	}

	req := Request{ID: s.newID(), Question: question, Locale: locale}

	s.logger.Info("consultation started",
		"consultation_id", req.ID,
		"specialists", len(s.roster))

	outcomes, err := s.fanout.Dispatch(ctx, s.roster, req)
	if err != nil {
		s.logger.Warn("consultation aborted",
			"consultation_id", req.ID,
			"error", err)
		return nil, err
	}

	s.emit(ProgressEvent{ConsultationID: req.ID, Status: ProgressSynthesizing})

	result, err := s.agg.Synthesize(ctx, req, outcomes)
	if err != nil {
		return nil, err
	}

	s.emit(ProgressEvent{
		ConsultationID: req.ID,
		Status:         ProgressDone,
		Message:        string(result.Status),
	})
	s.logger.Info("consultation finished",
		"consultation_id", req.ID,
		"status", result.Status)

	return result, nil
}

// Roster implements Orchestrator.
func (s *Service) Roster() []specialist.Identity {
	return slices.Clone(s.roster)
}

// validate rejects questions the orchestrator will not dispatch.
func (s *Service) validate(question string) error {
	if question == "" {
		return &ValidationError{Field: "question", Reason: "must not be empty"}
	}
	if s.maxLen > 0 && len(question) > s.maxLen {
		return &ValidationError{Field: "question", Reason: fmt.Sprintf("must not exceed %d bytes", s.maxLen)}
	}
	return nil
}

// emit sends a consultation-level progress event if a callback is
// registered.
func (s *Service) emit(ev ProgressEvent) {
	if s.onProgress != nil {
		if ev.At.IsZero() {
			ev.At = time.Now()
		}
		s.onProgress(ev)
	}
}
