package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openai/openai-go"
)

// synthesisInstructions steers the model when combining opinions.
const synthesisInstructions = "You are the coordinator of a medical case conference. " +
	"Combine the specialist opinions provided by the user into one coherent answer to the patient's question. " +
	"Keep every clinically relevant point, attribute disagreements to the specialist who raised them, " +
	"and never add information that no specialist provided."

// ModelSynthesizer merges answers by asking a chat-completion model to
// combine them. Any API failure degrades to the label strategy instead of
// failing the consultation.
type ModelSynthesizer struct {
	client   *openai.Client
	model    string
	fallback LabelSynthesizer
	logger   *slog.Logger
}

// NewModelSynthesizer creates a model-backed synthesizer. The client may
// point at any OpenAI-compatible endpoint, including a local runtime.
// logger may be nil.
func NewModelSynthesizer(client *openai.Client, model string, logger *slog.Logger) *ModelSynthesizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ModelSynthesizer{
		client: client,
		model:  model,
		logger: logger,
	}
}

// Synthesize implements Synthesizer.
func (m *ModelSynthesizer) Synthesize(ctx context.Context, req Request, answered []AgentOutcome) (string, error) {
	summary, err := m.complete(ctx, req, answered)
	if err != nil {
		m.logger.Warn("model synthesis failed, falling back to labeled concatenation",
			"consultation_id", req.ID,
			"model", m.model,
			"error", err)
		return m.fallback.Synthesize(ctx, req, answered)
	}
	return summary, nil
}

func (m *ModelSynthesizer) complete(ctx context.Context, req Request, answered []AgentOutcome) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Patient question: %s\n\n", req.Question)
	if req.Locale != "" {
		fmt.Fprintf(&b, "Answer in the language tagged %q.\n\n", req.Locale)
	}
	for _, ao := range answered {
		fmt.Fprintf(&b, "Opinion from the %s specialist:\n%s\n\n", ao.Agent.Name, ao.Outcome.Answer)
	}

	params := openai.ChatCompletionNewParams{
		Model: m.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(synthesisInstructions),
			openai.UserMessage(b.String()),
		},
		Temperature: openai.Float(0.2),
	}

	resp, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("empty completion")
	}

	return content + "\n\n---\n\n" + Disclaimer, nil
}
