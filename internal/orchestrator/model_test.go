package orchestrator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chatCompletionHandler fakes the chat-completions endpoint of an
// OpenAI-compatible runtime.
func chatCompletionHandler(t *testing.T, fn func(model string, messages []fakeMessage) (int, string)) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"),
			"unexpected path %q", r.URL.Path)

		var req struct {
			Model    string        `json:"model"`
			Messages []fakeMessage `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		status, content := fn(req.Model, req.Messages)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status == http.StatusOK {
			json.NewEncoder(w).Encode(map[string]any{
				"id":     "chatcmpl-test",
				"object": "chat.completion",
				"choices": []map[string]any{
					{
						"index":         0,
						"message":       map[string]any{"role": "assistant", "content": content},
						"finish_reason": "stop",
					},
				},
			})
		} else {
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"message": content},
			})
		}
	}
}

type fakeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func modelClientFor(ts *httptest.Server) *openai.Client {
	client := openai.NewClient(
		option.WithBaseURL(ts.URL+"/"),
		option.WithAPIKey("test-key"),
		option.WithMaxRetries(0),
	)
	return &client
}

func TestModelSynthesizer_CombinesAnswers(t *testing.T) {
	var gotModel string
	var gotMessages []fakeMessage

	ts := httptest.NewServer(chatCompletionHandler(t, func(model string, messages []fakeMessage) (int, string) {
		gotModel = model
		gotMessages = messages
		return http.StatusOK, "Both specialists agree that BCG therapy is tolerable."
	}))
	defer ts.Close()

	synth := NewModelSynthesizer(modelClientFor(ts), "gemma3:4b", nil)

	answered := []AgentOutcome{
		answeredOutcome("prostate", 1, "BCG therapy causes local irritation"),
		answeredOutcome("bladder", 2, "No bladder-specific contraindication"),
	}
	req := Request{ID: "c-model", Question: "Is BCG therapy safe?", Locale: "en"}

	summary, err := synth.Synthesize(context.Background(), req, answered)
	require.NoError(t, err)

	assert.Equal(t, "gemma3:4b", gotModel)
	require.Len(t, gotMessages, 2, "one system prompt plus one user message")
	assert.Equal(t, "system", gotMessages[0].Role)
	assert.Equal(t, "user", gotMessages[1].Role)
	assert.Contains(t, gotMessages[1].Content, "Is BCG therapy safe?")
	assert.Contains(t, gotMessages[1].Content, "prostate specialist")
	assert.Contains(t, gotMessages[1].Content, "No bladder-specific contraindication")

	assert.Contains(t, summary, "Both specialists agree")
	assert.True(t, strings.HasSuffix(summary, Disclaimer))
}

func TestModelSynthesizer_FallsBackOnAPIError(t *testing.T) {
	ts := httptest.NewServer(chatCompletionHandler(t, func(model string, messages []fakeMessage) (int, string) {
		return http.StatusBadRequest, "model not loaded"
	}))
	defer ts.Close()

	synth := NewModelSynthesizer(modelClientFor(ts), "gemma3:4b", nil)

	answered := []AgentOutcome{
		answeredOutcome("prostate", 1, "BCG therapy causes local irritation"),
	}

	summary, err := synth.Synthesize(context.Background(), Request{ID: "c-fb", Question: "q"}, answered)
	require.NoError(t, err, "a synthesis failure degrades, it does not fail the consultation")

	assert.Contains(t, summary, "[prostate] BCG therapy causes local irritation",
		"fallback uses labeled concatenation")
	assert.True(t, strings.HasSuffix(summary, Disclaimer))
}

func TestModelSynthesizer_FallsBackOnEmptyCompletion(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id": "chatcmpl-empty", "object": "chat.completion", "choices": []any{},
		})
	}))
	defer ts.Close()

	synth := NewModelSynthesizer(modelClientFor(ts), "gemma3:4b", nil)

	answered := []AgentOutcome{
		answeredOutcome("bladder", 1, "No contraindication"),
	}

	summary, err := synth.Synthesize(context.Background(), Request{ID: "c-empty", Question: "q"}, answered)
	require.NoError(t, err)
	assert.Contains(t, summary, "[bladder] No contraindication")
}

func TestModelSynthesizer_Unreachable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := modelClientFor(ts)
	ts.Close()

	synth := NewModelSynthesizer(client, "gemma3:4b", nil)

	answered := []AgentOutcome{
		answeredOutcome("prostate", 1, "opinion"),
	}

	summary, err := synth.Synthesize(context.Background(), Request{ID: "c-down", Question: "q"}, answered)
	require.NoError(t, err)
	assert.Contains(t, summary, "[prostate] opinion")
}
