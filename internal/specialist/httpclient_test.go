package specialist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// askHandler is a convenience that decodes an AskRequest and writes back an AskResponse.
func askHandler(t *testing.T, fn func(req AskRequest) AskResponse) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method, "ask always uses POST")
		assert.Equal(t, "/ask", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req AskRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		require.NoError(t, err, "server should be able to decode the ask request")

		resp := fn(req)
		w.Header().Set("Content-Type", "application/json")
		err = json.NewEncoder(w).Encode(resp)
		require.NoError(t, err)
	}
}

func identityFor(ts *httptest.Server, timeout time.Duration) Identity {
	return Identity{
		Name:     "prostate",
		Endpoint: ts.URL,
		Timeout:  timeout,
	}
}

func TestAsk_HappyPath(t *testing.T) {
	ts := httptest.NewServer(askHandler(t, func(req AskRequest) AskResponse {
		assert.Equal(t, "Is BCG therapy safe?", req.Question)
		assert.Equal(t, "en", req.Locale)
		return AskResponse{Agent: "prostate", Answer: "BCG therapy causes local irritation"}
	}))
	defer ts.Close()

	client := NewHTTPClient()
	out := client.Ask(context.Background(), identityFor(ts, 5*time.Second), AskRequest{
		Question: "Is BCG therapy safe?",
		Locale:   "en",
	})

	assert.Equal(t, OutcomeAnswered, out.Kind)
	assert.Equal(t, "BCG therapy causes local irritation", out.Answer)
	assert.Greater(t, out.Latency, time.Duration(0))
	assert.NoError(t, out.Err)
}

func TestAsk_TrailingSlashEndpoint(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ask", r.URL.Path,
			"trailing slash on endpoint should not produce double slash")
		json.NewEncoder(w).Encode(AskResponse{Agent: "x", Answer: "ok"})
	}))
	defer ts.Close()

	client := NewHTTPClient()
	sp := Identity{Name: "x", Endpoint: ts.URL + "/", Timeout: time.Second}
	out := client.Ask(context.Background(), sp, AskRequest{Question: "q"})

	assert.Equal(t, OutcomeAnswered, out.Kind)
}

func TestAsk_TimedOut(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Delay longer than the per-call deadline to force a timeout.
		time.Sleep(500 * time.Millisecond)
		json.NewEncoder(w).Encode(AskResponse{Agent: "slow", Answer: "too late"})
	}))
	defer ts.Close()

	client := NewHTTPClient()
	out := client.Ask(context.Background(), identityFor(ts, 50*time.Millisecond), AskRequest{Question: "q"})

	assert.Equal(t, OutcomeTimedOut, out.Kind)
	assert.Empty(t, out.Answer)
	assert.GreaterOrEqual(t, out.Latency, 50*time.Millisecond)
}

func TestAsk_DefaultTimeoutOption(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		json.NewEncoder(w).Encode(AskResponse{Agent: "slow", Answer: "too late"})
	}))
	defer ts.Close()

	client := NewHTTPClient(WithDefaultTimeout(50 * time.Millisecond))

	// Identity carries no timeout of its own, so the client default applies.
	out := client.Ask(context.Background(), identityFor(ts, 0), AskRequest{Question: "q"})

	assert.Equal(t, OutcomeTimedOut, out.Kind)
}

func TestAsk_ConnectionRefused(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	sp := identityFor(ts, time.Second)
	ts.Close() // nothing is listening anymore

	client := NewHTTPClient()
	out := client.Ask(context.Background(), sp, AskRequest{Question: "q"})

	assert.Equal(t, OutcomeFailed, out.Kind)
	assert.Equal(t, CauseConnection, out.Cause)
	require.Error(t, out.Err)
	assert.Contains(t, out.Err.Error(), "specialist: ask prostate")
}

func TestAsk_NonSuccessStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("model exploded"))
	}))
	defer ts.Close()

	client := NewHTTPClient()
	out := client.Ask(context.Background(), identityFor(ts, time.Second), AskRequest{Question: "q"})

	assert.Equal(t, OutcomeFailed, out.Kind)
	assert.Equal(t, CauseProtocol, out.Cause)

	var protoErr *ProtocolError
	require.ErrorAs(t, out.Err, &protoErr)
	assert.Equal(t, "prostate", protoErr.Agent)
	assert.Equal(t, http.StatusInternalServerError, protoErr.Status)
	assert.Contains(t, protoErr.Detail, "model exploded")
}

func TestAsk_MalformedPayload(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("{not json"))
	}))
	defer ts.Close()

	client := NewHTTPClient()
	out := client.Ask(context.Background(), identityFor(ts, time.Second), AskRequest{Question: "q"})

	assert.Equal(t, OutcomeFailed, out.Kind)
	assert.Equal(t, CauseProtocol, out.Cause)

	var protoErr *ProtocolError
	require.ErrorAs(t, out.Err, &protoErr)
	assert.Contains(t, protoErr.Detail, "malformed answer payload")
}

func TestAsk_EmptyAnswer(t *testing.T) {
	ts := httptest.NewServer(askHandler(t, func(req AskRequest) AskResponse {
		return AskResponse{Agent: "prostate", Answer: "   "}
	}))
	defer ts.Close()

	client := NewHTTPClient()
	out := client.Ask(context.Background(), identityFor(ts, time.Second), AskRequest{Question: "q"})

	assert.Equal(t, OutcomeFailed, out.Kind)
	assert.Equal(t, CauseProtocol, out.Cause)

	var protoErr *ProtocolError
	require.ErrorAs(t, out.Err, &protoErr)
	assert.Contains(t, protoErr.Detail, "empty answer")
}

func TestAsk_ParentCanceledIsNotATimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		json.NewEncoder(w).Encode(AskResponse{Agent: "x", Answer: "late"})
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	client := NewHTTPClient()
	out := client.Ask(ctx, identityFor(ts, 5*time.Second), AskRequest{Question: "q"})

	// External cancellation must never masquerade as the per-call deadline;
	// the coordinator turns it into a hard failure of the whole consultation.
	assert.Equal(t, OutcomeFailed, out.Kind)
	assert.Equal(t, CauseUnexpected, out.Cause)
	assert.NotEqual(t, OutcomeTimedOut, out.Kind)
}

func TestHealth_HappyPath(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method, "health uses GET")
		assert.Equal(t, "/health", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(HealthResponse{Status: HealthHealthy})
	}))
	defer ts.Close()

	client := NewHTTPClient()
	health, err := client.Health(context.Background(), identityFor(ts, time.Second))

	require.NoError(t, err)
	assert.Equal(t, HealthHealthy, health.Status)
}

func TestHealth_Non200(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("warming up"))
	}))
	defer ts.Close()

	client := NewHTTPClient()
	_, err := client.Health(context.Background(), identityFor(ts, time.Second))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 503")
	assert.Contains(t, err.Error(), "warming up")
}

func TestHealth_Unreachable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	sp := identityFor(ts, time.Second)
	ts.Close()

	client := NewHTTPClient()
	_, err := client.Health(context.Background(), sp)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "specialist: health prostate")
}
