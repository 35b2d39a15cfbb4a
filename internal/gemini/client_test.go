package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const notFoundSentinel = "The information is not available in the document."

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Model:   "gemini-2.5-flash",
		Timeout: 5 * time.Second,
	}, nil)
}

func textResponse(text string) generateResponse {
	return generateResponse{
		Candidates: []candidate{{Content: content{Role: "model", Parts: []part{{Text: text}}}}},
	}
}

func TestGenerate_Success(t *testing.T) {
	var captured generateRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/models/gemini-2.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_ = json.NewEncoder(w).Encode(textResponse("Paris."))
	})

	answer, err := client.Generate(context.Background(), "France's capital is Paris.", "What is the capital of France?")

	require.NoError(t, err)
	assert.Equal(t, "Paris.", answer)

	// Fixed payload shape: one user content, document part before question part.
	require.NotNil(t, captured.SystemInstruction)
	assert.Contains(t, captured.SystemInstruction.Parts[0].Text, notFoundSentinel)
	require.Len(t, captured.Contents, 1)
	require.Len(t, captured.Contents[0].Parts, 2)
	assert.Equal(t, "France's capital is Paris.", captured.Contents[0].Parts[0].Text)
	assert.Equal(t, "What is the capital of France?", captured.Contents[0].Parts[1].Text)
}

func TestGenerate_EmptyDocumentStillIssuesRequest(t *testing.T) {
	var captured generateRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_ = json.NewEncoder(w).Encode(textResponse(notFoundSentinel))
	})

	answer, err := client.Generate(context.Background(), "", "anything")

	require.NoError(t, err)
	assert.Equal(t, notFoundSentinel, answer)
	require.Len(t, captured.Contents, 1)
	require.Len(t, captured.Contents[0].Parts, 2)
	assert.Equal(t, "", captured.Contents[0].Parts[0].Text)
	assert.Equal(t, "anything", captured.Contents[0].Parts[1].Text)
}

func TestGenerate_SentinelReturnedUnmodified(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(textResponse(notFoundSentinel))
	})

	answer, err := client.Generate(context.Background(), "unrelated text", "who?")

	require.NoError(t, err)
	assert.Equal(t, notFoundSentinel, answer)
}

func TestGenerate_MultiPartAnswerConcatenated(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		resp := generateResponse{
			Candidates: []candidate{{Content: content{Parts: []part{{Text: "first "}, {Text: "second"}}}}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	})

	answer, err := client.Generate(context.Background(), "doc", "q")

	require.NoError(t, err)
	assert.Equal(t, "first second", answer)
}

func TestGenerate_ServiceError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(generateResponse{
			Error: &apiError{Code: 429, Message: "Quota exceeded", Status: "RESOURCE_EXHAUSTED"},
		})
	})

	_, err := client.Generate(context.Background(), "doc", "q")

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, 429, svcErr.Code)
	assert.Equal(t, "Quota exceeded", svcErr.Message)
	assert.NotErrorIs(t, err, ErrUnexpected)
}

func TestGenerate_UnexpectedErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "undecodable body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte("<html>gateway timeout</html>"))
			},
		},
		{
			name: "no candidates",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(generateResponse{})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler)
			_, err := client.Generate(context.Background(), "doc", "q")
			assert.ErrorIs(t, err, ErrUnexpected)
		})
	}
}

func TestGenerate_TransportFault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewClient(Config{APIKey: "k", BaseURL: srv.URL, Timeout: time.Second}, nil)
	_, err := client.Generate(context.Background(), "doc", "q")

	assert.ErrorIs(t, err, ErrUnexpected)
	var svcErr *ServiceError
	assert.False(t, errors.As(err, &svcErr))
}

func TestNewClient_Defaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")

	c := NewClient(Config{}, nil)
	assert.Equal(t, "env-key", c.cfg.APIKey)
	assert.Equal(t, defaultBaseURL, c.cfg.BaseURL)
	assert.Equal(t, defaultModel, c.cfg.Model)
	assert.Equal(t, defaultTimeout, c.cfg.Timeout)
}

func TestNewClient_ExplicitKeyWinsOverEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")

	c := NewClient(Config{APIKey: "explicit-key"}, nil)
	assert.Equal(t, "explicit-key", c.cfg.APIKey)
}
