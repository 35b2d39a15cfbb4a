// Package gemini provides the answer generator backed by the Google Gemini
// generateContent REST API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-2.5-flash"
	defaultTimeout = 60 * time.Second
)

// answerInstruction is the fixed system instruction. The model must answer
// strictly from the supplied document text; the trailing sentinel phrase is
// relied on verbatim by callers, do not reword it.
const answerInstruction = "Answer the question using only the text of the provided document. " +
	"Do not use any outside knowledge. If the document does not contain the information " +
	"needed to answer, respond exactly with: The information is not available in the document."

// ErrUnexpected tags any generation failure that is not a structured error
// reported by the service itself (transport faults, malformed responses).
var ErrUnexpected = errors.New("unexpected generation failure")

// ServiceError is a structured failure reported by the Gemini API
// (quota, auth, malformed request). The service message is preserved
// so it can be shown to the user as-is.
type ServiceError struct {
	Code    int
	Status  string
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("gemini error [%d %s]: %s", e.Code, e.Status, e.Message)
}

// Config for the Gemini client.
type Config struct {
	APIKey  string        // if empty, falls back to env GEMINI_API_KEY
	BaseURL string        // default https://generativelanguage.googleapis.com/v1beta
	Model   string        // e.g. "gemini-2.5-flash"
	Timeout time.Duration // http client timeout
}

// Client is a synchronous Gemini generateContent caller. One request per
// question; no retries, no streaming.
type Client struct {
	cfg  Config
	http *http.Client
	log  *slog.Logger
}

// NewClient constructs a Gemini client, applying defaults for unset fields.
// An explicitly supplied API key takes priority over the environment value.
// A missing key is not an error here: the service rejects the call and that
// rejection is surfaced through the normal error path.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  logger,
	}
}

type generateRequest struct {
	SystemInstruction *content  `json:"systemInstruction,omitempty"`
	Contents          []content `json:"contents"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []candidate `json:"candidates"`
	Error      *apiError   `json:"error,omitempty"`
}

type candidate struct {
	Content content `json:"content"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Generate asks the model the given question against the document text and
// returns the model's text output unmodified. The payload is always two plain
// text parts in fixed order, document before question; an empty document is
// sent as-is rather than special-cased.
func (c *Client) Generate(ctx context.Context, documentText, question string) (string, error) {
	start := time.Now()

	c.log.Info("gemini.generate.start",
		"model", c.cfg.Model,
		"document_len", len(documentText),
		"question_len", len(question),
	)

	body := generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: answerInstruction}}},
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: documentText}, {Text: question}},
		}},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("%w: marshal request: %v", ErrUnexpected, err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", ErrUnexpected, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("gemini.generate.transport_error", "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return "", fmt.Errorf("%w: calling gemini: %v", ErrUnexpected, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrUnexpected, err)
	}

	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		c.log.Error("gemini.generate.decode_error", "error", err, "status", resp.StatusCode,
			"elapsed_ms", time.Since(start).Milliseconds())
		return "", fmt.Errorf("%w: gemini status %d: undecodable response", ErrUnexpected, resp.StatusCode)
	}

	if out.Error != nil {
		svcErr := &ServiceError{Code: out.Error.Code, Status: out.Error.Status, Message: out.Error.Message}
		c.log.Error("gemini.generate.service_error", "error", svcErr,
			"elapsed_ms", time.Since(start).Milliseconds())
		return "", svcErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: gemini status %d", ErrUnexpected, resp.StatusCode)
	}
	if len(out.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates in gemini response", ErrUnexpected)
	}

	var answer strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		answer.WriteString(p.Text)
	}

	c.log.Info("gemini.generate.ok",
		"answer_len", answer.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return answer.String(), nil
}
