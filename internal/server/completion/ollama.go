package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"
)

const providerOllama = "ollama"

// OllamaClient calls the non-streaming /api/chat endpoint of an Ollama server.
type OllamaClient struct {
	baseURL string
	model   string
	client  *http.Client
}

var _ Client = (*OllamaClient)(nil)

func NewOllamaClient(baseURL, model string, timeout time.Duration) *OllamaClient {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &OllamaClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

type ollamaChatRequest struct {
	Model    string `json:"model"`
	Messages []Turn `json:"messages"`
	Stream   bool   `json:"stream"`
}

type ollamaChatResponse struct {
	Model   string `json:"model"`
	Message *Turn  `json:"message"`
	Done    bool   `json:"done"`
	Error   string `json:"error,omitempty"`
}

func (o *OllamaClient) Complete(ctx context.Context, turns []Turn) (string, error) {

	payload, err := json.Marshal(ollamaChatRequest{Model: o.model, Messages: turns, Stream: false})
	if err != nil {
		return "", newError(providerOllama, KindMalformedResponse, err, "marshal request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return "", newError(providerOllama, KindInvalidConfiguration, err, "invalid base URL %q", o.baseURL)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", classifyTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", newError(providerOllama, KindUnavailable, err, "read response: %v", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", newError(providerOllama, KindInvalidConfiguration, nil,
			"model %q not found, pull it with 'ollama pull %s'", o.model, o.model)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", newError(providerOllama, KindUnauthorized, nil, "request rejected: %s", resp.Status)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return "", newError(providerOllama, KindUnavailable, nil, "Ollama API error: %s", resp.Status)
	}

	var out ollamaChatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", newError(providerOllama, KindMalformedResponse, err, "unmarshal response: %v", err)
	}
	if out.Error != "" {
		return "", newError(providerOllama, KindUnavailable, nil, "Ollama error: %s", out.Error)
	}
	if out.Message == nil {
		return "", newError(providerOllama, KindMalformedResponse, nil, "response has no message")
	}

	return out.Message.Content, nil
}

func classifyTransportError(err error) *Error {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return newError(providerOllama, KindUnavailable, err,
			"Ollama is not running, start it with 'ollama serve'")
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return newError(providerOllama, KindTimeout, err, "request timed out")
	}

	return newError(providerOllama, KindUnavailable, err, "Ollama error: %v", err)
}

// String names the endpoint and model; New logs it once the client is built.
func (o *OllamaClient) String() string {
	return fmt.Sprintf("ollama(%s, %s)", o.baseURL, o.model)
}
