package completion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

const providerGemini = "gemini"

// contentGenerator is the slice of *genai.Models used here.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiClient asks a Gemini model for the reply. System turns become the
// system instruction; assistant turns are sent with the "model" role.
type GeminiClient struct {
	models contentGenerator
	model  string
}

var _ Client = (*GeminiClient)(nil)

func (g *GeminiClient) String() string {
	return fmt.Sprintf("gemini(%s)", g.model)
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, newError(providerGemini, KindInvalidConfiguration, nil, "API key is required")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, newError(providerGemini, KindInvalidConfiguration, err, "failed to create client: %v", err)
	}

	return &GeminiClient{models: client.Models, model: model}, nil
}

func (g *GeminiClient) Complete(ctx context.Context, turns []Turn) (string, error) {

	var system []string
	contents := make([]*genai.Content, 0, len(turns))

	for _, t := range turns {
		switch t.Role {
		case RoleSystem:
			system = append(system, t.Content)
		case RoleAssistant:
			contents = append(contents, genai.NewContentFromText(t.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(t.Content, genai.RoleUser))
		}
	}

	var cfg *genai.GenerateContentConfig
	if len(system) > 0 {
		cfg = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(strings.Join(system, "\n\n"), genai.RoleUser),
		}
	}

	resp, err := g.models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return "", classifyGeminiError(err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", newError(providerGemini, KindMalformedResponse, nil, "response has no candidates")
	}

	return resp.Text(), nil
}

func classifyGeminiError(err error) *Error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden:
			return newError(providerGemini, KindUnauthorized, err, "API key rejected (%d)", apiErr.Code)
		case apiErr.Code == http.StatusBadRequest && strings.Contains(apiErr.Message, "API key"):
			return newError(providerGemini, KindUnauthorized, err, "API key rejected (%d)", apiErr.Code)
		case apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusBadRequest:
			return newError(providerGemini, KindInvalidConfiguration, err, "request rejected (%d): %s", apiErr.Code, apiErr.Status)
		default:
			return newError(providerGemini, KindUnavailable, err, "service error (%d): %s", apiErr.Code, apiErr.Status)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return newError(providerGemini, KindTimeout, err, "request timed out")
	}

	return newError(providerGemini, KindUnavailable, err, "request failed: %v", err)
}
