package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/stwalsh4118/estatedesk/internal/logger"
	"google.golang.org/genai"
)

// Gemini implements Generator over the Gemini API. A client is created
// per call from the key carried by the request.
type Gemini struct {
	timeout time.Duration
	baseURL string
	log     *logger.Logger
}

// NewGemini returns a Generator whose calls are bounded by timeout.
func NewGemini(timeout time.Duration, log *logger.Logger) *Gemini {
	return &Gemini{timeout: timeout, log: log.WithComponent("ai")}
}

// WithBaseURL points the client at another endpoint (used by tests).
func (g *Gemini) WithBaseURL(url string) *Gemini {
	out := *g
	out.baseURL = url
	return &out
}

func (g *Gemini) client(ctx context.Context, apiKey string) (*genai.Client, error) {
	cfg := &genai.ClientConfig{
		APIKey:  strings.TrimSpace(apiKey),
		Backend: genai.BackendGeminiAPI,
	}
	if g.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: g.baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, &ServiceError{Message: "Could not create the AI client.", Err: err}
	}
	return client, nil
}

func (g *Gemini) GenerateText(ctx context.Context, req TextRequest) (string, error) {
	if strings.TrimSpace(req.APIKey) == "" {
		return "", &NotConfiguredError{Message: "The text AI key is not set."}
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	client, err := g.client(ctx, req.APIKey)
	if err != nil {
		return "", err
	}

	cfg := &genai.GenerateContentConfig{Temperature: req.Temperature}
	if req.SystemInstruction != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}
	if req.ResponseSchema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = toGenaiSchema(req.ResponseSchema)
	}

	start := time.Now()
	resp, err := client.Models.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), cfg)
	if err != nil {
		classified := Classify(err)
		g.log.Warn("Text generation failed", map[string]interface{}{
			"model": req.Model,
			"error": err.Error(),
		})
		return "", classified
	}

	text := resp.Text()
	g.log.Debug("Text generated", map[string]interface{}{
		"model":       req.Model,
		"chars":       len(text),
		"duration_ms": time.Since(start).Milliseconds(),
	})

	if req.ResponseSchema != nil {
		if err := ValidateJSON(req.ResponseSchema, text); err != nil {
			return "", &ServiceError{Status: http.StatusBadGateway, Message: "The AI answer was not in the expected format.", Err: err}
		}
	}
	return text, nil
}

func (g *Gemini) EditImage(ctx context.Context, req ImageRequest) (*Image, error) {
	if strings.TrimSpace(req.APIKey) == "" {
		return nil, &NotConfiguredError{Message: "The image AI key is not set."}
	}
	if len(req.Image) == 0 {
		return nil, fmt.Errorf("image is empty")
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	client, err := g.client(ctx, req.APIKey)
	if err != nil {
		return nil, err
	}

	mimeType := req.MIMEType
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(req.Image, mimeType),
			genai.NewPartFromText(req.Prompt),
		}, genai.RoleUser),
	}

	resp, err := client.Models.GenerateContent(ctx, req.Model, contents, nil)
	if err != nil {
		g.log.Warn("Image edit failed", map[string]interface{}{
			"model": req.Model,
			"error": err.Error(),
		})
		return nil, Classify(err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, nil
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return &Image{Data: part.InlineData.Data, MIMEType: part.InlineData.MIMEType}, nil
		}
	}
	return nil, nil
}

// Classify turns a failed call into a ServiceError with a message for
// the user.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &ServiceError{Status: http.StatusGatewayTimeout, Message: "The AI service did not answer in time.", Err: err}
	}

	code, message, details := apiErrorFields(err)
	switch {
	case code == http.StatusForbidden:
		return &ServiceError{Status: code, Message: "The API key is invalid or access is blocked.", Err: err}
	case code == http.StatusTooManyRequests:
		wait := retryDelay(details)
		if wait == "" {
			wait = "a few minutes"
		}
		return &ServiceError{Status: code, Message: "Quota exceeded or too many requests. Try again in " + wait + ".", Err: err}
	case strings.Contains(message, "API_KEY_INVALID") || strings.Contains(err.Error(), "API_KEY_INVALID"):
		return &ServiceError{Status: code, Message: "The API key is not valid.", Err: err}
	case code == http.StatusNotFound || strings.Contains(err.Error(), "Requested entity was not found."):
		return &ServiceError{Status: code, Message: "This model is not available with the current API key.", Err: err}
	default:
		return &ServiceError{Status: code, Message: "Unknown error while contacting the AI service.", Err: err}
	}
}

func apiErrorFields(err error) (int, string, []map[string]any) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, apiErr.Message, apiErr.Details
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code, apiErrPtr.Message, apiErrPtr.Details
	}
	return 0, "", nil
}

func retryDelay(details []map[string]any) string {
	for _, d := range details {
		if v, ok := d["retryDelay"].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
