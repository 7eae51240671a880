package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Generator produces free-form text from a prompt. Implementations must be
// safe for concurrent use.
type Generator interface {
	Generate(ctx context.Context, prompt string, temperature float64) (string, error)
	GenerateChat(ctx context.Context, system, user string, temperature float64) (string, error)
	Available() bool
}

// GenerationService calls the Gemini generation API over HTTP.
type GenerationService struct {
	apiKey string
	client *http.Client
	logger *zap.Logger
}

// NewGenerationService creates a generation service. An empty API key is
// allowed; Available reports false and callers fall back to templates.
func NewGenerationService(apiKey string, logger *zap.Logger) *GenerationService {
	return &GenerationService{
		apiKey: apiKey,
		client: &http.Client{Timeout: 120 * time.Second},
		logger: logger,
	}
}

// Available reports whether the service holds an API key.
func (s *GenerationService) Available() bool {
	return s.apiKey != ""
}

// GenerationRequest represents a content generation API request
type GenerationRequest struct {
	Contents         []ContentPart     `json:"contents"`
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
}

// ContentPart represents content in a generation request
type ContentPart struct {
	Role  string      `json:"role,omitempty"`
	Parts []PartInput `json:"parts"`
}

// GenerationConfig holds generation parameters
type GenerationConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

// GenerationResponse represents a generation API response
type GenerationResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends a single-turn prompt and returns the model text.
func (s *GenerationService) Generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	if s.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	reqBody := GenerationRequest{
		Contents: []ContentPart{
			{Role: "user", Parts: []PartInput{{Text: prompt}}},
		},
		GenerationConfig: &GenerationConfig{
			Temperature:     temperature,
			MaxOutputTokens: 8192,
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	backoff := initialBackoff
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(backoff)
			backoff *= 2
		}

		text, retryable, err := s.callOnce(ctx, jsonData)
		if err == nil {
			return text, nil
		}
		if !retryable || attempt == maxRetries-1 {
			return "", err
		}
		s.logger.Warn("generation attempt failed, retrying",
			zap.Int("attempt", attempt+1),
			zap.Error(err))
	}

	return "", ErrGenerationFailed
}

// GenerateChat flattens a system instruction and a user message into one
// prompt. The generation endpoint has no separate system role.
func (s *GenerationService) GenerateChat(ctx context.Context, system, user string, temperature float64) (string, error) {
	var b strings.Builder
	if system != "" {
		b.WriteString(system)
		b.WriteString("\n\n")
	}
	b.WriteString(user)
	return s.Generate(ctx, b.String(), temperature)
}

func (s *GenerationService) callOnce(ctx context.Context, jsonData []byte) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", generationAPI, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", false, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", true, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
		return "", false, fmt.Errorf("API error: %d: %s", resp.StatusCode, string(body))
	}
	if resp.StatusCode != http.StatusOK {
		return "", true, fmt.Errorf("API error: %d", resp.StatusCode)
	}

	var apiResp GenerationResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", true, fmt.Errorf("failed to decode response: %w", err)
	}

	if apiResp.Error != nil {
		return "", true, fmt.Errorf("API error %d: %s", apiResp.Error.Code, apiResp.Error.Message)
	}
	if apiResp.PromptFeedback != nil && apiResp.PromptFeedback.BlockReason != "" {
		return "", false, fmt.Errorf("prompt blocked: %s", apiResp.PromptFeedback.BlockReason)
	}
	if len(apiResp.Candidates) == 0 {
		return "", true, fmt.Errorf("%w: no candidates returned", ErrGenerationFailed)
	}

	candidate := apiResp.Candidates[0]
	if candidate.FinishReason == "SAFETY" {
		return "", false, fmt.Errorf("generation stopped: %s", candidate.FinishReason)
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		text.WriteString(part.Text)
	}
	if text.Len() == 0 {
		return "", true, fmt.Errorf("%w: empty candidate", ErrGenerationFailed)
	}

	return text.String(), false, nil
}
