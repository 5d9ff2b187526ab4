// Package brain handles the assistant's reasoning: it encodes an uploaded
// image and delegates the image-plus-question analysis to the Groq
// vision-language API. As with the other AI modules, the provider is an
// opaque remote service; this code only marshals the request.
package brain

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/user/aidoctor-go/apperror"
	"github.com/user/aidoctor-go/config"
)

// DefaultQuery is used when the caller supplies an image without a question.
const DefaultQuery = "Is there something wrong with my face?"

// Service is a minimal client for the Groq chat-completions endpoint with
// multimodal (vision) content.
type Service struct {
	hc  *http.Client
	cfg config.GroqConfig
}

// NewService creates a new vision analysis Service.
func NewService(cfg config.GroqConfig) *Service {
	return &Service{
		hc:  &http.Client{Timeout: 60 * time.Second},
		cfg: cfg,
	}
}

// Request/response shapes for the chat-completions API. Only the fields this
// module marshals are modeled.

type imageURL struct {
	URL string `json:"url"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// EncodeImage reads an image and returns its base64 encoding, the format the
// vision API expects inside a data URL.
func EncodeImage(image io.Reader) (string, error) {
	data, err := io.ReadAll(image)
	if err != nil {
		return "", apperror.NewBadRequestError("failed to read image upload", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// Analyze sends the query and the base64-encoded image to the vision model
// and returns its free-text answer.
func (s *Service) Analyze(ctx context.Context, query, encodedImage string) (string, error) {
	if s.cfg.APIKey == "" {
		return "", apperror.NewInternalError("vision service is not configured", nil)
	}
	if query == "" {
		query = DefaultQuery
	}

	reqBody := chatRequest{
		Model: s.cfg.VisionModel,
		Messages: []chatMessage{
			{
				Role: "user",
				Content: []contentPart{
					{Type: "text", Text: query},
					{
						Type:     "image_url",
						ImageURL: &imageURL{URL: "data:image/jpeg;base64," + encodedImage},
					},
				},
			},
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", apperror.NewInternalError("failed to build vision request", err)
	}

	url := s.cfg.BaseURL + "/openai/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", apperror.NewInternalError("failed to build vision request", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.hc.Do(req)
	if err != nil {
		return "", apperror.NewExternalServiceError("vision service is unreachable", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperror.NewExternalServiceError("failed to read vision response", err)
	}

	if resp.StatusCode >= 400 {
		return "", apperror.NewExternalServiceError("vision request failed",
			fmt.Errorf("status %d: %s", resp.StatusCode, respBody))
	}

	var cr chatResponse
	if err := json.Unmarshal(respBody, &cr); err != nil {
		return "", apperror.NewExternalServiceError("invalid vision response", err)
	}
	if len(cr.Choices) == 0 {
		return "", apperror.NewExternalServiceError("vision response contained no choices", nil)
	}

	return cr.Choices[0].Message.Content, nil
}
