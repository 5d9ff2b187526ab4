// Package patient handles the patient's voice: it accepts recorded audio and
// delegates transcription wholesale to the Groq speech-to-text API. The local
// code only re-marshals the uploaded file into the provider's multipart
// request; no audio processing happens here.
package patient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/user/aidoctor-go/apperror"
	"github.com/user/aidoctor-go/config"
)

// Service is a minimal client for the Groq audio transcription endpoint.
type Service struct {
	hc  *http.Client
	cfg config.GroqConfig
}

// NewService creates a new transcription Service.
func NewService(cfg config.GroqConfig) *Service {
	return &Service{
		// Transcription of long recordings can take a while; the request
		// context still bounds each call from the handler side.
		hc:  &http.Client{Timeout: 120 * time.Second},
		cfg: cfg,
	}
}

// transcriptionResponse is the slice of the provider's response body we use.
type transcriptionResponse struct {
	Text string `json:"text"`
}

// Transcribe uploads the audio file to the provider and returns the
// transcript text.
func (s *Service) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	if s.cfg.APIKey == "" {
		return "", apperror.NewInternalError("speech-to-text service is not configured", nil)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", apperror.NewInternalError("failed to build transcription request", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", apperror.NewInternalError("failed to read audio upload", err)
	}
	if err := mw.WriteField("model", s.cfg.STTModel); err != nil {
		return "", apperror.NewInternalError("failed to build transcription request", err)
	}
	if err := mw.Close(); err != nil {
		return "", apperror.NewInternalError("failed to build transcription request", err)
	}

	url := s.cfg.BaseURL + "/openai/v1/audio/transcriptions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", apperror.NewInternalError("failed to build transcription request", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := s.hc.Do(req)
	if err != nil {
		return "", apperror.NewExternalServiceError("speech-to-text service is unreachable", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperror.NewExternalServiceError("failed to read speech-to-text response", err)
	}

	if resp.StatusCode >= 400 {
		return "", apperror.NewExternalServiceError("speech-to-text request failed",
			fmt.Errorf("status %d: %s", resp.StatusCode, respBody))
	}

	var tr transcriptionResponse
	if err := json.Unmarshal(respBody, &tr); err != nil {
		return "", apperror.NewExternalServiceError("invalid speech-to-text response", err)
	}

	return tr.Text, nil
}
