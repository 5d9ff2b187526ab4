// Package doctor handles the doctor's voice: it synthesizes speech from text
// via one of two hosted providers (gTTS or ElevenLabs), writes the resulting
// MP3 to the configured output directory, and can optionally play it back on
// the server host.
package doctor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/user/aidoctor-go/apperror"
	"github.com/user/aidoctor-go/config"
)

// Supported provider names, selected per request.
const (
	ProviderGTTS       = "gtts"
	ProviderElevenLabs = "elevenlabs"
)

const elevenLabsModel = "eleven_turbo_v2_5"

// Service synthesizes speech through the configured providers.
type Service struct {
	hc  *http.Client
	cfg config.TTSConfig
}

// NewService creates a new speech synthesis Service.
func NewService(cfg config.TTSConfig) *Service {
	return &Service{
		hc:  &http.Client{Timeout: 60 * time.Second},
		cfg: cfg,
	}
}

// SpeechResult describes a completed synthesis.
type SpeechResult struct {
	Status         string `json:"status" example:"success"`
	Method         string `json:"method" example:"gtts"`
	OutputFilepath string `json:"output_filepath" example:"audio/7c9e6679-7425-40de-944b-e07fc1f90ae7.mp3"`
}

// Synthesize converts text to speech with the selected provider and writes
// the MP3 to the output directory under a UUID file name. An empty provider
// defaults to gTTS.
func (s *Service) Synthesize(ctx context.Context, text, provider string) (*SpeechResult, error) {
	if text == "" {
		return nil, apperror.NewBadRequestError("text is required", nil)
	}

	var audio []byte
	var err error
	switch provider {
	case "", ProviderGTTS:
		provider = ProviderGTTS
		audio, err = s.synthesizeGTTS(ctx, text)
	case ProviderElevenLabs:
		audio, err = s.synthesizeElevenLabs(ctx, text)
	default:
		return nil, apperror.NewBadRequestError(fmt.Sprintf("unknown provider '%s'", provider), nil)
	}
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.cfg.OutputDir, 0o755); err != nil {
		return nil, apperror.NewInternalError("failed to create audio output directory", err)
	}

	outputPath := filepath.Join(s.cfg.OutputDir, uuid.NewString()+".mp3")
	if err := os.WriteFile(outputPath, audio, 0o644); err != nil {
		return nil, apperror.NewInternalError("failed to write audio file", err)
	}

	if s.cfg.Playback {
		// Playback is best effort; a missing audio player on the host must
		// not fail the synthesis request.
		if err := playAudio(ctx, outputPath); err != nil {
			log.Printf("doctor: audio playback failed: %v", err)
		}
	}

	return &SpeechResult{
		Status:         "success",
		Method:         provider,
		OutputFilepath: outputPath,
	}, nil
}

// synthesizeGTTS fetches speech from the Google Translate TTS endpoint.
// It needs no credentials; the tw-ob client parameter selects the public
// text-to-speech voice.
func (s *Service) synthesizeGTTS(ctx context.Context, text string) ([]byte, error) {
	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("tl", "en")
	q.Set("q", text)

	reqURL := s.cfg.GTTSBaseURL + "/translate_tts?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, apperror.NewInternalError("failed to build gTTS request", err)
	}

	resp, err := s.hc.Do(req)
	if err != nil {
		return nil, apperror.NewExternalServiceError("gTTS service is unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return nil, apperror.NewExternalServiceError("gTTS request failed",
			fmt.Errorf("status %d: %s", resp.StatusCode, body))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperror.NewExternalServiceError("failed to read gTTS response", err)
	}
	return audio, nil
}

// elevenLabsRequest is the synthesis request body for the ElevenLabs API.
type elevenLabsRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id"`
}

// synthesizeElevenLabs fetches speech from the ElevenLabs TTS endpoint using
// the configured voice.
func (s *Service) synthesizeElevenLabs(ctx context.Context, text string) ([]byte, error) {
	if s.cfg.ElevenLabsAPIKey == "" {
		return nil, apperror.NewInternalError("elevenlabs provider is not configured", nil)
	}

	payload, err := json.Marshal(elevenLabsRequest{Text: text, ModelID: elevenLabsModel})
	if err != nil {
		return nil, apperror.NewInternalError("failed to build elevenlabs request", err)
	}

	reqURL := fmt.Sprintf("%s/v1/text-to-speech/%s?output_format=mp3_22050_32",
		s.cfg.ElevenLabsBaseURL, s.cfg.ElevenLabsVoiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return nil, apperror.NewInternalError("failed to build elevenlabs request", err)
	}
	req.Header.Set("xi-api-key", s.cfg.ElevenLabsAPIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.hc.Do(req)
	if err != nil {
		return nil, apperror.NewExternalServiceError("elevenlabs service is unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return nil, apperror.NewExternalServiceError("elevenlabs request failed",
			fmt.Errorf("status %d: %s", resp.StatusCode, body))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperror.NewExternalServiceError("failed to read elevenlabs response", err)
	}
	return audio, nil
}
