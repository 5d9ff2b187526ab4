package doctor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/aidoctor-go/apperror"
	"github.com/user/aidoctor-go/config"
)

func TestSynthesize_GTTS(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/translate_tts", r.URL.Path)
		assert.Equal(t, "tw-ob", r.URL.Query().Get("client"))
		assert.Equal(t, "en", r.URL.Query().Get("tl"))
		assert.Equal(t, "Take two aspirin.", r.URL.Query().Get("q"))
		w.Write([]byte("fake-mp3-bytes"))
	}))
	defer srv.Close()

	outDir := t.TempDir()
	svc := NewService(config.TTSConfig{
		GTTSBaseURL: srv.URL,
		OutputDir:   outDir,
	})

	// Empty provider defaults to gtts.
	result, err := svc.Synthesize(context.Background(), "Take two aspirin.", "")
	require.NoError(t, err)
	assert.Equal(t, "success", result.Status)
	assert.Equal(t, ProviderGTTS, result.Method)
	assert.True(t, strings.HasSuffix(result.OutputFilepath, ".mp3"))
	assert.Equal(t, outDir, filepath.Dir(result.OutputFilepath))

	audio, err := os.ReadFile(result.OutputFilepath)
	require.NoError(t, err)
	assert.Equal(t, []byte("fake-mp3-bytes"), audio)
}

func TestSynthesize_ElevenLabs(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/text-to-speech/test-voice", r.URL.Path)
		assert.Equal(t, "mp3_22050_32", r.URL.Query().Get("output_format"))
		assert.Equal(t, "xi_test", r.Header.Get("xi-api-key"))

		var req elevenLabsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Rest and hydrate.", req.Text)
		assert.Equal(t, elevenLabsModel, req.ModelID)

		w.Write([]byte("fake-el-mp3"))
	}))
	defer srv.Close()

	svc := NewService(config.TTSConfig{
		ElevenLabsBaseURL: srv.URL,
		ElevenLabsAPIKey:  "xi_test",
		ElevenLabsVoiceID: "test-voice",
		OutputDir:         t.TempDir(),
	})

	result, err := svc.Synthesize(context.Background(), "Rest and hydrate.", ProviderElevenLabs)
	require.NoError(t, err)
	assert.Equal(t, ProviderElevenLabs, result.Method)

	audio, err := os.ReadFile(result.OutputFilepath)
	require.NoError(t, err)
	assert.Equal(t, []byte("fake-el-mp3"), audio)
}

func TestSynthesize_UnknownProvider(t *testing.T) {
	t.Parallel()

	svc := NewService(config.TTSConfig{OutputDir: t.TempDir()})
	_, err := svc.Synthesize(context.Background(), "hello", "espeak")
	require.Error(t, err)

	appErr, ok := apperror.FromError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode())
}

func TestSynthesize_EmptyText(t *testing.T) {
	t.Parallel()

	svc := NewService(config.TTSConfig{OutputDir: t.TempDir()})
	_, err := svc.Synthesize(context.Background(), "", ProviderGTTS)
	require.Error(t, err)

	appErr, ok := apperror.FromError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode())
}

func TestSynthesize_ElevenLabsUnconfigured(t *testing.T) {
	t.Parallel()

	svc := NewService(config.TTSConfig{OutputDir: t.TempDir()})
	_, err := svc.Synthesize(context.Background(), "hello", ProviderElevenLabs)
	require.Error(t, err)

	appErr, ok := apperror.FromError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, appErr.StatusCode())
}

func TestSynthesize_ProviderFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	svc := NewService(config.TTSConfig{GTTSBaseURL: srv.URL, OutputDir: t.TempDir()})
	_, err := svc.Synthesize(context.Background(), "hello", ProviderGTTS)
	require.Error(t, err)

	appErr, ok := apperror.FromError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, appErr.StatusCode())
}
