package brain

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/aidoctor-go/apperror"
	"github.com/user/aidoctor-go/config"
)

func newTestService(baseURL string) *Service {
	return NewService(config.GroqConfig{
		BaseURL:     baseURL,
		APIKey:      "gsk_test",
		VisionModel: "meta-llama/llama-4-scout-17b-16e-instruct",
	})
}

func TestEncodeImage(t *testing.T) {
	t.Parallel()

	encoded, err := EncodeImage(strings.NewReader("fake-jpeg-bytes"))
	require.NoError(t, err)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("fake-jpeg-bytes")), encoded)
}

func TestAnalyze_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/openai/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer gsk_test", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "meta-llama/llama-4-scout-17b-16e-instruct", req.Model)
		require.Len(t, req.Messages, 1)
		require.Len(t, req.Messages[0].Content, 2)
		assert.Equal(t, "What is this rash?", req.Messages[0].Content[0].Text)
		require.NotNil(t, req.Messages[0].Content[1].ImageURL)
		assert.True(t, strings.HasPrefix(req.Messages[0].Content[1].ImageURL.URL, "data:image/jpeg;base64,"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "That looks like contact dermatitis."}},
			},
		})
	}))
	defer srv.Close()

	svc := newTestService(srv.URL)
	answer, err := svc.Analyze(context.Background(), "What is this rash?", "aW1hZ2U=")
	require.NoError(t, err)
	assert.Equal(t, "That looks like contact dermatitis.", answer)
}

func TestAnalyze_DefaultQuery(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, DefaultQuery, req.Messages[0].Content[0].Text)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "Nothing worrying."}},
			},
		})
	}))
	defer srv.Close()

	svc := newTestService(srv.URL)
	_, err := svc.Analyze(context.Background(), "", "aW1hZ2U=")
	require.NoError(t, err)
}

func TestAnalyze_ProviderError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"model overloaded"}}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	svc := newTestService(srv.URL)
	_, err := svc.Analyze(context.Background(), "query", "aW1hZ2U=")
	require.Error(t, err)

	appErr, ok := apperror.FromError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, appErr.StatusCode())
}

func TestAnalyze_EmptyChoices(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	}))
	defer srv.Close()

	svc := newTestService(srv.URL)
	_, err := svc.Analyze(context.Background(), "query", "aW1hZ2U=")
	require.Error(t, err)
}
