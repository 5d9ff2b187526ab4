// Package config provides configuration management for the AI doctor backend.
// It handles loading and validation of configuration values from environment
// variables, with support for required variables, default values, and
// collective error reporting: every problem found while loading is gathered
// and reported in a single error, so a misconfigured deployment fails fast
// with the full picture instead of one variable at a time.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// PoolConfig represents configuration for the database connection pool.
type PoolConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	MaxSize  int
}

// AuthConfig holds authentication-related configuration.
// The JWT secret is process-wide state loaded once at startup; it must never
// appear as a literal in source or in log output.
type AuthConfig struct {
	JWTSecret           string        // Secret key for signing JWTs
	AccessTokenDuration time.Duration // Time-to-live for access tokens
}

// GroqConfig holds settings for the Groq API, which serves both the
// speech-to-text endpoint (patient voice) and the vision-language endpoint
// (assistant brain).
type GroqConfig struct {
	BaseURL     string
	APIKey      string
	STTModel    string // transcription model
	VisionModel string // multimodal chat model
}

// TTSConfig holds settings for the text-to-speech providers (doctor voice).
// The ElevenLabs key is only needed when that provider is selected at request
// time; gTTS needs no credentials.
type TTSConfig struct {
	GTTSBaseURL       string
	ElevenLabsBaseURL string
	ElevenLabsAPIKey  string
	ElevenLabsVoiceID string
	OutputDir         string // where synthesized MP3 files are written
	Playback          bool   // play synthesized audio on the server host
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port string
}

// AppConfig is the top-level configuration structure for the application.
type AppConfig struct {
	DB     *PoolConfig
	Auth   *AuthConfig
	Groq   *GroqConfig
	TTS    *TTSConfig
	Server *ServerConfig
}

// getRequiredEnv reads a required environment variable, appending to the
// errors slice when it is missing.
func getRequiredEnv(key string, errors *[]string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		*errors = append(*errors, fmt.Sprintf("missing required environment variable: %s", key))
		return ""
	}
	return value
}

// getOptionalEnv reads an optional environment variable with a default.
func getOptionalEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getOptionalEnvInt reads an optional environment variable parsed as an int.
// Uses defaultValue if not set; appends an error if parsing fails.
func getOptionalEnvInt(key string, defaultValue int, errors *[]string) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected integer, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueInt
}

// getOptionalEnvBool reads an optional environment variable parsed as a bool.
func getOptionalEnvBool(key string, defaultValue bool, errors *[]string) bool {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueBool, err := strconv.ParseBool(valueStr)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected boolean, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueBool
}

// getOptionalEnvDuration reads an optional environment variable parsed as a
// time.Duration ("30m", "1h30s", ...). Uses defaultValue if not set; appends
// an error if parsing fails.
func getOptionalEnvDuration(key string, defaultValue time.Duration, errors *[]string) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueDuration, err := time.ParseDuration(valueStr)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected duration string, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueDuration
}

// clampPoolSize keeps the connection pool size within reasonable bounds.
func clampPoolSize(size int, varName string, errors *[]string) int {
	if size < 5 {
		*errors = append(*errors, fmt.Sprintf("pool size for %s (%d) is less than minimum 5, clamping to 5", varName, size))
		return 5
	}
	if size > 100 {
		*errors = append(*errors, fmt.Sprintf("pool size for %s (%d) is greater than maximum 100, clamping to 100", varName, size))
		return 100
	}
	return size
}

// LoadConfig creates and returns an AppConfig by reading and validating
// environment variables. It collects all errors encountered during loading
// and returns a single aggregated error if any exist.
//
// The Groq and ElevenLabs API keys are deliberately optional here: the auth
// core must be able to boot without them, and an endpoint that needs a
// missing key fails individually at call time instead.
func LoadConfig() (*AppConfig, error) {
	var errors []string

	// Database configuration
	dbConfig := &PoolConfig{
		Host:     getOptionalEnv("DB_HOST", "localhost"),
		Port:     getOptionalEnvInt("DB_PORT", 5432, &errors),
		User:     getRequiredEnv("DB_USER", &errors),
		Password: getRequiredEnv("DB_PASSWORD", &errors),
		DBName:   getRequiredEnv("DB_NAME", &errors),
		MaxSize:  clampPoolSize(getOptionalEnvInt("DB_POOL_SIZE", 10, &errors), "DB_POOL_SIZE", &errors),
	}

	// Auth configuration
	authConfig := &AuthConfig{
		JWTSecret:           getRequiredEnv("JWT_SECRET", &errors),
		AccessTokenDuration: getOptionalEnvDuration("JWT_ACCESS_TOKEN_DURATION", 30*time.Minute, &errors),
	}

	// Groq configuration (speech-to-text and vision-language)
	groqConfig := &GroqConfig{
		BaseURL:     getOptionalEnv("GROQ_API_URL", "https://api.groq.com"),
		APIKey:      getOptionalEnv("GROQ_API_KEY", ""),
		STTModel:    getOptionalEnv("GROQ_STT_MODEL", "whisper-large-v3"),
		VisionModel: getOptionalEnv("GROQ_VISION_MODEL", "meta-llama/llama-4-scout-17b-16e-instruct"),
	}

	// Text-to-speech configuration (doctor voice)
	ttsConfig := &TTSConfig{
		GTTSBaseURL:       getOptionalEnv("GTTS_API_URL", "https://translate.google.com"),
		ElevenLabsBaseURL: getOptionalEnv("ELEVENLABS_API_URL", "https://api.elevenlabs.io"),
		ElevenLabsAPIKey:  getOptionalEnv("ELEVENLABS_API_KEY", ""),
		ElevenLabsVoiceID: getOptionalEnv("ELEVENLABS_VOICE_ID", "pNInz6obpgDQGcFmaJgB"), // Adam pre-made voice
		OutputDir:         getOptionalEnv("TTS_OUTPUT_DIR", "./audio"),
		Playback:          getOptionalEnvBool("TTS_PLAYBACK", false, &errors),
	}

	serverConfig := &ServerConfig{
		Port: getOptionalEnv("PORT", "8080"),
	}

	if len(errors) > 0 {
		return nil, fmt.Errorf("configuration errors:\n- %s", strings.Join(errors, "\n- "))
	}

	return &AppConfig{
		DB:     dbConfig,
		Auth:   authConfig,
		Groq:   groqConfig,
		TTS:    ttsConfig,
		Server: serverConfig,
	}, nil
}
