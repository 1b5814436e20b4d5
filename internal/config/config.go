// Package config provides environment-driven configuration for the Ember relay.
package config

import (
	"os"
	"strconv"
)

// Defaults for the relay.
const (
	DefaultPort       = 3001
	DefaultBaseURL    = "https://api.openai.com/v1"
	DefaultChatModel  = "gpt-4-turbo"
	DefaultVoiceID    = "21m00Tcm4TlvDq8ikWAM"
	DefaultVoiceModel = "eleven_multilingual_v2"
	DefaultAudioDir   = "public"
	DefaultLogLevel   = "info"
)

// Config holds the complete relay configuration.
type Config struct {
	// HTTP
	Port int

	// Chat-completion provider
	OpenAIAPIKey  string
	OpenAIBaseURL string
	ChatModel     string

	// Text-to-speech provider
	ElevenLabsAPIKey string
	VoiceID          string
	VoiceModel       string

	// Audio artifacts
	AudioDir string

	// Observability
	LogLevel string
}

// Load reads configuration from the environment, applying defaults
// for anything unset.
func Load() *Config {
	return &Config{
		Port:             envInt("PORT", DefaultPort),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:    env("OPENAI_BASE_URL", DefaultBaseURL),
		ChatModel:        env("EMBER_MODEL", DefaultChatModel),
		ElevenLabsAPIKey: os.Getenv("ELEVENLABS_API_KEY"),
		VoiceID:          env("EMBER_VOICE_ID", DefaultVoiceID),
		VoiceModel:       env("EMBER_VOICE_MODEL", DefaultVoiceModel),
		AudioDir:         env("AUDIO_DIR", DefaultAudioDir),
		LogLevel:         env("LOG_LEVEL", DefaultLogLevel),
	}
}

// env returns the value of the named variable, or fallback if unset or empty.
func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envInt returns the named variable parsed as an int, or fallback if
// unset or unparseable.
func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
