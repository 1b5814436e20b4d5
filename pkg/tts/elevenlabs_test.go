package tts_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/emberlabs/go-ember/pkg/tts"
)

func TestElevenLabsSynthesize(t *testing.T) {
	audio := []byte("fake-mp3-bytes")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/text-to-speech/voice-123" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("xi-api-key") != "test-key" {
			t.Errorf("missing xi-api-key header")
		}

		var payload struct {
			Text          string `json:"text"`
			ModelID       string `json:"model_id"`
			VoiceSettings struct {
				Stability       float64 `json:"stability"`
				SimilarityBoost float64 `json:"similarity_boost"`
			} `json:"voice_settings"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if payload.Text != "Hello world" {
			t.Errorf("text = %q", payload.Text)
		}
		if payload.ModelID != tts.ModelMultilingualV2 {
			t.Errorf("model_id = %q", payload.ModelID)
		}
		if payload.VoiceSettings.Stability != 0.4 {
			t.Errorf("stability = %v, want 0.4", payload.VoiceSettings.Stability)
		}
		if payload.VoiceSettings.SimilarityBoost != 0.75 {
			t.Errorf("similarity_boost = %v, want 0.75", payload.VoiceSettings.SimilarityBoost)
		}

		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write(audio)
	}))
	defer server.Close()

	provider, err := tts.NewElevenLabs(
		tts.WithAPIKey("test-key"),
		tts.WithVoice("voice-123"),
		tts.WithBaseURL(server.URL),
	)
	if err != nil {
		t.Fatalf("NewElevenLabs: %v", err)
	}
	defer provider.Close()

	result, err := provider.Synthesize(context.Background(), "Hello world")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if string(result.Audio) != string(audio) {
		t.Errorf("audio mismatch")
	}
	if result.CharCount != 11 {
		t.Errorf("CharCount = %d, want 11", result.CharCount)
	}
	if result.Format.Encoding != tts.EncodingMP3 {
		t.Errorf("Encoding = %s", result.Format.Encoding)
	}
}

func TestElevenLabsSynthesizeError(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"detail": map[string]interface{}{
				"message": "rate limited",
				"status":  "too_many_requests",
			},
		})
	}))
	defer server.Close()

	provider, _ := tts.NewElevenLabs(
		tts.WithAPIKey("test-key"),
		tts.WithVoice("voice-123"),
		tts.WithBaseURL(server.URL),
	)
	defer provider.Close()

	_, err := provider.Synthesize(context.Background(), "Hello")
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *tts.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if !apiErr.IsRateLimited() {
		t.Errorf("expected rate-limited error, got status %d", apiErr.StatusCode)
	}
	if attempts != 1 {
		t.Errorf("expected exactly 1 attempt, got %d", attempts)
	}
}

func TestElevenLabsRequiresCredentials(t *testing.T) {
	if _, err := tts.NewElevenLabs(); !errors.Is(err, tts.ErrNoAPIKey) {
		t.Errorf("expected ErrNoAPIKey, got %v", err)
	}
	if _, err := tts.NewElevenLabs(tts.WithAPIKey("k")); !errors.Is(err, tts.ErrNoVoiceID) {
		t.Errorf("expected ErrNoVoiceID, got %v", err)
	}
}

func TestMockProvider(t *testing.T) {
	mock := tts.NewMock()
	ctx := context.Background()

	t.Run("Synthesize returns audio", func(t *testing.T) {
		result, err := mock.Synthesize(ctx, "Hello world")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Audio) == 0 {
			t.Error("expected audio data")
		}
		if result.CharCount != 11 {
			t.Errorf("expected 11 chars, got %d", result.CharCount)
		}
	})

	t.Run("Health returns nil", func(t *testing.T) {
		if err := mock.Health(ctx); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("Calls are tracked", func(t *testing.T) {
		if mock.CallCount("Synthesize") != 1 {
			t.Errorf("expected 1 Synthesize call, got %d", mock.CallCount("Synthesize"))
		}
	})

	t.Run("Reset clears calls", func(t *testing.T) {
		mock.Reset()
		if len(mock.Calls()) != 0 {
			t.Error("expected calls to be cleared")
		}
	})
}

func TestMockWithError(t *testing.T) {
	testErr := errors.New("test error")
	mock := tts.WithError(testErr)

	_, err := mock.Synthesize(context.Background(), "Hello")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, testErr) {
		t.Errorf("expected test error, got %v", err)
	}
}
