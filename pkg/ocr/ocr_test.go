package ocr_test

import (
	"context"
	"testing"

	"github.com/emberlabs/go-ember/pkg/inference"
	"github.com/emberlabs/go-ember/pkg/ocr"
)

func TestVisionEngineRecognize(t *testing.T) {
	mock := inference.NewMock()
	mock.ChatFunc = func(ctx context.Context, req *inference.ChatRequest) (*inference.ChatResponse, error) {
		if len(req.Messages) != 1 {
			t.Fatalf("expected 1 message, got %d", len(req.Messages))
		}
		msg := req.Messages[0]
		if msg.ImageURL != "data:image/png;base64,abc" {
			t.Errorf("image URL = %q", msg.ImageURL)
		}
		if msg.Content == "" {
			t.Error("expected a transcription prompt")
		}
		return &inference.ChatResponse{
			Message: inference.NewAssistantMessage("  2^3 = 8  "),
		}, nil
	}

	engine := ocr.NewVisionEngine(mock, "gpt-4o")
	text, err := engine.Recognize(context.Background(), "data:image/png;base64,abc")
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if text != "2^3 = 8" {
		t.Errorf("text = %q, want trimmed transcription", text)
	}
}

func TestVisionEngineError(t *testing.T) {
	mock := inference.WithError(inference.ErrProviderUnavailable)
	engine := ocr.NewVisionEngine(mock, "")

	_, err := engine.Recognize(context.Background(), "data:image/png;base64,abc")
	if err == nil {
		t.Fatal("expected error to propagate for caller-side degradation")
	}
}
