// Package ocr extracts student-written text from worksheet images.
//
// The default engine delegates to a vision-capable chat-completion provider
// rather than a dedicated OCR model; for handwritten math work that reads
// better than classical OCR. Failures are expected to be non-fatal: callers
// degrade to an empty extraction.
package ocr

import (
	"context"
	"strings"

	"github.com/emberlabs/go-ember/pkg/inference"
)

// Engine recognizes text in an image supplied as a data URL.
type Engine interface {
	// Recognize returns the text visible in the image, or "" when none.
	Recognize(ctx context.Context, imageDataURL string) (string, error)
}

const extractPrompt = "Transcribe any text, numbers, and math work visible in this image. " +
	"Return only the transcription, nothing else. If nothing is legible, return an empty response."

// VisionEngine implements Engine on top of a chat-completion provider
// that accepts image parts.
type VisionEngine struct {
	provider inference.Provider
	model    string
}

// NewVisionEngine creates an engine backed by provider. model overrides
// the provider's default model when non-empty.
func NewVisionEngine(provider inference.Provider, model string) *VisionEngine {
	return &VisionEngine{provider: provider, model: model}
}

// Recognize asks the vision model to transcribe the image.
func (e *VisionEngine) Recognize(ctx context.Context, imageDataURL string) (string, error) {
	resp, err := e.provider.Chat(ctx, &inference.ChatRequest{
		Messages: []inference.Message{
			inference.NewImageMessage(extractPrompt, imageDataURL),
		},
		Model:     e.model,
		MaxTokens: 500,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Message.Content), nil
}

// Verify VisionEngine implements Engine at compile time.
var _ Engine = (*VisionEngine)(nil)
