package ocr

import (
	"context"
	"sync"
)

// Mock implements Engine for testing.
type Mock struct {
	// RecognizeFunc is called when Recognize is invoked.
	// If nil, returns "".
	RecognizeFunc func(ctx context.Context, imageDataURL string) (string, error)

	mu    sync.Mutex
	calls []string
}

// Recognize calls RecognizeFunc and records the image URL.
func (m *Mock) Recognize(ctx context.Context, imageDataURL string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, imageDataURL)
	m.mu.Unlock()

	if m.RecognizeFunc != nil {
		return m.RecognizeFunc(ctx, imageDataURL)
	}
	return "", nil
}

// Calls returns the image URLs passed to Recognize.
func (m *Mock) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]string, len(m.calls))
	copy(result, m.calls)
	return result
}

// Verify Mock implements Engine at compile time.
var _ Engine = (*Mock)(nil)
