package tutor

import "testing"

func TestReplyHistoryBounded(t *testing.T) {
	h := NewReplyHistory()
	h.Push("first")
	h.Push("second")
	h.Push("third")
	h.Push("fourth")

	entries := h.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	want := []string{"fourth", "third", "second"}
	for i, entry := range entries {
		if entry != want[i] {
			t.Errorf("entries[%d] = %q, want %q", i, entry, want[i])
		}
	}
}

func TestReplyHistorySeen(t *testing.T) {
	tests := []struct {
		name      string
		history   []string
		candidate string
		want      bool
	}{
		{
			name:      "empty history",
			history:   nil,
			candidate: "anything",
			want:      false,
		},
		{
			name:      "shared phrase is not containment",
			history:   []string{"The answer involves squaring the base"},
			candidate: "Squaring the base is the key idea",
			want:      false,
		},
		{
			name:      "expanded repeat",
			history:   []string{"try squaring it"},
			candidate: "Maybe try squaring it now",
			want:      true,
		},
		{
			name:      "truncated repeat",
			history:   []string{"Maybe try squaring it now"},
			candidate: "try squaring it",
			want:      true,
		},
		{
			name:      "punctuation and case ignored",
			history:   []string{"Try, squaring it!"},
			candidate: "TRY SQUARING IT",
			want:      true,
		},
		{
			name:      "unrelated reply",
			history:   []string{"think about the exponent", "what is the base"},
			candidate: "multiply the factors together",
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewReplyHistory()
			for i := len(tt.history) - 1; i >= 0; i-- {
				h.Push(tt.history[i])
			}
			if got := h.Seen(tt.candidate); got != tt.want {
				t.Errorf("Seen(%q) = %v, want %v", tt.candidate, got, tt.want)
			}
		})
	}
}

func TestNormalizeReply(t *testing.T) {
	got := normalizeReply(`Think about \(2^3\), okay?`)
	want := "thinkabout23okay"
	if got != want {
		t.Errorf("normalizeReply = %q, want %q", got, want)
	}
}
