// Package audio persists synthesized speech as uniquely named artifacts
// under a static-file-served directory.
package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store writes audio artifacts to a directory and maps them to public URLs.
// Every Save produces a fresh file name, so concurrent turns never
// overwrite each other's audio.
type Store struct {
	dir     string
	baseURL string
}

// NewStore creates a store rooted at dir, serving artifacts under baseURL
// (e.g. "/audio"). The directory is created if missing.
func NewStore(dir, baseURL string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("audio: create dir %s: %w", dir, err)
	}
	return &Store{
		dir:     dir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// Dir returns the artifact directory.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes data as "<prefix>-<uuid>.mp3" and returns its public URL.
// The write goes through a temp file and rename so a half-written
// artifact is never served.
func (s *Store) Save(prefix string, data []byte) (string, error) {
	name := fmt.Sprintf("%s-%s.mp3", prefix, uuid.NewString())
	path := filepath.Join(s.dir, name)

	tmp, err := os.CreateTemp(s.dir, name+".tmp")
	if err != nil {
		return "", fmt.Errorf("audio: create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("audio: write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("audio: close artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("audio: rename artifact: %w", err)
	}

	return s.baseURL + "/" + name, nil
}
