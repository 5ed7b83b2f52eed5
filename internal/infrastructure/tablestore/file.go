package tablestore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/acordafut/standings-engine/internal/usecase"
)

// FileStore keeps table text on the local filesystem, for development and
// tests. The change token is a content hash, so compare-and-swap works the
// same way as against the git-backed store.
type FileStore struct {
	root string
	mu   sync.Mutex
}

func NewFileStore(root string) (*FileStore, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("file store root is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create store root: %w", err)
	}
	return &FileStore{root: root}, nil
}

func (s *FileStore) Get(_ context.Context, path string) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.resolve(path))
	if err != nil {
		if os.IsNotExist(err) {
			return "", "", fmt.Errorf("%w: path=%s", usecase.ErrNotFound, path)
		}
		return "", "", fmt.Errorf("read table file: %w", err)
	}
	return string(raw), contentToken(raw), nil
}

func (s *FileStore) Put(_ context.Context, path, text, token, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := s.resolve(path)
	current, err := os.ReadFile(target)
	switch {
	case err == nil:
		if contentToken(current) != token {
			return "", fmt.Errorf("change token is stale for path=%s", path)
		}
	case os.IsNotExist(err):
		if token != "" {
			return "", fmt.Errorf("change token is stale for path=%s", path)
		}
	default:
		return "", fmt.Errorf("read table file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create table dir: %w", err)
	}
	if err := os.WriteFile(target, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("write table file: %w", err)
	}
	return contentToken([]byte(text)), nil
}

func (s *FileStore) resolve(path string) string {
	return filepath.Join(s.root, filepath.FromSlash(strings.TrimLeft(path, "/")))
}

func contentToken(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
