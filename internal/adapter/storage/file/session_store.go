package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"supplychain-wallet-gateway/internal/core/ports"
)

const (
	storeDirMode   = 0o700
	sessionFileMod = 0o600
)

// SessionStore keeps each key in its own file under root. It lets the CLI
// remember a pairing between runs without a Redis server.
type SessionStore struct {
	root string
	mu   sync.RWMutex
}

var _ ports.SessionStore = (*SessionStore)(nil)

func NewSessionStore(root string) *SessionStore {
	return &SessionStore{root: filepath.Clean(root)}
}

// Get returns nil, nil if the key does not exist.
func (s *SessionStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := s.pathForKey(key)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session file %q: %w", key, err)
	}
	return data, nil
}

// Set writes through a temp file so a crash never leaves half a session.
func (s *SessionStore) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.pathForKey(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), storeDirMode); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, value, sessionFileMod); err != nil {
		return fmt.Errorf("write session file %q: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace session file %q: %w", key, err)
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.pathForKey(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete session file %q: %w", key, err)
	}
	return nil
}

func (s *SessionStore) pathForKey(key string) (string, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return "", errors.New("session key is empty")
	}

	cleaned := filepath.Clean(trimmed)
	if filepath.IsAbs(cleaned) || strings.HasPrefix(cleaned, "..") || cleaned == "." {
		return "", fmt.Errorf("invalid session key %q", key)
	}

	return filepath.Join(s.root, cleaned+".json"), nil
}
