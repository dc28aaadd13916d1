package service

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"supplychain-wallet-gateway/internal/core/ports"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters for deriving the sealing key from a passphrase.
const (
	argon2Time    = 1
	argon2Memory  = 64 * 1024 // 64MB
	argon2Threads = 4
	argon2KeyLen  = 32
)

// SessionCipher seals persisted pairing data with AES-256-GCM. The key is
// derived from a passphrase with Argon2id.
type SessionCipher struct {
	aead cipher.AEAD
}

// NewSessionCipher derives the key from secret and salt.
func NewSessionCipher(secret, salt string) (*SessionCipher, error) {
	if secret == "" {
		return nil, errors.New("session secret must not be empty")
	}
	if salt == "" {
		return nil, errors.New("session salt must not be empty")
	}

	key := argon2.IDKey([]byte(secret), []byte(salt), argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating GCM: %w", err)
	}
	return &SessionCipher{aead: aead}, nil
}

// Seal returns hex(nonce + ciphertext).
func (s *SessionCipher) Seal(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generating nonce: %w", err)
	}

	sealed := s.aead.Seal(nonce, nonce, plaintext, nil)
	out := make([]byte, hex.EncodedLen(len(sealed)))
	hex.Encode(out, sealed)
	return out, nil
}

// Open reverses Seal.
func (s *SessionCipher) Open(encoded []byte) ([]byte, error) {
	sealed := make([]byte, hex.DecodedLen(len(encoded)))
	if _, err := hex.Decode(sealed, encoded); err != nil {
		return nil, fmt.Errorf("decoding ciphertext: %w", err)
	}

	nonceSize := s.aead.NonceSize()
	if len(sealed) < nonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}

	nonce, ciphertext := sealed[:nonceSize], sealed[nonceSize:]
	plaintext, err := s.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("decrypting: %w", err)
	}
	return plaintext, nil
}

// SealedStore wraps a SessionStore so values are encrypted at rest.
type SealedStore struct {
	next   ports.SessionStore
	cipher *SessionCipher
}

// NewSealedStore creates a sealing decorator around next.
func NewSealedStore(next ports.SessionStore, c *SessionCipher) *SealedStore {
	return &SealedStore{next: next, cipher: c}
}

func (s *SealedStore) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := s.next.Get(ctx, key)
	if err != nil || raw == nil {
		return raw, err
	}
	plain, err := s.cipher.Open(raw)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", key, err)
	}
	return plain, nil
}

func (s *SealedStore) Set(ctx context.Context, key string, value []byte) error {
	sealed, err := s.cipher.Seal(value)
	if err != nil {
		return fmt.Errorf("sealing %s: %w", key, err)
	}
	return s.next.Set(ctx, key, sealed)
}

func (s *SealedStore) Delete(ctx context.Context, key string) error {
	return s.next.Delete(ctx, key)
}
