package service

import (
	"context"
	"errors"
	"testing"

	"supplychain-wallet-gateway/internal/core/ports/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestCipher(t *testing.T, secret string) *SessionCipher {
	t.Helper()
	c, err := NewSessionCipher(secret, "test-salt")
	require.NoError(t, err)
	return c
}

func TestNewSessionCipher_RequiresSecretAndSalt(t *testing.T) {
	_, err := NewSessionCipher("", "salt")
	assert.Error(t, err)

	_, err = NewSessionCipher("secret", "")
	assert.Error(t, err)
}

func TestSessionCipher_SealAndOpen(t *testing.T) {
	c := newTestCipher(t, "passphrase")
	plaintext := []byte(`{"topic":"t-1","accountIds":["0.0.1111"]}`)

	sealed, err := c.Seal(plaintext)
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "0.0.1111")

	opened, err := c.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, plaintext, opened)
}

func TestSessionCipher_UniqueNonces(t *testing.T) {
	c := newTestCipher(t, "passphrase")

	a, err := c.Seal([]byte("same"))
	require.NoError(t, err)
	b, err := c.Seal([]byte("same"))
	require.NoError(t, err)

	assert.NotEqual(t, a, b, "each seal should use a fresh nonce")
}

func TestSessionCipher_WrongKeyFails(t *testing.T) {
	sealed, err := newTestCipher(t, "one").Seal([]byte("data"))
	require.NoError(t, err)

	_, err = newTestCipher(t, "two").Open(sealed)
	assert.Error(t, err)
}

func TestSessionCipher_Garbage(t *testing.T) {
	c := newTestCipher(t, "passphrase")

	_, err := c.Open([]byte("not-hex"))
	assert.Error(t, err)

	_, err = c.Open([]byte("abcd"))
	assert.Error(t, err, "ciphertext shorter than the nonce")
}

func TestSealedStore_SetSealsAndGetOpens(t *testing.T) {
	ctrl := gomock.NewController(t)
	inner := mocks.NewMockSessionStore(ctrl)
	c := newTestCipher(t, "passphrase")
	store := NewSealedStore(inner, c)
	ctx := context.Background()

	var stored []byte
	inner.EXPECT().Set(ctx, "k", gomock.Any()).DoAndReturn(func(_ context.Context, _ string, v []byte) error {
		stored = v
		return nil
	})
	require.NoError(t, store.Set(ctx, "k", []byte("secret value")))
	assert.NotEqual(t, []byte("secret value"), stored)

	inner.EXPECT().Get(ctx, "k").Return(stored, nil)
	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("secret value"), got)
}

func TestSealedStore_MissingKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	inner := mocks.NewMockSessionStore(ctrl)
	store := NewSealedStore(inner, newTestCipher(t, "passphrase"))

	inner.EXPECT().Get(gomock.Any(), "k").Return(nil, nil)

	got, err := store.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSealedStore_TamperedValue(t *testing.T) {
	ctrl := gomock.NewController(t)
	inner := mocks.NewMockSessionStore(ctrl)
	store := NewSealedStore(inner, newTestCipher(t, "passphrase"))

	inner.EXPECT().Get(gomock.Any(), "k").Return([]byte(`{"plain":"json"}`), nil)

	_, err := store.Get(context.Background(), "k")
	assert.Error(t, err)
}

func TestSealedStore_DeletePassesThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	inner := mocks.NewMockSessionStore(ctrl)
	store := NewSealedStore(inner, newTestCipher(t, "passphrase"))

	inner.EXPECT().Delete(gomock.Any(), "k").Return(errors.New("boom"))

	assert.Error(t, store.Delete(context.Background(), "k"))
}
