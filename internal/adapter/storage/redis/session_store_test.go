package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore_SetGetDelete(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewSessionStore(client, "walletgw:")
	ctx := context.Background()

	key := "hashconnect_pairing"
	value := []byte(`{"topic":"t-1","accountIds":["0.0.1111"]}`)

	// Get before set => nil
	result, err := store.Get(ctx, key)
	assert.NoError(t, err)
	assert.Nil(t, result)

	require.NoError(t, store.Set(ctx, key, value))

	result, err = store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, value, result)

	// Stored under the namespaced key without expiry
	assert.True(t, s.Exists("walletgw:session:hashconnect_pairing"))
	assert.Zero(t, s.TTL("walletgw:session:hashconnect_pairing"))

	require.NoError(t, store.Delete(ctx, key))
	result, err = store.Get(ctx, key)
	assert.NoError(t, err)
	assert.Nil(t, result)
}

func TestSessionStore_DeleteMissingKey(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewSessionStore(client, "")

	assert.NoError(t, store.Delete(context.Background(), "hashpack_mock_connection"))
}

func TestSessionStore_PrefixesAreIsolated(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	a := NewSessionStore(client, "a:")
	b := NewSessionStore(client, "b:")
	ctx := context.Background()

	require.NoError(t, a.Set(ctx, "k", []byte("from-a")))

	got, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)
}
