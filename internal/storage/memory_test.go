package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetGet(t *testing.T) {
	sut := NewMemoryStore()
	defer sut.Close()
	ctx := context.Background()

	require.NoError(t, sut.Set(ctx, "k", []byte("v"), 0))

	data, err := sut.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(data))
}

func TestMemoryStore_GetMissing(t *testing.T) {
	sut := NewMemoryStore()
	defer sut.Close()

	_, err := sut.Get(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_TTLExpiry(t *testing.T) {
	sut := NewMemoryStore()
	defer sut.Close()
	ctx := context.Background()

	require.NoError(t, sut.Set(ctx, "k", []byte("v"), 10*time.Millisecond))

	_, err := sut.Get(ctx, "k")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_, err := sut.Get(ctx, "k")
		return err != nil
	}, time.Second, 10*time.Millisecond, "entry did not expire")
}

func TestMemoryStore_ZeroTTLNeverExpires(t *testing.T) {
	sut := NewMemoryStore()
	defer sut.Close()
	ctx := context.Background()

	require.NoError(t, sut.Set(ctx, "k", []byte("v"), 0))
	time.Sleep(20 * time.Millisecond)

	_, err := sut.Get(ctx, "k")
	require.NoError(t, err)
}

func TestMemoryStore_Delete(t *testing.T) {
	sut := NewMemoryStore()
	defer sut.Close()
	ctx := context.Background()

	require.NoError(t, sut.Set(ctx, "k", []byte("v"), 0))
	require.NoError(t, sut.Delete(ctx, "k"))

	_, err := sut.Get(ctx, "k")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_ValueIsCopied(t *testing.T) {
	sut := NewMemoryStore()
	defer sut.Close()
	ctx := context.Background()

	original := []byte("abc")
	require.NoError(t, sut.Set(ctx, "k", original, 0))
	original[0] = 'z'

	data, err := sut.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))
}
