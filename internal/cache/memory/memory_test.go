package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/instancestore/internal/cache"
)

func TestMemRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := New(time.Minute, "test")

	_, err := m.Get(ctx, "k")
	assert.True(t, cache.IsNotFound(err))

	buf := []byte("value")
	require.NoError(t, m.Set(ctx, "k", buf, 0))
	buf[0] = 'X'

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "value", string(got))

	require.NoError(t, m.Delete(ctx, "k"))
	_, err = m.Get(ctx, "k")
	assert.ErrorIs(t, err, cache.ErrNotFound)
}

func TestMemExpires(t *testing.T) {
	ctx := context.Background()
	m := New(time.Minute, "")

	require.NoError(t, m.Set(ctx, "short", []byte("x"), 20*time.Millisecond))
	time.Sleep(40 * time.Millisecond)

	_, err := m.Get(ctx, "short")
	assert.ErrorIs(t, err, cache.ErrNotFound)
}
