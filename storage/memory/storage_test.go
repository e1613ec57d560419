package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStorage(t *testing.T) {
	ctx := context.Background()
	s := NewStorage()

	_, found, err := s.Get(ctx, "accessToken")
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, s.Set(ctx, "accessToken", "abc"))
	value, found, err := s.Get(ctx, "accessToken")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "abc", value)
	require.Equal(t, 1, s.Keys())

	require.NoError(t, s.Set(ctx, "accessToken", "def"))
	value, _, err = s.Get(ctx, "accessToken")
	require.NoError(t, err)
	require.Equal(t, "def", value)

	require.NoError(t, s.Remove(ctx, "accessToken"))
	require.NoError(t, s.Remove(ctx, "accessToken"))
	_, found, err = s.Get(ctx, "accessToken")
	require.NoError(t, err)
	require.False(t, found)
	require.Equal(t, 0, s.Keys())
}
