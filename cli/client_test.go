package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/itportal/itportal/sdk/auth"
	"github.com/itportal/itportal/sdk/meta"
	"github.com/itportal/itportal/storage/file"
	"github.com/itportal/itportal/storage/memory"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestGetStorage(t *testing.T) {
	home := t.TempDir()
	t.Setenv("ITPORTAL_HOME", home)
	ctx := context.Background()

	t.Setenv("ITPORTAL_STORAGE", "")
	storage, closeStorage, err := getStorage(ctx)
	require.NoError(t, err)
	defer closeStorage()
	require.IsType(t, &file.Storage{}, storage)
	require.Equal(t, filepath.Join(home, "session"), storage.(*file.Storage).Dir())

	t.Setenv("ITPORTAL_STORAGE", storageMemory)
	storage, closeStorage, err = getStorage(ctx)
	require.NoError(t, err)
	defer closeStorage()
	require.IsType(t, &memory.Storage{}, storage)

	t.Setenv("ITPORTAL_STORAGE", "floppy")
	_, _, err = getStorage(ctx)
	require.Error(t, err)
	require.Contains(t, err.Error(), "floppy")
}

func TestExpiryNotice(t *testing.T) {
	out := &bytes.Buffer{}
	notice := &expiryNotice{out: out}
	notice.Navigate("/projects")
	require.Empty(t, out.String())
	notice.Navigate(auth.LoginRoute)
	notice.Navigate(auth.LoginRoute)
	require.Equal(t, 1, strings.Count(out.String(), "itportal login"))
}

func TestIsUnauthenticated(t *testing.T) {
	require.True(t, isUnauthenticated(&meta.ErrAuthentication{}))
	require.True(
		t,
		isUnauthenticated(errors.Wrap(&meta.ErrAuthentication{}, "error listing")),
	)
	require.False(t, isUnauthenticated(&meta.ErrAuthorization{}))
	require.False(t, isUnauthenticated(errors.New("boom")))
}
