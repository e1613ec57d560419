package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("ITPORTAL_HOME", home)
	t.Setenv("ITPORTAL_API_ADDRESS", "")

	_, err := getConfig()
	require.Error(t, err)
	require.Contains(t, err.Error(), "itportal login")

	require.NoError(t, saveConfig(&config{APIAddress: "https://portal.example.com"}))
	config, err := getConfig()
	require.NoError(t, err)
	require.Equal(t, "https://portal.example.com", config.APIAddress)

	apiAddress, err := getAPIAddress()
	require.NoError(t, err)
	require.Equal(t, "https://portal.example.com", apiAddress)

	t.Setenv("ITPORTAL_API_ADDRESS", "http://localhost:8080")
	apiAddress, err = getAPIAddress()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080", apiAddress)

	require.NoError(t, deleteConfig())
	// Deleting what isn't there is fine
	require.NoError(t, deleteConfig())
	_, err = getConfig()
	require.Error(t, err)
}

func TestGetHome(t *testing.T) {
	t.Setenv("ITPORTAL_HOME", "/tmp/itportal-home")
	home, err := getHome()
	require.NoError(t, err)
	require.Equal(t, "/tmp/itportal-home", home)

	t.Setenv("ITPORTAL_HOME", "")
	home, err = getHome()
	require.NoError(t, err)
	require.Equal(t, ".itportal", filepath.Base(home))
}

func TestGetFontDir(t *testing.T) {
	t.Setenv("ITPORTAL_HOME", "/tmp/itportal-home")
	t.Setenv("ITPORTAL_FONT_DIR", "")
	fontDir, err := getFontDir()
	require.NoError(t, err)
	require.Equal(t, "/tmp/itportal-home/fonts", fontDir)

	t.Setenv("ITPORTAL_FONT_DIR", "/usr/share/fonts/nanum")
	fontDir, err = getFontDir()
	require.NoError(t, err)
	require.Equal(t, "/usr/share/fonts/nanum", fontDir)
}
