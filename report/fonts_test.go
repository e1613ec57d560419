package report

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFonts(t *testing.T, dir string) {
	for _, name := range []string{regularFontFile, boldFontFile, extraBoldFontFile} {
		require.NoError(
			t,
			ioutil.WriteFile(filepath.Join(dir, name), []byte(name), 0644),
		)
	}
}

func TestLoadFonts(t *testing.T) {
	dir := t.TempDir()
	writeFonts(t, dir)

	fonts, err := loadFonts(dir)
	require.NoError(t, err)
	require.Equal(t, []byte(regularFontFile), fonts.regular)
	require.Equal(t, []byte(boldFontFile), fonts.bold)
	require.Equal(t, []byte(extraBoldFontFile), fonts.extraBold)

	// Later loads come from the cache
	require.NoError(t, os.Remove(filepath.Join(dir, boldFontFile)))
	cached, err := loadFonts(dir)
	require.NoError(t, err)
	require.Same(t, fonts, cached)
}

func TestLoadFontsMissingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(
		t,
		ioutil.WriteFile(filepath.Join(dir, regularFontFile), []byte("x"), 0644),
	)
	_, err := loadFonts(dir)
	require.Error(t, err)
	require.Contains(t, err.Error(), boldFontFile)

	// A failure isn't remembered
	writeFonts(t, dir)
	_, err = loadFonts(dir)
	require.NoError(t, err)
}
