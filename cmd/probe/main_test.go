package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_ListsTracks(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ocean-waves.mp3"), make([]byte, 2048), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cover.jpg"), nil, 0o600))

	var out bytes.Buffer
	require.NoError(t, run([]string{dir, "https://example.com/stream/city-lights.ogg"}, &out))

	got := out.String()
	assert.Contains(t, got, "ocean-waves")
	assert.Contains(t, got, "city-lights")
	assert.Contains(t, got, "mp3")
	assert.Contains(t, got, "ogg")
	assert.Contains(t, got, "2.0 kB")
	assert.Contains(t, got, "2 tracks")
	assert.NotContains(t, got, "cover")
}

func TestRun_Empty(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{t.TempDir()}, &out))
	assert.Equal(t, "No playable tracks found.\n", out.String())
}

func TestRun_MissingPath(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, run([]string{filepath.Join(t.TempDir(), "missing.mp3")}, &out))
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "abc", shortID("abc"))
	assert.Equal(t, "12345678", shortID("1234567890"))
}
