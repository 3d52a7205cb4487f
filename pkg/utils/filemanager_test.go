package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverInputFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.csv", "a.CSV", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.csv"), 0755))

	fm := NewFileManager(dir, t.TempDir())
	files, err := fm.DiscoverInputFiles()
	require.NoError(t, err)

	require.Len(t, files, 2)
	assert.Equal(t, "a.CSV", filepath.Base(files[0]))
	assert.Equal(t, "b.csv", filepath.Base(files[1]))
}

func TestArchiveInputFile(t *testing.T) {
	inputDir := t.TempDir()
	archiveDir := filepath.Join(t.TempDir(), "archive")
	src := filepath.Join(inputDir, "orders.csv")
	require.NoError(t, os.WriteFile(src, []byte("data"), 0644))

	fm := NewFileManager(inputDir, archiveDir)
	dest, err := fm.ArchiveInputFile(src)
	require.NoError(t, err)

	assert.NoFileExists(t, src)
	assert.FileExists(t, dest)
	assert.True(t, strings.HasSuffix(dest, "_orders.csv"))
}

func TestGenerateOutputFileName(t *testing.T) {
	name := GenerateOutputFileName("decoded_{original}_{date}", "/data/input/june_orders.csv")
	assert.True(t, strings.HasPrefix(name, "decoded_june_orders_"))
	assert.True(t, strings.HasSuffix(name, ".csv"))

	// UUID patterns produce distinct names.
	a := GenerateOutputFileName("out_{uuid}", "x.csv")
	b := GenerateOutputFileName("out_{uuid}", "x.csv")
	assert.NotEqual(t, a, b)
}

func TestHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.yaml")

	h, err := LoadHistory(path)
	require.NoError(t, err)
	assert.Empty(t, h.Entries)

	for i := 0; i < maxHistoryEntries+3; i++ {
		h.Add(HistoryEntry{
			SourceFile:  "orders.csv",
			OutputFile:  "decoded.csv",
			ProcessedAt: time.Now(),
			InputLines:  i,
		})
	}
	require.NoError(t, h.Save(path))

	back, err := LoadHistory(path)
	require.NoError(t, err)
	require.Len(t, back.Entries, maxHistoryEntries)

	// Newest first.
	assert.Equal(t, maxHistoryEntries+2, back.Entries[0].InputLines)
}
