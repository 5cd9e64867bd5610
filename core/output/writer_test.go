package output

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "md")
	_, err := New(root)
	require.NoError(t, err)
	assert.DirExists(t, root)

	_, err = New("")
	assert.Error(t, err)
}

func TestWriteSkipsIdenticalContent(t *testing.T) {
	root := t.TempDir()
	w, err := New(root)
	require.NoError(t, err)
	path := filepath.Join(root, "fr", "post.md")

	res, err := w.Write(path, []byte("one"))
	require.NoError(t, err)
	assert.True(t, res.Changed)

	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))

	res, err = w.Write(path, []byte("one"))
	require.NoError(t, err)
	assert.False(t, res.Changed)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.WithinDuration(t, old, info.ModTime(), time.Second)

	res, err = w.Write(path, []byte("two"))
	require.NoError(t, err)
	assert.True(t, res.Changed)
	data, _ := os.ReadFile(path)
	assert.Equal(t, "two", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
