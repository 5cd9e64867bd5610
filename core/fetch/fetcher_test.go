package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchOnceDownloadsOnlyOnce(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("image-bytes"))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "images", "a.png")
	f := New()

	require.NoError(t, f.FetchOnce(context.Background(), srv.URL+"/a.png", dest))
	require.NoError(t, f.FetchOnce(context.Background(), srv.URL+"/a.png", dest))

	assert.EqualValues(t, 1, hits.Load())
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "image-bytes", string(data))
}

func TestFetchOnceSkipsPreexistingFile(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "existing.png")
	require.NoError(t, os.WriteFile(dest, []byte("local"), 0o644))

	require.NoError(t, New().FetchOnce(context.Background(), srv.URL, dest))

	assert.Zero(t, hits.Load())
	data, _ := os.ReadFile(dest)
	assert.Equal(t, "local", string(data))
}

func TestFetchOnceFollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/signed", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/hop", http.StatusFound)
	})
	mux.HandleFunc("/hop", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/final.png", http.StatusFound)
	})
	mux.HandleFunc("/final.png", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("redirected-bytes"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "final.png")
	require.NoError(t, New().FetchOnce(context.Background(), srv.URL+"/signed", dest))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "redirected-bytes", string(data))
}

func TestFetchOnceLeavesNoFileOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, "missing.png")

	err := New().FetchOnce(context.Background(), srv.URL, dest)
	require.Error(t, err)

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}

func TestFetchOnceStopsEndlessRedirects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, r.URL.Path, http.StatusFound)
	}))
	defer srv.Close()

	err := New().FetchOnce(context.Background(), srv.URL+"/loop", filepath.Join(t.TempDir(), "x"))
	assert.ErrorIs(t, err, ErrTooManyRedirects)
}
