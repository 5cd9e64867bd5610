package asset

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/notionpipe/core"
	"github.com/gaurav-prasanna/notionpipe/core/paths"
)

// stubDownloader writes payload to the destination and counts calls.
type stubDownloader struct {
	payload []byte
	calls   []string
}

func (s *stubDownloader) FetchOnce(_ context.Context, url, dest string) error {
	s.calls = append(s.calls, url)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dest, s.payload, 0o644)
}

type memoryRecorder struct {
	assets []core.AssetRecord
}

func (m *memoryRecorder) RecordDocument(core.DocumentRecord) error { return nil }
func (m *memoryRecorder) RecordAsset(rec core.AssetRecord) error {
	m.assets = append(m.assets, rec)
	return nil
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestFetchImageReportsMetadata(t *testing.T) {
	root := t.TempDir()
	dl := &stubDownloader{payload: pngBytes(t, 12, 7)}
	rec := &memoryRecorder{}
	m := NewManager(dl, paths.New("md"), root, "https://cdn.example.com/", WithRecorder(rec))

	meta, err := m.FetchImage(context.Background(), "https://s3.test/cover?fm=png&sig=1", "cover.png")
	require.NoError(t, err)

	assert.Equal(t, core.ImageMetadata{Src: "https://cdn.example.com/images/cover.png", Width: 12, Height: 7}, meta)
	assert.FileExists(t, filepath.Join(root, "images", "cover.png"))
	require.Len(t, rec.assets, 1)
	assert.Equal(t, "images/cover.png", rec.assets[0].Path)
	assert.Equal(t, "https://s3.test/cover", rec.assets[0].Source)
}

func TestFetchImageRejectsUndecodableFile(t *testing.T) {
	dl := &stubDownloader{payload: []byte("<html>not an image</html>")}
	m := NewManager(dl, paths.New("md"), t.TempDir(), "/")

	_, err := m.FetchImage(context.Background(), "https://s3.test/x.png", "x.png")

	var decodeErr *core.ImageDecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Contains(t, decodeErr.Path, "x.png")
}

func TestPublicURL(t *testing.T) {
	m := NewManager(&stubDownloader{}, paths.New("md"), ".", "/")
	assert.Equal(t, "/images/post/a.png", m.PublicURL("images/post/a.png"))

	m = NewManager(&stubDownloader{}, paths.New("md"), ".", "https://site.test/static")
	assert.Equal(t, "https://site.test/static/images/post/a.png", m.PublicURL("images/post/a.png"))
}
