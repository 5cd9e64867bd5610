// Package asset downloads embedded images once and maps them to their
// permanent public location.
package asset

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/gaurav-prasanna/notionpipe/core"
	"github.com/gaurav-prasanna/notionpipe/core/logging"
	"github.com/gaurav-prasanna/notionpipe/core/paths"
)

// Manager owns the asset root on disk and the public base URL.
type Manager struct {
	downloader core.Downloader
	paths      *paths.Resolver
	root       string
	baseURL    string
	recorder   core.Recorder
	logger     logging.Logger
	now        func() time.Time
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithRecorder records every ensured asset in the ledger.
func WithRecorder(r core.Recorder) ManagerOption {
	return func(m *Manager) { m.recorder = r }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) ManagerOption {
	return func(m *Manager) { m.logger = logging.OrNoOp(l) }
}

// NewManager creates a Manager storing files under root and publishing them
// under baseURL.
func NewManager(d core.Downloader, resolver *paths.Resolver, root, baseURL string, opts ...ManagerOption) *Manager {
	m := &Manager{
		downloader: d,
		paths:      resolver,
		root:       root,
		baseURL:    baseURL,
		logger:     logging.NoOp(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// LocalPath maps a relative asset path to the file on disk.
func (m *Manager) LocalPath(rel string) string {
	return filepath.Join(m.root, filepath.FromSlash(rel))
}

// PublicURL maps a relative asset path to its permanent URL.
func (m *Manager) PublicURL(rel string) string {
	return strings.TrimSuffix(m.baseURL, "/") + "/" + strings.TrimPrefix(rel, "/")
}

// Ensure fetches ref unless its file already exists and returns the local path.
func (m *Manager) Ensure(ctx context.Context, ref core.AssetReference) (string, error) {
	local := m.LocalPath(ref.Path)
	if err := m.downloader.FetchOnce(ctx, ref.URL, local); err != nil {
		return "", fmt.Errorf("fetching asset %s: %w", ref.Path, err)
	}

	if m.recorder != nil {
		rec := core.AssetRecord{Path: ref.Path, Source: SourceKey(ref.URL), SyncedAt: m.now().UTC()}
		if err := m.recorder.RecordAsset(rec); err != nil {
			m.logger.Warn("recording asset failed", "path", ref.Path, "error", err)
		}
	}
	return local, nil
}

// FetchImage stores an image in the shared asset folder and reports its
// dimensions. The returned Src is the permanent URL.
func (m *Manager) FetchImage(ctx context.Context, rawURL string, name string) (core.ImageMetadata, error) {
	ref := core.AssetReference{
		URL:  rawURL,
		Path: m.paths.AssetFolder() + Filename(name, rawURL),
		Name: name,
	}

	local, err := m.Ensure(ctx, ref)
	if err != nil {
		return core.ImageMetadata{}, err
	}

	width, height, err := ReadImageMetadata(local)
	if err != nil {
		return core.ImageMetadata{}, err
	}
	return core.ImageMetadata{Src: m.PublicURL(ref.Path), Width: width, Height: height}, nil
}

// ReadImageMetadata returns the pixel dimensions of the image at path.
func ReadImageMetadata(path string) (width, height int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, &core.ImageDecodeError{Path: path, Err: err}
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, &core.ImageDecodeError{Path: path, Err: err}
	}
	return cfg.Width, cfg.Height, nil
}
