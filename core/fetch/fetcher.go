// Package fetch implements the Downloader interface.
// It streams remote assets to disk, following redirects by re-issuing the
// request against the Location target.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/gaurav-prasanna/notionpipe/core/logging"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "notionpipe/1.0 (https://github.com/gaurav-prasanna/notionpipe)"
	maxRedirects     = 10
)

// ErrTooManyRedirects is returned when a redirect chain exceeds maxRedirects.
var ErrTooManyRedirects = errors.New("too many redirects")

// HTTPFetcher downloads assets via HTTP.
type HTTPFetcher struct {
	client *http.Client
	logger logging.Logger
}

// Option configures an HTTPFetcher.
type Option func(*HTTPFetcher)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *HTTPFetcher) {
		if d > 0 {
			f.client.Timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger logging.Logger) Option {
	return func(f *HTTPFetcher) { f.logger = logging.OrNoOp(logger) }
}

// New creates an HTTPFetcher with a sensible timeout. Redirects are not
// followed by the client; FetchOnce follows them itself.
func New(opts ...Option) *HTTPFetcher {
	f := &HTTPFetcher{
		client: &http.Client{
			Timeout: defaultTimeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchOnce downloads rawURL to destination unless a file already exists
// there. The body is streamed to a temporary file that is renamed into place
// only once the stream completes, so a failed download leaves nothing behind.
func (f *HTTPFetcher) FetchOnce(ctx context.Context, rawURL string, destination string) error {
	if _, err := os.Stat(destination); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", destination, err)
	}

	resp, err := f.get(ctx, rawURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	f.logger.Debug("downloading", "url", redact(resp.Request.URL.String()), "dest", destination)
	return writeAtomic(destination, resp.Body)
}

// get issues GET requests until a non-redirect response arrives.
func (f *HTTPFetcher) get(ctx context.Context, rawURL string) (*http.Response, error) {
	target := rawURL
	for hop := 0; hop <= maxRedirects; hop++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("User-Agent", defaultUserAgent)

		resp, err := f.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetching %s: %w", redact(target), err)
		}

		if isRedirect(resp.StatusCode) {
			location := resp.Header.Get("Location")
			resp.Body.Close()
			if location == "" {
				return nil, fmt.Errorf("redirect %d from %s without Location", resp.StatusCode, redact(target))
			}
			next, err := req.URL.Parse(location)
			if err != nil {
				return nil, fmt.Errorf("parsing redirect location: %w", err)
			}
			f.logger.Debug("redirecting", "from", redact(target), "to", redact(next.String()))
			target = next.String()
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, redact(target))
		}
		return resp, nil
	}
	return nil, fmt.Errorf("fetching %s: %w", redact(rawURL), ErrTooManyRedirects)
}

func isRedirect(code int) bool {
	switch code {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	}
	return false
}

func writeAtomic(destination string, body io.Reader) error {
	dir := filepath.Dir(destination)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(destination)+".*.part")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", destination, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing %s: %w", destination, err)
	}
	if err := os.Rename(tmpName, destination); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("moving %s into place: %w", destination, err)
	}
	return nil
}

// redact drops the query, which carries the signature of hosted assets.
func redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.RawQuery = ""
	return u.Redacted()
}
