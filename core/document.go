package core

import (
	"sort"
	"time"
)

// Reserved header keys. Extracted properties never overwrite them.
const (
	HeaderID   = "id"
	HeaderType = "type"
	HeaderSlug = "slug"
	// HeaderTitle is the field slugs are derived from.
	HeaderTitle = "title"
)

// HeaderRecord is the front matter of a document.
type HeaderRecord map[string]any

// IsReserved reports whether key is owned by the mapper.
func IsReserved(key string) bool {
	return key == HeaderID || key == HeaderType
}

// String returns the value at key when it is a string.
func (h HeaderRecord) String(key string) string {
	if s, ok := h[key].(string); ok {
		return s
	}
	return ""
}

// Has reports whether key holds a value.
func (h HeaderRecord) Has(key string) bool {
	_, ok := h[key]
	return ok
}

// Keys returns the serialization order: id, type, then the rest sorted.
func (h HeaderRecord) Keys() []string {
	keys := make([]string, 0, len(h))
	rest := make([]string, 0, len(h))
	for k := range h {
		if IsReserved(k) {
			continue
		}
		rest = append(rest, k)
	}
	sort.Strings(rest)

	for _, k := range []string{HeaderID, HeaderType} {
		if h.Has(k) {
			keys = append(keys, k)
		}
	}
	return append(keys, rest...)
}

// Clone returns a shallow copy.
func (h HeaderRecord) Clone() HeaderRecord {
	out := make(HeaderRecord, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out
}

// ImageMetadata describes a downloaded image. It is the header value of a
// files property.
type ImageMetadata struct {
	Src    string `json:"src" yaml:"src"`
	Width  int    `json:"width" yaml:"width"`
	Height int    `json:"height" yaml:"height"`
}

// AssetReference ties a remote asset to its place under the asset root.
// Path is slash separated and relative, e.g. images/<slug>/<name>.png.
type AssetReference struct {
	URL  string `json:"url"`
	Path string `json:"path"`
	Name string `json:"name"`
}

// Document is one materialized page.
type Document struct {
	Slug     string
	Language string
	Header   HeaderRecord
	Body     string
	// Assets lists the body assets in block order.
	Assets []DocumentAsset
}

// DocumentAsset is an asset as referenced from the written document.
type DocumentAsset struct {
	AssetReference
	PublicURL string `json:"public_url"`
	LocalPath string `json:"-"`
}

// SyncEntry configures one database to materialize.
type SyncEntry struct {
	DatabaseID    string   `mapstructure:"database_id"`
	ContentType   string   `mapstructure:"content_type"`
	LanguageField string   `mapstructure:"language_field"`
	FilterFields  []string `mapstructure:"filter_fields"`
}

// DocumentRecord is what the ledger keeps about a written document.
type DocumentRecord struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	ContentType string    `json:"type,omitempty"`
	Language    string    `json:"language,omitempty"`
	Path        string    `json:"path"`
	SHA256      string    `json:"sha256"`
	SyncedAt    time.Time `json:"synced_at"`
}

// AssetRecord is what the ledger keeps about a fetched asset.
type AssetRecord struct {
	Path     string    `json:"path"`
	Source   string    `json:"source"`
	SyncedAt time.Time `json:"synced_at"`
}

// Recorder receives ledger entries. Implementations must tolerate repeated
// records for the same key.
type Recorder interface {
	RecordDocument(rec DocumentRecord) error
	RecordAsset(rec AssetRecord) error
}
