// Package asset: URL rules.
// Provides helpers to derive asset filenames and dedup keys from remote URLs.
package asset

import (
	"net/url"
	"path"
	"strings"

	"github.com/gaurav-prasanna/notionpipe/core/slug"
)

const (
	// formatParam is the query parameter hosted images carry their format in.
	formatParam   = "fm"
	defaultFormat = "png"
	defaultStem   = "image"
)

// FormatHint returns the file extension for rawURL, without the dot: the fm
// query parameter, else the URL path extension, else png.
func FormatHint(rawURL string) string {
	if ext := formatFromQuery(rawURL); ext != "" {
		return ext
	}
	if ext := formatFromPath(rawURL); ext != "" {
		return ext
	}
	return defaultFormat
}

// signingParams are query parameters that carry a temporary URL signature
// rather than identify the object.
var signingParams = map[string]bool{
	"expires":        true,
	"signature":      true,
	"key-pair-id":    true,
	"policy":         true,
	"awsaccesskeyid": true,
	"sig":            true,
	"se":             true,
	"st":             true,
	"sp":             true,
	"sv":             true,
	"sr":             true,
}

var signingPrefixes = []string{"x-amz-", "x-goog-"}

// SourceKey drops the fragment and the signing parameters so that two signed
// URLs of the same object share a key. Parameters that select the object,
// such as ?id=2, are kept.
func SourceKey(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	parsed.Fragment = ""
	query := parsed.Query()
	for name := range query {
		if isSigningParam(name) {
			query.Del(name)
		}
	}
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

func isSigningParam(name string) bool {
	lower := strings.ToLower(name)
	if signingParams[lower] {
		return true
	}
	for _, prefix := range signingPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// Filename derives a URL-safe filename from a display name and the asset URL.
// The extension comes from the fm parameter, then the name, then the URL path.
func Filename(name, rawURL string) string {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))
	if base == "." || base == "/" {
		base = ""
	}
	nameExt := strings.ToLower(strings.TrimPrefix(path.Ext(base), "."))

	ext := formatFromQuery(rawURL)
	if ext == "" {
		ext = nameExt
	}
	if ext == "" {
		ext = FormatHint(rawURL)
	}

	stem := base
	if nameExt != "" && nameExt == ext {
		stem = strings.TrimSuffix(base, path.Ext(base))
	}
	s, err := slug.Make(stem)
	if err != nil || s == "" {
		s = defaultStem
	}
	return s + "." + ext
}

func formatFromQuery(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Query().Get(formatParam))
}

func formatFromPath(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(path.Ext(parsed.Path), "."))
}
