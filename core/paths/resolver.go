// Package paths maps slugs and languages to document and asset locations.
// A Resolver is built once from the configured content root and only read
// afterwards.
package paths

import "strings"

const (
	// DocumentExt is the extension of materialized documents.
	DocumentExt = ".md"
	imagesDir   = "images/"
)

// Resolver holds the content root. It performs no I/O.
type Resolver struct {
	root string
}

// New creates a Resolver, trimming a single trailing separator from root.
func New(root string) *Resolver {
	return &Resolver{root: strings.TrimSuffix(root, "/")}
}

// Root returns the normalized content root.
func (r *Resolver) Root() string {
	return r.root
}

// DocumentFolder returns root/[lang/].
func (r *Resolver) DocumentFolder(lang string) string {
	if lang == "" {
		return r.root + "/"
	}
	return r.root + "/" + lang + "/"
}

// DocumentPath returns root/[lang/]slug.md.
func (r *Resolver) DocumentPath(slug, lang string) string {
	return r.DocumentPathExt(slug, lang, DocumentExt)
}

// DocumentPathExt is DocumentPath with a caller-chosen extension.
func (r *Resolver) DocumentPathExt(slug, lang, ext string) string {
	return r.DocumentFolder(lang) + slug + ext
}

// AssetFolder returns the shared asset folder, relative to the asset root.
func (r *Resolver) AssetFolder() string {
	return imagesDir
}

// AssetFolderFor returns images/<slug>/, relative to the asset root.
func (r *Resolver) AssetFolderFor(slug string) string {
	return imagesDir + slug + "/"
}
