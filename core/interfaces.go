// Package core defines the domain model and pipeline interfaces for notionpipe.
// Each stage of the pipeline is a clean, testable interface.
package core

import "context"

// PageLister lists every page of a remote database.
type PageLister interface {
	ListPages(ctx context.Context, databaseID string) ([]Page, error)
}

// BlockSource returns the body of a page as an ordered block tree.
type BlockSource interface {
	PageBlocks(ctx context.Context, pageID string) ([]Block, error)
}

// MarkdownBlock is one converted body block. Type is the remote block type
// and Markdown the block's own markup, without its children.
type MarkdownBlock struct {
	Type     string
	BlockID  string
	Markdown string
	Children []MarkdownBlock
}

// BodyConverter turns a page body into markdown blocks and renders them
// into a single document body.
type BodyConverter interface {
	PageToMarkdown(ctx context.Context, pageID string) ([]MarkdownBlock, error)
	ToMarkdownString(blocks []MarkdownBlock) string
}

// Downloader stores a remote resource at a local path exactly once.
type Downloader interface {
	FetchOnce(ctx context.Context, url string, destination string) error
}

// ImageFetcher downloads an image into the shared asset folder and reports
// its metadata. It backs the files property kind.
type ImageFetcher interface {
	FetchImage(ctx context.Context, url string, name string) (ImageMetadata, error)
}

// Renderer converts a Document into a final output format.
type Renderer interface {
	Render(doc *Document) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".md", ".pdf").
	Extension() string
}
