// Package normalize converts cleaned block HTML into Markdown.
package normalize

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// MarkdownNormalizer converts HTML to Markdown using html-to-markdown.
type MarkdownNormalizer struct{}

// New creates a MarkdownNormalizer.
func New() *MarkdownNormalizer {
	return &MarkdownNormalizer{}
}

// Normalize converts an HTML fragment into Markdown with surrounding
// whitespace trimmed. An empty fragment yields an empty string.
func (n *MarkdownNormalizer) Normalize(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", nil
	}
	markdown, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("converting HTML to markdown: %w", err)
	}
	return strings.TrimSpace(markdown), nil
}
