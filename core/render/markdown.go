// Package render provides output renderers for materialized documents.
// This file implements the Markdown renderer: a YAML front matter prologue
// followed by the body.
package render

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/gaurav-prasanna/notionpipe/core"
)

// Delimiter opens and closes the front matter block.
const Delimiter = "---"

// MarkdownRenderer writes the primary document format.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render returns "---\n<yaml>---\n<body>". Header keys are emitted in
// HeaderRecord.Keys order so the output is stable across runs.
func (r *MarkdownRenderer) Render(doc *core.Document) ([]byte, error) {
	prologue, err := FrontMatter(doc.Header)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(Delimiter + "\n")
	buf.Write(prologue)
	buf.WriteString(Delimiter + "\n")
	buf.WriteString(doc.Body)
	return buf.Bytes(), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}

// FrontMatter encodes header as a YAML mapping in key order.
func FrontMatter(header core.HeaderRecord) ([]byte, error) {
	mapping := &yaml.Node{Kind: yaml.MappingNode}
	for _, key := range header.Keys() {
		var value yaml.Node
		if err := value.Encode(header[key]); err != nil {
			return nil, fmt.Errorf("encoding header field %q: %w", key, err)
		}
		mapping.Content = append(mapping.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
			&value,
		)
	}
	if len(mapping.Content) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(mapping); err != nil {
		return nil, fmt.Errorf("encoding front matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding front matter: %w", err)
	}
	return buf.Bytes(), nil
}
