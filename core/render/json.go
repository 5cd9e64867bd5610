// Package render: JSON renderer.
// Exports a document as JSON: its header, body and assets, plus the
// structure found in the body (headings, links, images).
package render

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/gaurav-prasanna/notionpipe/core"
)

// DocumentJSON is the JSON export shape.
type DocumentJSON struct {
	Slug      string               `json:"slug"`
	Language  string               `json:"language,omitempty"`
	Header    core.HeaderRecord    `json:"header"`
	Body      string               `json:"body"`
	Assets    []core.DocumentAsset `json:"assets"`
	Structure Structure            `json:"structure"`
}

// Structure summarizes the body.
type Structure struct {
	Headings []Heading `json:"headings"`
	Links    []Link    `json:"links"`
	Images   []Link    `json:"images"`
}

// Heading is one Markdown heading.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// Link is a Markdown link or image.
type Link struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

// JSONRenderer produces the JSON export.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Render encodes doc as indented JSON.
func (r *JSONRenderer) Render(doc *core.Document) ([]byte, error) {
	assets := doc.Assets
	if assets == nil {
		assets = []core.DocumentAsset{}
	}
	out := DocumentJSON{
		Slug:     doc.Slug,
		Language: doc.Language,
		Header:   doc.Header,
		Body:     doc.Body,
		Assets:   assets,
		Structure: Structure{
			Headings: extractHeadings(doc.Body),
			Links:    extractLinks(doc.Body, false),
			Images:   extractLinks(doc.Body, true),
		},
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}

var headingRegex = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+)$`)

func extractHeadings(md string) []Heading {
	matches := headingRegex.FindAllStringSubmatch(md, -1)
	headings := make([]Heading, 0, len(matches))
	for _, m := range matches {
		headings = append(headings, Heading{Level: len(m[1]), Text: strings.TrimSpace(m[2])})
	}
	return headings
}

// linkRegex matches [text](url) with an optional leading ! for images.
var linkRegex = regexp.MustCompile(`(!?)\[([^\]]*)\]\(([^)\s]+)\)`)

func extractLinks(md string, images bool) []Link {
	matches := linkRegex.FindAllStringSubmatch(md, -1)
	links := make([]Link, 0, len(matches))
	for _, m := range matches {
		if (m[1] == "!") != images {
			continue
		}
		links = append(links, Link{Text: m[2], Href: m[3]})
	}
	return links
}
