package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/notionpipe/core"
)

func sampleDocument() *core.Document {
	return &core.Document{
		Slug: "hello-world",
		Header: core.HeaderRecord{
			"title": "Hello World",
			"slug":  "hello-world",
			"type":  "post",
			"id":    "page-1",
			"tags":  []string{"go", "cli"},
			"cover": core.ImageMetadata{Src: "/images/cover.png", Width: 10, Height: 20},
		},
		Body: "# Intro\n\nSee [docs](https://example.com).\n\n![Diagram](/images/hello-world/diagram.png)\n",
	}
}

func TestMarkdownRendererPrologue(t *testing.T) {
	out, err := NewMarkdownRenderer().Render(sampleDocument())
	require.NoError(t, err)

	text := string(out)
	assert.True(t, strings.HasPrefix(text, "---\nid: page-1\ntype: post\n"), text)
	assert.Contains(t, text, "slug: hello-world\n")
	assert.Contains(t, text, "src: /images/cover.png\n")
	assert.Contains(t, text, "title: Hello World\n---\n# Intro\n")

	cover, slug, tags, title := strings.Index(text, "cover:"), strings.Index(text, "slug:"), strings.Index(text, "tags:"), strings.Index(text, "title:")
	assert.True(t, cover < slug && slug < tags && tags < title, text)
}

func TestMarkdownRendererIsStable(t *testing.T) {
	a, err := NewMarkdownRenderer().Render(sampleDocument())
	require.NoError(t, err)
	b, err := NewMarkdownRenderer().Render(sampleDocument())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestParseDocumentRoundTrip(t *testing.T) {
	out, err := NewMarkdownRenderer().Render(sampleDocument())
	require.NoError(t, err)

	header, body, err := ParseDocument(out)
	require.NoError(t, err)
	assert.Equal(t, "hello-world", header.String("slug"))
	assert.Equal(t, "page-1", header.String("id"))
	assert.Contains(t, string(body), "# Intro")
}

func TestJSONRendererStructure(t *testing.T) {
	out, err := NewJSONRenderer().Render(sampleDocument())
	require.NoError(t, err)

	var decoded DocumentJSON
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "hello-world", decoded.Slug)
	assert.Equal(t, []Heading{{Level: 1, Text: "Intro"}}, decoded.Structure.Headings)
	assert.Equal(t, []Link{{Text: "docs", Href: "https://example.com"}}, decoded.Structure.Links)
	assert.Equal(t, []Link{{Text: "Diagram", Href: "/images/hello-world/diagram.png"}}, decoded.Structure.Images)
	assert.NotNil(t, decoded.Assets)
}

func TestPDFRendererProducesPDF(t *testing.T) {
	doc := sampleDocument()
	doc.Body += "\n- one\n- two\n\n```go\nfmt.Println()\n```\n\n---\n\n> quoted\n"

	out, err := NewPDFRenderer().Render(doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestPDFRendererIsByteStable(t *testing.T) {
	doc := sampleDocument()
	doc.Header["date"] = "2023-05-01"

	first, err := NewPDFRenderer().Render(doc)
	require.NoError(t, err)
	time.Sleep(1100 * time.Millisecond)
	second, err := NewPDFRenderer().Render(doc)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Contains(t, string(first), "D:20230501")
}

func TestDocumentStamp(t *testing.T) {
	assert.Equal(t, time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC), documentStamp(core.HeaderRecord{"date": "2023-05-01"}))
	assert.Equal(t, time.Unix(0, 0).UTC(), documentStamp(core.HeaderRecord{"date": "soon"}))
	assert.Equal(t, time.Unix(0, 0).UTC(), documentStamp(core.HeaderRecord{}))
}
