package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockDecodesPayloadOfItsType(t *testing.T) {
	var b Block
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": "b1",
		"type": "code",
		"has_children": false,
		"code": {"rich_text": [{"plain_text": "fmt.Println()"}], "language": "go"},
		"paragraph": {"rich_text": [{"plain_text": "ignored"}]}
	}`), &b))

	assert.Equal(t, "b1", b.ID)
	assert.Equal(t, BlockCode, b.Type)
	assert.Equal(t, "go", b.Content.Language)
	assert.Equal(t, "fmt.Println()", PlainText(b.Content.RichText))
}

func TestBlockImagePayload(t *testing.T) {
	var blocks []Block
	require.NoError(t, json.Unmarshal([]byte(`[
		{"id": "i1", "type": "image", "image": {"type": "file", "caption": [{"plain_text": "Map"}], "file": {"url": "https://s3.test/map.png"}}},
		{"id": "i2", "type": "image", "image": {"type": "external", "external": {"url": "https://cdn.test/x.jpg"}}}
	]`), &blocks))

	require.Len(t, blocks, 2)
	assert.Equal(t, "https://s3.test/map.png", blocks[0].Content.MediaURL())
	assert.Equal(t, "Map", PlainText(blocks[0].Content.Caption))
	assert.Equal(t, "file", blocks[0].Content.FileType)
	assert.Equal(t, "https://cdn.test/x.jpg", blocks[1].Content.MediaURL())
}

func TestBlockWithoutPayload(t *testing.T) {
	var b Block
	require.NoError(t, json.Unmarshal([]byte(`{"id": "d", "type": "divider", "has_children": true, "divider": null}`), &b))

	assert.Equal(t, BlockDivider, b.Type)
	assert.True(t, b.HasChildren)
	assert.Equal(t, BlockContent{}, b.Content)
}

func TestBlockTableRowCells(t *testing.T) {
	var b Block
	require.NoError(t, json.Unmarshal([]byte(`{"id": "r", "type": "table_row", "table_row": {"cells": [[{"plain_text": "a"}], [{"plain_text": "b"}]]}}`), &b))

	require.Len(t, b.Content.Cells, 2)
	assert.Equal(t, "b", PlainText(b.Content.Cells[1]))
}

func TestBlockMalformedPayload(t *testing.T) {
	var b Block
	err := json.Unmarshal([]byte(`{"id": "x", "type": "paragraph", "paragraph": {"rich_text": "oops"}}`), &b)
	assert.Error(t, err)
}
