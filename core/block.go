package core

import (
	"encoding/json"
	"fmt"
)

// Block types the body converter knows how to render.
const (
	BlockParagraph        = "paragraph"
	BlockHeading1         = "heading_1"
	BlockHeading2         = "heading_2"
	BlockHeading3         = "heading_3"
	BlockBulletedListItem = "bulleted_list_item"
	BlockNumberedListItem = "numbered_list_item"
	BlockToDo             = "to_do"
	BlockToggle           = "toggle"
	BlockQuote            = "quote"
	BlockCallout          = "callout"
	BlockCode             = "code"
	BlockDivider          = "divider"
	BlockEquation         = "equation"
	BlockBookmark         = "bookmark"
	BlockEmbed            = "embed"
	BlockLinkPreview      = "link_preview"
	BlockImage            = "image"
	BlockVideo            = "video"
	BlockFile             = "file"
	BlockPDF              = "pdf"
	BlockChildPage        = "child_page"
	BlockChildDatabase    = "child_database"
	BlockTable            = "table"
	BlockTableRow         = "table_row"
)

// Block is one unit of a page body. Content holds the type-specific payload;
// Children is filled by the block source when HasChildren is set.
type Block struct {
	ID          string
	Type        string
	HasChildren bool
	Content     BlockContent
	Children    []Block
}

// BlockContent is the union of the payload fields used by supported block
// types. Fields irrelevant to a block's type stay zero.
type BlockContent struct {
	RichText        []RichText   `json:"rich_text"`
	Caption         []RichText   `json:"caption"`
	Language        string       `json:"language"`
	Checked         bool         `json:"checked"`
	URL             string       `json:"url"`
	Expression      string       `json:"expression"`
	Title           string       `json:"title"`
	Icon            *Icon        `json:"icon"`
	Cells           [][]RichText `json:"cells"`
	HasColumnHeader bool         `json:"has_column_header"`
	Name            string       `json:"name"`
	FileType        string       `json:"type"`
	File            *FileURL     `json:"file"`
	External        *FileURL     `json:"external"`
}

// Icon is an emoji or image icon of a callout.
type Icon struct {
	Type  string `json:"type"`
	Emoji string `json:"emoji"`
}

// MediaURL returns the hosted or external URL of a media block.
func (c BlockContent) MediaURL() string {
	if c.File != nil && c.File.URL != "" {
		return c.File.URL
	}
	if c.External != nil {
		return c.External.URL
	}
	return ""
}

// UnmarshalJSON reads the block envelope and the payload stored under the
// key named by the block type.
func (b *Block) UnmarshalJSON(data []byte) error {
	var envelope struct {
		ID          string `json:"id"`
		Type        string `json:"type"`
		HasChildren bool   `json:"has_children"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var content BlockContent
	if raw, ok := fields[envelope.Type]; ok && len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, &content); err != nil {
			return fmt.Errorf("block %s (%s): %w", envelope.ID, envelope.Type, err)
		}
	}

	*b = Block{
		ID:          envelope.ID,
		Type:        envelope.Type,
		HasChildren: envelope.HasChildren,
		Content:     content,
	}
	return nil
}
