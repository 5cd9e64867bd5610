// Package body converts a page's block tree into Markdown.
package body

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/gaurav-prasanna/notionpipe/core"
	"github.com/gaurav-prasanna/notionpipe/core/extract"
	"github.com/gaurav-prasanna/notionpipe/core/logging"
	"github.com/gaurav-prasanna/notionpipe/core/normalize"
)

const indent = "    "

// Converter implements core.BodyConverter on top of a BlockSource.
type Converter struct {
	source     core.BlockSource
	cleaner    *extract.Cleaner
	normalizer *normalize.MarkdownNormalizer
	logger     logging.Logger
}

// New creates a Converter reading blocks from source.
func New(source core.BlockSource, logger logging.Logger) *Converter {
	return &Converter{
		source:     source,
		cleaner:    extract.New(),
		normalizer: normalize.New(),
		logger:     logging.OrNoOp(logger),
	}
}

// PageToMarkdown fetches the page body and converts every block.
func (c *Converter) PageToMarkdown(ctx context.Context, pageID string) ([]core.MarkdownBlock, error) {
	blocks, err := c.source.PageBlocks(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("fetching blocks of %s: %w", pageID, err)
	}
	return c.Convert(blocks)
}

// Convert turns blocks into Markdown blocks, keeping order and nesting.
func (c *Converter) Convert(blocks []core.Block) ([]core.MarkdownBlock, error) {
	out := make([]core.MarkdownBlock, 0, len(blocks))
	number := 0
	for _, b := range blocks {
		if b.Type == core.BlockNumberedListItem {
			number++
		} else {
			number = 0
		}

		md, err := c.blockMarkdown(b, number)
		if err != nil {
			return nil, fmt.Errorf("block %s (%s): %w", b.ID, b.Type, err)
		}

		mb := core.MarkdownBlock{Type: b.Type, BlockID: b.ID, Markdown: md}
		if len(b.Children) > 0 && b.Type != core.BlockTable {
			children, err := c.Convert(b.Children)
			if err != nil {
				return nil, err
			}
			mb.Children = children
		}
		out = append(out, mb)
	}
	return out, nil
}

// ToMarkdownString joins blocks with blank lines. Children are indented
// under their parent.
func (c *Converter) ToMarkdownString(blocks []core.MarkdownBlock) string {
	s := joinBlocks(blocks)
	if s == "" {
		return ""
	}
	return s + "\n"
}

func joinBlocks(blocks []core.MarkdownBlock) string {
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		part := b.Markdown
		if len(b.Children) > 0 {
			if children := joinBlocks(b.Children); children != "" {
				if part != "" {
					part += "\n\n"
				}
				part += indentLines(children)
			}
		}
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, "\n\n")
}

func indentLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = indent + line
		}
	}
	return strings.Join(lines, "\n")
}

func (c *Converter) inline(segments []core.RichText) (string, error) {
	cleaned, err := c.cleaner.Clean(richTextHTML(segments))
	if err != nil {
		return "", err
	}
	return c.normalizer.Normalize(cleaned)
}

func (c *Converter) blockMarkdown(b core.Block, number int) (string, error) {
	content := b.Content
	switch b.Type {
	case core.BlockParagraph:
		return c.inline(content.RichText)
	case core.BlockHeading1, core.BlockHeading2, core.BlockHeading3:
		text, err := c.inline(content.RichText)
		if err != nil || text == "" {
			return "", err
		}
		level := int(b.Type[len(b.Type)-1] - '0')
		return strings.Repeat("#", level) + " " + text, nil
	case core.BlockBulletedListItem, core.BlockToggle:
		text, err := c.inline(content.RichText)
		return "- " + text, err
	case core.BlockNumberedListItem:
		text, err := c.inline(content.RichText)
		return fmt.Sprintf("%d. %s", number, text), err
	case core.BlockToDo:
		text, err := c.inline(content.RichText)
		box := "[ ]"
		if content.Checked {
			box = "[x]"
		}
		return "- " + box + " " + text, err
	case core.BlockQuote:
		text, err := c.inline(content.RichText)
		return quote(text), err
	case core.BlockCallout:
		text, err := c.inline(content.RichText)
		if content.Icon != nil && content.Icon.Emoji != "" {
			text = content.Icon.Emoji + " " + text
		}
		return quote(text), err
	case core.BlockCode:
		return "```" + content.Language + "\n" + core.PlainText(content.RichText) + "\n```", nil
	case core.BlockDivider:
		return "---", nil
	case core.BlockEquation:
		return "$$\n" + content.Expression + "\n$$", nil
	case core.BlockBookmark, core.BlockEmbed, core.BlockLinkPreview:
		if content.URL == "" {
			return "", nil
		}
		label := core.PlainText(content.Caption)
		if label == "" {
			label = content.URL
		}
		return "[" + label + "](" + content.URL + ")", nil
	case core.BlockImage:
		url := content.MediaURL()
		if url == "" {
			return "", nil
		}
		return "![" + ImageName(b) + "](" + url + ")", nil
	case core.BlockVideo, core.BlockFile, core.BlockPDF:
		url := content.MediaURL()
		if url == "" {
			return "", nil
		}
		return "[" + mediaLabel(content, url) + "](" + url + ")", nil
	case core.BlockChildPage:
		return "**" + content.Title + "**", nil
	case core.BlockTable:
		return c.table(b)
	}
	c.logger.Debug("skipping unsupported block", "block", b.ID, "type", b.Type)
	return "", nil
}

// ImageName is the display name of an image block: its caption, or
// image-<first 8 hex digits of the block id>.
func ImageName(b core.Block) string {
	if caption := strings.TrimSpace(core.PlainText(b.Content.Caption)); caption != "" {
		return strings.NewReplacer("[", "", "]", "").Replace(caption)
	}
	id := strings.ReplaceAll(b.ID, "-", "")
	if len(id) > 8 {
		id = id[:8]
	}
	return "image-" + id
}

func mediaLabel(content core.BlockContent, url string) string {
	if caption := core.PlainText(content.Caption); caption != "" {
		return caption
	}
	if content.Name != "" {
		return content.Name
	}
	if base := path.Base(strings.SplitN(url, "?", 2)[0]); base != "." && base != "/" {
		return base
	}
	return url
}

func quote(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight("> "+line, " ")
	}
	return strings.Join(lines, "\n")
}

func (c *Converter) table(b core.Block) (string, error) {
	var rows []string
	for i, row := range b.Children {
		if row.Type != core.BlockTableRow {
			continue
		}
		cells := make([]string, 0, len(row.Content.Cells))
		for _, cell := range row.Content.Cells {
			text, err := c.inline(cell)
			if err != nil {
				return "", err
			}
			cells = append(cells, strings.ReplaceAll(text, "|", `\|`))
		}
		rows = append(rows, "| "+strings.Join(cells, " | ")+" |")
		if i == 0 {
			sep := make([]string, len(cells))
			for j := range sep {
				sep[j] = "---"
			}
			rows = append(rows, "| "+strings.Join(sep, " | ")+" |")
		}
	}
	return strings.Join(rows, "\n"), nil
}
