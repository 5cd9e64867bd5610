package render

import (
	"bytes"
	"fmt"

	"github.com/adrg/frontmatter"

	"github.com/gaurav-prasanna/notionpipe/core"
)

// ParseDocument splits a written document into its header and body.
func ParseDocument(data []byte) (core.HeaderRecord, []byte, error) {
	var header map[string]any
	body, err := frontmatter.Parse(bytes.NewReader(data), &header)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing front matter: %w", err)
	}
	if header == nil {
		header = map[string]any{}
	}
	return core.HeaderRecord(header), body, nil
}
