// Package mapper converts remote pages into header records.
package mapper

import (
	"context"
	"fmt"

	"github.com/gaurav-prasanna/notionpipe/core"
)

// ValueExtractor resolves one typed property to its header value.
type ValueExtractor interface {
	ExtractValue(ctx context.Context, prop core.Property, contentType string) (any, error)
}

// Mapper builds the front matter of a page.
type Mapper struct {
	extractor ValueExtractor
}

// New creates a Mapper backed by extractor.
func New(extractor ValueExtractor) *Mapper {
	return &Mapper{extractor: extractor}
}

// ToHeaderRecord sets id and type first, then every property in page order.
// Every property is extracted, so an unrecognized kind fails the page even
// when its value would be discarded. The first non-empty value wins for a
// name and reserved keys are never replaced. An empty contentType leaves type
// unset.
func (m *Mapper) ToHeaderRecord(ctx context.Context, page core.Page, contentType string) (core.HeaderRecord, error) {
	header := core.HeaderRecord{core.HeaderID: page.ID}
	if contentType != "" {
		header[core.HeaderType] = contentType
	}

	for _, prop := range page.Properties {
		value, err := m.extractor.ExtractValue(ctx, prop, contentType)
		if err != nil {
			return nil, fmt.Errorf("page %s: %w", page.ID, err)
		}
		if core.IsReserved(prop.Name) || header.Has(prop.Name) || isEmpty(value) {
			continue
		}
		header[prop.Name] = value
	}
	return header, nil
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []string:
		return len(t) == 0
	case []any:
		return len(t) == 0
	}
	return false
}
