// Package property turns typed page properties into plain header values.
package property

import (
	"context"
	"fmt"

	"github.com/gaurav-prasanna/notionpipe/core"
	"github.com/gaurav-prasanna/notionpipe/core/logging"
)

// Extractor maps each property kind to its natural header value. Files
// properties are downloaded through the ImageFetcher.
type Extractor struct {
	images core.ImageFetcher
	logger logging.Logger
}

// New creates an Extractor. images backs the files kind.
func New(images core.ImageFetcher, logger logging.Logger) *Extractor {
	return &Extractor{images: images, logger: logging.OrNoOp(logger)}
}

// Extract returns the value of the first property called name, or nil when
// the page has no such property or its value is unset.
func (e *Extractor) Extract(ctx context.Context, props core.Properties, name string, contentType string) (any, error) {
	prop, ok := props.Lookup(name)
	if !ok {
		return nil, nil
	}
	return e.ExtractValue(ctx, prop, contentType)
}

// ExtractValue returns the header value of a single property. Unknown kinds
// fail with *core.UnrecognizedPropertyKindError before any side effect.
func (e *Extractor) ExtractValue(ctx context.Context, prop core.Property, contentType string) (any, error) {
	switch v := prop.Value.(type) {
	case core.TitleValue:
		return textOrNil(core.PlainText(v.Text)), nil
	case core.RichTextValue:
		return textOrNil(core.PlainText(v.Text)), nil
	case core.DateValue:
		return dateStart(v.Date), nil
	case core.URLValue:
		return stringOrNil(v.URL), nil
	case core.CheckboxValue:
		return v.Checked, nil
	case core.NumberValue:
		return numberOrNil(v.Number), nil
	case core.SelectValue:
		return optionName(v.Option), nil
	case core.StatusValue:
		return optionName(v.Option), nil
	case core.MultiSelectValue:
		names := make([]string, 0, len(v.Options))
		for _, o := range v.Options {
			names = append(names, o.Name)
		}
		return names, nil
	case core.CreatedTimeValue:
		return textOrNil(v.Time), nil
	case core.LastEditedTimeValue:
		return textOrNil(v.Time), nil
	case core.EmailValue:
		return stringOrNil(v.Email), nil
	case core.PhoneNumberValue:
		return stringOrNil(v.Phone), nil
	case core.FormulaValue:
		return formulaResult(v), nil
	case core.RelationValue:
		return append([]string{}, v.IDs...), nil
	case core.FilesValue:
		return e.firstImage(ctx, prop.Name, v, contentType)
	case core.UnknownValue:
		return nil, &core.UnrecognizedPropertyKindError{Property: prop.Name, Kind: v.Tag}
	case nil:
		return nil, &core.UnrecognizedPropertyKindError{Property: prop.Name}
	default:
		return nil, &core.UnrecognizedPropertyKindError{Property: prop.Name, Kind: prop.Value.Kind()}
	}
}

func (e *Extractor) firstImage(ctx context.Context, name string, v core.FilesValue, contentType string) (any, error) {
	if len(v.Files) == 0 {
		return nil, nil
	}
	first := v.Files[0]
	url := first.URL()
	if url == "" {
		return nil, nil
	}
	if e.images == nil {
		return nil, fmt.Errorf("property %q: no image fetcher configured", name)
	}

	e.logger.Debug("fetching property image", "property", name, "type", contentType, "file", first.Name)
	meta, err := e.images.FetchImage(ctx, url, first.Name)
	if err != nil {
		return nil, fmt.Errorf("property %q: %w", name, err)
	}
	return meta, nil
}

func formulaResult(f core.FormulaValue) any {
	switch f.ResultType {
	case "number":
		return numberOrNil(f.Number)
	case "string":
		return stringOrNil(f.String)
	case "boolean":
		if f.Boolean == nil {
			return nil
		}
		return *f.Boolean
	case "date":
		return dateStart(f.Date)
	}
	return nil
}

func textOrNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func stringOrNil(s *string) any {
	if s == nil {
		return nil
	}
	return textOrNil(*s)
}

func numberOrNil(n *float64) any {
	if n == nil {
		return nil
	}
	return *n
}

func optionName(o *core.SelectOption) any {
	if o == nil {
		return nil
	}
	return textOrNil(o.Name)
}

func dateStart(d *core.DateRange) any {
	if d == nil {
		return nil
	}
	return textOrNil(d.Start)
}
