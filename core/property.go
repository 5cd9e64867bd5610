package core

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Property kinds understood by the extractor.
const (
	KindTitle          = "title"
	KindRichText       = "rich_text"
	KindDate           = "date"
	KindURL            = "url"
	KindCheckbox       = "checkbox"
	KindNumber         = "number"
	KindSelect         = "select"
	KindMultiSelect    = "multi_select"
	KindStatus         = "status"
	KindCreatedTime    = "created_time"
	KindLastEditedTime = "last_edited_time"
	KindEmail          = "email"
	KindFormula        = "formula"
	KindPhoneNumber    = "phone_number"
	KindRelation       = "relation"
	KindFiles          = "files"
)

// Page is one record of a remote database.
type Page struct {
	ID             string     `json:"id"`
	CreatedTime    string     `json:"created_time"`
	LastEditedTime string     `json:"last_edited_time"`
	Archived       bool       `json:"archived"`
	URL            string     `json:"url"`
	Properties     Properties `json:"properties"`
}

// Property is a named, typed field of a page.
type Property struct {
	Name  string
	ID    string
	Value PropertyValue
}

// Properties keeps page properties in document order, duplicates included.
type Properties []Property

// Lookup returns the first property with the given name.
func (p Properties) Lookup(name string) (Property, bool) {
	for _, prop := range p {
		if prop.Name == name {
			return prop, true
		}
	}
	return Property{}, false
}

// UnmarshalJSON decodes a JSON object while preserving key order.
func (p *Properties) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*p = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("properties: expected object, got %v", tok)
	}

	var out Properties
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("properties: expected key, got %v", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("properties: decoding %q: %w", name, err)
		}

		prop, err := decodeProperty(name, raw)
		if err != nil {
			return err
		}
		out = append(out, prop)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	*p = out
	return nil
}

// PropertyValue is the closed set of property kinds. UnknownValue carries any
// kind this package does not recognize.
type PropertyValue interface {
	Kind() string
	isPropertyValue()
}

// RichText is one styled text segment.
type RichText struct {
	Type        string      `json:"type"`
	PlainText   string      `json:"plain_text"`
	Href        string      `json:"href,omitempty"`
	Annotations Annotations `json:"annotations"`
}

// Annotations holds rich text formatting flags.
type Annotations struct {
	Bold          bool   `json:"bold"`
	Italic        bool   `json:"italic"`
	Strikethrough bool   `json:"strikethrough"`
	Underline     bool   `json:"underline"`
	Code          bool   `json:"code"`
	Color         string `json:"color"`
}

// PlainText concatenates the plain text of every segment.
func PlainText(segments []RichText) string {
	var buf bytes.Buffer
	for _, s := range segments {
		buf.WriteString(s.PlainText)
	}
	return buf.String()
}

// DateRange is a date or date-time range; End is optional.
type DateRange struct {
	Start    string `json:"start"`
	End      string `json:"end,omitempty"`
	TimeZone string `json:"time_zone,omitempty"`
}

// SelectOption is a select, multi-select or status choice.
type SelectOption struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// FileURL is the location part of a hosted or external file.
type FileURL struct {
	URL        string `json:"url"`
	ExpiryTime string `json:"expiry_time,omitempty"`
}

// FileObject is one entry of a files property.
type FileObject struct {
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	File     *FileURL `json:"file,omitempty"`
	External *FileURL `json:"external,omitempty"`
}

// URL returns the hosted URL, or the external one.
func (f FileObject) URL() string {
	if f.File != nil && f.File.URL != "" {
		return f.File.URL
	}
	if f.External != nil {
		return f.External.URL
	}
	return ""
}

type (
	TitleValue          struct{ Text []RichText }
	RichTextValue       struct{ Text []RichText }
	DateValue           struct{ Date *DateRange }
	URLValue            struct{ URL *string }
	CheckboxValue       struct{ Checked bool }
	NumberValue         struct{ Number *float64 }
	SelectValue         struct{ Option *SelectOption }
	MultiSelectValue    struct{ Options []SelectOption }
	StatusValue         struct{ Option *SelectOption }
	CreatedTimeValue    struct{ Time string }
	LastEditedTimeValue struct{ Time string }
	EmailValue          struct{ Email *string }
	PhoneNumberValue    struct{ Phone *string }
	RelationValue       struct{ IDs []string }
	FilesValue          struct{ Files []FileObject }

	// FormulaValue holds a computed result; ResultType names the set field.
	FormulaValue struct {
		ResultType string
		Number     *float64
		String     *string
		Boolean    *bool
		Date       *DateRange
	}

	// UnknownValue is a property whose kind tag is not recognized.
	UnknownValue struct {
		Tag string
		Raw json.RawMessage
	}
)

func (TitleValue) Kind() string          { return KindTitle }
func (RichTextValue) Kind() string       { return KindRichText }
func (DateValue) Kind() string           { return KindDate }
func (URLValue) Kind() string            { return KindURL }
func (CheckboxValue) Kind() string       { return KindCheckbox }
func (NumberValue) Kind() string         { return KindNumber }
func (SelectValue) Kind() string         { return KindSelect }
func (MultiSelectValue) Kind() string    { return KindMultiSelect }
func (StatusValue) Kind() string         { return KindStatus }
func (CreatedTimeValue) Kind() string    { return KindCreatedTime }
func (LastEditedTimeValue) Kind() string { return KindLastEditedTime }
func (EmailValue) Kind() string          { return KindEmail }
func (PhoneNumberValue) Kind() string    { return KindPhoneNumber }
func (RelationValue) Kind() string       { return KindRelation }
func (FilesValue) Kind() string          { return KindFiles }
func (FormulaValue) Kind() string        { return KindFormula }
func (u UnknownValue) Kind() string      { return u.Tag }

func (TitleValue) isPropertyValue()          {}
func (RichTextValue) isPropertyValue()       {}
func (DateValue) isPropertyValue()           {}
func (URLValue) isPropertyValue()            {}
func (CheckboxValue) isPropertyValue()       {}
func (NumberValue) isPropertyValue()         {}
func (SelectValue) isPropertyValue()         {}
func (MultiSelectValue) isPropertyValue()    {}
func (StatusValue) isPropertyValue()         {}
func (CreatedTimeValue) isPropertyValue()    {}
func (LastEditedTimeValue) isPropertyValue() {}
func (EmailValue) isPropertyValue()          {}
func (PhoneNumberValue) isPropertyValue()    {}
func (RelationValue) isPropertyValue()       {}
func (FilesValue) isPropertyValue()          {}
func (FormulaValue) isPropertyValue()        {}
func (UnknownValue) isPropertyValue()        {}

// wireProperty mirrors the remote property envelope. Only the field named by
// Type is populated.
type wireProperty struct {
	ID             string         `json:"id"`
	Type           string         `json:"type"`
	Title          []RichText     `json:"title"`
	RichText       []RichText     `json:"rich_text"`
	Date           *DateRange     `json:"date"`
	URL            *string        `json:"url"`
	Checkbox       bool           `json:"checkbox"`
	Number         *float64       `json:"number"`
	Select         *SelectOption  `json:"select"`
	MultiSelect    []SelectOption `json:"multi_select"`
	Status         *SelectOption  `json:"status"`
	CreatedTime    string         `json:"created_time"`
	LastEditedTime string         `json:"last_edited_time"`
	Email          *string        `json:"email"`
	PhoneNumber    *string        `json:"phone_number"`
	Relation       []relationRef  `json:"relation"`
	Files          []FileObject   `json:"files"`
	Formula        *wireFormula   `json:"formula"`
}

type relationRef struct {
	ID string `json:"id"`
}

type wireFormula struct {
	Type    string     `json:"type"`
	Number  *float64   `json:"number"`
	String  *string    `json:"string"`
	Boolean *bool      `json:"boolean"`
	Date    *DateRange `json:"date"`
}

func decodeProperty(name string, raw json.RawMessage) (Property, error) {
	var w wireProperty
	if err := json.Unmarshal(raw, &w); err != nil {
		return Property{}, fmt.Errorf("property %q: %w", name, err)
	}

	prop := Property{Name: name, ID: w.ID}
	switch w.Type {
	case KindTitle:
		prop.Value = TitleValue{Text: w.Title}
	case KindRichText:
		prop.Value = RichTextValue{Text: w.RichText}
	case KindDate:
		prop.Value = DateValue{Date: w.Date}
	case KindURL:
		prop.Value = URLValue{URL: w.URL}
	case KindCheckbox:
		prop.Value = CheckboxValue{Checked: w.Checkbox}
	case KindNumber:
		prop.Value = NumberValue{Number: w.Number}
	case KindSelect:
		prop.Value = SelectValue{Option: w.Select}
	case KindMultiSelect:
		prop.Value = MultiSelectValue{Options: w.MultiSelect}
	case KindStatus:
		prop.Value = StatusValue{Option: w.Status}
	case KindCreatedTime:
		prop.Value = CreatedTimeValue{Time: w.CreatedTime}
	case KindLastEditedTime:
		prop.Value = LastEditedTimeValue{Time: w.LastEditedTime}
	case KindEmail:
		prop.Value = EmailValue{Email: w.Email}
	case KindPhoneNumber:
		prop.Value = PhoneNumberValue{Phone: w.PhoneNumber}
	case KindRelation:
		ids := make([]string, 0, len(w.Relation))
		for _, r := range w.Relation {
			ids = append(ids, r.ID)
		}
		prop.Value = RelationValue{IDs: ids}
	case KindFiles:
		prop.Value = FilesValue{Files: w.Files}
	case KindFormula:
		f := FormulaValue{}
		if w.Formula != nil {
			f = FormulaValue{
				ResultType: w.Formula.Type,
				Number:     w.Formula.Number,
				String:     w.Formula.String,
				Boolean:    w.Formula.Boolean,
				Date:       w.Formula.Date,
			}
		}
		prop.Value = f
	default:
		prop.Value = UnknownValue{Tag: w.Type, Raw: append(json.RawMessage(nil), raw...)}
	}
	return prop, nil
}
