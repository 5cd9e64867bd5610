package asset

import (
	"regexp"
	"strings"

	"github.com/gaurav-prasanna/notionpipe/core"
)

// Reference is a parsed ![name](url) asset reference.
type Reference struct {
	Name string
	URL  string
}

// referencePattern is the whole grammar: a display segment and a URL segment.
var referencePattern = regexp.MustCompile(`^!\[([^\[\]]*)\]\(([^\s()]+)\)$`)

// ParseReference parses markup of the form ![name](url). Anything else,
// including trailing text or a missing segment, is a MalformedReferenceError.
func ParseReference(markup string) (Reference, error) {
	trimmed := strings.TrimSpace(markup)
	if !strings.HasPrefix(trimmed, "![") {
		return Reference{}, &core.MalformedReferenceError{Markup: markup, Reason: "missing ![ prefix"}
	}

	m := referencePattern.FindStringSubmatch(trimmed)
	if m == nil {
		return Reference{}, &core.MalformedReferenceError{Markup: markup, Reason: "expected exactly ![name](url)"}
	}
	return Reference{Name: strings.TrimSpace(m[1]), URL: m[2]}, nil
}
