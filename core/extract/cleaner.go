// Package extract tidies the HTML generated for each body block before it is
// converted to Markdown:
//  1. Removing markup that has no Markdown form (scripts, styles, forms)
//  2. Dropping inline formatting with no text
//  3. Moving edge whitespace out of inline formatting, so **bold ** never
//     reaches the Markdown writer
package extract

import (
	"fmt"
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// noiseSelectors are elements removed outright.
var noiseSelectors = []string{
	"script", "style", "noscript",
	"iframe", "svg", "canvas",
	"form", "button", "input", "select", "textarea",
}

// inlineSelector matches the formatting elements produced from rich text.
const inlineSelector = "strong, em, del, code, a"

// Cleaner normalizes block HTML fragments.
type Cleaner struct{}

// New creates a Cleaner.
func New() *Cleaner {
	return &Cleaner{}
}

// Clean returns the tidied fragment.
func (c *Cleaner) Clean(fragment string) (string, error) {
	if strings.TrimSpace(fragment) == "" {
		return "", nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + fragment + "</body>"))
	if err != nil {
		return "", fmt.Errorf("parsing block HTML: %w", err)
	}

	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}

	doc.Find(inlineSelector).Each(func(_ int, s *goquery.Selection) {
		text := s.Text()
		switch {
		case text == "":
			s.Remove()
		case strings.TrimSpace(text) == "":
			s.ReplaceWithHtml(html.EscapeString(text))
		case s.Children().Length() == 0:
			trimmed := strings.TrimSpace(text)
			if lead := text[:strings.Index(text, trimmed)]; lead != "" {
				s.BeforeHtml(html.EscapeString(lead))
			}
			if trail := text[strings.Index(text, trimmed)+len(trimmed):]; trail != "" {
				s.AfterHtml(html.EscapeString(trail))
			}
			s.SetText(trimmed)
		}
	})

	out, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("serializing block HTML: %w", err)
	}
	return out, nil
}
