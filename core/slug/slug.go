// Package slug derives the stable, URL-safe identifier used as a document's
// file stem and asset folder name.
package slug

import (
	"strings"

	goslug "github.com/goliatone/go-slug"
	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/unicode/norm"
)

// Make lowercases, transliterates and hyphenates value. Feeding the result
// back into Make returns it unchanged.
func Make(value string) (string, error) {
	ascii := Transliterate(strings.TrimSpace(value))

	normalized, err := goslug.Normalize(strings.ToLower(ascii))
	if err != nil {
		return "", err
	}
	return strings.Trim(normalized, "-"), nil
}

// Transliterate maps value to ASCII, so "Đà Nẵng" becomes "Da Nang" and
// "Straße" becomes "Strasse".
func Transliterate(value string) string {
	return strings.TrimSpace(unidecode.Unidecode(norm.NFC.String(value)))
}
