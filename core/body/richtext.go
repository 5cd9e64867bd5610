package body

import (
	"html"
	"strings"

	"github.com/gaurav-prasanna/notionpipe/core"
)

// richTextHTML renders segments as inline HTML. Adjacent segments with the
// same formatting are merged first.
func richTextHTML(segments []core.RichText) string {
	var b strings.Builder
	for _, seg := range mergeSegments(segments) {
		text := html.EscapeString(seg.PlainText)
		text = strings.ReplaceAll(text, "\n", "<br>")

		a := seg.Annotations
		if a.Code {
			text = "<code>" + text + "</code>"
		}
		if a.Strikethrough {
			text = "<del>" + text + "</del>"
		}
		if a.Italic {
			text = "<em>" + text + "</em>"
		}
		if a.Bold {
			text = "<strong>" + text + "</strong>"
		}
		if seg.Href != "" {
			text = `<a href="` + html.EscapeString(seg.Href) + `">` + text + "</a>"
		}
		b.WriteString(text)
	}
	return b.String()
}

func mergeSegments(segments []core.RichText) []core.RichText {
	out := make([]core.RichText, 0, len(segments))
	for _, seg := range segments {
		if n := len(out); n > 0 && sameFormatting(out[n-1], seg) {
			out[n-1].PlainText += seg.PlainText
			continue
		}
		out = append(out, seg)
	}
	return out
}

func sameFormatting(a, b core.RichText) bool {
	x, y := a.Annotations, b.Annotations
	return a.Href == b.Href &&
		x.Bold == y.Bold && x.Italic == y.Italic &&
		x.Strikethrough == y.Strikethrough && x.Code == y.Code
}
