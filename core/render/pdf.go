// Package render: PDF renderer.
// Walks the goldmark AST of the body and lays it out with gofpdf.
// Local png, jpeg and gif assets are embedded; other images print their name.
package render

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/gaurav-prasanna/notionpipe/core"
)

const (
	bodyFont     = "Helvetica"
	codeFont     = "Courier"
	imageWidthMM = 120.0
)

var headingSizes = map[int]float64{1: 18, 2: 15, 3: 13, 4: 12, 5: 11, 6: 10}

// PDFRenderer renders a document as a PDF.
type PDFRenderer struct {
	md goldmark.Markdown
}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{md: goldmark.New()}
}

// documentStamp is the creation date written into the PDF: the header date
// when it parses, else the Unix epoch. Output bytes depend only on the document.
func documentStamp(header core.HeaderRecord) time.Time {
	raw := header.String("date")
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05.000Z07:00", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC()
		}
	}
	return time.Unix(0, 0).UTC()
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

// Render converts the document body into PDF bytes.
func (r *PDFRenderer) Render(doc *core.Document) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	stamp := documentStamp(doc.Header)
	pdf.SetCreationDate(stamp)
	pdf.SetModificationDate(stamp)
	pdf.SetCatalogSort(true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	title := doc.Header.String(core.HeaderTitle)
	if title == "" {
		title = doc.Slug
	}
	pdf.SetFont(bodyFont, "B", 18)
	pdf.MultiCell(0, 8, tr(title), "", "L", false)
	pdf.Ln(6)

	w := &pdfWriter{
		pdf:    pdf,
		tr:     tr,
		source: []byte(doc.Body),
		local:  localAssets(doc.Assets),
	}
	root := r.md.Parser().Parse(text.NewReader(w.source))
	if err := ast.Walk(root, w.visit); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing PDF: %w", err)
	}
	return buf.Bytes(), nil
}

type pdfWriter struct {
	pdf    *gofpdf.Fpdf
	tr     func(string) string
	source []byte
	local  map[string]string
	depth  int
}

func (w *pdfWriter) visit(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch n.(type) {
	case *ast.List:
		if entering {
			w.depth++
		} else {
			w.depth--
			w.pdf.Ln(2)
		}
		return ast.WalkContinue, nil
	case *ast.ListItem:
		return ast.WalkContinue, nil
	}
	if !entering {
		return ast.WalkContinue, nil
	}

	switch node := n.(type) {
	case *ast.Heading:
		size, ok := headingSizes[node.Level]
		if !ok {
			size = 10
		}
		w.pdf.Ln(4)
		w.pdf.SetFont(bodyFont, "B", size)
		w.pdf.MultiCell(0, size*0.6, w.tr(w.inlineText(node)), "", "L", false)
		w.pdf.Ln(2)
		return ast.WalkSkipChildren, nil
	case *ast.Paragraph, *ast.TextBlock:
		w.paragraph(n)
		return ast.WalkSkipChildren, nil
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		w.code(n)
		return ast.WalkSkipChildren, nil
	case *ast.Blockquote:
		w.pdf.SetTextColor(90, 90, 90)
		w.pdf.SetFont(bodyFont, "I", 10)
		w.pdf.MultiCell(0, 5, w.tr(w.inlineText(node)), "", "L", false)
		w.pdf.SetTextColor(0, 0, 0)
		w.pdf.Ln(2)
		return ast.WalkSkipChildren, nil
	case *ast.ThematicBreak:
		y := w.pdf.GetY() + 2
		w.pdf.Line(10, y, 200, y)
		w.pdf.Ln(5)
		return ast.WalkSkipChildren, nil
	}
	return ast.WalkContinue, nil
}

func (w *pdfWriter) paragraph(n ast.Node) {
	// An image alone in its paragraph is embedded.
	if img, ok := n.FirstChild().(*ast.Image); ok && n.ChildCount() == 1 {
		w.image(img)
		return
	}

	prefix := ""
	if item, ok := n.Parent().(*ast.ListItem); ok && item.FirstChild() == n {
		prefix = strings.Repeat("    ", w.depth-1) + listMarker(item)
	}
	w.pdf.SetFont(bodyFont, "", 10)
	w.pdf.MultiCell(0, 5, w.tr(prefix+w.inlineText(n)), "", "L", false)
	w.pdf.Ln(2)
}

func listMarker(item *ast.ListItem) string {
	list, ok := item.Parent().(*ast.List)
	if !ok || !list.IsOrdered() {
		return "- "
	}
	index := list.Start
	for s := item.PreviousSibling(); s != nil; s = s.PreviousSibling() {
		index++
	}
	return fmt.Sprintf("%d. ", index)
}

func (w *pdfWriter) code(n ast.Node) {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(w.source))
	}
	w.pdf.SetFont(codeFont, "", 9)
	w.pdf.SetFillColor(245, 245, 245)
	w.pdf.MultiCell(0, 4.5, w.tr(strings.TrimRight(b.String(), "\n")), "", "L", true)
	w.pdf.Ln(3)
}

func (w *pdfWriter) image(img *ast.Image) {
	dest := string(img.Destination)
	path, ok := w.local[dest]
	if ok && embeddable(path) {
		w.pdf.ImageOptions(path, 10, 0, imageWidthMM, 0, true, gofpdf.ImageOptions{ReadDpi: true}, 0, "")
		if w.pdf.Err() {
			// Drop the image rather than the whole export.
			w.pdf.ClearError()
		} else {
			w.pdf.Ln(3)
			return
		}
	}
	w.pdf.SetFont(bodyFont, "I", 9)
	w.pdf.MultiCell(0, 5, w.tr("[image: "+w.inlineText(img)+"]"), "", "L", false)
	w.pdf.Ln(2)
}

// inlineText flattens the inline children of n to plain text.
func (w *pdfWriter) inlineText(n ast.Node) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(w.source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

func localAssets(assets []core.DocumentAsset) map[string]string {
	out := make(map[string]string, len(assets))
	for _, a := range assets {
		if a.LocalPath != "" {
			out[a.PublicURL] = a.LocalPath
		}
	}
	return out
}

func embeddable(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".gif":
		return true
	}
	return false
}
