// Package assemble materializes one page: it resolves the slug and
// destination, converts the body, fetches and re-hosts embedded images,
// and writes the document with its front matter.
package assemble

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gaurav-prasanna/notionpipe/core"
	"github.com/gaurav-prasanna/notionpipe/core/asset"
	"github.com/gaurav-prasanna/notionpipe/core/logging"
	"github.com/gaurav-prasanna/notionpipe/core/output"
	"github.com/gaurav-prasanna/notionpipe/core/paths"
	"github.com/gaurav-prasanna/notionpipe/core/render"
	"github.com/gaurav-prasanna/notionpipe/core/slug"
)

// Status is the outcome of writing a document.
type Status string

const (
	StatusWritten     Status = "written"
	StatusUnchanged   Status = "unchanged"
	StatusWriteFailed Status = "write_failed"
)

// Result describes one assembled document.
type Result struct {
	PageID   string
	Slug     string
	Language string
	Path     string
	Status   Status
	// Assets is the number of distinct body assets ensured.
	Assets int
	// SkippedAssets counts malformed references that were logged and skipped.
	SkippedAssets int
	// Err is the write error when Status is StatusWriteFailed.
	Err error
}

// AssetStore fetches assets and maps them to permanent URLs.
type AssetStore interface {
	Ensure(ctx context.Context, ref core.AssetReference) (string, error)
	PublicURL(rel string) string
}

// DocumentWriter creates folders and writes files.
type DocumentWriter interface {
	EnsureDir(dir string) error
	Write(path string, data []byte) (output.Result, error)
}

// Assembler turns header records into files.
type Assembler struct {
	paths    *paths.Resolver
	body     core.BodyConverter
	assets   AssetStore
	writer   DocumentWriter
	renderer core.Renderer
	exports  []core.Renderer
	recorder core.Recorder
	logger   logging.Logger
	now      func() time.Time
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithExports adds renderers written next to the Markdown document.
func WithExports(renderers ...core.Renderer) Option {
	return func(a *Assembler) { a.exports = append(a.exports, renderers...) }
}

// WithRecorder records written documents.
func WithRecorder(r core.Recorder) Option {
	return func(a *Assembler) { a.recorder = r }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(a *Assembler) { a.logger = logging.OrNoOp(l) }
}

// WithClock overrides the time source used for ledger records.
func WithClock(now func() time.Time) Option {
	return func(a *Assembler) { a.now = now }
}

// New creates an Assembler.
func New(resolver *paths.Resolver, body core.BodyConverter, assets AssetStore, writer DocumentWriter, opts ...Option) *Assembler {
	a := &Assembler{
		paths:    resolver,
		body:     body,
		assets:   assets,
		writer:   writer,
		renderer: render.NewMarkdownRenderer(),
		logger:   logging.NoOp(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble writes the document for header. Identity, body and asset errors
// fail the page. A failed write is logged and reported in the Result.
func (a *Assembler) Assemble(ctx context.Context, header core.HeaderRecord, languageField string) (Result, error) {
	pageID := header.String(core.HeaderID)
	res := Result{PageID: pageID}

	docSlug, err := resolveSlug(header)
	if err != nil {
		return res, err
	}
	res.Slug = docSlug

	lang := ""
	if languageField != "" {
		lang = strings.TrimSpace(header.String(languageField))
	}
	res.Language = lang

	if err := a.writer.EnsureDir(a.paths.DocumentFolder(lang)); err != nil {
		return res, err
	}

	blocks, err := a.body.PageToMarkdown(ctx, pageID)
	if err != nil {
		return res, fmt.Errorf("converting body of %s: %w", pageID, err)
	}
	body := a.body.ToMarkdownString(blocks)

	log := logging.WithFields(a.logger, map[string]any{"page": pageID, "slug": docSlug})

	plan := asset.NewPlan(a.paths.AssetFolderFor(docSlug))
	for _, b := range assetBlocks(blocks) {
		ref, err := asset.ParseReference(b.Markdown)
		if err != nil {
			log.Warn("skipping asset", "block", b.BlockID, "error", err)
			res.SkippedAssets++
			continue
		}
		plan.Add(ref.Name, ref.URL)
	}

	docAssets := make([]core.DocumentAsset, 0, plan.Len())
	replacements := map[string]string{}
	for _, entry := range plan.Entries() {
		local, err := a.assets.Ensure(ctx, entry.Ref)
		if err != nil {
			return res, err
		}
		public := a.assets.PublicURL(entry.Ref.Path)
		for _, u := range entry.URLs {
			replacements[u] = public
		}
		docAssets = append(docAssets, core.DocumentAsset{AssetReference: entry.Ref, PublicURL: public, LocalPath: local})
	}
	res.Assets = len(docAssets)
	body = rewriteURLs(body, replacements)

	doc := &core.Document{
		Slug:     docSlug,
		Language: lang,
		Header:   header,
		Body:     body,
		Assets:   docAssets,
	}
	data, err := a.renderer.Render(doc)
	if err != nil {
		return res, fmt.Errorf("rendering %s: %w", docSlug, err)
	}

	res.Path = a.paths.DocumentPath(docSlug, lang)
	written, err := a.writer.Write(res.Path, data)
	if err != nil {
		log.Error("failed to write document", "path", res.Path, "error", err)
		res.Status = StatusWriteFailed
		res.Err = err
		return res, nil
	}
	res.Status = StatusUnchanged
	if written.Changed {
		res.Status = StatusWritten
	}

	a.record(log, doc, res, data)
	a.export(log, doc)
	return res, nil
}

// resolveSlug prefers an explicit slug and otherwise derives one from the
// title. A derived slug is stored back into the header.
func resolveSlug(header core.HeaderRecord) (string, error) {
	if s := strings.TrimSpace(header.String(core.HeaderSlug)); s != "" {
		return s, nil
	}
	title := header.String(core.HeaderTitle)
	if strings.TrimSpace(title) != "" {
		if s, err := slug.Make(title); err == nil && s != "" {
			header[core.HeaderSlug] = s
			return s, nil
		}
	}
	return "", &core.MissingIdentityError{PageID: header.String(core.HeaderID)}
}

// assetBlocks returns image blocks in document order, nested ones included.
func assetBlocks(blocks []core.MarkdownBlock) []core.MarkdownBlock {
	var out []core.MarkdownBlock
	for _, b := range blocks {
		if b.Type == core.BlockImage && b.Markdown != "" {
			out = append(out, b)
		}
		out = append(out, assetBlocks(b.Children)...)
	}
	return out
}

// rewriteURLs replaces longer URLs first so a URL that prefixes another is
// not rewritten inside it.
func rewriteURLs(body string, replacements map[string]string) string {
	if len(replacements) == 0 {
		return body
	}
	urls := make([]string, 0, len(replacements))
	for u := range replacements {
		urls = append(urls, u)
	}
	sort.Slice(urls, func(i, j int) bool {
		if len(urls[i]) != len(urls[j]) {
			return len(urls[i]) > len(urls[j])
		}
		return urls[i] < urls[j]
	})

	pairs := make([]string, 0, 2*len(urls))
	for _, u := range urls {
		pairs = append(pairs, u, replacements[u])
	}
	return strings.NewReplacer(pairs...).Replace(body)
}

func (a *Assembler) record(log logging.Logger, doc *core.Document, res Result, data []byte) {
	if a.recorder == nil {
		return
	}
	sum := sha256.Sum256(data)
	rec := core.DocumentRecord{
		ID:          res.PageID,
		Slug:        doc.Slug,
		ContentType: doc.Header.String(core.HeaderType),
		Language:    doc.Language,
		Path:        res.Path,
		SHA256:      hex.EncodeToString(sum[:]),
		SyncedAt:    a.now().UTC(),
	}
	if err := a.recorder.RecordDocument(rec); err != nil {
		log.Warn("recording document failed", "path", res.Path, "error", err)
	}
}

func (a *Assembler) export(log logging.Logger, doc *core.Document) {
	for _, r := range a.exports {
		path := a.paths.DocumentPathExt(doc.Slug, doc.Language, r.Extension())
		data, err := r.Render(doc)
		if err != nil {
			log.Error("failed to render export", "path", path, "error", err)
			continue
		}
		if _, err := a.writer.Write(path, data); err != nil {
			log.Error("failed to write export", "path", path, "error", err)
		}
	}
}
