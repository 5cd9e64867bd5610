// Package pipeline runs a sync: for every configured database it lists the
// pages, maps each to a header, strips filtered fields and assembles the
// document. Pages are processed one at a time with a pause in between.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/gaurav-prasanna/notionpipe/core"
	"github.com/gaurav-prasanna/notionpipe/core/assemble"
	"github.com/gaurav-prasanna/notionpipe/core/logging"
)

// DefaultDelay is the pause between two pages.
const DefaultDelay = 400 * time.Millisecond

// HeaderMapper builds the header record of a page.
type HeaderMapper interface {
	ToHeaderRecord(ctx context.Context, page core.Page, contentType string) (core.HeaderRecord, error)
}

// DocumentAssembler writes one document.
type DocumentAssembler interface {
	Assemble(ctx context.Context, header core.HeaderRecord, languageField string) (assemble.Result, error)
}

// DirMaker creates directories.
type DirMaker interface {
	EnsureDir(dir string) error
}

// PageReport is emitted after every page.
type PageReport struct {
	Entry  core.SyncEntry
	PageID string
	Result assemble.Result
	Err    error
}

// Summary counts the outcome of a run.
type Summary struct {
	Entries   int
	Pages     int
	Written   int
	Unchanged int
	Failed    int
}

// Orchestrator drives a sync run.
type Orchestrator struct {
	lister    core.PageLister
	mapper    HeaderMapper
	assembler DocumentAssembler
	dirs      DirMaker
	root      string
	delay     time.Duration
	progress  func(PageReport)
	logger    logging.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithDelay sets the pause between pages. Zero disables it.
func WithDelay(d time.Duration) Option {
	return func(o *Orchestrator) { o.delay = d }
}

// WithContentRoot makes every entry ensure root exists before its pages.
func WithContentRoot(root string, dirs DirMaker) Option {
	return func(o *Orchestrator) {
		o.root = root
		o.dirs = dirs
	}
}

// WithProgress registers a callback invoked after every page.
func WithProgress(fn func(PageReport)) Option {
	return func(o *Orchestrator) { o.progress = fn }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(o *Orchestrator) { o.logger = logging.OrNoOp(l) }
}

// New creates an Orchestrator.
func New(lister core.PageLister, mapper HeaderMapper, assembler DocumentAssembler, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		lister:    lister,
		mapper:    mapper,
		assembler: assembler,
		delay:     DefaultDelay,
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run syncs entries in order. Configuration and listing errors abort the
// run; page failures are counted and the run continues.
func (o *Orchestrator) Run(ctx context.Context, entries []core.SyncEntry) (Summary, error) {
	var summary Summary
	for i, entry := range entries {
		if entry.DatabaseID == "" {
			return summary, wrapConfigError(core.ErrMissingDatabaseID, fmt.Sprintf("sync entry %d has no database id", i))
		}
		summary.Entries++

		log := logging.WithFields(o.logger, map[string]any{"database": entry.DatabaseID, "type": entry.ContentType})
		pages, err := o.lister.ListPages(ctx, entry.DatabaseID)
		if err != nil {
			return summary, wrapListError(err, "listing pages of "+entry.DatabaseID)
		}
		if len(pages) == 0 {
			log.Warn("no pages found")
			continue
		}
		log.Info("syncing pages", "count", len(pages))

		if o.dirs != nil && o.root != "" {
			if err := o.dirs.EnsureDir(o.root); err != nil {
				return summary, wrapRootError(err, "creating content root")
			}
		}

		for j, page := range pages {
			if j > 0 {
				if err := sleep(ctx, o.delay); err != nil {
					return summary, wrapCanceled(err)
				}
			}

			report := o.syncPage(ctx, entry, page)
			summary.Pages++
			switch {
			case report.Err != nil:
				summary.Failed++
				log.Error("page failed", "page", page.ID, "error", report.Err)
			case report.Result.Status == assemble.StatusWriteFailed:
				summary.Failed++
			case report.Result.Status == assemble.StatusUnchanged:
				summary.Unchanged++
			default:
				summary.Written++
			}
			if o.progress != nil {
				o.progress(report)
			}
		}
	}
	return summary, nil
}

// syncPage isolates one page: errors and panics are captured in the report.
func (o *Orchestrator) syncPage(ctx context.Context, entry core.SyncEntry, page core.Page) (report PageReport) {
	report = PageReport{Entry: entry, PageID: page.ID}
	defer func() {
		if r := recover(); r != nil {
			report.Err = wrapPageError(fmt.Errorf("panic: %v", r), "page "+page.ID+" failed")
		}
	}()

	header, err := o.mapper.ToHeaderRecord(ctx, page, entry.ContentType)
	if err != nil {
		report.Err = wrapPageError(err, "page "+page.ID+" failed")
		return report
	}
	StripFields(header, entry.FilterFields)

	res, err := o.assembler.Assemble(ctx, header, entry.LanguageField)
	report.Result = res
	if err != nil {
		report.Err = wrapPageError(err, "page "+page.ID+" failed")
	}
	return report
}

// StripFields deletes fields from header. Reserved keys are kept.
func StripFields(header core.HeaderRecord, fields []string) {
	for _, f := range fields {
		if core.IsReserved(f) {
			continue
		}
		delete(header, f)
	}
}

// sleep pauses for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
