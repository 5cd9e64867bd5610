package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/notionpipe/core"
	"github.com/gaurav-prasanna/notionpipe/core/assemble"
	"github.com/gaurav-prasanna/notionpipe/core/mapper"
	"github.com/gaurav-prasanna/notionpipe/core/output"
	"github.com/gaurav-prasanna/notionpipe/core/property"
)

type stubLister struct {
	pages map[string][]core.Page
	err   error
}

func (s stubLister) ListPages(_ context.Context, id string) ([]core.Page, error) {
	return s.pages[id], s.err
}

// recordingAssembler keeps every header it receives. Pages listed in fail
// return an error, pages listed in panics panic.
type recordingAssembler struct {
	headers []core.HeaderRecord
	fail    map[string]bool
	panics  map[string]bool
}

func (r *recordingAssembler) Assemble(_ context.Context, header core.HeaderRecord, _ string) (assemble.Result, error) {
	id := header.String(core.HeaderID)
	if r.panics[id] {
		panic("boom")
	}
	if r.fail[id] {
		return assemble.Result{PageID: id}, &core.MissingIdentityError{PageID: id}
	}
	r.headers = append(r.headers, header)
	return assemble.Result{PageID: id, Status: assemble.StatusWritten}, nil
}

func richPage(id string, fields ...string) core.Page {
	page := core.Page{ID: id}
	for i := 0; i+1 < len(fields); i += 2 {
		page.Properties = append(page.Properties, core.Property{
			Name:  fields[i],
			Value: core.RichTextValue{Text: []core.RichText{{PlainText: fields[i+1]}}},
		})
	}
	return page
}

func newOrchestrator(lister core.PageLister, asm DocumentAssembler, opts ...Option) *Orchestrator {
	opts = append([]Option{WithDelay(0)}, opts...)
	return New(lister, mapper.New(property.New(nil, nil)), asm, opts...)
}

func TestRunStripsFilteredFields(t *testing.T) {
	lister := stubLister{pages: map[string][]core.Page{
		"db": {richPage("p1", "slug", "one", "secret", "x", "notes", "y")},
	}}
	asm := &recordingAssembler{}

	summary, err := newOrchestrator(lister, asm).Run(context.Background(), []core.SyncEntry{
		{DatabaseID: "db", ContentType: "post", FilterFields: []string{"secret", "notes", "id", "type"}},
	})
	require.NoError(t, err)

	require.Len(t, asm.headers, 1)
	h := asm.headers[0]
	assert.False(t, h.Has("secret"))
	assert.False(t, h.Has("notes"))
	assert.Equal(t, "p1", h.String("id"))
	assert.Equal(t, "post", h.String("type"))
	assert.Equal(t, Summary{Entries: 1, Pages: 1, Written: 1}, summary)
}

func TestRunIsolatesPageFailures(t *testing.T) {
	lister := stubLister{pages: map[string][]core.Page{
		"db": {richPage("bad"), richPage("panics"), richPage("good", "slug", "ok"), {ID: "unknown", Properties: core.Properties{
			{Name: "who", Value: core.UnknownValue{Tag: "people"}},
		}}},
	}}
	asm := &recordingAssembler{fail: map[string]bool{"bad": true}, panics: map[string]bool{"panics": true}}

	var reports []PageReport
	summary, err := newOrchestrator(lister, asm, WithProgress(func(r PageReport) { reports = append(reports, r) })).
		Run(context.Background(), []core.SyncEntry{{DatabaseID: "db"}})
	require.NoError(t, err)

	assert.Equal(t, Summary{Entries: 1, Pages: 4, Written: 1, Failed: 3}, summary)
	require.Len(t, reports, 4)
	assert.True(t, goerrors.IsCategory(reports[0].Err, goerrors.CategoryCommand))
	assert.True(t, goerrors.IsCategory(reports[1].Err, goerrors.CategoryCommand))
	assert.NoError(t, reports[2].Err)
	assert.Error(t, reports[3].Err)
}

func TestRunMissingDatabaseID(t *testing.T) {
	_, err := newOrchestrator(stubLister{}, &recordingAssembler{}).Run(context.Background(), []core.SyncEntry{{ContentType: "post"}})
	require.Error(t, err)
	assert.True(t, goerrors.IsCategory(err, goerrors.CategoryValidation))
}

func TestRunRejectedCredentials(t *testing.T) {
	lister := stubLister{err: fmt.Errorf("authenticate: %w", core.ErrMissingCredentials)}
	_, err := newOrchestrator(lister, &recordingAssembler{}).Run(context.Background(), []core.SyncEntry{{DatabaseID: "db"}})
	assert.True(t, goerrors.IsCategory(err, goerrors.CategoryValidation))
}

func TestRunListFailure(t *testing.T) {
	lister := stubLister{err: errors.New("connection reset")}
	_, err := newOrchestrator(lister, &recordingAssembler{}).Run(context.Background(), []core.SyncEntry{{DatabaseID: "db"}})
	assert.True(t, goerrors.IsCategory(err, goerrors.CategoryCommand))
}

func TestRunContinuesAfterEmptyDatabase(t *testing.T) {
	lister := stubLister{pages: map[string][]core.Page{"full": {richPage("p1", "slug", "a")}}}
	asm := &recordingAssembler{}

	summary, err := newOrchestrator(lister, asm).Run(context.Background(), []core.SyncEntry{{DatabaseID: "empty"}, {DatabaseID: "full"}})
	require.NoError(t, err)
	assert.Equal(t, Summary{Entries: 2, Pages: 1, Written: 1}, summary)
}

func TestRunAwaitsDelayBetweenPages(t *testing.T) {
	lister := stubLister{pages: map[string][]core.Page{"db": {richPage("a"), richPage("b"), richPage("c")}}}

	start := time.Now()
	_, err := newOrchestrator(lister, &recordingAssembler{}, WithDelay(25*time.Millisecond)).
		Run(context.Background(), []core.SyncEntry{{DatabaseID: "db"}})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestRunStopsWhenCancelledDuringDelay(t *testing.T) {
	lister := stubLister{pages: map[string][]core.Page{"db": {richPage("a"), richPage("b")}}}
	asm := &recordingAssembler{}
	ctx, cancel := context.WithCancel(context.Background())

	o := newOrchestrator(lister, asm, WithDelay(time.Hour), WithProgress(func(PageReport) { cancel() }))
	summary, err := o.Run(ctx, []core.SyncEntry{{DatabaseID: "db"}})

	require.Error(t, err)
	assert.True(t, goerrors.IsCategory(err, goerrors.CategoryCommand))
	assert.Equal(t, 1, summary.Pages)
}

func TestRunEnsuresContentRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "md")
	w, err := output.New(root)
	require.NoError(t, err)
	require.NoError(t, os.Remove(root))

	lister := stubLister{pages: map[string][]core.Page{"db": {richPage("a")}}}
	_, err = newOrchestrator(lister, &recordingAssembler{}, WithContentRoot(root, w)).
		Run(context.Background(), []core.SyncEntry{{DatabaseID: "db"}})
	require.NoError(t, err)
	assert.DirExists(t, root)
}

type failingDirs struct{}

func (failingDirs) EnsureDir(string) error { return errors.New("read-only file system") }

func TestRunReportsContentRootFailure(t *testing.T) {
	lister := stubLister{pages: map[string][]core.Page{"db": {richPage("a")}}}
	asm := &recordingAssembler{}
	_, err := newOrchestrator(lister, asm, WithContentRoot("./md", failingDirs{})).
		Run(context.Background(), []core.SyncEntry{{DatabaseID: "db"}})

	require.Error(t, err)
	assert.True(t, goerrors.IsCategory(err, goerrors.CategoryOperation))
	var wrapped *goerrors.Error
	require.True(t, errors.As(err, &wrapped))
	assert.Equal(t, codeRootFailed, wrapped.TextCode)
	assert.Empty(t, asm.headers)
}

func TestMissingDatabaseIDCode(t *testing.T) {
	err := wrapConfigError(core.ErrMissingDatabaseID, "no database")
	var wrapped *goerrors.Error
	require.True(t, errors.As(err, &wrapped))
	assert.Equal(t, codeMissingDatabaseID, wrapped.TextCode)
}
