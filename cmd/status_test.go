package cmd

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/notionpipe/core"
)

func writeDoc(t *testing.T, dir, name, content string) core.DocumentRecord {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	sum := sha256.Sum256([]byte(content))
	return core.DocumentRecord{ID: "page-1", Slug: "s", Path: path, SHA256: hex.EncodeToString(sum[:])}
}

func TestDocumentState(t *testing.T) {
	dir := t.TempDir()
	doc := "---\nid: page-1\nslug: s\n---\nbody\n"

	ok := writeDoc(t, dir, "ok.md", doc)
	assert.Equal(t, stateOK, documentState(ok))

	modified := writeDoc(t, dir, "modified.md", doc)
	require.NoError(t, os.WriteFile(modified.Path, []byte(doc+"edited\n"), 0o644))
	assert.Equal(t, stateModified, documentState(modified))

	foreign := writeDoc(t, dir, "foreign.md", "---\nid: other\n---\n")
	assert.Equal(t, stateInvalid, documentState(foreign))

	missing := core.DocumentRecord{ID: "page-1", Path: filepath.Join(dir, "gone.md")}
	assert.Equal(t, stateMissing, documentState(missing))
}

func TestWriteStatusCountsProblems(t *testing.T) {
	dir := t.TempDir()
	ok := writeDoc(t, dir, "ok.md", "---\nid: page-1\n---\n")
	missing := core.DocumentRecord{ID: "page-2", Slug: "gone", Path: filepath.Join(dir, "gone.md")}

	var buf bytes.Buffer
	problems := writeStatus(&buf, []core.DocumentRecord{ok, missing})

	assert.Equal(t, 1, problems)
	assert.Contains(t, buf.String(), "gone")
	assert.Contains(t, buf.String(), "STATE")
}
