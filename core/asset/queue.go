// Package asset: per-document asset plan with deduplication.
// Maintains a seen set so the same remote object is fetched once per document.
package asset

import (
	"path"
	"strconv"
	"strings"

	"github.com/gaurav-prasanna/notionpipe/core"
)

// Entry is one planned asset and every URL string that referenced it.
type Entry struct {
	Ref  core.AssetReference
	URLs []string
}

// Plan collects the assets of one document, in first-seen order.
type Plan struct {
	folder  string
	entries []*Entry
	bySrc   map[string]*Entry
	byFile  map[string]string // filename -> source key
}

// NewPlan creates an empty plan placing files under folder (e.g. images/<slug>/).
func NewPlan(folder string) *Plan {
	return &Plan{
		folder: folder,
		bySrc:  make(map[string]*Entry),
		byFile: make(map[string]string),
	}
}

// Add records an asset reference. It returns the planned reference and
// whether the source was new to this plan.
func (p *Plan) Add(name, rawURL string) (core.AssetReference, bool) {
	key := SourceKey(rawURL)
	if e, ok := p.bySrc[key]; ok {
		if !containsString(e.URLs, rawURL) {
			e.URLs = append(e.URLs, rawURL)
		}
		return e.Ref, false
	}

	filename := p.uniqueFilename(Filename(name, rawURL), key)
	e := &Entry{
		Ref: core.AssetReference{
			URL:  rawURL,
			Path: p.folder + filename,
			Name: name,
		},
		URLs: []string{rawURL},
	}
	p.entries = append(p.entries, e)
	p.bySrc[key] = e
	p.byFile[filename] = key
	return e.Ref, true
}

// Entries returns the planned assets in first-seen order.
func (p *Plan) Entries() []*Entry {
	return p.entries
}

// Len returns the number of distinct assets.
func (p *Plan) Len() int {
	return len(p.entries)
}

// uniqueFilename suffixes -2, -3, ... when another source already owns name.
func (p *Plan) uniqueFilename(name, key string) string {
	if owner, ok := p.byFile[name]; !ok || owner == key {
		return name
	}
	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 2; ; i++ {
		candidate := stem + "-" + strconv.Itoa(i) + ext
		if _, taken := p.byFile[candidate]; !taken {
			return candidate
		}
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
