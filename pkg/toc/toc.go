// Package toc generates a markdown table of contents from document headings
// and keeps it up to date between marker comments.
package toc

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/sqldoclint/pkg/core"
	"github.com/leapstack-labs/sqldoclint/pkg/markdown"
	"github.com/leapstack-labs/sqldoclint/pkg/token"
)

// Default marker comments delimiting the generated region.
const (
	DefaultMarkerStart = "<!-- toc -->"
	DefaultMarkerEnd   = "<!-- tocstop -->"
)

var (
	// ErrNoMarkers is returned by Apply when the document has no TOC
	// markers and insertion was not requested.
	ErrNoMarkers = errors.New("no table of contents markers")
	// ErrUnclosedMarker is returned when a start marker has no end marker.
	ErrUnclosedMarker = errors.New("table of contents start marker is not closed")
)

// Options configure TOC generation.
type Options struct {
	MinLevel    int      `koanf:"min_level"`
	MaxLevel    int      `koanf:"max_level"`
	SkipTitles  []string `koanf:"skip_titles"` // compared case-insensitively
	MarkerStart string   `koanf:"marker_start"`
	MarkerEnd   string   `koanf:"marker_end"`
	// Insert adds markers after the first H1 when the document has none.
	Insert bool `koanf:"-"`
}

// DefaultOptions lists levels 2 and 3 and skips headings that name the TOC.
func DefaultOptions() Options {
	return Options{
		MinLevel:    2,
		MaxLevel:    3,
		SkipTitles:  []string{"Table of Contents", "Contents", "TOC"},
		MarkerStart: DefaultMarkerStart,
		MarkerEnd:   DefaultMarkerEnd,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MinLevel <= 0 {
		o.MinLevel = d.MinLevel
	}
	if o.MaxLevel <= 0 {
		o.MaxLevel = d.MaxLevel
	}
	if o.MaxLevel < o.MinLevel {
		o.MaxLevel = o.MinLevel
	}
	if o.SkipTitles == nil {
		o.SkipTitles = d.SkipTitles
	}
	if o.MarkerStart == "" {
		o.MarkerStart = d.MarkerStart
	}
	if o.MarkerEnd == "" {
		o.MarkerEnd = d.MarkerEnd
	}
	return o
}

// Entry is one line of the table of contents.
type Entry struct {
	Level  int    `json:"level" yaml:"level"`
	Title  string `json:"title" yaml:"title"`
	Anchor string `json:"anchor" yaml:"anchor"`
}

// Entries selects the headings to list. Anchors are computed over all
// headings so duplicate numbering matches the rendered page.
func Entries(headings []core.Heading, opts Options) []Entry {
	opts = opts.withDefaults()
	var (
		slugs   Slugger
		entries []Entry
	)
	for _, h := range headings {
		anchor := slugs.Slug(h.Title)
		if h.Level < opts.MinLevel || h.Level > opts.MaxLevel || skipped(h.Title, opts.SkipTitles) {
			continue
		}
		entries = append(entries, Entry{Level: h.Level, Title: h.Title, Anchor: anchor})
	}
	return entries
}

func skipped(title string, skip []string) bool {
	for _, s := range skip {
		if strings.EqualFold(strings.TrimSpace(title), s) {
			return true
		}
	}
	return false
}

// Generate renders the TOC as a nested markdown list ending in a newline.
// An empty string means no heading qualified.
func Generate(headings []core.Heading, opts Options) string {
	entries := Entries(headings, opts)
	if len(entries) == 0 {
		return ""
	}
	top := entries[0].Level
	for _, e := range entries {
		top = min(top, e.Level)
	}

	var b strings.Builder
	for _, e := range entries {
		b.WriteString(strings.Repeat("  ", e.Level-top))
		fmt.Fprintf(&b, "- [%s](#%s)\n", escapeLinkText(e.Title), e.Anchor)
	}
	return b.String()
}

func escapeLinkText(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "[", `\[`, "]", `\]`)
	return r.Replace(s)
}

// Apply regenerates the TOC region of a markdown document. The result of
// applying it twice equals applying it once.
func Apply(src []byte, opts Options) ([]byte, error) {
	opts = opts.withDefaults()
	doc, err := markdown.Parse("", src)
	if err != nil {
		return nil, err
	}
	body := Generate(doc.Headings, opts)

	start, end, found, err := findRegion(doc, opts)
	if err != nil {
		return nil, err
	}
	if found {
		return markdown.Splice(src, []markdown.Edit{{Span: spanOf(start, end), Text: body}}), nil
	}
	if !opts.Insert {
		return nil, ErrNoMarkers
	}

	at, prefix, suffix := insertionPoint(doc)
	block := prefix + opts.MarkerStart + "\n" + body + opts.MarkerEnd + "\n" + suffix
	return markdown.Splice(src, []markdown.Edit{{Span: spanOf(at, at), Text: block}}), nil
}

// Stale reports whether the document's TOC region differs from a
// regenerated one.
func Stale(src []byte, opts Options) (bool, error) {
	opts.Insert = false
	out, err := Apply(src, opts)
	if err != nil {
		return false, err
	}
	return !bytes.Equal(out, src), nil
}

// findRegion locates the bytes between the marker lines, skipping markers
// that appear inside fenced code blocks.
func findRegion(doc *markdown.Document, opts Options) (start, end int, found bool, err error) {
	src := doc.Source
	start = -1
	off := 0
	for off < len(src) {
		next := bytes.IndexByte(src[off:], '\n')
		lineEnd := len(src)
		if next >= 0 {
			lineEnd = off + next + 1
		}
		text := strings.TrimSpace(string(src[off:lineEnd]))
		if !inFence(doc, off) {
			switch {
			case start < 0 && text == opts.MarkerStart:
				start = lineEnd
			case start >= 0 && text == opts.MarkerEnd:
				return start, off, true, nil
			}
		}
		off = lineEnd
	}
	if start >= 0 {
		return 0, 0, false, ErrUnclosedMarker
	}
	return 0, 0, false, nil
}

func inFence(doc *markdown.Document, offset int) bool {
	for _, b := range doc.Blocks {
		if offset >= b.Offset && offset <= b.Span.End.Offset {
			return true
		}
	}
	return false
}

// insertionPoint returns where new markers go: after the first H1, else
// after the frontmatter, else at the top.
func insertionPoint(doc *markdown.Document) (at int, prefix, suffix string) {
	src := doc.Source
	at = -1
	for _, h := range doc.Headings {
		if h.Level == 1 {
			at = lineEnd(src, h.Span.End.Offset)
			break
		}
	}
	if at < 0 && doc.Frontmatter != nil {
		at = doc.Frontmatter.Span.End.Offset
	}
	if at < 0 {
		return 0, "", "\n"
	}

	prefix = "\n"
	if at > 0 && src[at-1] != '\n' {
		prefix = "\n\n"
	}
	if at < len(src) && src[at] != '\n' && !bytes.HasPrefix(src[at:], []byte("\r\n")) {
		suffix = "\n"
	}
	return at, prefix, suffix
}

// lineEnd returns the offset just past the line containing offset.
func lineEnd(src []byte, offset int) int {
	if offset > 0 && offset <= len(src) && src[offset-1] == '\n' {
		return offset
	}
	if i := bytes.IndexByte(src[offset:], '\n'); i >= 0 {
		return offset + i + 1
	}
	return len(src)
}

func spanOf(start, end int) token.Span {
	return token.Span{Start: token.Position{Offset: start}, End: token.Position{Offset: end}}
}
