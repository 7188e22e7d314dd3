// Package site renders a checked markdown document as a standalone HTML
// page: the sanitised document body with heading anchors that match the
// generated table of contents, plus a validation summary.
package site

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"path/filepath"
	"regexp"

	"github.com/leapstack-labs/sqldoclint/pkg/markdown"
	"github.com/leapstack-labs/sqldoclint/pkg/report"
	"github.com/leapstack-labs/sqldoclint/pkg/toc"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// Options configure page rendering.
type Options struct {
	// Title overrides the page title. Defaults to the frontmatter title,
	// then the first H1, then the file name.
	Title string
	TOC   toc.Options
	// Policy sanitises the rendered body; nil uses Policy().
	Policy *bluemonday.Policy
}

var (
	anchorPattern = regexp.MustCompile(`^[\p{L}\p{N}_-]*$`)
	classPattern  = regexp.MustCompile(`^[\w -]+$`)
)

// Policy returns the sanitisation policy for rendered documents: user
// generated content plus heading anchors and status classes.
func Policy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("id").Matching(anchorPattern).OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	p.AllowAttrs("class").Matching(classPattern).OnElements("code", "div", "p", "span")
	return p
}

// Render writes the HTML page for doc and its report to w.
func Render(w io.Writer, doc *markdown.Document, rep report.Report, opts Options) error {
	body, err := Body(doc, rep, opts)
	if err != nil {
		return err
	}

	data := pageData{
		Title:   pageTitle(doc, opts.Title),
		Path:    doc.Path,
		Body:    template.HTML(body), //nolint:gosec // G203: sanitised by bluemonday
		TOC:     toc.Entries(doc.Headings, opts.TOC),
		Summary: rep.Summary,
		Line:    report.SummaryLine(rep.Summary.Counts),
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	_, err = w.Write(buf.Bytes())
	return err
}

// Body converts the document to sanitised HTML. Frontmatter is omitted and
// each SQL fence is followed by its validation status.
func Body(doc *markdown.Document, rep report.Report, opts Options) ([]byte, error) {
	src := doc.Source
	if doc.Frontmatter != nil {
		src = src[doc.Frontmatter.Span.End.Offset:]
	}

	snippets := &snippetRenderer{doc: doc, entries: rep.Entries}
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
			renderer.WithNodeRenderers(util.Prioritized(snippets, 100)),
		),
	)

	ctx := parser.NewContext(parser.WithIDs(&headingIDs{}))
	var buf bytes.Buffer
	if err := md.Convert(src, &buf, parser.WithContext(ctx)); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", doc.Path, err)
	}

	policy := opts.Policy
	if policy == nil {
		policy = Policy()
	}
	return policy.SanitizeBytes(buf.Bytes()), nil
}

func pageTitle(doc *markdown.Document, override string) string {
	if override != "" {
		return override
	}
	if doc.Frontmatter != nil && doc.Frontmatter.Title != "" {
		return doc.Frontmatter.Title
	}
	for _, h := range doc.Headings {
		if h.Level == 1 {
			return h.Title
		}
	}
	if doc.Path != "" {
		return filepath.Base(doc.Path)
	}
	return "SQL guide"
}

// headingIDs assigns heading anchors with the same slugger the TOC uses, so
// TOC links resolve on the rendered page.
type headingIDs struct {
	slugs toc.Slugger
}

func (h *headingIDs) Generate(value []byte, kind ast.NodeKind) []byte {
	title := string(value)
	if kind == ast.KindHeading {
		title = markdown.PlainText(title)
	}
	return []byte(h.slugs.Slug(title))
}

func (h *headingIDs) Put(value []byte) {
	h.slugs.Reserve(string(value))
}
