package site

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/leapstack-labs/sqldoclint/pkg/markdown"
	"github.com/leapstack-labs/sqldoclint/pkg/report"
	"github.com/leapstack-labs/sqldoclint/pkg/toc"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// snippetRenderer renders fenced code blocks and annotates SQL ones with
// the matching report entry.
type snippetRenderer struct {
	doc     *markdown.Document
	entries []report.Entry
	next    int
}

func (r *snippetRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFence)
}

func (r *snippetRenderer) renderFence(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	node := n.(*ast.FencedCodeBlock)
	lang := strings.ToLower(strings.Trim(string(node.Language(source)), "{}."))

	var body strings.Builder
	lines := node.Lines()
	for i := range lines.Len() {
		seg := lines.At(i)
		body.Write(seg.Value(source))
	}

	_, _ = w.WriteString("<pre><code")
	if lang != "" {
		_, _ = w.WriteString(` class="language-`)
		_, _ = w.Write(util.EscapeHTML([]byte(lang)))
		_ = w.WriteByte('"')
	}
	_ = w.WriteByte('>')
	_, _ = w.Write(util.EscapeHTML([]byte(body.String())))
	_, _ = w.WriteString("</code></pre>\n")

	if !r.doc.IsSQL(lang) {
		return ast.WalkSkipChildren, nil
	}
	if e, ok := r.match(body.String()); ok {
		writeStatus(w, e)
	}
	return ast.WalkSkipChildren, nil
}

// match finds the next entry whose snippet text equals body, ignoring
// indentation. Fences the extractor does not see (inside block quotes, for
// example) are skipped.
func (r *snippetRenderer) match(body string) (report.Entry, bool) {
	want := normalize(body)
	for i := r.next; i < len(r.entries); i++ {
		if normalize(r.entries[i].Snippet.Text) == want {
			r.next = i + 1
			return r.entries[i], true
		}
	}
	return report.Entry{}, false
}

func normalize(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func writeStatus(w util.BufWriter, e report.Entry) {
	outcome := e.Result.Outcome.String()
	fmt.Fprintf(w, `<div class="snippet-status outcome-%s"><span class="outcome">%s</span> %s`,
		outcome, outcome, util.EscapeHTML([]byte(e.Result.Dialect.Title())))
	if e.Result.Message != "" {
		fmt.Fprintf(w, ": %s", util.EscapeHTML([]byte(e.Result.Message)))
		if e.Result.Line > 0 {
			fmt.Fprintf(w, " (line %d, column %d)", e.Result.Line, e.Result.Column)
		}
	}
	_, _ = w.WriteString("</div>\n")
}

type pageData struct {
	Title   string
	Path    string
	Body    template.HTML
	TOC     []toc.Entry
	Summary report.Summary
	Line    string
}

var pageTemplate = template.Must(template.New("page").Funcs(template.FuncMap{
	"section":  report.DisplaySection,
	"indent":   indent,
	"topLevel": topLevel,
}).Parse(pageHTML))

func indent(level, top int) int {
	return max(level-top, 0)
}

func topLevel(entries []toc.Entry) int {
	top := 0
	for i, e := range entries {
		if i == 0 || e.Level < top {
			top = e.Level
		}
	}
	return top
}

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; margin: 0; display: flex; color: #1f2328; }
nav { width: 18rem; padding: 1rem; border-right: 1px solid #d0d7de; position: sticky; top: 0; height: 100vh; overflow-y: auto; box-sizing: border-box; }
nav ul { list-style: none; padding-left: 0; }
nav li { margin: 0.25rem 0; }
main { flex: 1; padding: 1rem 2rem; max-width: 60rem; }
pre { background: #f6f8fa; padding: 0.75rem; overflow-x: auto; }
.snippet-status { font-size: 0.85rem; margin: -0.5rem 0 1rem; padding: 0.25rem 0.75rem; border-left: 4px solid; }
.outcome-valid { border-color: #1a7f37; }
.outcome-invalid { border-color: #cf222e; background: #ffebe9; }
.outcome-unsupported-dialect { border-color: #9a6700; background: #fff8c5; }
.outcome { font-weight: 600; }
table { border-collapse: collapse; }
td, th { border: 1px solid #d0d7de; padding: 0.25rem 0.5rem; text-align: left; }
</style>
</head>
<body>
<nav>
<strong>{{.Title}}</strong>
<ul>
{{- $top := topLevel .TOC}}
{{- range .TOC}}
<li style="padding-left: {{indent .Level $top}}rem"><a href="#{{.Anchor}}">{{.Title}}</a></li>
{{- end}}
</ul>
</nav>
<main>
<section id="sqldoclint-summary">
<p>{{.Path}}: {{.Line}}</p>
{{- if .Summary.Sections}}
<table>
<thead><tr><th>Section</th><th>Total</th><th>Valid</th><th>Invalid</th><th>Unsupported</th></tr></thead>
<tbody>
{{- range .Summary.Sections}}
<tr><td>{{section .Section}}</td><td>{{.Total}}</td><td>{{.Valid}}</td><td>{{.Invalid}}</td><td>{{.Unsupported}}</td></tr>
{{- end}}
</tbody>
</table>
{{- end}}
</section>
<article>
{{.Body}}
</article>
</main>
</body>
</html>
`
