package validate

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/sqldoclint/pkg/core"
	"github.com/leapstack-labs/sqldoclint/pkg/dialect"
	"github.com/leapstack-labs/sqldoclint/pkg/parser"
	"github.com/leapstack-labs/sqldoclint/pkg/token"
)

// checker accumulates diagnostics for one snippet under one dialect.
type checker struct {
	def   *dialect.Dialect
	diags []core.Diagnostic
	seen  map[string]bool // construct IDs already reported
}

func newChecker(def *dialect.Dialect) *checker {
	return &checker{def: def, seen: make(map[string]bool)}
}

func (c *checker) invalid(code string, pos token.Position, format string, args ...any) {
	c.diags = append(c.diags, core.Diagnostic{
		Code:     code,
		Severity: core.SeverityError,
		Message:  fmt.Sprintf(format, args...),
		Pos:      pos,
	})
}

func (c *checker) unsupported(code string, pos token.Position, format string, args ...any) {
	c.diags = append(c.diags, core.Diagnostic{
		Code:     code,
		Severity: core.SeverityWarning,
		Message:  fmt.Sprintf(format, args...),
		Pos:      pos,
	})
}

// constructAt records a use of construct id. Supported constructs are
// ignored; unsupported ones are reported once per snippet.
func (c *checker) constructAt(id string, pos token.Position) {
	if c.def.Supports(id) || c.seen[id] {
		return
	}
	c.seen[id] = true

	info, ok := dialect.LookupConstruct(id)
	if !ok {
		c.unsupported(id, pos, "%s is not supported by %s", id, c.def.Title)
		return
	}
	msg := fmt.Sprintf("%s is not supported by %s", info.Name, c.def.Title)
	if len(info.Dialects) > 0 {
		titles := make([]string, 0, len(info.Dialects))
		for _, id := range info.Dialects {
			if d, ok := dialect.ByID(id); ok {
				titles = append(titles, d.Title)
			}
		}
		msg += " (supported by " + strings.Join(titles, ", ") + ")"
	}
	c.unsupported(id, pos, "%s", msg)
}

func (c *checker) sorted() []core.Diagnostic {
	sortDiagnostics(c.diags)
	return c.diags
}

// tokenize lexes src with the dialect's string rules. When that fails only
// because of backslash escapes, the snippet is re-lexed with them enabled
// and the escape syntax is reported as a construct instead.
func (c *checker) tokenize(src string) *parser.Result {
	opts := parser.Options{
		BackslashEscapes: c.def.BackslashEscapes,
		HashComments:     c.def.Supports(dialect.ConstructHashComment),
	}
	res := parser.Tokenize(src, opts)
	if firstFatal(res) == nil || opts.BackslashEscapes {
		return res
	}
	opts.BackslashEscapes = true
	alt := parser.Tokenize(src, opts)
	if firstFatal(alt) != nil {
		return res
	}
	c.constructAt(dialect.ConstructBackslashEscape, firstFatal(res).Pos)
	return alt
}

func firstFatal(res *parser.Result) *parser.LexError {
	for _, e := range res.Errors {
		if !e.Illegal {
			return e
		}
	}
	return nil
}

func lineStart(line int) token.Position {
	return token.Position{Line: line, Column: 1}
}
