// Package validate statically checks SQL snippets against a dialect.
//
// Validation is textual: snippets are tokenized, split into statements and
// inspected for structural breakage (Invalid) and for constructs the target
// dialect does not accept (UnsupportedDialect). Nothing is executed and no
// names are resolved.
package validate

import (
	"sort"

	"github.com/leapstack-labs/sqldoclint/pkg/core"
	"github.com/leapstack-labs/sqldoclint/pkg/dialect"
	"github.com/leapstack-labs/sqldoclint/pkg/parser"
)

// MessageNoStatements is the message of a Valid result for an empty snippet.
const MessageNoStatements = "no statements"

// Validate checks one snippet under dialect d and returns exactly one result.
func Validate(s core.Snippet, d core.Dialect) core.ValidationResult {
	diags := Check(s.Text, d)
	r := Aggregate(diags)
	r.SnippetIndex = s.Index
	r.Dialect = d
	if r.Outcome == core.Valid && isBlank(s.Text) {
		r.Message = MessageNoStatements
	}
	return r
}

// Check returns every diagnostic for text under dialect d, ordered by
// position. Positions are relative to text.
func Check(text string, d core.Dialect) []core.Diagnostic {
	def, ok := dialect.ByID(d)
	if !ok {
		return []core.Diagnostic{{
			Code:     "dialect",
			Severity: core.SeverityWarning,
			Message:  "dialect " + d.String() + " is not registered",
		}}
	}

	c := newChecker(def)
	src, directives := parser.StripDelimiters(text)
	for _, dir := range directives {
		c.constructAt(dialect.ConstructDelimiter, lineStart(dir.Line))
	}

	res := c.tokenize(src)
	fatal := false
	for _, e := range res.Errors {
		if e.Illegal {
			c.unsupported("illegal-character", e.Pos, "%s", e.Message)
			continue
		}
		c.invalid("lex", e.Pos, "%s", e.Message)
		fatal = true
	}
	if fatal {
		return c.sorted()
	}

	c.checkLexical(res)
	for _, stmt := range parser.Split(res.Tokens) {
		c.checkStatement(stmt)
	}
	return c.sorted()
}

// Aggregate folds diagnostics into a result. Any error makes the result
// Invalid; otherwise any warning makes it UnsupportedDialect. The primary
// message and position come from the first diagnostic of the winning kind.
func Aggregate(diags []core.Diagnostic) core.ValidationResult {
	r := core.ValidationResult{Outcome: core.Valid, Diagnostics: diags}
	for _, want := range []core.Severity{core.SeverityError, core.SeverityWarning} {
		for _, d := range diags {
			if d.Severity != want {
				continue
			}
			r.Outcome = d.Outcome()
			r.Message = d.Message
			r.Line = d.Pos.Line
			r.Column = d.Pos.Column
			return r
		}
	}
	return r
}

func isBlank(text string) bool {
	res := parser.Tokenize(text, parser.Options{})
	return len(res.Errors) == 0 && len(res.Tokens) == 1
}

// sortDiagnostics orders diagnostics by position, keeping discovery order
// for equal positions.
func sortDiagnostics(diags []core.Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i].Pos, diags[j].Pos
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
}
