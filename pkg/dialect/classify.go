package dialect

import (
	"strings"

	"github.com/leapstack-labs/sqldoclint/pkg/core"
	"github.com/leapstack-labs/sqldoclint/pkg/parser"
	"github.com/leapstack-labs/sqldoclint/pkg/token"
)

// Source records which evidence decided a classification.
type Source int

// Classification sources, in policy order.
const (
	SourceComment Source = iota
	SourceFence
	SourceHeading
	SourceDeclared
	SourceDefault
	// SourceForced marks a dialect chosen by the caller, not the snippet.
	SourceForced
)

// String returns the stable name of the source.
func (s Source) String() string {
	switch s {
	case SourceComment:
		return "comment"
	case SourceFence:
		return "fence"
	case SourceHeading:
		return "heading"
	case SourceDeclared:
		return "declared"
	case SourceForced:
		return "forced"
	default:
		return "default"
	}
}

// MarshalText encodes the source by name.
func (s Source) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Classification is the dialect chosen for a snippet and why.
type Classification struct {
	Dialect core.Dialect `json:"dialect" yaml:"dialect"`
	Source  Source       `json:"source" yaml:"source"`
	// Hint is the text that matched, e.g. "PostgreSQL" or "tsql".
	Hint string `json:"hint,omitempty" yaml:"hint,omitempty"`
	// Unknown lists explicit dialect names that did not resolve.
	Unknown []string `json:"unknown,omitempty" yaml:"unknown,omitempty"`
}

// Classify assigns a dialect to a snippet. The first source with evidence
// wins: leading comments, fence tag and info, heading path (deepest first),
// the declared document default, then Generic.
//
// Explicit names that do not resolve ("-- dialect: db2") are recorded in
// Unknown and classification falls through to the next source.
func Classify(s core.Snippet) Classification {
	var unknown []string

	if d, hint, bad, ok := fromComments(s.Text); ok {
		return Classification{Dialect: d, Source: SourceComment, Hint: hint}
	} else if bad != "" {
		unknown = append(unknown, bad)
	}

	if d, hint, bad, ok := fromFence(s.Lang, s.Info); ok {
		return Classification{Dialect: d, Source: SourceFence, Hint: hint, Unknown: unknown}
	} else if bad != "" {
		unknown = append(unknown, bad)
	}

	for i := len(s.HeadingPath) - 1; i >= 0; i-- {
		if d, hint, ok := findHint(s.HeadingPath[i]); ok {
			return Classification{Dialect: d, Source: SourceHeading, Hint: hint, Unknown: unknown}
		}
	}

	if s.Declared != "" {
		if d, ok := Lookup(s.Declared); ok {
			return Classification{Dialect: d, Source: SourceDeclared, Hint: s.Declared, Unknown: unknown}
		}
		unknown = append(unknown, s.Declared)
	}

	return Classification{Dialect: core.Generic, Source: SourceDefault, Unknown: unknown}
}

// fromComments inspects the comments before the first token of text.
func fromComments(text string) (d core.Dialect, hint, unknown string, ok bool) {
	lx := parser.NewLexer(text, parser.Options{})
	lx.NextToken()

	for _, c := range lx.Comments {
		body := c.Body()
		if c.Kind == token.BlockComment {
			body = strings.TrimSpace(strings.TrimLeft(body, "*"))
		}
		if name, explicit := explicitName(body); explicit {
			if id, found := Lookup(name); found {
				return id, name, "", true
			}
			return core.Generic, "", name, false
		}
		if id, h, found := findHint(body); found {
			return id, h, "", true
		}
	}
	return core.Generic, "", "", false
}

// explicitName extracts NAME from "dialect: NAME" or "dialect=NAME".
func explicitName(body string) (string, bool) {
	lower := strings.ToLower(body)
	if !strings.HasPrefix(lower, "dialect") {
		return "", false
	}
	rest := strings.TrimSpace(body[len("dialect"):])
	if rest == "" || (rest[0] != ':' && rest[0] != '=') {
		return "", false
	}
	fields := strings.Fields(rest[1:])
	if len(fields) == 0 {
		return "", false
	}
	return strings.Trim(fields[0], `"'.,;`), true
}

// fromFence resolves the fence language tag and info string attributes.
// "sql postgres", "postgresql", "sql {dialect=oracle}" and
// "sql dialect:mysql" are all recognised.
func fromFence(lang, info string) (d core.Dialect, hint, unknown string, ok bool) {
	if lang != "" && lang != "sql" {
		if id, found := Lookup(lang); found {
			return id, lang, "", true
		}
	}

	fields := strings.FieldsFunc(info, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ',' || r == '{' || r == '}'
	})
	if len(fields) > 0 {
		fields = fields[1:] // the language tag
	}
	for _, f := range fields {
		lower := strings.ToLower(f)
		if name, found := strings.CutPrefix(lower, "dialect="); found {
			name = strings.Trim(name, `"'`)
			if id, ok := Lookup(name); ok {
				return id, name, "", true
			}
			return core.Generic, "", name, false
		}
		if name, found := strings.CutPrefix(lower, "dialect:"); found {
			if id, ok := Lookup(name); ok {
				return id, name, "", true
			}
			return core.Generic, "", name, false
		}
		if id, found := Lookup(strings.TrimPrefix(lower, ".")); found {
			return id, f, "", true
		}
	}
	return core.Generic, "", "", false
}

// findHint returns the dialect whose hint phrase occurs earliest in text.
func findHint(text string) (core.Dialect, string, bool) {
	lower := strings.ToLower(text)
	best := -1
	var (
		bestID   core.Dialect
		bestHint string
	)
	for _, d := range List() {
		for _, h := range d.hints {
			idx := indexWord(lower, h)
			if idx < 0 {
				continue
			}
			// Earliest wins; on a tie the longer phrase wins ("sql server" over "sql").
			if best < 0 || idx < best || (idx == best && len(h) > len(bestHint)) {
				best, bestID, bestHint = idx, d.ID, h
				if len(lower) == len(text) {
					bestHint = text[idx : idx+len(h)]
				}
			}
		}
	}
	return bestID, bestHint, best >= 0
}

// indexWord finds phrase in s where it is not part of a larger word.
func indexWord(s, phrase string) int {
	from := 0
	for {
		i := strings.Index(s[from:], phrase)
		if i < 0 {
			return -1
		}
		i += from
		end := i + len(phrase)
		if (i == 0 || !isWordByte(s[i-1])) && (end == len(s) || !isWordByte(s[end])) {
			return i
		}
		from = i + 1
	}
}

func isWordByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}
