package parser

import (
	"regexp"
	"strings"

	"github.com/leapstack-labs/sqldoclint/pkg/token"
)

// Separator kinds that end a statement.
const (
	SeparatorNone      = ""
	SeparatorSemicolon = ";"
	SeparatorGo        = "GO"
	SeparatorSlash     = "/"
)

// Statement is a run of tokens ending at a separator or end of input.
type Statement struct {
	Tokens     []token.Token // without the separator
	Separator  string
	SepPos     token.Position // position of the separator, invalid for SeparatorNone
	Unmatched  []token.Token  // END tokens that closed nothing
	OpenBlocks []token.Token  // BEGIN/CASE tokens still open at the end
}

// First returns the first token of the statement, or an EOF token.
func (s *Statement) First() token.Token {
	if len(s.Tokens) == 0 {
		return token.Token{Type: token.EOF, Pos: s.SepPos}
	}
	return s.Tokens[0]
}

// Empty reports whether the statement has no tokens.
func (s *Statement) Empty() bool {
	return len(s.Tokens) == 0
}

// =============================================================================
// Block tracking
// =============================================================================

// BlockEvent describes how a token changed block nesting.
type BlockEvent int

// Block events.
const (
	BlockNone BlockEvent = iota
	BlockOpen
	BlockClose
	CaseOpen
	CaseClose
	BlockUnmatched
)

// BlockTracker follows BEGIN ... END and CASE ... END nesting so that
// semicolons inside procedural bodies do not end the statement.
type BlockTracker struct {
	blocks []token.Token
	cases  []token.Token

	// pending is set after CREATE [OR REPLACE] PACKAGE or PROCEDURE/FUNCTION
	// until the IS/AS that may open the body.
	pending pendingKind
	// declaring is set while inside a routine's declaration section; the
	// BEGIN that follows belongs to the already open block.
	declaring bool
}

type pendingKind int

const (
	pendingNone pendingKind = iota
	pendingPackage
	pendingRoutine
)

// Depth returns the number of open blocks and CASE expressions.
func (b *BlockTracker) Depth() int {
	return len(b.blocks) + len(b.cases)
}

// Open returns the tokens that opened the currently open constructs.
func (b *BlockTracker) Open() []token.Token {
	out := make([]token.Token, 0, b.Depth())
	out = append(out, b.blocks...)
	return append(out, b.cases...)
}

// Reset clears all nesting state.
func (b *BlockTracker) Reset() {
	b.blocks = b.blocks[:0]
	b.cases = b.cases[:0]
	b.pending = pendingNone
	b.declaring = false
}

// transactionWords follow BEGIN when it starts a transaction, not a block.
var transactionWords = map[string]bool{
	"TRAN":        true,
	"TRANSACTION": true,
	"WORK":        true,
	"ISOLATION":   true,
	"READ":        true,
	"DEFERRED":    true,
	"IMMEDIATE":   true,
	"EXCLUSIVE":   true,
	"DISTRIBUTED": true,
}

// loopEnds follow END when it closes a control statement that was never
// counted as a block (END IF, END LOOP, ...).
var loopEnds = map[string]bool{
	"IF":     true,
	"LOOP":   true,
	"WHILE":  true,
	"REPEAT": true,
	"FOR":    true,
}

// bodyStarts follow a routine's AS/IS when the body is a single statement
// or external definition rather than a declaration section.
var bodyStarts = map[string]bool{
	"DECLARE":   true,
	"RETURN":    true,
	"EXTERNAL":  true,
	"LANGUAGE":  true,
	"EXEC":      true,
	"EXECUTE":   true,
	"IF":        true,
	"WHILE":     true,
	"PRINT":     true,
	"RAISERROR": true,
	"THROW":     true,
	"MERGE":     true,
	"TRUNCATE":  true,
	"CALL":      true,
}

// Feed processes toks[i] and reports the resulting event.
func (b *BlockTracker) Feed(toks []token.Token, i int) BlockEvent {
	t := toks[i]
	next := at(toks, i+1)
	prev := at(toks, i-1)

	switch t.Type {
	case token.CASE:
		if prev.Type == token.END {
			return BlockNone // END CASE, already handled
		}
		b.cases = append(b.cases, t)
		return CaseOpen

	case token.BEGIN:
		b.pending = pendingNone
		if b.declaring {
			b.declaring = false
			return BlockNone
		}
		if next.Type == token.SEMICOLON || next.Type == token.EOF || transactionWords[next.Word()] {
			return BlockNone
		}
		b.blocks = append(b.blocks, t)
		return BlockOpen

	case token.AS:
		return b.feedBodyStart(t, prev, next)

	case token.SELECT, token.INSERT, token.UPDATE, token.DELETE, token.WITH, token.SET, token.VALUES:
		b.pending = pendingNone

	case token.END:
		return b.feedEnd(t, next)

	case token.IDENT:
		switch {
		case t.Is("PACKAGE") && isCreateContext(toks, i):
			b.pending = pendingPackage
		case (t.Is("PROCEDURE") || t.Is("FUNCTION") || t.Is("PROC")) && isCreateContext(toks, i):
			b.pending = pendingRoutine
		case t.Is("IS"):
			return b.feedBodyStart(t, prev, next)
		}
	}
	return BlockNone
}

// feedBodyStart handles the IS/AS that may open a package or routine body.
func (b *BlockTracker) feedBodyStart(t, prev, next token.Token) BlockEvent {
	switch b.pending {
	case pendingPackage:
		b.pending = pendingNone
		b.blocks = append(b.blocks, t)
		return BlockOpen
	case pendingRoutine:
		if prev.Is("EXECUTE") {
			return BlockNone // WITH EXECUTE AS OWNER
		}
		b.pending = pendingNone
		if next.Type == token.IDENT && next.Quote == token.QuoteNone && !bodyStarts[next.Word()] {
			b.blocks = append(b.blocks, t)
			b.declaring = true
			return BlockOpen
		}
	}
	return BlockNone
}

func (b *BlockTracker) feedEnd(_ token.Token, next token.Token) BlockEvent {
	popBlock := func() BlockEvent {
		if len(b.blocks) == 0 {
			return BlockUnmatched
		}
		b.blocks = b.blocks[:len(b.blocks)-1]
		b.declaring = false
		return BlockClose
	}

	switch {
	case next.Type == token.CASE:
		if len(b.cases) > 0 {
			b.cases = b.cases[:len(b.cases)-1]
			return CaseClose
		}
		return popBlock()
	case loopEnds[next.Word()]:
		return BlockNone
	case next.Is("TRY") || next.Is("CATCH"):
		return popBlock()
	case len(b.cases) > 0:
		b.cases = b.cases[:len(b.cases)-1]
		return CaseClose
	default:
		return popBlock()
	}
}

// isCreateContext reports whether toks[i] directly follows CREATE,
// CREATE OR REPLACE or an EDITIONABLE modifier.
func isCreateContext(toks []token.Token, i int) bool {
	for j := i - 1; j >= 0; j-- {
		switch {
		case toks[j].Type == token.CREATE:
			return true
		case toks[j].Is("OR"), toks[j].Is("REPLACE"), toks[j].Is("EDITIONABLE"), toks[j].Is("NONEDITIONABLE"):
			continue
		default:
			return false
		}
	}
	return false
}

func at(toks []token.Token, i int) token.Token {
	if i < 0 || i >= len(toks) {
		return token.Token{Type: token.EOF}
	}
	return toks[i]
}

// =============================================================================
// Splitting
// =============================================================================

// Split groups tokens into statements. Semicolons end a statement only
// outside BEGIN/END and CASE nesting. GO and a lone '/' on their own line
// end a statement unconditionally and reset nesting. Empty statements are
// dropped.
func Split(toks []token.Token) []Statement {
	var (
		stmts   []Statement
		current Statement
		tracker BlockTracker
		goLine  int
	)

	flush := func(sep string, pos token.Position) {
		current.Separator = sep
		current.SepPos = pos
		current.OpenBlocks = tracker.Open()
		if !current.Empty() {
			stmts = append(stmts, current)
		}
		current = Statement{}
		tracker.Reset()
	}

	for i, t := range toks {
		if t.Type == token.EOF {
			break
		}

		if IsBatchSeparator(toks, i) {
			sep := SeparatorSlash
			if t.Is("GO") {
				sep = SeparatorGo
				goLine = t.Pos.Line
			}
			flush(sep, t.Pos)
			continue
		}
		if t.Type == token.NUMBER && at(toks, i-1).Is("GO") && t.Pos.Line == goLine {
			continue // GO <count>
		}

		if t.Type == token.SEMICOLON && tracker.Depth() == 0 {
			flush(SeparatorSemicolon, t.Pos)
			continue
		}

		if tracker.Feed(toks, i) == BlockUnmatched {
			current.Unmatched = append(current.Unmatched, t)
		}
		current.Tokens = append(current.Tokens, t)
	}

	var eof token.Position
	if n := len(toks); n > 0 {
		eof = toks[n-1].Pos
	}
	flush(SeparatorNone, eof)
	return stmts
}

// IsBatchSeparator reports whether toks[i] is GO (optionally followed by a
// count) or '/' alone on its line.
func IsBatchSeparator(toks []token.Token, i int) bool {
	t := toks[i]
	if !t.Is("GO") && t.Type != token.SLASH {
		return false
	}
	prev := at(toks, i-1)
	if i > 0 && prev.Pos.Line == t.Pos.Line {
		return false
	}
	next := at(toks, i+1)
	if t.Is("GO") && next.Type == token.NUMBER && next.Pos.Line == t.Pos.Line {
		next = at(toks, i+2)
	}
	return next.Type == token.EOF || next.Pos.Line > t.Pos.Line
}

// =============================================================================
// DELIMITER directives
// =============================================================================

// Directive is a client-side DELIMITER line.
type Directive struct {
	Line      int
	Delimiter string
}

var delimiterLine = regexp.MustCompile(`(?i)^[ \t]*delimiter[ \t]+(\S+)[ \t]*$`)

// StripDelimiters blanks DELIMITER lines and rewrites custom delimiters at
// the end of a line to ';'. The result has the same length and line layout
// as src so token positions stay valid.
func StripDelimiters(src string) (string, []Directive) {
	if !strings.Contains(strings.ToUpper(src), "DELIMITER") {
		return src, nil
	}

	var (
		directives []Directive
		active     = ";"
		out        strings.Builder
	)
	out.Grow(len(src))

	lines := strings.SplitAfter(src, "\n")
	for n, line := range lines {
		body := strings.TrimRight(line, "\r\n")
		ending := line[len(body):]

		if m := delimiterLine.FindStringSubmatch(body); m != nil {
			active = m[1]
			directives = append(directives, Directive{Line: n + 1, Delimiter: active})
			out.WriteString(strings.Repeat(" ", len(body)))
			out.WriteString(ending)
			continue
		}

		if active != ";" {
			trimmed := strings.TrimRight(body, " \t")
			if strings.HasSuffix(trimmed, active) {
				cut := len(trimmed) - len(active)
				body = trimmed[:cut] + ";" + strings.Repeat(" ", len(active)-1) + body[len(trimmed):]
			}
		}
		out.WriteString(body)
		out.WriteString(ending)
	}
	return out.String(), directives
}
