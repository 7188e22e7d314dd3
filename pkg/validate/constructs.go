package validate

import (
	"strings"

	"github.com/leapstack-labs/sqldoclint/pkg/dialect"
	"github.com/leapstack-labs/sqldoclint/pkg/parser"
	"github.com/leapstack-labs/sqldoclint/pkg/token"
)

// detector reports whether the token at i starts a use of a construct.
type detector struct {
	id    string
	match func(v *stmtView, i int) bool
}

// detectors run over every token of every statement. Constructs that are
// not visible in statement tokens (comments, separators, delimiter
// directives, backslash escapes) are found by checkLexical and the lexer
// retry instead.
var detectors = []detector{
	{dialect.ConstructTop, func(v *stmtView, i int) bool {
		if !v.at(i).Is("TOP") {
			return false
		}
		switch v.at(i - 1).Type {
		case token.SELECT, token.DISTINCT, token.ALL, token.DELETE, token.UPDATE, token.INSERT:
		default:
			return false
		}
		switch v.at(i + 1).Type {
		case token.NUMBER, token.LPAREN, token.VARIABLE, token.BIND:
			return true
		}
		return false
	}},
	{dialect.ConstructLimit, typeIs(token.LIMIT)},
	{dialect.ConstructOffsetFetch, func(v *stmtView, i int) bool {
		t := v.at(i)
		switch t.Type {
		case token.FETCH:
			if n := v.at(i + 1); !n.Is("FIRST") && !n.Is("NEXT") {
				return false
			}
			for k := i + 2; k <= i+5; k++ {
				if r := v.at(k); r.Is("ROW") || r.Is("ROWS") {
					n := v.at(k + 1)
					return n.Is("ONLY") || n.Type == token.WITH
				}
			}
		case token.OFFSET:
			r := v.at(i + 2)
			return r.Is("ROW") || r.Is("ROWS")
		}
		return false
	}},
	{dialect.ConstructRownum, word("ROWNUM")},
	{dialect.ConstructCastOperator, typeIs(token.DCOLON)},
	{dialect.ConstructIlike, word("ILIKE")},
	{dialect.ConstructBacktickIdent, quoted(token.QuoteBacktick)},
	{dialect.ConstructBracketIdent, quoted(token.QuoteBracket)},
	{dialect.ConstructDollarQuote, typeIs(token.DOLLARSTRING)},
	{dialect.ConstructUserVariable, typeIs(token.VARIABLE)},
	{dialect.ConstructSystemVariable, typeIs(token.SYSVARIABLE)},
	{dialect.ConstructTempTable, func(v *stmtView, i int) bool {
		t := v.at(i)
		return t.Type == token.IDENT && t.Quote == token.QuoteNone && strings.HasPrefix(t.Literal, "#")
	}},
	{dialect.ConstructAutoIncrement, word("AUTO_INCREMENT")},
	{dialect.ConstructIdentityFunc, func(v *stmtView, i int) bool {
		if !v.at(i).Is("IDENTITY") {
			return false
		}
		prev := v.at(i - 1)
		return prev.Type != token.AS && !prev.Is("RESTART") && !prev.Is("CONTINUE")
	}},
	{dialect.ConstructGeneratedIdent, func(v *stmtView, i int) bool {
		return v.at(i).Is("IDENTITY") && v.at(i-1).Type == token.AS
	}},
	{dialect.ConstructSerial, func(v *stmtView, i int) bool {
		switch v.at(i).Word() {
		case "SERIAL", "BIGSERIAL", "SMALLSERIAL", "SERIAL4", "SERIAL8":
		default:
			return false
		}
		first := v.at(0).Type
		return v.at(i-1).Type == token.IDENT && (first == token.CREATE || first == token.ALTER)
	}},
	{dialect.ConstructNvl, call("NVL", "NVL2")},
	{dialect.ConstructDecode, func(v *stmtView, i int) bool {
		// Oracle DECODE takes at least three arguments; Postgres decode(text, format) two.
		return call("DECODE")(v, i) && v.items(i+1) >= 3
	}},
	{dialect.ConstructSysdate, word("SYSDATE")},
	{dialect.ConstructGetdate, call("GETDATE", "GETUTCDATE")},
	{dialect.ConstructLen, call("LEN")},
	{dialect.ConstructDateadd, call("DATEADD")},
	{dialect.ConstructIfnull, call("IFNULL")},
	{dialect.ConstructGroupConcat, call("GROUP_CONCAT")},
	{dialect.ConstructListagg, call("LISTAGG")},
	{dialect.ConstructToChar, call("TO_CHAR", "TO_DATE", "TO_NUMBER", "TO_TIMESTAMP")},
	{dialect.ConstructNow, call("NOW")},
	{dialect.ConstructGenerateSeries, call("GENERATE_SERIES")},
	{dialect.ConstructReturning, word("RETURNING")},
	{dialect.ConstructOutputClause, func(v *stmtView, i int) bool {
		if !v.at(i).Is("OUTPUT") {
			return false
		}
		n := v.at(i + 1)
		return n.Is("INSERTED") || n.Is("DELETED")
	}},
	{dialect.ConstructOnConflict, words("ON", "CONFLICT")},
	{dialect.ConstructOnDuplicateKey, words("ON", "DUPLICATE", "KEY")},
	{dialect.ConstructConnectBy, words("CONNECT", "BY")},
	{dialect.ConstructDistinctOn, func(v *stmtView, i int) bool {
		return v.at(i).Type == token.DISTINCT && v.at(i+1).Is("ON") && v.at(i+2).Type == token.LPAREN
	}},
	{dialect.ConstructReplaceInto, func(v *stmtView, i int) bool {
		if !v.at(i).Is("REPLACE") || v.at(i+1).Type == token.LPAREN {
			return false
		}
		return i == 0 || v.at(i-1).Type == token.SEMICOLON
	}},
	{dialect.ConstructInsertIgnore, func(v *stmtView, i int) bool {
		return v.at(i).Type == token.INSERT && v.at(i+1).Is("IGNORE")
	}},
	{dialect.ConstructStraightJoin, word("STRAIGHT_JOIN")},
	{dialect.ConstructApply, func(v *stmtView, i int) bool {
		t := v.at(i)
		return (t.Is("CROSS") || t.Is("OUTER")) && v.at(i+1).Is("APPLY")
	}},
	{dialect.ConstructPivot, func(v *stmtView, i int) bool {
		t := v.at(i)
		if !t.Is("PIVOT") && !t.Is("UNPIVOT") {
			return false
		}
		n := v.at(i + 1)
		return n.Type == token.LPAREN || n.Is("XML") || n.Is("INCLUDE") || n.Is("EXCLUDE")
	}},
	{dialect.ConstructMinus, func(v *stmtView, i int) bool {
		if !v.at(i).Is("MINUS") {
			return false
		}
		n := v.at(i + 1)
		return n.Type == token.SELECT || n.Type == token.LPAREN || n.Type == token.ALL
	}},
	{dialect.ConstructCreateOrAlter, func(v *stmtView, i int) bool {
		return v.at(i).Type == token.CREATE && v.at(i+1).Is("OR") && v.at(i+2).Type == token.ALTER
	}},
	{dialect.ConstructTableHint, func(v *stmtView, i int) bool {
		if !tableHints[v.at(i).Word()] {
			return false
		}
		p := v.at(i - 1).Type
		return p == token.LPAREN || p == token.COMMA
	}},
	{dialect.ConstructVarchar2, word("VARCHAR2", "NVARCHAR2")},
	{dialect.ConstructConcatOperator, typeIs(token.DPIPE)},
	{dialect.ConstructQualify, word("QUALIFY")},
	{dialect.ConstructFromDual, func(v *stmtView, i int) bool {
		return v.at(i).Type == token.FROM && v.at(i+1).Is("DUAL")
	}},
	{dialect.ConstructRecursiveCTE, func(v *stmtView, i int) bool {
		return v.at(i).Type == token.WITH && v.at(i+1).Is("RECURSIVE")
	}},
	{dialect.ConstructFullJoin, func(v *stmtView, i int) bool {
		if !v.at(i).Is("FULL") {
			return false
		}
		n := v.at(i + 1)
		return n.Is("JOIN") || (n.Is("OUTER") && v.at(i+2).Is("JOIN"))
	}},
	{dialect.ConstructJSONArrow, typeIs(token.ARROW, token.DARROW)},
	{dialect.ConstructNullSafeEqual, op("<=>")},
	{dialect.ConstructPostgresOperator, op("@>", "<@", "?|", "?&", "#>", "#>>", "~*", "!~", "!~*", "&&", "@@")},
	{dialect.ConstructNamedArgument, op("=>")},
	{dialect.ConstructTableEngine, func(v *stmtView, i int) bool {
		return v.at(i).Is("ENGINE") && v.at(i+1).Type == token.EQ
	}},
	{dialect.ConstructUnsigned, word("UNSIGNED")},
}

// lexicalConstructs are detected outside the statement token stream.
var lexicalConstructs = []string{
	dialect.ConstructHashComment,
	dialect.ConstructBackslashEscape,
	dialect.ConstructDelimiter,
	dialect.ConstructGoSeparator,
	dialect.ConstructSlashTerminator,
}

var tableHints = map[string]bool{
	"NOLOCK": true, "READPAST": true, "UPDLOCK": true, "HOLDLOCK": true,
	"ROWLOCK": true, "PAGLOCK": true, "TABLOCK": true, "TABLOCKX": true,
	"XLOCK": true, "READUNCOMMITTED": true, "NOEXPAND": true,
}

func (c *checker) detectConstructs(v *stmtView) {
	for i, t := range v.toks {
		for _, d := range detectors {
			if d.match(v, i) {
				c.constructAt(d.id, t.Pos)
			}
		}
	}
}

// checkLexical reports constructs visible only in the raw token stream:
// comments and batch separators.
func (c *checker) checkLexical(res *parser.Result) {
	for _, cm := range res.Comments {
		if cm.Kind == token.HashComment {
			c.constructAt(dialect.ConstructHashComment, cm.Span.Start)
		}
	}
	for i, t := range res.Tokens {
		if t.Type == token.EOF || !parser.IsBatchSeparator(res.Tokens, i) {
			continue
		}
		if t.Type == token.SLASH {
			c.constructAt(dialect.ConstructSlashTerminator, t.Pos)
		} else {
			c.constructAt(dialect.ConstructGoSeparator, t.Pos)
		}
	}
}

// Detected reports whether the validator can detect construct id.
func Detected(id string) bool {
	for _, d := range detectors {
		if d.id == id {
			return true
		}
	}
	for _, l := range lexicalConstructs {
		if l == id {
			return true
		}
	}
	return false
}

func typeIs(types ...token.TokenType) func(*stmtView, int) bool {
	return func(v *stmtView, i int) bool {
		t := v.at(i).Type
		for _, want := range types {
			if t == want {
				return true
			}
		}
		return false
	}
}

func word(words ...string) func(*stmtView, int) bool {
	return func(v *stmtView, i int) bool {
		w := v.at(i).Word()
		for _, want := range words {
			if w == want {
				return true
			}
		}
		return false
	}
}

// words matches a sequence of consecutive words starting at i.
func words(seq ...string) func(*stmtView, int) bool {
	return func(v *stmtView, i int) bool {
		for k, w := range seq {
			if !v.at(i + k).Is(w) {
				return false
			}
		}
		return true
	}
}

// call matches a function name followed by '('.
func call(names ...string) func(*stmtView, int) bool {
	isName := word(names...)
	return func(v *stmtView, i int) bool {
		return v.at(i+1).Type == token.LPAREN && isName(v, i)
	}
}

func quoted(style token.QuoteStyle) func(*stmtView, int) bool {
	return func(v *stmtView, i int) bool {
		t := v.at(i)
		return t.Type == token.IDENT && t.Quote == style
	}
}

func op(literals ...string) func(*stmtView, int) bool {
	return func(v *stmtView, i int) bool {
		t := v.at(i)
		if t.Type != token.OP {
			return false
		}
		for _, l := range literals {
			if t.Literal == l {
				return true
			}
		}
		return false
	}
}
