package parser_test

import (
	"testing"

	"github.com/leapstack-labs/sqldoclint/pkg/parser"
	"github.com/leapstack-labs/sqldoclint/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func types(toks []token.Token) []token.TokenType {
	out := make([]token.TokenType, len(toks))
	for i, t := range toks {
		out[i] = t.Type
	}
	return out
}

func TestTokenize_Types(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want []token.TokenType
	}{
		{
			name: "simple select",
			sql:  "SELECT a, b FROM t;",
			want: []token.TokenType{token.SELECT, token.IDENT, token.COMMA, token.IDENT, token.FROM, token.IDENT, token.SEMICOLON, token.EOF},
		},
		{
			name: "comparison operators",
			sql:  "a <> b != c <= d >= e",
			want: []token.TokenType{token.IDENT, token.NE, token.IDENT, token.NE, token.IDENT, token.LE, token.IDENT, token.GE, token.IDENT, token.EOF},
		},
		{
			name: "json and concat operators",
			sql:  "a || b -> c ->> d <=> e @> f",
			want: []token.TokenType{token.IDENT, token.DPIPE, token.IDENT, token.ARROW, token.IDENT, token.DARROW, token.IDENT, token.OP, token.IDENT, token.OP, token.IDENT, token.EOF},
		},
		{
			name: "cast assign and binds",
			sql:  "a::int := :name ? $1",
			want: []token.TokenType{token.IDENT, token.DCOLON, token.IDENT, token.ASSIGN, token.BIND, token.BIND, token.BIND, token.EOF},
		},
		{
			name: "variables",
			sql:  "SET @x = @@version",
			want: []token.TokenType{token.SET, token.VARIABLE, token.EQ, token.SYSVARIABLE, token.EOF},
		},
		{
			name: "array constructor is not a bracket identifier",
			sql:  "ARRAY[1, 2]",
			want: []token.TokenType{token.IDENT, token.LBRACKET, token.NUMBER, token.COMMA, token.NUMBER, token.RBRACKET, token.EOF},
		},
		{
			name: "temp table name",
			sql:  "SELECT * INTO #tmp FROM t",
			want: []token.TokenType{token.SELECT, token.STAR, token.INTO, token.IDENT, token.FROM, token.IDENT, token.EOF},
		},
		{
			name: "numbers",
			sql:  "1 2.5 .5 1e10 0x1F",
			want: []token.TokenType{token.NUMBER, token.NUMBER, token.NUMBER, token.NUMBER, token.NUMBER, token.EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := parser.Tokenize(tt.sql, parser.Options{})
			require.NoError(t, res.Err())
			assert.Equal(t, tt.want, types(res.Tokens))
		})
	}
}

func TestTokenize_QuoteStyles(t *testing.T) {
	tests := []struct {
		name    string
		sql     string
		typ     token.TokenType
		quote   token.QuoteStyle
		literal string
	}{
		{"double quoted", `"first name"`, token.IDENT, token.QuoteDouble, "first name"},
		{"doubled escape", `"a""b"`, token.IDENT, token.QuoteDouble, `a"b`},
		{"backtick", "`order`", token.IDENT, token.QuoteBacktick, "order"},
		{"bracket", "[order id]", token.IDENT, token.QuoteBracket, "order id"},
		{"string", "'it''s'", token.STRING, token.QuoteNone, "it's"},
		{"national", "N'text'", token.STRING, token.QuoteNational, "text"},
		{"escape string", `E'it\'s'`, token.STRING, token.QuoteEscape, "it's"},
		{"oracle q quote", "q'[it's]'", token.STRING, token.QuoteOracle, "it's"},
		{"dollar", "$$ SELECT 1; $$", token.DOLLARSTRING, token.QuoteNone, " SELECT 1; "},
		{"tagged dollar", "$fn$ x $fn$", token.DOLLARSTRING, token.QuoteNone, " x "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := parser.Tokenize(tt.sql, parser.Options{})
			require.NoError(t, res.Err())
			require.Len(t, res.Tokens, 2)
			tok := res.Tokens[0]
			assert.Equal(t, tt.typ, tok.Type)
			assert.Equal(t, tt.quote, tok.Quote)
			assert.Equal(t, tt.literal, tok.Literal)
		})
	}
}

func TestTokenize_Comments(t *testing.T) {
	res := parser.Tokenize("-- dialect: postgres\nSELECT 1 /* inline */ # trailing", parser.Options{})
	require.NoError(t, res.Err())
	require.Len(t, res.Comments, 3)

	assert.Equal(t, token.LineComment, res.Comments[0].Kind)
	assert.Equal(t, "dialect: postgres", res.Comments[0].Body())
	assert.Equal(t, token.BlockComment, res.Comments[1].Kind)
	assert.Equal(t, "inline", res.Comments[1].Body())
	assert.Equal(t, token.HashComment, res.Comments[2].Kind)
	assert.Equal(t, "trailing", res.Comments[2].Body())

	assert.Equal(t, []token.TokenType{token.SELECT, token.NUMBER, token.EOF}, types(res.Tokens))
}

func TestTokenize_Positions(t *testing.T) {
	res := parser.Tokenize("SELECT\n  x", parser.Options{})
	require.Len(t, res.Tokens, 3)
	assert.Equal(t, token.Position{Line: 1, Column: 1, Offset: 0}, res.Tokens[0].Pos)
	assert.Equal(t, token.Position{Line: 2, Column: 3, Offset: 9}, res.Tokens[1].Pos)
}

func TestTokenize_Errors(t *testing.T) {
	tests := []struct {
		name    string
		sql     string
		message string
		line    int
		column  int
	}{
		{"unterminated string", "SELECT 'abc", parser.ErrUnterminatedString, 1, 8},
		{"unterminated identifier", "SELECT \"abc", parser.ErrUnterminatedIdentifier, 1, 8},
		{"unterminated comment", "SELECT 1 /* abc", parser.ErrUnterminatedComment, 1, 10},
		{"unterminated string on second line", "SELECT 1,\n 'x", parser.ErrUnterminatedString, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := parser.Tokenize(tt.sql, parser.Options{})
			require.Len(t, res.Errors, 1)
			assert.Equal(t, tt.message, res.Errors[0].Message)
			assert.Equal(t, tt.line, res.Errors[0].Pos.Line)
			assert.Equal(t, tt.column, res.Errors[0].Pos.Column)
			assert.Contains(t, res.Err().Error(), "lexer error at line")
		})
	}
}

func TestTokenize_BackslashEscapes(t *testing.T) {
	sql := `SELECT 'It\'s'`

	res := parser.Tokenize(sql, parser.Options{BackslashEscapes: true})
	require.NoError(t, res.Err())
	require.Len(t, res.Tokens, 3)
	assert.Equal(t, "It's", res.Tokens[1].Literal)

	res = parser.Tokenize(sql, parser.Options{})
	assert.Error(t, res.Err())
}
