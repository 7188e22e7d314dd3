// Package token defines the lexical tokens produced when scanning SQL snippets.
//
// The token set is the union of what the supported dialects need to be
// recognised lexically. Keywords that drive statement splitting and clause
// checks get their own token types; every other word is an IDENT and is
// compared by its upper-cased literal.
package token

import (
	"fmt"
	"strings"
)

// TokenType represents the type of a lexical token.
//
//nolint:revive // token.TokenType reads better at call sites than token.Type
type TokenType int32

//nolint:revive // ALL_CAPS names follow SQL token conventions
const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// Literals
	IDENT        // employees, "quoted", `quoted`, [quoted]
	NUMBER       // 123, 45.67, 1e10, 0x1F
	STRING       // 'hello', N'hello', E'hello', q'[hello]'
	DOLLARSTRING // $$ body $$, $fn$ body $fn$
	VARIABLE     // @name
	SYSVARIABLE  // @@name
	BIND         // :name, ?, $1

	// Operators and punctuation
	PLUS      // +
	MINUS     // -
	STAR      // *
	SLASH     // /
	PERCENT   // %
	DPIPE     // ||
	EQ        // =
	NE        // != or <>
	LT        // <
	GT        // >
	LE        // <=
	GE        // >=
	DOT       // .
	COMMA     // ,
	SEMICOLON // ;
	LPAREN    // (
	RPAREN    // )
	LBRACKET  // [
	RBRACKET  // ]
	LBRACE    // {
	RBRACE    // }
	COLON     // :
	DCOLON    // ::
	ASSIGN    // :=
	ARROW     // ->
	DARROW    // ->>
	AMP       // &
	PIPE      // |
	CARET     // ^
	TILDE     // ~
	BANG      // !
	QUESTION  // ?
	OP        // any other operator: @>, <=>, =>, ...

	// Keywords (alphabetical)
	keywordStart
	ALL
	ALTER
	AS
	BEGIN
	BY
	CASE
	CREATE
	DELETE
	DISTINCT
	DROP
	ELSE
	END
	EXCEPT
	FETCH
	FROM
	GROUP
	HAVING
	INSERT
	INTERSECT
	INTO
	LIMIT
	OFFSET
	ORDER
	SELECT
	SET
	THEN
	UNION
	UPDATE
	VALUES
	WHEN
	WHERE
	WINDOW
	WITH
	keywordEnd
)

var tokenNames = map[TokenType]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",

	IDENT:        "IDENT",
	NUMBER:       "NUMBER",
	STRING:       "STRING",
	DOLLARSTRING: "DOLLARSTRING",
	VARIABLE:     "VARIABLE",
	SYSVARIABLE:  "SYSVARIABLE",
	BIND:         "BIND",

	PLUS:      "+",
	MINUS:     "-",
	STAR:      "*",
	SLASH:     "/",
	PERCENT:   "%",
	DPIPE:     "||",
	EQ:        "=",
	NE:        "!=",
	LT:        "<",
	GT:        ">",
	LE:        "<=",
	GE:        ">=",
	DOT:       ".",
	COMMA:     ",",
	SEMICOLON: ";",
	LPAREN:    "(",
	RPAREN:    ")",
	LBRACKET:  "[",
	RBRACKET:  "]",
	LBRACE:    "{",
	RBRACE:    "}",
	COLON:     ":",
	DCOLON:    "::",
	ASSIGN:    ":=",
	ARROW:     "->",
	DARROW:    "->>",
	AMP:       "&",
	PIPE:      "|",
	CARET:     "^",
	TILDE:     "~",
	BANG:      "!",
	QUESTION:  "?",
	OP:        "OP",
}

var keywords = map[string]TokenType{
	"ALL":       ALL,
	"ALTER":     ALTER,
	"AS":        AS,
	"BEGIN":     BEGIN,
	"BY":        BY,
	"CASE":      CASE,
	"CREATE":    CREATE,
	"DELETE":    DELETE,
	"DISTINCT":  DISTINCT,
	"DROP":      DROP,
	"ELSE":      ELSE,
	"END":       END,
	"EXCEPT":    EXCEPT,
	"FETCH":     FETCH,
	"FROM":      FROM,
	"GROUP":     GROUP,
	"HAVING":    HAVING,
	"INSERT":    INSERT,
	"INTERSECT": INTERSECT,
	"INTO":      INTO,
	"LIMIT":     LIMIT,
	"OFFSET":    OFFSET,
	"ORDER":     ORDER,
	"SELECT":    SELECT,
	"SET":       SET,
	"THEN":      THEN,
	"UNION":     UNION,
	"UPDATE":    UPDATE,
	"VALUES":    VALUES,
	"WHEN":      WHEN,
	"WHERE":     WHERE,
	"WINDOW":    WINDOW,
	"WITH":      WITH,
}

func init() {
	for word, t := range keywords {
		tokenNames[t] = word
	}
}

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

// LookupIdent returns the keyword token type for an unquoted word, or IDENT.
// The lookup is case-insensitive.
func LookupIdent(word string) TokenType {
	if tok, ok := keywords[strings.ToUpper(word)]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword returns true if the token type is a keyword.
func IsKeyword(t TokenType) bool {
	return t > keywordStart && t < keywordEnd
}

// QuoteStyle records how an identifier or string literal was delimited.
type QuoteStyle int

// Quote styles.
const (
	QuoteNone     QuoteStyle = iota
	QuoteDouble              // "ident"
	QuoteBacktick            // `ident`
	QuoteBracket             // [ident]
	QuoteNational            // N'text'
	QuoteEscape              // E'text'
	QuoteOracle              // q'[text]'
)

// Token represents a lexical token with position information.
type Token struct {
	Type    TokenType
	Literal string
	Quote   QuoteStyle
	Pos     Position
}

// Word returns the upper-cased literal for unquoted words and keywords,
// and an empty string for everything else.
func (t Token) Word() string {
	if (t.Type == IDENT && t.Quote == QuoteNone) || IsKeyword(t.Type) {
		return strings.ToUpper(t.Literal)
	}
	return ""
}

// Is reports whether the token is the given unquoted word (case-insensitive).
func (t Token) Is(word string) bool {
	w := t.Word()
	return w != "" && strings.EqualFold(w, word)
}
