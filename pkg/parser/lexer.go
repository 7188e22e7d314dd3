// Package parser tokenizes SQL snippets and splits them into statements.
//
// The lexer accepts the union of the lexical forms used by the supported
// dialects. Deciding whether a given form is acceptable for a dialect is
// left to the validator, which inspects the Quote style and token types.
package parser

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/sqldoclint/pkg/token"
)

// Options configure lexical rules that cannot be decided from the input alone.
type Options struct {
	// BackslashEscapes makes '\' escape the next character inside
	// single-quoted strings, as MySQL does by default.
	BackslashEscapes bool
	// HashComments makes every '#' start a line comment, as in MySQL.
	// Otherwise #name is a temporary table identifier.
	HashComments bool
}

// Lexer tokenizes SQL input.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
	line    int  // current line number (1-based)
	col     int  // current column number (1-based)

	opts Options
	prev token.Token

	// Comments collected during lexing
	Comments []*token.Comment

	// Errors collected during lexing, in input order
	Errors []*LexError
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string, opts Options) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
		col:   0,
		opts:  opts,
	}
	l.readChar()
	return l
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++

	if l.pos > 0 && l.pos <= len(l.input) && l.input[l.pos-1] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	return l.peekAt(1)
}

// peekAt returns the character n bytes ahead of the current one.
func (l *Lexer) peekAt(n int) byte {
	i := l.pos + n
	if i >= len(l.input) {
		return 0
	}
	return l.input[i]
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

// currentPos returns the current position.
func (l *Lexer) currentPos() token.Position {
	return token.Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

func (l *Lexer) errorf(pos token.Position, format string, args ...any) *LexError {
	err := &LexError{Pos: pos, Message: fmt.Sprintf(format, args...)}
	l.Errors = append(l.Errors, err)
	return err
}

// NextToken returns the next token.
func (l *Lexer) NextToken() token.Token {
	tok := l.next()
	if tok.Type != token.EOF {
		l.prev = tok
	}
	return tok
}

func (l *Lexer) next() token.Token {
	l.skipWhitespaceAndComments()

	pos := l.currentPos()
	if l.atEOF() {
		return token.Token{Type: token.EOF, Pos: pos}
	}

	switch l.ch {
	case '\'':
		return l.readString(pos, token.QuoteNone)
	case '"':
		return l.readQuotedIdentifier(pos, '"', token.QuoteDouble)
	case '`':
		return l.readQuotedIdentifier(pos, '`', token.QuoteBacktick)
	case '[':
		if l.bracketStartsIdentifier() {
			return l.readQuotedIdentifier(pos, ']', token.QuoteBracket)
		}
		return l.single(pos, token.LBRACKET)
	case '$':
		return l.readDollar(pos)
	case '#':
		// #temp and ##global temporary table names
		if l.peekChar() == '#' || isIdentStart(l.peekChar()) {
			for l.ch == '#' {
				l.readChar()
			}
			l.readIdentifier()
			return token.Token{Type: token.IDENT, Literal: l.input[pos.Offset:l.pos], Pos: pos}
		}
	case '@':
		return l.readVariable(pos)
	case '?':
		switch l.peekChar() {
		case '|', '&':
			return l.fixed(pos, token.OP, 2)
		}
		return l.single(pos, token.BIND)
	case ':':
		switch {
		case l.peekChar() == ':':
			return l.fixed(pos, token.DCOLON, 2)
		case l.peekChar() == '=':
			return l.fixed(pos, token.ASSIGN, 2)
		case isIdentStart(l.peekChar()) || isDigit(l.peekChar()):
			l.readChar()
			l.readIdentifier()
			return token.Token{Type: token.BIND, Literal: l.input[pos.Offset:l.pos], Pos: pos}
		}
		return l.single(pos, token.COLON)
	}

	if isIdentStart(l.ch) {
		if tok, ok := l.readPrefixedString(pos); ok {
			return tok
		}
		lit := l.readIdentifier()
		return token.Token{Type: token.LookupIdent(lit), Literal: lit, Pos: pos}
	}
	if isDigit(l.ch) || (l.ch == '.' && isDigit(l.peekChar())) {
		return token.Token{Type: token.NUMBER, Literal: l.readNumber(), Pos: pos}
	}
	return l.readOperator(pos)
}

// readOperator scans punctuation and operators, longest match first.
func (l *Lexer) readOperator(pos token.Position) token.Token {
	three := l.lookahead(3)
	switch three {
	case "<=>", "->>", "#>>", "!~*":
		t := token.OP
		if three == "->>" {
			t = token.DARROW
		}
		return l.fixed(pos, t, 3)
	}

	switch l.lookahead(2) {
	case "<=":
		return l.fixed(pos, token.LE, 2)
	case ">=":
		return l.fixed(pos, token.GE, 2)
	case "<>", "!=":
		return l.fixed(pos, token.NE, 2)
	case "||":
		return l.fixed(pos, token.DPIPE, 2)
	case "->":
		return l.fixed(pos, token.ARROW, 2)
	case "=>", "==", "<<", ">>", "<@", "@>", "#>", "~*", "!~", "&&", "^=":
		return l.fixed(pos, token.OP, 2)
	}

	switch l.ch {
	case '+':
		return l.single(pos, token.PLUS)
	case '-':
		return l.single(pos, token.MINUS)
	case '*':
		return l.single(pos, token.STAR)
	case '/':
		return l.single(pos, token.SLASH)
	case '%':
		return l.single(pos, token.PERCENT)
	case '=':
		return l.single(pos, token.EQ)
	case '<':
		return l.single(pos, token.LT)
	case '>':
		return l.single(pos, token.GT)
	case '.':
		return l.single(pos, token.DOT)
	case ',':
		return l.single(pos, token.COMMA)
	case ';':
		return l.single(pos, token.SEMICOLON)
	case '(':
		return l.single(pos, token.LPAREN)
	case ')':
		return l.single(pos, token.RPAREN)
	case ']':
		return l.single(pos, token.RBRACKET)
	case '{':
		return l.single(pos, token.LBRACE)
	case '}':
		return l.single(pos, token.RBRACE)
	case '&':
		return l.single(pos, token.AMP)
	case '|':
		return l.single(pos, token.PIPE)
	case '^':
		return l.single(pos, token.CARET)
	case '~':
		return l.single(pos, token.TILDE)
	case '!':
		return l.single(pos, token.BANG)
	}

	ch := l.ch
	l.errorf(pos, ErrIllegalCharacter, ch).Illegal = true
	return l.single(pos, token.ILLEGAL)
}

func (l *Lexer) lookahead(n int) string {
	end := l.pos + n
	if end > len(l.input) {
		return ""
	}
	return l.input[l.pos:end]
}

// single consumes one character as a token of type t.
func (l *Lexer) single(pos token.Position, t token.TokenType) token.Token {
	return l.fixed(pos, t, 1)
}

// fixed consumes n characters as a token of type t.
func (l *Lexer) fixed(pos token.Position, t token.TokenType, n int) token.Token {
	for range n {
		l.readChar()
	}
	return token.Token{Type: t, Literal: l.input[pos.Offset:l.pos], Pos: pos}
}

// skipWhitespaceAndComments skips whitespace and collects comments.
func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' || l.ch == '\f' {
			l.readChar()
		}

		switch {
		case l.ch == '-' && l.peekChar() == '-':
			l.collectLineComment(token.LineComment)
		case l.ch == '#' && (l.opts.HashComments || l.peekChar() != '>' && l.peekChar() != '#' && !isIdentStart(l.peekChar())):
			l.collectLineComment(token.HashComment)
		case l.ch == '/' && l.peekChar() == '*':
			l.collectBlockComment()
		default:
			return
		}
	}
}

// collectLineComment collects a comment running to the end of the line.
func (l *Lexer) collectLineComment(kind token.CommentKind) {
	startPos := l.currentPos()

	for l.ch != '\n' && !l.atEOF() {
		l.readChar()
	}

	l.Comments = append(l.Comments, &token.Comment{
		Kind: kind,
		Text: strings.TrimRight(l.input[startPos.Offset:l.pos], "\r"),
		Span: token.Span{Start: startPos, End: l.currentPos()},
	})
}

// collectBlockComment collects a block comment.
func (l *Lexer) collectBlockComment() {
	startPos := l.currentPos()

	l.readChar() // skip '/'
	l.readChar() // skip '*'

	closed := false
	for !l.atEOF() {
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar() // skip '*'
			l.readChar() // skip '/'
			closed = true
			break
		}
		l.readChar()
	}
	if !closed {
		l.errorf(startPos, ErrUnterminatedComment)
	}

	l.Comments = append(l.Comments, &token.Comment{
		Kind: token.BlockComment,
		Text: l.input[startPos.Offset:l.pos],
		Span: token.Span{Start: startPos, End: l.currentPos()},
	})
}

// readPrefixedString handles N'..', E'..', X'..', B'..' and Oracle q'[..]'.
func (l *Lexer) readPrefixedString(pos token.Position) (token.Token, bool) {
	next := l.peekChar()
	switch l.ch {
	case 'n', 'N', 'e', 'E', 'x', 'X', 'b', 'B':
		if next != '\'' {
			return token.Token{}, false
		}
		quote := token.QuoteNone
		switch l.ch {
		case 'n', 'N':
			quote = token.QuoteNational
		case 'e', 'E':
			quote = token.QuoteEscape
		}
		l.readChar() // skip prefix
		return l.readString(pos, quote), true
	case 'q', 'Q':
		if next == '\'' && l.peekAt(2) != 0 {
			return l.readOracleQuote(pos), true
		}
	}
	return token.Token{}, false
}

// readString reads a single-quoted string literal starting at the quote.
// Doubled quotes always escape; backslashes escape in E'' strings and
// when BackslashEscapes is set.
func (l *Lexer) readString(pos token.Position, quote token.QuoteStyle) token.Token {
	l.readChar() // skip opening quote
	backslash := l.opts.BackslashEscapes || quote == token.QuoteEscape

	var result strings.Builder
	for {
		if l.atEOF() {
			l.errorf(pos, ErrUnterminatedString)
			break
		}
		if backslash && l.ch == '\\' && l.peekChar() != 0 {
			l.readChar()
			result.WriteByte(l.ch)
			l.readChar()
			continue
		}
		if l.ch == '\'' {
			if l.peekChar() == '\'' {
				result.WriteByte('\'')
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar() // skip closing quote
			break
		}
		result.WriteByte(l.ch)
		l.readChar()
	}
	return token.Token{Type: token.STRING, Literal: result.String(), Quote: quote, Pos: pos}
}

// readOracleQuote reads q'<delim>...<delim>'.
func (l *Lexer) readOracleQuote(pos token.Position) token.Token {
	l.readChar() // skip q
	l.readChar() // skip '
	open := l.ch
	closing := open
	switch open {
	case '[':
		closing = ']'
	case '(':
		closing = ')'
	case '{':
		closing = '}'
	case '<':
		closing = '>'
	}
	l.readChar()

	start := l.pos
	for {
		if l.atEOF() {
			l.errorf(pos, ErrUnterminatedString)
			return token.Token{Type: token.STRING, Literal: l.input[start:], Quote: token.QuoteOracle, Pos: pos}
		}
		if l.ch == closing && l.peekChar() == '\'' {
			lit := l.input[start:l.pos]
			l.readChar()
			l.readChar()
			return token.Token{Type: token.STRING, Literal: lit, Quote: token.QuoteOracle, Pos: pos}
		}
		l.readChar()
	}
}

// readQuotedIdentifier reads an identifier delimited by the current char and
// closing. A doubled closing character is an escape.
func (l *Lexer) readQuotedIdentifier(pos token.Position, closing byte, quote token.QuoteStyle) token.Token {
	l.readChar() // skip opening quote

	var result strings.Builder
	for {
		if l.atEOF() {
			l.errorf(pos, ErrUnterminatedIdentifier)
			break
		}
		if l.ch == closing {
			if l.peekChar() == closing {
				result.WriteByte(closing)
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar()
			break
		}
		result.WriteByte(l.ch)
		l.readChar()
	}
	return token.Token{Type: token.IDENT, Literal: result.String(), Quote: quote, Pos: pos}
}

// bracketStartsIdentifier decides whether '[' opens a [quoted identifier]
// rather than an array subscript or constructor.
func (l *Lexer) bracketStartsIdentifier() bool {
	switch {
	case l.prev.Type == token.RPAREN, l.prev.Type == token.RBRACKET:
		return false
	case l.prev.Is("ARRAY"):
		return false
	}

	end := strings.IndexByte(l.input[l.pos+1:], ']')
	if end <= 0 {
		return false
	}
	body := l.input[l.pos+1 : l.pos+1+end]
	if isDigit(body[0]) || body[0] == '-' {
		return false
	}
	for i := 0; i < len(body); i++ {
		c := body[i]
		if isIdentPart(c) || c == ' ' || c == '-' || c == '#' || c == '.' {
			continue
		}
		return false
	}
	return true
}

// readDollar scans $$...$$, $tag$...$tag$ and $1 placeholders.
func (l *Lexer) readDollar(pos token.Position) token.Token {
	if isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
		return token.Token{Type: token.BIND, Literal: l.input[pos.Offset:l.pos], Pos: pos}
	}

	// Find the opening tag: $ [ident] $
	i := l.pos + 1
	for i < len(l.input) && isIdentPart(l.input[i]) && l.input[i] != '$' {
		i++
	}
	if i >= len(l.input) || l.input[i] != '$' {
		l.errorf(pos, ErrIllegalCharacter, l.ch).Illegal = true
		return l.single(pos, token.ILLEGAL)
	}
	tag := l.input[l.pos : i+1]
	for range len(tag) {
		l.readChar()
	}

	start := l.pos
	idx := strings.Index(l.input[start:], tag)
	if idx < 0 {
		l.errorf(pos, ErrUnterminatedDollar, tag)
		for !l.atEOF() {
			l.readChar()
		}
		return token.Token{Type: token.DOLLARSTRING, Literal: l.input[start:], Pos: pos}
	}
	for range idx + len(tag) {
		l.readChar()
	}
	return token.Token{Type: token.DOLLARSTRING, Literal: l.input[start : start+idx], Pos: pos}
}

// readVariable scans @name, @@name and the @> / @ operators.
func (l *Lexer) readVariable(pos token.Position) token.Token {
	t := token.VARIABLE
	n := 1
	if l.peekChar() == '@' {
		t = token.SYSVARIABLE
		n = 2
	}
	if !isIdentStart(l.peekAt(n)) {
		if l.peekChar() == '>' {
			return l.fixed(pos, token.OP, 2)
		}
		return l.single(pos, token.OP)
	}
	for range n {
		l.readChar()
	}
	l.readIdentifier()
	return token.Token{Type: t, Literal: l.input[pos.Offset:l.pos], Pos: pos}
}

// readIdentifier reads an unquoted identifier.
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isIdentPart(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// readNumber reads a numeric literal (integer, decimal, hex or scientific).
func (l *Lexer) readNumber() string {
	start := l.pos

	if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X') {
		l.readChar()
		l.readChar()
		for isHexDigit(l.ch) {
			l.readChar()
		}
		return l.input[start:l.pos]
	}

	for isDigit(l.ch) {
		l.readChar()
	}

	if l.ch == '.' && l.peekChar() != '.' {
		l.readChar() // skip '.'
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	if (l.ch == 'e' || l.ch == 'E') &&
		(isDigit(l.peekChar()) || ((l.peekChar() == '+' || l.peekChar() == '-') && isDigit(l.peekAt(2)))) {
		l.readChar() // skip 'e' or 'E'
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	return l.input[start:l.pos]
}

// isIdentStart reports whether ch can start an unquoted identifier.
// Bytes >= 0x80 are parts of UTF-8 sequences and count as letters.
func isIdentStart(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch == '_' || ch >= 0x80
}

// isIdentPart reports whether ch can continue an unquoted identifier.
func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch) || ch == '$'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || ch >= 'a' && ch <= 'f' || ch >= 'A' && ch <= 'F'
}

// Result holds everything produced by tokenizing one input.
type Result struct {
	Tokens   []token.Token // always ends with EOF
	Comments []*token.Comment
	Errors   []*LexError
}

// Err returns the first lexical error, or nil.
func (r *Result) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return r.Errors[0]
}

// Tokenize returns all tokens, comments and lexical errors from the input.
func Tokenize(input string, opts Options) *Result {
	l := NewLexer(input, opts)
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return &Result{Tokens: tokens, Comments: l.Comments, Errors: l.Errors}
}
