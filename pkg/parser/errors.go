package parser

import (
	"fmt"

	"github.com/leapstack-labs/sqldoclint/pkg/token"
)

// LexError represents a lexical analysis error.
type LexError struct {
	Pos     token.Position
	Message string
	// Illegal marks a character no supported dialect uses. Lexing resumes
	// after it, so the remaining tokens are still meaningful.
	Illegal bool
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexer error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Common error messages
const (
	ErrUnterminatedString     = "unterminated string literal"
	ErrUnterminatedIdentifier = "unterminated quoted identifier"
	ErrUnterminatedComment    = "unterminated block comment"
	ErrUnterminatedDollar     = "unterminated dollar-quoted string %s"
	ErrIllegalCharacter       = "illegal character %q"
)
