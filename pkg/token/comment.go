package token

import "strings"

// CommentKind distinguishes line vs block comments.
type CommentKind int

// Comment kinds.
const (
	LineComment  CommentKind = iota // -- comment
	BlockComment                    // /* comment */
	HashComment                     // # comment (MySQL)
)

// Comment represents a SQL comment with position.
type Comment struct {
	Kind CommentKind
	Text string // includes delimiters (--, #, /* */)
	Span Span
}

// Body returns the comment text without its delimiters, trimmed.
func (c *Comment) Body() string {
	text := c.Text
	switch c.Kind {
	case LineComment:
		text = strings.TrimPrefix(text, "--")
	case HashComment:
		text = strings.TrimPrefix(text, "#")
	case BlockComment:
		text = strings.TrimSuffix(strings.TrimPrefix(text, "/*"), "*/")
	}
	return strings.TrimSpace(text)
}
