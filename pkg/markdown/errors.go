package markdown

import "fmt"

// ParseError reports malformed block structure, such as a fence that is
// never closed. Offset and Line locate the opening fence.
type ParseError struct {
	Path    string
	Offset  int // 0-based byte offset
	Line    int // 1-based line number
	Message string
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: parse error at line %d (offset %d): %s", e.Path, e.Line, e.Offset, e.Message)
	}
	return fmt.Sprintf("parse error at line %d (offset %d): %s", e.Line, e.Offset, e.Message)
}

// FrontmatterError reports YAML frontmatter that does not decode.
type FrontmatterError struct {
	Path string
	Line int
	Err  error
}

func (e *FrontmatterError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: invalid frontmatter at line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("invalid frontmatter at line %d: %v", e.Line, e.Err)
}

func (e *FrontmatterError) Unwrap() error {
	return e.Err
}

// Error messages.
const (
	ErrUnterminatedFence = "unterminated code fence %s"
)
