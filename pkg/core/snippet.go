package core

import (
	"strings"

	"github.com/leapstack-labs/sqldoclint/pkg/token"
)

// HeadingPathSeparator joins heading path components for display.
const HeadingPathSeparator = " > "

// Snippet is a fenced SQL code block extracted from a markdown document.
// Snippets are values; nothing mutates them after extraction.
type Snippet struct {
	Index       int        `json:"index" yaml:"index"`               // position among the document's SQL snippets
	HeadingPath []string   `json:"heading_path" yaml:"heading_path"` // enclosing headings, outermost first
	Lang        string     `json:"lang" yaml:"lang"`                 // fence language tag, lowercased
	Info        string     `json:"info,omitempty" yaml:"info,omitempty"`
	Declared    string     `json:"declared,omitempty" yaml:"declared,omitempty"` // document-level dialect default
	Text        string     `json:"text" yaml:"text"`
	Span        token.Span `json:"-" yaml:"-"`       // body span in the document
	Line        int        `json:"line" yaml:"line"` // line of the opening fence
}

// Section returns the heading path joined for display.
func (s Snippet) Section() string {
	return JoinHeadingPath(s.HeadingPath)
}

// SectionAt returns the heading path truncated to depth components.
// A depth <= 0 keeps the full path.
func (s Snippet) SectionAt(depth int) string {
	path := s.HeadingPath
	if depth > 0 && len(path) > depth {
		path = path[:depth]
	}
	return JoinHeadingPath(path)
}

// JoinHeadingPath joins heading titles with HeadingPathSeparator.
func JoinHeadingPath(path []string) string {
	return strings.Join(path, HeadingPathSeparator)
}

// Heading is a markdown heading in document order.
type Heading struct {
	Level int        `json:"level" yaml:"level"`
	Text  string     `json:"text" yaml:"text"`   // raw inline markdown
	Title string     `json:"title" yaml:"title"` // plain text
	Line  int        `json:"line" yaml:"line"`
	Span  token.Span `json:"-" yaml:"-"` // the full heading line(s)
}
