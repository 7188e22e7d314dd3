// Package markdown extracts fenced code blocks and headings from markdown
// documents.
//
// The scanner is line based and keeps exact byte spans so that documents can
// be reassembled byte-for-byte. It understands ATX and setext headings,
// backtick and tilde fences at any indentation, and YAML frontmatter.
// Fences inside blockquotes are not recognised.
package markdown

import (
	"fmt"
	"iter"
	"strings"

	"github.com/leapstack-labs/sqldoclint/pkg/core"
	"github.com/leapstack-labs/sqldoclint/pkg/token"
)

// Block is a fenced code block in document order.
type Block struct {
	Fence       string     // opening fence run, e.g. "```" or "~~~~"
	Info        string     // trimmed info string
	Lang        string     // first word of Info, lowercased
	Body        string     // raw body, including the final newline
	Span        token.Span // body span
	Line        int        // line of the opening fence
	Offset      int        // offset of the opening fence line
	HeadingPath []string   // titles of enclosing headings, outermost first
}

// Blocks returns every fenced block of src in document order. The sequence
// is lazy and may be iterated more than once. An unterminated fence yields a
// *ParseError and ends the sequence.
func Blocks(src []byte) iter.Seq2[Block, error] {
	return func(yield func(Block, error) bool) {
		s := newScanner(src)
		err := s.run(func(e event) bool {
			if e.block == nil {
				return true
			}
			return yield(*e.block, nil)
		})
		if err != nil {
			yield(Block{}, err)
		}
	}
}

// event is a heading or a block found by the scanner.
type event struct {
	heading *core.Heading
	block   *Block
}

type line struct {
	text   string // without the line terminator
	offset int
	end    int // offset just past the terminator
	num    int
}

type scanner struct {
	src   []byte
	lines []line
	path  []core.Heading

	// frontmatter: fmEnd is 0 when absent; fmBody is the YAML between the
	// delimiter lines
	fmEnd  int
	fmBody [2]int
}

func newScanner(src []byte) *scanner {
	s := &scanner{src: src}
	off := 0
	for n := 1; off < len(src); n++ {
		end := off
		for end < len(src) && src[end] != '\n' {
			end++
		}
		next := end
		if next < len(src) {
			next++
		}
		text := string(src[off:end])
		text = strings.TrimSuffix(text, "\r")
		s.lines = append(s.lines, line{text: text, offset: off, end: next, num: n})
		off = next
	}
	s.frontmatter()
	return s
}

// frontmatter finds a "---" block starting at the first line. A block whose
// body is not a YAML mapping is left to scan as thematic breaks and prose.
func (s *scanner) frontmatter() {
	if len(s.lines) == 0 || strings.TrimPrefix(s.lines[0].text, "\ufeff") != "---" {
		return
	}
	for _, l := range s.lines[1:] {
		if l.text == "---" || l.text == "..." {
			if !isFrontmatter(s.src[s.lines[0].end:l.offset]) {
				return
			}
			s.fmEnd = l.end
			s.fmBody = [2]int{s.lines[0].end, l.offset}
			return
		}
	}
}

// run scans the document, calling emit for each heading and block until it
// returns false.
func (s *scanner) run(emit func(event) bool) error {
	s.path = s.path[:0]
	para := -1 // index of the first line of the current paragraph

	for i := 0; i < len(s.lines); i++ {
		l := s.lines[i]
		if s.fmEnd > 0 && l.offset < s.fmEnd {
			continue
		}

		if fence, info, ok := openingFence(l.text); ok {
			para = -1
			j := i + 1
			for j < len(s.lines) && !closesFence(s.lines[j].text, fence) {
				j++
			}
			if j == len(s.lines) {
				return &ParseError{
					Offset:  l.offset,
					Line:    l.num,
					Message: fmt.Sprintf(ErrUnterminatedFence, fence),
				}
			}
			b := s.block(i, j, fence, info)
			if !emit(event{block: &b}) {
				return nil
			}
			i = j
			continue
		}

		if strings.TrimSpace(l.text) == "" {
			para = -1
			continue
		}

		if h, ok := atxHeading(l); ok {
			para = -1
			if !emit(event{heading: s.push(h)}) {
				return nil
			}
			continue
		}

		if level := setextLevel(l.text); level > 0 && para >= 0 {
			h := s.setext(para, i, level)
			para = -1
			if !emit(event{heading: s.push(h)}) {
				return nil
			}
			continue
		}

		if para < 0 && startsParagraph(l.text) {
			para = i
		} else if para >= 0 && !startsParagraph(l.text) {
			para = -1
		}
	}
	return nil
}

func (s *scanner) block(open, closeIdx int, fence, info string) Block {
	start := s.lines[open].end
	end := s.lines[closeIdx].offset
	lang := ""
	if f := strings.Fields(info); len(f) > 0 {
		lang = strings.ToLower(strings.Trim(f[0], "{}."))
	}
	return Block{
		Fence:       fence,
		Info:        info,
		Lang:        lang,
		Body:        string(s.src[start:end]),
		Span:        token.Span{Start: s.pos(start), End: s.pos(end)},
		Line:        s.lines[open].num,
		Offset:      s.lines[open].offset,
		HeadingPath: s.titles(),
	}
}

// push records h on the heading stack and returns it.
func (s *scanner) push(h core.Heading) *core.Heading {
	for len(s.path) > 0 && s.path[len(s.path)-1].Level >= h.Level {
		s.path = s.path[:len(s.path)-1]
	}
	s.path = append(s.path, h)
	return &h
}

func (s *scanner) titles() []string {
	if len(s.path) == 0 {
		return nil
	}
	out := make([]string, len(s.path))
	for i, h := range s.path {
		out[i] = h.Title
	}
	return out
}

func (s *scanner) setext(first, underline, level int) core.Heading {
	parts := make([]string, 0, underline-first)
	for _, l := range s.lines[first:underline] {
		parts = append(parts, strings.TrimSpace(l.text))
	}
	text := strings.Join(parts, " ")
	start, end := s.lines[first].offset, s.lines[underline].end
	return core.Heading{
		Level: level,
		Text:  text,
		Title: PlainText(text),
		Line:  s.lines[first].num,
		Span:  token.Span{Start: s.pos(start), End: s.pos(end)},
	}
}

// pos converts a byte offset into a position.
func (s *scanner) pos(offset int) token.Position {
	lo, hi := 0, len(s.lines)
	for lo < hi {
		mid := (lo + hi) / 2
		if s.lines[mid].end <= offset {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo == len(s.lines) {
		// end of input
		if lo == 0 {
			return token.Position{Line: 1, Column: 1, Offset: offset}
		}
		last := s.lines[lo-1]
		if last.end > 0 && s.src[last.end-1] == '\n' {
			return token.Position{Line: last.num + 1, Column: 1, Offset: offset}
		}
		return token.Position{Line: last.num, Column: offset - last.offset + 1, Offset: offset}
	}
	l := s.lines[lo]
	return token.Position{Line: l.num, Column: offset - l.offset + 1, Offset: offset}
}

// =============================================================================
// Line classification
// =============================================================================

// openingFence recognises ``` and ~~~ fences of three or more characters.
func openingFence(text string) (fence, info string, ok bool) {
	t := strings.TrimLeft(text, " \t")
	if len(t) < 3 || (t[0] != '`' && t[0] != '~') {
		return "", "", false
	}
	n := 0
	for n < len(t) && t[n] == t[0] {
		n++
	}
	if n < 3 {
		return "", "", false
	}
	info = strings.TrimSpace(t[n:])
	if t[0] == '`' && strings.Contains(info, "`") {
		return "", "", false
	}
	return t[:n], info, true
}

// closesFence reports whether text closes a block opened with fence.
func closesFence(text, fence string) bool {
	t := strings.TrimSpace(text)
	if len(t) < len(fence) || t[0] != fence[0] {
		return false
	}
	for i := 0; i < len(t); i++ {
		if t[i] != fence[0] {
			return false
		}
	}
	return true
}

func atxHeading(l line) (core.Heading, bool) {
	t := l.text
	indent := len(t) - len(strings.TrimLeft(t, " "))
	if indent > 3 {
		return core.Heading{}, false
	}
	t = t[indent:]
	level := 0
	for level < len(t) && t[level] == '#' {
		level++
	}
	if level == 0 || level > 6 || (level < len(t) && t[level] != ' ' && t[level] != '\t') {
		return core.Heading{}, false
	}
	text := strings.TrimSpace(t[level:])
	// optional closing sequence
	if trimmed := strings.TrimRight(text, "#"); trimmed != text {
		if trimmed == "" || strings.HasSuffix(trimmed, " ") || strings.HasSuffix(trimmed, "\t") {
			text = strings.TrimSpace(trimmed)
		}
	}
	return core.Heading{
		Level: level,
		Text:  text,
		Title: PlainText(text),
		Line:  l.num,
		Span: token.Span{
			Start: token.Position{Line: l.num, Column: 1, Offset: l.offset},
			End:   token.Position{Line: l.num, Column: len(l.text) + 1, Offset: l.offset + len(l.text)},
		},
	}, true
}

// setextLevel returns 1 for a "===" underline, 2 for "---", 0 otherwise.
func setextLevel(text string) int {
	if len(text)-len(strings.TrimLeft(text, " ")) > 3 {
		return 0
	}
	t := strings.TrimSpace(text)
	if t == "" || (t[0] != '=' && t[0] != '-') {
		return 0
	}
	for i := 0; i < len(t); i++ {
		if t[i] != t[0] {
			return 0
		}
	}
	if t[0] == '=' {
		return 1
	}
	return 2
}

// startsParagraph reports whether a non-blank line can be paragraph text
// and therefore the content of a setext heading.
func startsParagraph(text string) bool {
	t := strings.TrimLeft(text, " ")
	if len(text)-len(t) > 3 || t == "" {
		return false
	}
	if isThematicBreak(t) {
		return false
	}
	switch t[0] {
	case '>', '|', '<', '#':
		return false
	case '-', '*', '+':
		return len(t) > 1 && t[1] != ' ' && t[1] != '\t'
	}
	// ordered list item
	i := 0
	for i < len(t) && t[i] >= '0' && t[i] <= '9' {
		i++
	}
	if i > 0 && i < len(t) && (t[i] == '.' || t[i] == ')') {
		return false
	}
	return true
}

// isThematicBreak matches "---", "***" and "___" rules, spaces allowed.
func isThematicBreak(t string) bool {
	t = strings.TrimSpace(t)
	if t == "" || (t[0] != '-' && t[0] != '*' && t[0] != '_') {
		return false
	}
	n := 0
	for i := 0; i < len(t); i++ {
		switch t[i] {
		case t[0]:
			n++
		case ' ', '\t':
		default:
			return false
		}
	}
	return n >= 3
}
