package markdown

import (
	"regexp"
	"strings"

	"github.com/leapstack-labs/sqldoclint/pkg/token"
	"gopkg.in/yaml.v3"
)

// Frontmatter is the YAML header of a document. Keys other than the known
// ones are kept in Meta.
type Frontmatter struct {
	Title   string         `yaml:"title,omitempty" json:"title,omitempty"`
	Dialect string         `yaml:"dialect,omitempty" json:"dialect,omitempty"` // document default dialect
	Tags    []string       `yaml:"tags,omitempty" json:"tags,omitempty"`
	Meta    map[string]any `yaml:",inline" json:"meta,omitempty"`

	// Span covers the frontmatter including both delimiter lines.
	Span token.Span `yaml:"-" json:"-"`
}

// parseFrontmatter decodes the frontmatter found by the scanner, or returns
// nil when the document has none.
func parseFrontmatter(s *scanner) (*Frontmatter, error) {
	if s.fmEnd == 0 {
		return nil, nil
	}
	fm := &Frontmatter{}
	body := s.src[s.fmBody[0]:s.fmBody[1]]
	if strings.TrimSpace(string(body)) != "" {
		if err := yaml.Unmarshal(body, fm); err != nil {
			return nil, &FrontmatterError{Line: 1, Err: err}
		}
	}
	fm.Span = token.Span{Start: s.pos(0), End: s.pos(s.fmEnd)}
	return fm, nil
}

// mappingKey matches a line that opens a YAML mapping entry.
var mappingKey = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*\s*:(\s|$)`)

// isFrontmatter reports whether body, the text between two leading "---"
// lines, is meant as YAML frontmatter: it is empty, decodes to a mapping, or
// fails to decode but opens like one so the error is still reported.
func isFrontmatter(body []byte) bool {
	if strings.TrimSpace(string(body)) == "" {
		return true
	}
	var node yaml.Node
	if err := yaml.Unmarshal(body, &node); err != nil {
		return looksLikeMapping(body)
	}
	return node.Kind == yaml.DocumentNode && len(node.Content) > 0 &&
		node.Content[0].Kind == yaml.MappingNode
}

func looksLikeMapping(body []byte) bool {
	for line := range strings.Lines(string(body)) {
		t := strings.TrimSpace(line)
		if t == "" || strings.HasPrefix(t, "#") {
			continue
		}
		return mappingKey.MatchString(t)
	}
	return false
}
