package toc

import (
	"strconv"
	"strings"
	"unicode"
)

// Slugger builds GitHub-style heading anchors and disambiguates repeats
// with -1, -2, ... suffixes. The zero value is ready to use.
type Slugger struct {
	seen map[string]bool
}

// Slug returns the anchor for title, unique among anchors this Slugger has
// produced.
func (s *Slugger) Slug(title string) string {
	if s.seen == nil {
		s.seen = make(map[string]bool)
	}
	base := Slug(title)
	anchor := base
	for n := 1; s.seen[anchor]; n++ {
		anchor = base + "-" + strconv.Itoa(n)
	}
	s.seen[anchor] = true
	return anchor
}

// Reserve marks anchor as taken without generating it.
func (s *Slugger) Reserve(anchor string) {
	if s.seen == nil {
		s.seen = make(map[string]bool)
	}
	s.seen[anchor] = true
}

// Slug converts a plain-text title the way GitHub does: lowercase, drop
// punctuation, spaces become hyphens.
func Slug(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case r == ' ':
			b.WriteByte('-')
		case r == '-' || r == '_':
			b.WriteRune(r)
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r):
			b.WriteRune(r)
		}
	}
	return b.String()
}
