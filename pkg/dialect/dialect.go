// Package dialect provides SQL dialect definitions and snippet classification.
//
// This package contains the public contract for dialect definitions used by
// the validator and the classifier. Concrete dialects are registered from
// pkg/dialects/*/ packages; import pkg/dialects/all to register every one.
package dialect

import (
	"sort"
	"strings"

	"github.com/leapstack-labs/sqldoclint/pkg/core"
)

// Config is the pure data part of a dialect definition.
// The Builder reads it and wires the lookup tables.
type Config struct {
	ID    core.Dialect
	Title string

	// Aliases are alternative names accepted in fence tags, frontmatter and
	// --dialect (e.g. "postgresql", "tsql"). The canonical name is implied.
	Aliases []string

	// Hints are phrases that identify the dialect in comments and headings
	// ("sql server", "pl/sql"). Matched case-insensitively on word boundaries.
	Hints []string

	// BackslashEscapes reports whether '\' escapes inside string literals.
	BackslashEscapes bool
}

// Dialect represents a SQL dialect definition.
type Dialect struct {
	ID               core.Dialect
	Name             string
	Title            string
	Aliases          []string
	BackslashEscapes bool

	hints      []string
	statements map[string]struct{}
	constructs map[string]struct{}
}

// AcceptsStatement reports whether the dialect accepts a statement starting
// with the given keyword. The keyword is compared case-insensitively.
func (d *Dialect) AcceptsStatement(keyword string) bool {
	_, ok := d.statements[strings.ToUpper(keyword)]
	return ok
}

// Supports reports whether the dialect accepts the construct with the given ID.
func (d *Dialect) Supports(constructID string) bool {
	_, ok := d.constructs[constructID]
	return ok
}

// Statements returns the accepted leading statement keywords, sorted.
func (d *Dialect) Statements() []string {
	return sortedKeys(d.statements)
}

// Constructs returns the IDs of supported constructs, sorted.
func (d *Dialect) Constructs() []string {
	return sortedKeys(d.constructs)
}

// Hints returns the hint phrases, lowercased, in declaration order.
func (d *Dialect) Hints() []string {
	out := make([]string, len(d.hints))
	copy(out, d.hints)
	return out
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Builder provides a fluent API for constructing dialects.
type Builder struct {
	dialect *Dialect
}

// New creates a dialect builder from a Config.
func New(cfg *Config) *Builder {
	title := cfg.Title
	if title == "" {
		title = cfg.ID.Title()
	}
	d := &Dialect{
		ID:               cfg.ID,
		Name:             cfg.ID.String(),
		Title:            title,
		BackslashEscapes: cfg.BackslashEscapes,
		statements:       make(map[string]struct{}),
		constructs:       make(map[string]struct{}),
	}
	for _, a := range cfg.Aliases {
		d.Aliases = append(d.Aliases, strings.ToLower(a))
	}
	for _, h := range cfg.Hints {
		d.hints = append(d.hints, strings.ToLower(h))
	}
	return &Builder{dialect: d}
}

// Statements adds accepted leading statement keywords.
func (b *Builder) Statements(sets ...[]string) *Builder {
	for _, set := range sets {
		for _, kw := range set {
			b.dialect.statements[strings.ToUpper(kw)] = struct{}{}
		}
	}
	return b
}

// Supports adds supported construct IDs.
func (b *Builder) Supports(ids ...string) *Builder {
	for _, id := range ids {
		b.dialect.constructs[id] = struct{}{}
	}
	return b
}

// Build returns the constructed dialect.
func (b *Builder) Build() *Dialect {
	return b.dialect
}
