// Package report aggregates per-snippet validation results into a
// deterministic document report.
//
// Reports carry no timestamps or other run-specific data, so two runs over
// the same input render byte-identical output in every format.
package report

import (
	"fmt"
	"slices"

	"github.com/leapstack-labs/sqldoclint/pkg/core"
	"github.com/leapstack-labs/sqldoclint/pkg/dialect"
)

// DefaultSectionDepth is the number of heading path components that name a
// section in the summary.
const DefaultSectionDepth = 2

// Show selects which entries a rendered report lists.
type Show string

// Show values.
const (
	ShowAll      Show = "all"
	ShowProblems Show = "problems"
)

// ParseShow validates a --show value. Empty means ShowAll.
func ParseShow(s string) (Show, error) {
	switch Show(s) {
	case "", ShowAll:
		return ShowAll, nil
	case ShowProblems:
		return ShowProblems, nil
	}
	return "", fmt.Errorf("invalid show value %q (want all or problems)", s)
}

// Entry is the report line for one snippet.
type Entry struct {
	Index          int                    `json:"index" yaml:"index"`
	Section        string                 `json:"section" yaml:"section"`
	Line           int                    `json:"line" yaml:"line"` // opening fence line
	Lang           string                 `json:"lang" yaml:"lang"`
	Classification dialect.Classification `json:"classification" yaml:"classification"`
	Result         core.ValidationResult  `json:"result" yaml:"result"`

	Snippet core.Snippet `json:"-" yaml:"-"`
}

// NewEntry pairs a snippet with its classification and validation result.
func NewEntry(s core.Snippet, c dialect.Classification, r core.ValidationResult) Entry {
	return Entry{
		Index:          s.Index,
		Section:        s.Section(),
		Line:           s.Line,
		Lang:           s.Lang,
		Classification: c,
		Result:         r,
		Snippet:        s,
	}
}

// DocLine returns the document line of the primary finding, or the fence
// line when there is none.
func (e Entry) DocLine() int {
	if e.Result.Line > 0 {
		return e.Line + e.Result.Line
	}
	return e.Line
}

// Problem reports whether the entry is anything other than Valid.
func (e Entry) Problem() bool {
	return e.Result.Outcome != core.Valid
}

// Counts tallies outcomes.
type Counts struct {
	Total       int `json:"total" yaml:"total"`
	Valid       int `json:"valid" yaml:"valid"`
	Invalid     int `json:"invalid" yaml:"invalid"`
	Unsupported int `json:"unsupported_dialect" yaml:"unsupported_dialect"`
}

func (c *Counts) add(o core.Outcome) {
	c.Total++
	switch o {
	case core.Valid:
		c.Valid++
	case core.Invalid:
		c.Invalid++
	case core.UnsupportedDialect:
		c.Unsupported++
	}
}

func (c *Counts) merge(o Counts) {
	c.Total += o.Total
	c.Valid += o.Valid
	c.Invalid += o.Invalid
	c.Unsupported += o.Unsupported
}

// Of returns the count for one outcome.
func (c Counts) Of(o core.Outcome) int {
	switch o {
	case core.Valid:
		return c.Valid
	case core.Invalid:
		return c.Invalid
	case core.UnsupportedDialect:
		return c.Unsupported
	}
	return 0
}

// SectionSummary counts outcomes for one section.
type SectionSummary struct {
	Section string `json:"section" yaml:"section"`
	Counts  `yaml:",inline"`
}

// DialectCount is the number of snippets classified as one dialect.
type DialectCount struct {
	Dialect core.Dialect `json:"dialect" yaml:"dialect"`
	Count   int          `json:"count" yaml:"count"`
}

// Summary aggregates a report. Sections appear in order of first appearance
// and dialects in registry order.
type Summary struct {
	Counts   `yaml:",inline"`
	Dialects []DialectCount   `json:"dialects,omitempty" yaml:"dialects,omitempty"`
	Sections []SectionSummary `json:"sections,omitempty" yaml:"sections,omitempty"`
}

// Report is the validation report for one document.
type Report struct {
	Path    string  `json:"path" yaml:"path"`
	Entries []Entry `json:"entries" yaml:"entries"`
	Summary Summary `json:"summary" yaml:"summary"`
}

// Options control summary aggregation.
type Options struct {
	// SectionDepth truncates heading paths when grouping; <= 0 uses
	// DefaultSectionDepth.
	SectionDepth int
}

// Build aggregates entries with default options.
func Build(path string, entries []Entry) Report {
	return BuildWithOptions(path, entries, Options{})
}

// BuildWithOptions aggregates entries into a report. Entries are ordered by
// snippet index.
func BuildWithOptions(path string, entries []Entry, opts Options) Report {
	depth := opts.SectionDepth
	if depth <= 0 {
		depth = DefaultSectionDepth
	}

	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b Entry) int { return a.Index - b.Index })

	var (
		sum      Summary
		sections = make(map[string]int)
		dialects = make(map[core.Dialect]int)
	)
	for _, e := range sorted {
		sum.add(e.Result.Outcome)
		dialects[e.Result.Dialect]++

		name := sectionName(e, depth)
		i, ok := sections[name]
		if !ok {
			i = len(sum.Sections)
			sections[name] = i
			sum.Sections = append(sum.Sections, SectionSummary{Section: name})
		}
		sum.Sections[i].add(e.Result.Outcome)
	}
	sum.Dialects = dialectCounts(dialects)

	if sorted == nil {
		sorted = []Entry{}
	}
	return Report{Path: path, Entries: sorted, Summary: sum}
}

func sectionName(e Entry, depth int) string {
	if len(e.Snippet.HeadingPath) > 0 || e.Section == "" {
		return e.Snippet.SectionAt(depth)
	}
	return e.Section
}

func dialectCounts(m map[core.Dialect]int) []DialectCount {
	var out []DialectCount
	for _, d := range core.AllDialects {
		if n := m[d]; n > 0 {
			out = append(out, DialectCount{Dialect: d, Count: n})
		}
	}
	return out
}

// Failed reports whether any snippet is Invalid.
func (r Report) Failed() bool {
	return r.Summary.Invalid > 0
}

// Visible returns the entries a rendering with show lists.
func (r Report) Visible(show Show) []Entry {
	if show != ShowProblems {
		return r.Entries
	}
	var out []Entry
	for _, e := range r.Entries {
		if e.Problem() {
			out = append(out, e)
		}
	}
	return out
}

// Combine sums the summaries of several reports. Sections with the same
// name are merged, keeping first-appearance order across reports.
func Combine(reports []Report) Summary {
	var (
		sum      Summary
		sections = make(map[string]int)
		dialects = make(map[core.Dialect]int)
	)
	for _, r := range reports {
		sum.merge(r.Summary.Counts)
		for _, d := range r.Summary.Dialects {
			dialects[d.Dialect] += d.Count
		}
		for _, s := range r.Summary.Sections {
			i, ok := sections[s.Section]
			if !ok {
				i = len(sum.Sections)
				sections[s.Section] = i
				sum.Sections = append(sum.Sections, SectionSummary{Section: s.Section})
			}
			sum.Sections[i].merge(s.Counts)
		}
	}
	sum.Dialects = dialectCounts(dialects)
	return sum
}
