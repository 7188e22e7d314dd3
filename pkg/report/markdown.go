package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// PreambleSection names the section of snippets before the first heading.
const PreambleSection = "(preamble)"

// DisplaySection returns the section name for display.
func DisplaySection(s string) string {
	if s == "" {
		return PreambleSection
	}
	return s
}

// WriteMarkdown renders reports as a markdown document. A combined summary
// follows when there is more than one report.
func WriteMarkdown(w io.Writer, reports []Report, show Show) error {
	b := &strings.Builder{}
	b.WriteString("# SQL snippet report\n")

	for _, r := range reports {
		fmt.Fprintf(b, "\n## %s\n\n", r.Path)
		entries := r.Visible(show)
		if len(entries) == 0 {
			if len(r.Entries) == 0 {
				b.WriteString("No SQL snippets.\n")
			} else {
				b.WriteString("No problems.\n")
			}
		} else {
			b.WriteString("| # | Section | Line | Dialect | Source | Outcome | Message |\n")
			b.WriteString("|---|---|---|---|---|---|---|\n")
			for _, e := range entries {
				row(b,
					strconv.Itoa(e.Index),
					DisplaySection(e.Section),
					strconv.Itoa(e.DocLine()),
					e.Result.Dialect.String(),
					e.Classification.Source.String(),
					e.Result.Outcome.String(),
					e.Result.Message,
				)
			}
		}
		b.WriteString("\n")
		writeSummary(b, r.Summary)
	}

	if len(reports) > 1 {
		b.WriteString("\n## Total\n\n")
		fmt.Fprintf(b, "%d files. ", len(reports))
		writeSummary(b, Combine(reports))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeSummary(b *strings.Builder, s Summary) {
	fmt.Fprintf(b, "**%s**\n", SummaryLine(s.Counts))
	if len(s.Sections) == 0 {
		return
	}
	b.WriteString("\n| Section | Total | Valid | Invalid | Unsupported |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, sec := range s.Sections {
		row(b,
			DisplaySection(sec.Section),
			strconv.Itoa(sec.Total),
			strconv.Itoa(sec.Valid),
			strconv.Itoa(sec.Invalid),
			strconv.Itoa(sec.Unsupported),
		)
	}
}

// SummaryLine formats counts as one sentence.
func SummaryLine(c Counts) string {
	noun := "snippets"
	if c.Total == 1 {
		noun = "snippet"
	}
	return fmt.Sprintf("%d %s: %d valid, %d invalid, %d unsupported-dialect",
		c.Total, noun, c.Valid, c.Invalid, c.Unsupported)
}

func row(b *strings.Builder, cells ...string) {
	b.WriteString("|")
	for _, c := range cells {
		b.WriteString(" ")
		b.WriteString(escapeCell(c))
		b.WriteString(" |")
	}
	b.WriteString("\n")
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
