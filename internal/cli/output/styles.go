package output

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/leapstack-labs/sqldoclint/pkg/core"
	"github.com/muesli/termenv"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Styles holds the lipgloss styles used for terminal output.
type Styles struct {
	Header1  lipgloss.Style
	Header2  lipgloss.Style
	Bold     lipgloss.Style
	Muted    lipgloss.Style
	Info     lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	FilePath lipgloss.Style

	StatusSuccess lipgloss.Style
	StatusFailed  lipgloss.Style
	StatusSkipped lipgloss.Style
}

// NewStyles builds styles bound to w. Without a terminal the ASCII profile
// is forced so no escape codes are written.
func NewStyles(w io.Writer, isTTY bool) *Styles {
	lr := lipgloss.NewRenderer(w)
	if !isTTY {
		lr.SetColorProfile(termenv.Ascii)
	}

	return &Styles{
		Header1:  lr.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Header2:  lr.NewStyle().Bold(true),
		Bold:     lr.NewStyle().Bold(true),
		Muted:    lr.NewStyle().Foreground(lipgloss.Color("8")),
		Info:     lr.NewStyle().Foreground(lipgloss.Color("6")),
		Success:  lr.NewStyle().Foreground(lipgloss.Color("2")),
		Warning:  lr.NewStyle().Foreground(lipgloss.Color("3")),
		Error:    lr.NewStyle().Foreground(lipgloss.Color("1")),
		FilePath: lr.NewStyle().Underline(true),

		StatusSuccess: lr.NewStyle().Foreground(lipgloss.Color("2")).SetString("✓"),
		StatusFailed:  lr.NewStyle().Foreground(lipgloss.Color("1")).SetString("✗"),
		StatusSkipped: lr.NewStyle().Foreground(lipgloss.Color("3")).SetString("?"),
	}
}

// Outcome returns the style for a validation outcome.
func (s *Styles) Outcome(o core.Outcome) lipgloss.Style {
	switch o {
	case core.Valid:
		return s.Success
	case core.Invalid:
		return s.Error
	default:
		return s.Warning
	}
}

// OutcomeIcon returns the status glyph for a validation outcome.
func (s *Styles) OutcomeIcon(o core.Outcome) string {
	switch o {
	case core.Valid:
		return s.StatusSuccess.String()
	case core.Invalid:
		return s.StatusFailed.String()
	default:
		return s.StatusSkipped.String()
	}
}

// Title title-cases a label such as "unsupported dialect".
func Title(s string) string {
	return cases.Title(language.English).String(s)
}
