package core

import (
	"fmt"

	"github.com/leapstack-labs/sqldoclint/pkg/token"
)

// Outcome is the verdict for one snippet.
type Outcome int

// Validation outcomes.
const (
	// Valid means no problems were found.
	Valid Outcome = iota
	// Invalid means the snippet is syntactically broken in every dialect.
	Invalid
	// UnsupportedDialect means the snippet uses constructs the target
	// dialect does not accept, or constructs the validator does not know.
	UnsupportedDialect
)

// AllOutcomes lists outcomes in report order.
var AllOutcomes = []Outcome{Valid, Invalid, UnsupportedDialect}

// String returns the stable name of the outcome.
func (o Outcome) String() string {
	switch o {
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	case UnsupportedDialect:
		return "unsupported-dialect"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// MarshalText encodes the outcome by name.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText decodes an outcome name.
func (o *Outcome) UnmarshalText(text []byte) error {
	for _, v := range AllOutcomes {
		if v.String() == string(text) {
			*o = v
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", string(text))
}

// Diagnostic is a single validator finding. Positions are relative to the
// snippet text.
type Diagnostic struct {
	Code     string         `json:"code" yaml:"code"`
	Severity Severity       `json:"severity" yaml:"severity"`
	Message  string         `json:"message" yaml:"message"`
	Pos      token.Position `json:"-" yaml:"-"`
}

// Outcome returns the outcome a diagnostic implies on its own.
func (d Diagnostic) Outcome() Outcome {
	if d.Severity == SeverityError {
		return Invalid
	}
	return UnsupportedDialect
}

// ValidationResult is the validator output for exactly one snippet.
type ValidationResult struct {
	SnippetIndex int          `json:"snippet" yaml:"snippet"`
	Dialect      Dialect      `json:"dialect" yaml:"dialect"`
	Outcome      Outcome      `json:"outcome" yaml:"outcome"`
	Message      string       `json:"message,omitempty" yaml:"message,omitempty"`
	Line         int          `json:"line,omitempty" yaml:"line,omitempty"`
	Column       int          `json:"column,omitempty" yaml:"column,omitempty"`
	Diagnostics  []Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// Failed reports whether the result should fail a check run.
func (r ValidationResult) Failed() bool {
	return r.Outcome == Invalid
}
