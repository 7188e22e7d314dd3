// Package core defines the shared language of sqldoclint.
//
// This package contains:
//   - Domain entities (Snippet, Heading, Dialect)
//   - Validation results (Outcome, ValidationResult, Diagnostic)
//   - Severity levels shared by diagnostics and report filtering
//
// The Golden Rule: pkg/core imports ONLY pkg/token and stdlib.
// All other packages depend on core, not the reverse.
package core
