// Package postgres provides the PostgreSQL dialect definition.
// This package is pure Go with no database driver dependencies.
package postgres

import (
	"github.com/leapstack-labs/sqldoclint/pkg/core"
	"github.com/leapstack-labs/sqldoclint/pkg/dialect"
)

// Config is the PostgreSQL dialect configuration.
// This is pure data; the Builder wires the lookup tables from it.
var Config = &dialect.Config{
	ID:      core.PostgreSQL,
	Aliases: []string{"postgresql", "pg", "pgsql", "plpgsql", "psql"},
	Hints:   []string{"postgresql", "postgres", "pgsql", "pl/pgsql", "plpgsql"},
	// E'' strings escape with backslashes; plain strings do not
	// (standard_conforming_strings is on by default).
	BackslashEscapes: false,
}
