// Package oracle provides the Oracle Database (SQL and PL/SQL) dialect definition.
package oracle

import (
	"github.com/leapstack-labs/sqldoclint/pkg/core"
	"github.com/leapstack-labs/sqldoclint/pkg/dialect"
)

// Config is the Oracle dialect configuration.
var Config = &dialect.Config{
	ID:      core.Oracle,
	Aliases: []string{"plsql", "pl/sql", "oracledb", "ora"},
	Hints:   []string{"oracle", "pl/sql", "plsql"},
}
