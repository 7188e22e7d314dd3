// Package sqlserver provides the Microsoft SQL Server (T-SQL) dialect definition.
package sqlserver

import (
	"github.com/leapstack-labs/sqldoclint/pkg/core"
	"github.com/leapstack-labs/sqldoclint/pkg/dialect"
)

// Config is the SQL Server dialect configuration.
var Config = &dialect.Config{
	ID:      core.SQLServer,
	Aliases: []string{"mssql", "tsql", "t-sql", "transact-sql", "sql-server", "azuresql"},
	Hints:   []string{"sql server", "sqlserver", "mssql", "t-sql", "tsql", "transact-sql", "azure sql"},
}
