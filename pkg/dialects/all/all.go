// Package all registers every built-in dialect.
package all

import (
	// Register dialects
	_ "github.com/leapstack-labs/sqldoclint/pkg/dialects/generic"
	_ "github.com/leapstack-labs/sqldoclint/pkg/dialects/mysql"
	_ "github.com/leapstack-labs/sqldoclint/pkg/dialects/oracle"
	_ "github.com/leapstack-labs/sqldoclint/pkg/dialects/postgres"
	_ "github.com/leapstack-labs/sqldoclint/pkg/dialects/sqlserver"
)
