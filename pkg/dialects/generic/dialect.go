package generic

import (
	"github.com/leapstack-labs/sqldoclint/pkg/dialect"
)

func init() {
	dialect.Register(Generic)
}

// Generic is the portable SQL dialect.
var Generic = dialect.New(Config).
	Statements(dialect.StandardStatements, dialect.TransactionStatements, dialect.MergeStatements).
	Supports(dialect.PortableConstructs...).
	Build()
