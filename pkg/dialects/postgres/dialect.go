package postgres

import (
	"github.com/leapstack-labs/sqldoclint/pkg/dialect"
)

func init() {
	dialect.Register(Postgres)
}

// postgresStatements are statement keywords PostgreSQL adds to the standard set.
var postgresStatements = []string{
	"COPY", "VACUUM", "ANALYZE", "ANALYSE", "REINDEX", "CLUSTER",
	"SHOW", "RESET", "DO", "LISTEN", "NOTIFY", "UNLISTEN",
	"COMMENT", "REFRESH", "LOCK", "TABLE", "DISCARD",
	"PREPARE", "EXECUTE", "DEALLOCATE", "DECLARE", "FETCH", "MOVE", "CLOSE",
	"BEGIN", "END", "ABORT", "CHECKPOINT", "IMPORT", "SECURITY", "CALL",
}

// Postgres is the PostgreSQL dialect.
var Postgres = dialect.New(Config).
	Statements(dialect.StandardStatements, dialect.TransactionStatements,
		dialect.MergeStatements, dialect.ExplainStatements, postgresStatements).
	Supports(dialect.PortableConstructs...).
	Supports(
		dialect.ConstructCastOperator,
		dialect.ConstructIlike,
		dialect.ConstructDollarQuote,
		dialect.ConstructSerial,
		dialect.ConstructToChar,
		dialect.ConstructNow,
		dialect.ConstructGenerateSeries,
		dialect.ConstructReturning,
		dialect.ConstructOnConflict,
		dialect.ConstructDistinctOn,
		dialect.ConstructJSONArrow,
		dialect.ConstructPostgresOperator,
		dialect.ConstructNamedArgument,
	).
	Build()
