package oracle

import (
	"github.com/leapstack-labs/sqldoclint/pkg/dialect"
)

func init() {
	dialect.Register(Oracle)
}

// oracleStatements are statement keywords Oracle adds to the standard set.
var oracleStatements = []string{
	"EXEC", "EXECUTE", "COMMENT", "LOCK", "RENAME", "PURGE", "FLASHBACK",
	"ANALYZE", "EXPLAIN", "AUDIT", "NOAUDIT", "SET",
}

// Oracle is the Oracle dialect.
var Oracle = dialect.New(Config).
	Statements(dialect.StandardStatements, dialect.MergeStatements,
		dialect.ProceduralStatements, oracleStatements).
	Supports(
		dialect.ConstructOffsetFetch,
		dialect.ConstructConcatOperator,
		dialect.ConstructGeneratedIdent,
		dialect.ConstructFullJoin,
		dialect.ConstructRownum,
		dialect.ConstructNvl,
		dialect.ConstructDecode,
		dialect.ConstructSysdate,
		dialect.ConstructListagg,
		dialect.ConstructToChar,
		dialect.ConstructReturning,
		dialect.ConstructConnectBy,
		dialect.ConstructApply,
		dialect.ConstructPivot,
		dialect.ConstructMinus,
		dialect.ConstructVarchar2,
		dialect.ConstructSlashTerminator,
		dialect.ConstructFromDual,
		dialect.ConstructNamedArgument,
	).
	Build()
