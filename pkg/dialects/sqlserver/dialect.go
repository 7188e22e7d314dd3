package sqlserver

import (
	"github.com/leapstack-labs/sqldoclint/pkg/dialect"
)

func init() {
	dialect.Register(SQLServer)
}

// sqlserverStatements are statement keywords T-SQL adds to the standard set.
var sqlserverStatements = []string{
	"EXEC", "EXECUTE", "PRINT", "USE", "RAISERROR", "THROW",
	"BREAK", "CONTINUE", "GOTO", "WAITFOR", "BULK", "DBCC",
	"DEALLOCATE", "SAVE", "BACKUP", "RESTORE", "TRY", "CATCH",
}

// SQLServer is the SQL Server dialect.
var SQLServer = dialect.New(Config).
	Statements(dialect.StandardStatements, dialect.MergeStatements,
		dialect.ProceduralStatements, []string{"SET"}, sqlserverStatements).
	Supports(
		dialect.ConstructTop,
		dialect.ConstructOffsetFetch,
		dialect.ConstructBracketIdent,
		dialect.ConstructUserVariable,
		dialect.ConstructSystemVariable,
		dialect.ConstructTempTable,
		dialect.ConstructIdentityFunc,
		dialect.ConstructGetdate,
		dialect.ConstructLen,
		dialect.ConstructDateadd,
		dialect.ConstructGenerateSeries,
		dialect.ConstructOutputClause,
		dialect.ConstructApply,
		dialect.ConstructPivot,
		dialect.ConstructCreateOrAlter,
		dialect.ConstructTableHint,
		dialect.ConstructGoSeparator,
		dialect.ConstructFullJoin,
	).
	Build()
