package mysql

import (
	"github.com/leapstack-labs/sqldoclint/pkg/dialect"
)

func init() {
	dialect.Register(MySQL)
}

// mysqlStatements are statement keywords MySQL adds to the standard set.
var mysqlStatements = []string{
	"SHOW", "DESCRIBE", "DESC", "USE", "REPLACE", "LOAD", "HANDLER",
	"LOCK", "UNLOCK", "RENAME", "OPTIMIZE", "ANALYZE", "CHECK", "REPAIR",
	"PREPARE", "EXECUTE", "DEALLOCATE", "FLUSH", "KILL", "DO", "TABLE",
	"REPEAT", "LEAVE", "ITERATE", "SIGNAL", "RESIGNAL",
}

// MySQL is the MySQL dialect.
var MySQL = dialect.New(Config).
	Statements(dialect.StandardStatements, dialect.TransactionStatements,
		dialect.ProceduralStatements, dialect.ExplainStatements, mysqlStatements).
	Supports(
		dialect.ConstructLimit,
		dialect.ConstructRecursiveCTE,
		dialect.ConstructBacktickIdent,
		dialect.ConstructHashComment,
		dialect.ConstructBackslashEscape,
		dialect.ConstructUserVariable,
		dialect.ConstructSystemVariable,
		dialect.ConstructAutoIncrement,
		dialect.ConstructSysdate,
		dialect.ConstructIfnull,
		dialect.ConstructGroupConcat,
		dialect.ConstructNow,
		dialect.ConstructOnDuplicateKey,
		dialect.ConstructReplaceInto,
		dialect.ConstructInsertIgnore,
		dialect.ConstructStraightJoin,
		dialect.ConstructDelimiter,
		dialect.ConstructFromDual,
		dialect.ConstructJSONArrow,
		dialect.ConstructNullSafeEqual,
		dialect.ConstructTableEngine,
		dialect.ConstructUnsigned,
	).
	Build()
