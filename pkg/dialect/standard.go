package dialect

// --- Statement keyword sets ---
// These are the "menu items" dialects compose from. Each dialect accepts
// StandardStatements plus its own additions.

var (
	// StandardStatements are statement keywords portable across all dialects.
	StandardStatements = []string{
		"SELECT", "INSERT", "UPDATE", "DELETE", "WITH", "VALUES",
		"CREATE", "ALTER", "DROP", "TRUNCATE",
		"GRANT", "REVOKE",
		"COMMIT", "ROLLBACK", "SAVEPOINT", "RELEASE",
	}

	// TransactionStatements open transactions in the standard way.
	TransactionStatements = []string{"START", "SET"}

	// MergeStatements are MERGE and its relatives.
	MergeStatements = []string{"MERGE"}

	// ProceduralStatements may start a statement inside stored routines.
	ProceduralStatements = []string{
		"BEGIN", "DECLARE", "IF", "WHILE", "LOOP", "RETURN", "OPEN",
		"FETCH", "CLOSE", "CALL",
	}

	// ExplainStatements show query plans.
	ExplainStatements = []string{"EXPLAIN"}
)

// PortableConstructs are constructs accepted by Generic SQL.
var PortableConstructs = []string{
	ConstructLimit,
	ConstructOffsetFetch,
	ConstructConcatOperator,
	ConstructGeneratedIdent,
	ConstructRecursiveCTE,
	ConstructFullJoin,
}
