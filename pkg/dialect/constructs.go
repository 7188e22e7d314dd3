package dialect

import (
	"github.com/leapstack-labs/sqldoclint/pkg/core"
)

// Construct IDs. Each names a piece of syntax that only some dialects accept.
const (
	ConstructTop              = "top"
	ConstructLimit            = "limit"
	ConstructOffsetFetch      = "offset-fetch"
	ConstructRownum           = "rownum"
	ConstructCastOperator     = "cast-operator"
	ConstructIlike            = "ilike"
	ConstructBacktickIdent    = "backtick-identifier"
	ConstructBracketIdent     = "bracket-identifier"
	ConstructHashComment      = "hash-comment"
	ConstructDollarQuote      = "dollar-quote"
	ConstructBackslashEscape  = "backslash-escape"
	ConstructUserVariable     = "user-variable"
	ConstructSystemVariable   = "system-variable"
	ConstructTempTable        = "temp-table"
	ConstructAutoIncrement    = "auto-increment"
	ConstructIdentityFunc     = "identity-property"
	ConstructGeneratedIdent   = "generated-identity"
	ConstructSerial           = "serial"
	ConstructNvl              = "nvl"
	ConstructDecode           = "decode"
	ConstructSysdate          = "sysdate"
	ConstructGetdate          = "getdate"
	ConstructLen              = "len"
	ConstructDateadd          = "dateadd"
	ConstructIfnull           = "ifnull"
	ConstructGroupConcat      = "group-concat"
	ConstructListagg          = "listagg"
	ConstructToChar           = "to-char"
	ConstructNow              = "now"
	ConstructGenerateSeries   = "generate-series"
	ConstructReturning        = "returning"
	ConstructOutputClause     = "output-clause"
	ConstructOnConflict       = "on-conflict"
	ConstructOnDuplicateKey   = "on-duplicate-key"
	ConstructConnectBy        = "connect-by"
	ConstructDistinctOn       = "distinct-on"
	ConstructReplaceInto      = "replace-into"
	ConstructInsertIgnore     = "insert-ignore"
	ConstructStraightJoin     = "straight-join"
	ConstructApply            = "apply"
	ConstructPivot            = "pivot"
	ConstructMinus            = "minus"
	ConstructCreateOrAlter    = "create-or-alter"
	ConstructTableHint        = "table-hint"
	ConstructVarchar2         = "varchar2"
	ConstructConcatOperator   = "concat-operator"
	ConstructQualify          = "qualify"
	ConstructGoSeparator      = "go-separator"
	ConstructSlashTerminator  = "slash-terminator"
	ConstructDelimiter        = "delimiter"
	ConstructFromDual         = "from-dual"
	ConstructRecursiveCTE     = "recursive-cte"
	ConstructFullJoin         = "full-join"
	ConstructJSONArrow        = "json-arrow"
	ConstructNullSafeEqual    = "null-safe-equal"
	ConstructPostgresOperator = "postgres-operator"
	ConstructNamedArgument    = "named-argument"
	ConstructTableEngine      = "table-engine"
	ConstructUnsigned         = "unsigned"
)

// catalog describes every construct the validator recognises, in the order
// they are listed by the dialects command.
var catalog = []core.ConstructInfo{
	{ID: ConstructTop, Name: "TOP", Description: "row limit written before the select list", Example: "SELECT TOP 10 * FROM t"},
	{ID: ConstructLimit, Name: "LIMIT", Description: "row limit clause", Example: "SELECT * FROM t LIMIT 10"},
	{ID: ConstructOffsetFetch, Name: "FETCH FIRST", Description: "standard OFFSET ... FETCH row limiting", Example: "SELECT * FROM t FETCH FIRST 10 ROWS ONLY"},
	{ID: ConstructRownum, Name: "ROWNUM", Description: "Oracle pseudo-column for row numbers", Example: "SELECT * FROM t WHERE ROWNUM <= 10"},
	{ID: ConstructCastOperator, Name: "::", Description: "postfix cast operator", Example: "SELECT '1'::int"},
	{ID: ConstructIlike, Name: "ILIKE", Description: "case-insensitive LIKE", Example: "WHERE name ILIKE 'a%'"},
	{ID: ConstructBacktickIdent, Name: "`identifier`", Description: "backtick-quoted identifiers", Example: "SELECT `order` FROM t"},
	{ID: ConstructBracketIdent, Name: "[identifier]", Description: "bracket-quoted identifiers", Example: "SELECT [order] FROM t"},
	{ID: ConstructHashComment, Name: "# comment", Description: "hash line comments", Example: "# comment"},
	{ID: ConstructDollarQuote, Name: "$$ body $$", Description: "dollar-quoted string bodies", Example: "AS $$ SELECT 1 $$"},
	{ID: ConstructBackslashEscape, Name: "\\' escapes", Description: "backslash escapes inside string literals", Example: `SELECT 'It\'s'`},
	{ID: ConstructUserVariable, Name: "@variable", Description: "user or local variables", Example: "SET @x = 1"},
	{ID: ConstructSystemVariable, Name: "@@variable", Description: "system variables", Example: "SELECT @@version"},
	{ID: ConstructTempTable, Name: "#temp", Description: "temporary table names", Example: "SELECT * INTO #tmp FROM t"},
	{ID: ConstructAutoIncrement, Name: "AUTO_INCREMENT", Description: "auto-increment column attribute", Example: "id INT AUTO_INCREMENT"},
	{ID: ConstructIdentityFunc, Name: "IDENTITY(seed, step)", Description: "identity column property", Example: "id INT IDENTITY(1,1)"},
	{ID: ConstructGeneratedIdent, Name: "GENERATED AS IDENTITY", Description: "standard identity columns", Example: "id INT GENERATED ALWAYS AS IDENTITY"},
	{ID: ConstructSerial, Name: "SERIAL", Description: "serial pseudo-types", Example: "id SERIAL PRIMARY KEY"},
	{ID: ConstructNvl, Name: "NVL()", Description: "Oracle null replacement", Example: "NVL(a, 0)"},
	{ID: ConstructDecode, Name: "DECODE()", Description: "Oracle conditional function", Example: "DECODE(a, 1, 'one', 'other')"},
	{ID: ConstructSysdate, Name: "SYSDATE", Description: "current date and time", Example: "SELECT SYSDATE FROM dual"},
	{ID: ConstructGetdate, Name: "GETDATE()", Description: "current date and time", Example: "SELECT GETDATE()"},
	{ID: ConstructLen, Name: "LEN()", Description: "string length", Example: "SELECT LEN(name)"},
	{ID: ConstructDateadd, Name: "DATEADD()", Description: "date arithmetic function", Example: "DATEADD(day, 1, d)"},
	{ID: ConstructIfnull, Name: "IFNULL()", Description: "null replacement", Example: "IFNULL(a, 0)"},
	{ID: ConstructGroupConcat, Name: "GROUP_CONCAT()", Description: "string aggregation", Example: "GROUP_CONCAT(name)"},
	{ID: ConstructListagg, Name: "LISTAGG()", Description: "string aggregation", Example: "LISTAGG(name, ',')"},
	{ID: ConstructToChar, Name: "TO_CHAR()", Description: "formatting conversion", Example: "TO_CHAR(d, 'YYYY')"},
	{ID: ConstructNow, Name: "NOW()", Description: "current timestamp", Example: "SELECT NOW()"},
	{ID: ConstructGenerateSeries, Name: "GENERATE_SERIES()", Description: "series-generating table function", Example: "SELECT * FROM generate_series(1, 10)"},
	{ID: ConstructReturning, Name: "RETURNING", Description: "return rows from DML", Example: "DELETE FROM t RETURNING id"},
	{ID: ConstructOutputClause, Name: "OUTPUT", Description: "return rows from DML via inserted/deleted", Example: "DELETE FROM t OUTPUT deleted.id"},
	{ID: ConstructOnConflict, Name: "ON CONFLICT", Description: "upsert clause", Example: "ON CONFLICT (id) DO NOTHING"},
	{ID: ConstructOnDuplicateKey, Name: "ON DUPLICATE KEY UPDATE", Description: "upsert clause", Example: "ON DUPLICATE KEY UPDATE n = n + 1"},
	{ID: ConstructConnectBy, Name: "CONNECT BY", Description: "hierarchical queries", Example: "CONNECT BY PRIOR id = parent_id"},
	{ID: ConstructDistinctOn, Name: "DISTINCT ON", Description: "first row per group", Example: "SELECT DISTINCT ON (a) * FROM t"},
	{ID: ConstructReplaceInto, Name: "REPLACE INTO", Description: "delete-then-insert upsert", Example: "REPLACE INTO t VALUES (1)"},
	{ID: ConstructInsertIgnore, Name: "INSERT IGNORE", Description: "insert skipping duplicate rows", Example: "INSERT IGNORE INTO t VALUES (1)"},
	{ID: ConstructStraightJoin, Name: "STRAIGHT_JOIN", Description: "join order hint", Example: "SELECT * FROM a STRAIGHT_JOIN b"},
	{ID: ConstructApply, Name: "CROSS/OUTER APPLY", Description: "lateral joins with APPLY", Example: "FROM a CROSS APPLY f(a.id)"},
	{ID: ConstructPivot, Name: "PIVOT/UNPIVOT", Description: "pivot operators in FROM", Example: "FROM t PIVOT (SUM(x) FOR y IN (1, 2)) p"},
	{ID: ConstructMinus, Name: "MINUS", Description: "set difference spelled MINUS", Example: "SELECT a FROM t MINUS SELECT a FROM u"},
	{ID: ConstructCreateOrAlter, Name: "CREATE OR ALTER", Description: "create or redefine an object", Example: "CREATE OR ALTER VIEW v AS SELECT 1"},
	{ID: ConstructTableHint, Name: "WITH (NOLOCK)", Description: "table hints", Example: "FROM t WITH (NOLOCK)"},
	{ID: ConstructVarchar2, Name: "VARCHAR2", Description: "Oracle string type", Example: "name VARCHAR2(100)"},
	{ID: ConstructConcatOperator, Name: "||", Description: "string concatenation operator", Example: "SELECT a || b"},
	{ID: ConstructQualify, Name: "QUALIFY", Description: "filter on window function results", Example: "QUALIFY ROW_NUMBER() OVER (...) = 1"},
	{ID: ConstructGoSeparator, Name: "GO", Description: "batch separator", Example: "GO"},
	{ID: ConstructSlashTerminator, Name: "/", Description: "block terminator on its own line", Example: "/"},
	{ID: ConstructDelimiter, Name: "DELIMITER", Description: "client delimiter directive", Example: "DELIMITER //"},
	{ID: ConstructFromDual, Name: "FROM DUAL", Description: "dummy one-row table", Example: "SELECT 1 FROM DUAL"},
	{ID: ConstructRecursiveCTE, Name: "WITH RECURSIVE", Description: "recursive common table expressions", Example: "WITH RECURSIVE r AS (...)"},
	{ID: ConstructFullJoin, Name: "FULL JOIN", Description: "full outer joins", Example: "FROM a FULL OUTER JOIN b ON a.id = b.id"},
	{ID: ConstructJSONArrow, Name: "-> / ->>", Description: "JSON extraction operators", Example: "SELECT doc->>'name'"},
	{ID: ConstructNullSafeEqual, Name: "<=>", Description: "null-safe equality", Example: "WHERE a <=> b"},
	{ID: ConstructPostgresOperator, Name: "@> <@ ?| ~*", Description: "containment, key existence and regex operators", Example: "WHERE tags @> ARRAY['a']"},
	{ID: ConstructNamedArgument, Name: "=>", Description: "named function arguments", Example: "f(x => 1)"},
	{ID: ConstructTableEngine, Name: "ENGINE=", Description: "storage engine table option", Example: "CREATE TABLE t (...) ENGINE=InnoDB"},
	{ID: ConstructUnsigned, Name: "UNSIGNED", Description: "unsigned integer types", Example: "n INT UNSIGNED"},
}

// Constructs returns the construct catalog with the supporting dialects
// filled in from the registry.
func Constructs() []core.ConstructInfo {
	list := List()
	out := make([]core.ConstructInfo, len(catalog))
	for i, c := range catalog {
		c.Dialects = nil
		for _, d := range list {
			if d.Supports(c.ID) {
				c.Dialects = append(c.Dialects, d.ID)
			}
		}
		out[i] = c
	}
	return out
}

// LookupConstruct returns catalog metadata for a construct ID.
func LookupConstruct(id string) (core.ConstructInfo, bool) {
	for _, c := range Constructs() {
		if c.ID == id {
			return c, true
		}
	}
	return core.ConstructInfo{}, false
}

// ConstructIDs returns every catalog ID in catalog order.
func ConstructIDs() []string {
	ids := make([]string, len(catalog))
	for i, c := range catalog {
		ids[i] = c.ID
	}
	return ids
}
