package validate_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/leapstack-labs/sqldoclint/pkg/core"
	"github.com/leapstack-labs/sqldoclint/pkg/dialect"
	_ "github.com/leapstack-labs/sqldoclint/pkg/dialects/all"
	"github.com/leapstack-labs/sqldoclint/pkg/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func check(t *testing.T, sql string, d core.Dialect) core.ValidationResult {
	t.Helper()
	return validate.Validate(core.Snippet{Index: 7, Text: sql}, d)
}

func TestValidate_PortableSelect(t *testing.T) {
	for _, d := range core.AllDialects {
		t.Run(d.String(), func(t *testing.T) {
			r := check(t, "SELECT * FROM employees;", d)
			assert.Equal(t, core.Valid, r.Outcome, r.Message)
			assert.Empty(t, r.Diagnostics)
			assert.Equal(t, 7, r.SnippetIndex)
			assert.Equal(t, d, r.Dialect)
		})
	}
}

func TestValidate_Top(t *testing.T) {
	sql := "SELECT TOP 10 * FROM employees;"

	r := check(t, sql, core.SQLServer)
	assert.Equal(t, core.Valid, r.Outcome, r.Message)

	r = check(t, sql, core.PostgreSQL)
	assert.Equal(t, core.UnsupportedDialect, r.Outcome)
	require.NotEmpty(t, r.Diagnostics)
	assert.Equal(t, dialect.ConstructTop, r.Diagnostics[0].Code)
	assert.Equal(t, 1, r.Line)
	assert.Equal(t, 8, r.Column)
	assert.Contains(t, r.Message, "PostgreSQL")
	assert.Contains(t, r.Message, "SQL Server")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		sql     string
		dialect core.Dialect
		outcome core.Outcome
		code    string // code of the first diagnostic, when not Valid
	}{
		// constructs
		{"limit in postgres", "SELECT * FROM t LIMIT 10", core.PostgreSQL, core.Valid, ""},
		{"limit in sql server", "SELECT * FROM t LIMIT 10", core.SQLServer, core.UnsupportedDialect, dialect.ConstructLimit},
		{"backticks in mysql", "SELECT `id` FROM `users`", core.MySQL, core.Valid, ""},
		{"backticks in postgres", "SELECT `id` FROM `users`", core.PostgreSQL, core.UnsupportedDialect, dialect.ConstructBacktickIdent},
		{"brackets in sql server", "SELECT [id] FROM [users]", core.SQLServer, core.Valid, ""},
		{"brackets in mysql", "SELECT [id] FROM [users]", core.MySQL, core.UnsupportedDialect, dialect.ConstructBracketIdent},
		{"cast operator in postgres", "SELECT name::text FROM t", core.PostgreSQL, core.Valid, ""},
		{"cast operator in oracle", "SELECT name::text FROM t", core.Oracle, core.UnsupportedDialect, dialect.ConstructCastOperator},
		{"dual in oracle", "SELECT 1 FROM DUAL", core.Oracle, core.Valid, ""},
		{"dual in postgres", "SELECT 1 FROM DUAL", core.PostgreSQL, core.UnsupportedDialect, dialect.ConstructFromDual},
		{"postgres decode", "SELECT decode('aGk=', 'base64')", core.PostgreSQL, core.Valid, ""},
		{"oracle decode", "SELECT DECODE(x, 1, 'a', 'b') FROM t", core.PostgreSQL, core.UnsupportedDialect, dialect.ConstructDecode},
		{"temp table in sql server", "SELECT * INTO #tmp FROM t", core.SQLServer, core.Valid, ""},
		{"temp table in postgres", "SELECT * INTO #tmp FROM t", core.PostgreSQL, core.UnsupportedDialect, dialect.ConstructTempTable},
		{"hash comment in mysql", "# totals\nSELECT 1", core.MySQL, core.Valid, ""},
		{"hash comment in postgres", "# totals\nSELECT 1", core.PostgreSQL, core.UnsupportedDialect, dialect.ConstructHashComment},
		{"backslash escape in mysql", `SELECT 'it\'s'`, core.MySQL, core.Valid, ""},
		{"backslash escape in postgres", `SELECT 'it\'s'`, core.PostgreSQL, core.UnsupportedDialect, dialect.ConstructBackslashEscape},
		{"go in sql server", "SELECT 1\nGO\n", core.SQLServer, core.Valid, ""},
		{"go in postgres", "SELECT 1\nGO\n", core.PostgreSQL, core.UnsupportedDialect, dialect.ConstructGoSeparator},
		{"is distinct from", "SELECT a FROM t WHERE x IS DISTINCT FROM y", core.PostgreSQL, core.Valid, ""},
		{"listagg within group", "SELECT LISTAGG(name, ',') WITHIN GROUP (ORDER BY name) FROM t", core.Oracle, core.Valid, ""},
		{
			"offset fetch in sql server",
			"SELECT a FROM t ORDER BY a OFFSET 10 ROWS FETCH NEXT 5 ROWS ONLY",
			core.SQLServer, core.Valid, "",
		},
		{
			"offset fetch in mysql",
			"SELECT a FROM t ORDER BY a OFFSET 10 ROWS FETCH NEXT 5 ROWS ONLY",
			core.MySQL, core.UnsupportedDialect, dialect.ConstructOffsetFetch,
		},
		{
			"recursive cte in sql server",
			"WITH RECURSIVE r AS (SELECT 1 AS n UNION ALL SELECT n + 1 FROM r WHERE n < 5) SELECT * FROM r",
			core.SQLServer, core.UnsupportedDialect, dialect.ConstructRecursiveCTE,
		},
		{
			"on conflict in postgres",
			"INSERT INTO t (a, b) VALUES (1, 2) ON CONFLICT (a) DO NOTHING",
			core.PostgreSQL, core.Valid, "",
		},
		{
			"on conflict in mysql",
			"INSERT INTO t (a, b) VALUES (1, 2) ON CONFLICT (a) DO NOTHING",
			core.MySQL, core.UnsupportedDialect, dialect.ConstructOnConflict,
		},
		{
			"mysql delimiter procedure",
			"DELIMITER //\nCREATE PROCEDURE p()\nBEGIN\n  SELECT 1;\nEND //\nDELIMITER ;\n",
			core.MySQL, core.Valid, "",
		},
		{
			"delimiter outside mysql",
			"DELIMITER //\nCREATE PROCEDURE p()\nBEGIN\n  SELECT 1;\nEND //\nDELIMITER ;\n",
			core.PostgreSQL, core.UnsupportedDialect, dialect.ConstructDelimiter,
		},
		{
			"oracle procedure",
			"CREATE OR REPLACE PROCEDURE p IS\n  v NUMBER;\nBEGIN\n  v := 1;\nEND;\n/\n",
			core.Oracle, core.Valid, "",
		},

		// statements
		{"postgres transaction end", "BEGIN;\nSELECT 1;\nEND;", core.PostgreSQL, core.Valid, ""},
		{"unmatched end", "BEGIN;\nSELECT 1;\nEND;", core.Oracle, core.UnsupportedDialect, "unmatched-end"},
		{"show in sql server", "SHOW TABLES;", core.SQLServer, core.UnsupportedDialect, "statement"},
		{"unknown statement", "FROBNICATE t;", core.PostgreSQL, core.UnsupportedDialect, "unknown-statement"},

		// structure
		{"trailing comma", "SELECT id, FROM t", core.PostgreSQL, core.Invalid, "comma"},
		{"doubled comma", "SELECT a,, b FROM t", core.MySQL, core.Invalid, "comma"},
		{"comma before paren", "SELECT COALESCE(a, ) FROM t", core.Generic, core.Invalid, "comma"},
		{"empty select list", "SELECT FROM t", core.Generic, core.Invalid, "empty-select"},
		{"select alone", "SELECT;", core.Generic, core.Invalid, "empty-select"},
		{"empty where", "SELECT a FROM t WHERE;", core.PostgreSQL, core.Invalid, "empty-clause"},
		{"empty order by", "SELECT a FROM t ORDER BY", core.PostgreSQL, core.Invalid, "empty-clause"},
		{"group without by", "SELECT a FROM t GROUP a", core.Generic, core.Invalid, "missing-by"},
		{"where after group by", "SELECT a FROM t GROUP BY a WHERE a > 1", core.Generic, core.Invalid, "clause-order"},
		{"duplicate where", "SELECT a FROM t WHERE a > 1 WHERE b > 2", core.Generic, core.Invalid, "clause-order"},
		{"subquery clause order", "SELECT * FROM (SELECT a FROM t ORDER BY a GROUP BY a) x", core.Generic, core.Invalid, "clause-order"},
		{"unclosed paren", "SELECT (a FROM t", core.Generic, core.Invalid, "unbalanced-paren"},
		{"unmatched paren", "SELECT a FROM t)", core.Generic, core.Invalid, "unbalanced-paren"},
		{"unclosed begin", "BEGIN\n  SELECT 1;\n", core.Oracle, core.Invalid, "unclosed-block"},
		{"unclosed case", "SELECT CASE WHEN a THEN 1 FROM t", core.Generic, core.Invalid, "unclosed-block"},
		{"insert column arity", "INSERT INTO t (a, b) VALUES (1);", core.Generic, core.Invalid, "insert-arity"},
		{"insert row arity", "INSERT INTO t VALUES (1, 2), (3);", core.Generic, core.Invalid, "insert-arity"},
		{"insert without source", "INSERT INTO t (a, b);", core.Generic, core.Invalid, "insert"},
		{"incomplete statement", "DELETE;", core.Generic, core.Invalid, "incomplete"},
		{"unterminated string", "SELECT 'oops", core.Generic, core.Invalid, "lex"},
		{"invalid beats unsupported", "SELECT TOP 5 a, FROM t", core.PostgreSQL, core.Invalid, "comma"},
		{"insert select", "INSERT INTO t (a, b) SELECT a, b FROM u WHERE a > 0", core.Generic, core.Valid, ""},
		{"multi row insert", "INSERT INTO t (a, b) VALUES (1, 2), (3, 4);", core.Generic, core.Valid, ""},
		{"case in select list", "SELECT CASE WHEN a > 1 THEN 'x' ELSE 'y' END AS c FROM t ORDER BY c", core.Generic, core.Valid, ""},
		{"union", "SELECT a FROM t UNION ALL SELECT a FROM u ORDER BY a", core.Generic, core.Valid, ""},
		{"window function", "SELECT ROW_NUMBER() OVER (PARTITION BY a ORDER BY b) FROM t", core.Generic, core.Valid, ""},
		{"exists subquery", "SELECT a FROM t WHERE EXISTS (SELECT 1 FROM u WHERE u.id = t.id) GROUP BY a HAVING COUNT(*) > 1", core.Generic, core.Valid, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := check(t, tt.sql, tt.dialect)
			assert.Equal(t, tt.outcome, r.Outcome, "%s: %v", r.Message, r.Diagnostics)
			if tt.outcome == core.Valid {
				return
			}
			var first string
			for _, d := range r.Diagnostics {
				if d.Outcome() == tt.outcome {
					first = d.Code
					break
				}
			}
			assert.Equal(t, tt.code, first, r.Message)
			assert.NotEmpty(t, r.Message)
			assert.Positive(t, r.Line)
		})
	}
}

func TestValidate_Empty(t *testing.T) {
	for _, sql := range []string{"", "  \n", "-- nothing to see\n"} {
		r := check(t, sql, core.Generic)
		assert.Equal(t, core.Valid, r.Outcome)
		assert.Equal(t, validate.MessageNoStatements, r.Message)
	}
}

func TestValidate_UnregisteredDialect(t *testing.T) {
	r := check(t, "SELECT 1", core.Dialect(42))
	assert.Equal(t, core.UnsupportedDialect, r.Outcome)
	assert.Contains(t, r.Message, "not registered")
}

func TestValidate_Position(t *testing.T) {
	r := check(t, "SELECT id,\nFROM t", core.Generic)
	require.Equal(t, core.Invalid, r.Outcome)
	assert.Equal(t, 1, r.Line)
	assert.Equal(t, 10, r.Column)

	r = check(t, "SELECT 1;\n\nSELECT a FROM t WHERE;", core.Generic)
	require.Equal(t, core.Invalid, r.Outcome)
	assert.Equal(t, 3, r.Line)
	assert.Equal(t, 17, r.Column)
}

func TestValidate_UnrecognisedStatementQuoted(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want string
	}{
		{name: "word", sql: "frobnicate t;", want: `unrecognised statement "frobnicate"`},
		{name: "invalid utf-8", sql: "\xff\xfe t;", want: `unrecognised statement "\xff\xfe"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := check(t, tt.sql, core.Generic)
			require.Equal(t, core.UnsupportedDialect, r.Outcome)
			assert.Equal(t, tt.want, r.Message)
			assert.True(t, utf8.ValidString(r.Message))
		})
	}
}

func TestValidate_ReportsConstructOnce(t *testing.T) {
	diags := validate.Check("SELECT TOP 1 a FROM t; SELECT TOP 2 b FROM u;", core.PostgreSQL)
	n := 0
	for _, d := range diags {
		if d.Code == dialect.ConstructTop {
			n++
		}
	}
	assert.Equal(t, 1, n)
}

func TestValidate_Deterministic(t *testing.T) {
	sql := strings.Repeat("SELECT TOP 1 `a`, b::int FROM t WHERE x ILIKE 'y';\n", 3)
	first := validate.Check(sql, core.Oracle)
	for range 5 {
		assert.Equal(t, first, validate.Check(sql, core.Oracle))
	}
}

func TestAggregate(t *testing.T) {
	assert.Equal(t, core.Valid, validate.Aggregate(nil).Outcome)

	r := validate.Aggregate([]core.Diagnostic{
		{Code: "top", Severity: core.SeverityWarning, Message: "w"},
		{Code: "comma", Severity: core.SeverityError, Message: "e"},
	})
	assert.Equal(t, core.Invalid, r.Outcome)
	assert.Equal(t, "e", r.Message)

	r = validate.Aggregate([]core.Diagnostic{{Code: "top", Severity: core.SeverityWarning, Message: "w"}})
	assert.Equal(t, core.UnsupportedDialect, r.Outcome)
}

func TestEveryConstructIsDetected(t *testing.T) {
	for _, id := range dialect.ConstructIDs() {
		assert.True(t, validate.Detected(id), id)
	}
}
