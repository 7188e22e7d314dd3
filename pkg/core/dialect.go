package core

import (
	"fmt"
	"strings"
)

// Dialect identifies a named variant of SQL syntax.
type Dialect int

// Supported dialects. Generic means no vendor could be inferred.
const (
	Generic Dialect = iota
	MySQL
	PostgreSQL
	SQLServer
	Oracle
)

// AllDialects lists every dialect in canonical order.
var AllDialects = []Dialect{Generic, MySQL, PostgreSQL, SQLServer, Oracle}

var dialectNames = [...]string{
	Generic:    "generic",
	MySQL:      "mysql",
	PostgreSQL: "postgres",
	SQLServer:  "sqlserver",
	Oracle:     "oracle",
}

var dialectTitles = [...]string{
	Generic:    "Generic SQL",
	MySQL:      "MySQL",
	PostgreSQL: "PostgreSQL",
	SQLServer:  "SQL Server",
	Oracle:     "Oracle",
}

// String returns the stable lowercase name of the dialect.
func (d Dialect) String() string {
	if d < 0 || int(d) >= len(dialectNames) {
		return fmt.Sprintf("dialect(%d)", int(d))
	}
	return dialectNames[d]
}

// Title returns the display name of the dialect.
func (d Dialect) Title() string {
	if d < 0 || int(d) >= len(dialectTitles) {
		return d.String()
	}
	return dialectTitles[d]
}

// MarshalText encodes the dialect by name.
func (d Dialect) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes a canonical dialect name.
func (d *Dialect) UnmarshalText(text []byte) error {
	v, ok := ParseDialect(string(text))
	if !ok {
		return fmt.Errorf("unknown dialect %q", string(text))
	}
	*d = v
	return nil
}

// ParseDialect converts a canonical dialect name to a Dialect.
// Aliases ("postgresql", "tsql", ...) are resolved by the dialect registry.
func ParseDialect(s string) (Dialect, bool) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range dialectNames {
		if n == name {
			return Dialect(i), true
		}
	}
	return Generic, false
}
