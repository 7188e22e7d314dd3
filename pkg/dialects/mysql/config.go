// Package mysql provides the MySQL dialect definition.
// MariaDB snippets are classified as MySQL.
package mysql

import (
	"github.com/leapstack-labs/sqldoclint/pkg/core"
	"github.com/leapstack-labs/sqldoclint/pkg/dialect"
)

// Config is the MySQL dialect configuration.
var Config = &dialect.Config{
	ID:               core.MySQL,
	Aliases:          []string{"mariadb"},
	Hints:            []string{"mysql", "mariadb"},
	BackslashEscapes: true,
}
