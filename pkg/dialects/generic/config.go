// Package generic provides the vendor-neutral dialect used when no dialect
// can be inferred. It accepts portable SQL only.
package generic

import (
	"github.com/leapstack-labs/sqldoclint/pkg/core"
	"github.com/leapstack-labs/sqldoclint/pkg/dialect"
)

// Config is the Generic SQL configuration.
var Config = &dialect.Config{
	ID:      core.Generic,
	Aliases: []string{"ansi", "standard", "sql"},
	Hints:   []string{"ansi sql", "standard sql", "sql standard", "iso sql", "generic sql"},
}
