// Package analyzers provides all custom static analyzers for carelog.
package analyzers

import (
	"golang.org/x/tools/go/analysis"

	"github.com/ersonp/carelog/tools/carelog-lint/analyzers/docfield"
	"github.com/ersonp/carelog/tools/carelog-lint/analyzers/loopcall"
	"github.com/ersonp/carelog/tools/carelog-lint/analyzers/wallclock"
)

// All returns all analyzers to run.
func All() []*analysis.Analyzer {
	return []*analysis.Analyzer{
		docfield.Analyzer,
		loopcall.Analyzer,
		wallclock.Analyzer,
	}
}
