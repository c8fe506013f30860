// carelog-lint runs the carelog-specific static analyzers.
package main

import (
	"golang.org/x/tools/go/analysis/multichecker"

	"github.com/ersonp/carelog/tools/carelog-lint/analyzers"
)

func main() {
	multichecker.Main(analyzers.All()...)
}
