// Package wallclock detects direct time.Now calls in domain code.
package wallclock

import (
	"go/ast"
	"go/types"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// Analyzer reports time.Now() calls in packages matching -scope. Domain code
// takes an injected clock so stats and validation stay reproducible.
var Analyzer = &analysis.Analyzer{
	Name:     "wallclock",
	Doc:      "detects direct time.Now calls in domain packages that should use an injected clock",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

var scope string

func init() {
	Analyzer.Flags.StringVar(&scope, "scope", "domain/", "only check packages whose import path contains this string")
}

func run(pass *analysis.Pass) (interface{}, error) {
	if !strings.Contains(pass.Pkg.Path(), scope) {
		return nil, nil
	}

	inspect := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.CallExpr)(nil),
	}

	inspect.Preorder(nodeFilter, func(n ast.Node) {
		call := n.(*ast.CallExpr)

		if strings.HasSuffix(pass.Fset.Position(call.Pos()).Filename, "_test.go") {
			return
		}

		sel, ok := call.Fun.(*ast.SelectorExpr)
		if !ok || sel.Sel.Name != "Now" {
			return
		}

		fn, ok := pass.TypesInfo.Uses[sel.Sel].(*types.Func)
		if !ok || fn.Pkg() == nil || fn.Pkg().Path() != "time" {
			return
		}

		pass.Reportf(call.Pos(), "time.Now called directly - inject a clock func instead")
	})

	return nil, nil
}
