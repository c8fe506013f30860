// Package loopcall detects per-document store reads inside loops.
package loopcall

import (
	"go/ast"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// Analyzer detects single-document store reads inside loops.
var Analyzer = &analysis.Analyzer{
	Name:     "loopcall",
	Doc:      "detects single-document store reads inside loops that should use a batch query",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

// batchAlternatives maps per-call store methods to the query that replaces them.
var batchAlternatives = map[string]string{
	"GetDocument":  "ListDocuments or ExistsByIDs",
	"Revision":     "a single Revision call before the loop",
	"FindAuditLog": "one FindAuditLog per entry outside the loop",
}

func run(pass *analysis.Pass) (interface{}, error) {
	inspect := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.RangeStmt)(nil),
		(*ast.ForStmt)(nil),
	}

	inspect.Preorder(nodeFilter, func(n ast.Node) {
		var body *ast.BlockStmt
		switch stmt := n.(type) {
		case *ast.RangeStmt:
			body = stmt.Body
		case *ast.ForStmt:
			body = stmt.Body
		}
		if body == nil {
			return
		}

		ast.Inspect(body, func(n ast.Node) bool {
			// Nested loops report on their own
			switch n.(type) {
			case *ast.RangeStmt, *ast.ForStmt:
				return false
			}

			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}

			sel, ok := call.Fun.(*ast.SelectorExpr)
			if !ok {
				return true
			}

			if alt, ok := batchAlternatives[sel.Sel.Name]; ok {
				pass.Reportf(call.Pos(),
					"potential N+1: %s called inside loop - consider %s",
					sel.Sel.Name, alt)
			}

			return true
		})
	})

	return nil, nil
}
