// Package docfield detects string-literal keys on entry documents that have a
// named field constant.
package docfield

import (
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
	"strconv"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// Analyzer reports doc["startedAt"] style lookups on entities.Document where
// an entities.Field* constant holds the same key.
var Analyzer = &analysis.Analyzer{
	Name:     "docfield",
	Doc:      "detects string-literal document keys that should use entities.Field constants",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

func run(pass *analysis.Pass) (interface{}, error) {
	inspect := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.IndexExpr)(nil),
	}

	inspect.Preorder(nodeFilter, func(n ast.Node) {
		idx := n.(*ast.IndexExpr)

		if strings.HasSuffix(pass.Fset.Position(idx.Pos()).Filename, "_test.go") {
			return
		}

		lit, ok := idx.Index.(*ast.BasicLit)
		if !ok || lit.Kind != token.STRING {
			return
		}

		pkg := documentPackage(pass.TypesInfo.TypeOf(idx.X))
		if pkg == nil {
			return
		}

		key, err := strconv.Unquote(lit.Value)
		if err != nil {
			return
		}

		if name := fieldConstant(pkg, key); name != "" {
			pass.Reportf(lit.Pos(), "use %s.%s instead of %s", pkg.Name(), name, lit.Value)
		}
	})

	return nil, nil
}

// documentPackage returns the entities package when t is entities.Document.
func documentPackage(t types.Type) *types.Package {
	named, ok := t.(*types.Named)
	if !ok {
		return nil
	}
	obj := named.Obj()
	if obj.Name() != "Document" || obj.Pkg() == nil || obj.Pkg().Name() != "entities" {
		return nil
	}
	return obj.Pkg()
}

// fieldConstant returns the name of the Field* constant in pkg whose value is key.
func fieldConstant(pkg *types.Package, key string) string {
	scope := pkg.Scope()
	for _, name := range scope.Names() {
		if !strings.HasPrefix(name, "Field") {
			continue
		}
		c, ok := scope.Lookup(name).(*types.Const)
		if !ok || c.Val().Kind() != constant.String {
			continue
		}
		if constant.StringVal(c.Val()) == key {
			return name
		}
	}
	return ""
}
