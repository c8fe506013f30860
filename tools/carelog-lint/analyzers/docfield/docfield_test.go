package docfield_test

import (
	"testing"

	"golang.org/x/tools/go/analysis/analysistest"

	"github.com/ersonp/carelog/tools/carelog-lint/analyzers/docfield"
)

func TestAnalyzer(t *testing.T) {
	testdata := analysistest.TestData()
	analysistest.Run(t, testdata, docfield.Analyzer, "a")
}
