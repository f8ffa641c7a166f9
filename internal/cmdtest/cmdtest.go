// Package cmdtest provides a testscript-based test harness for the gml CLI
// tools.
//
// It uses txtar format test files to specify input project trees and expected
// outputs, making it easy to write end-to-end CLI tests.
//
// Example test file (testdata/gmlindex/index.txtar):
//
//	# Index a small project
//	exec gmlindex .
//	stdout '2 files'
//
//	-- scripts/scr_util/scr_util.gml --
//	function scr_util() {
//	    return 1;
//	}
package cmdtest

import (
	"os"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/cmd/gmlindex"
	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/cmd/gmlrename"
)

// Run executes the testscript tests in the given directory.
func Run(t *testing.T, dir string) {
	testscript.Run(t, testscript.Params{
		Dir: dir,
	})
}

// Main is the TestMain function that should be called from test files.
// It sets up the CLI tools as testscript commands.
func Main(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"gmlindex":  wrapRun(gmlindex.Run),
		"gmlrename": wrapRun(gmlrename.Run),
	}))
}

// wrapRun wraps a Run(args []string) int function to func() int for
// testscript. The args are taken from os.Args[1:].
func wrapRun(run func(args []string) int) func() int {
	return func() int {
		return run(os.Args[1:])
	}
}
