// Package parser defines the parser adapter boundary for GML source files.
//
// The indexer consumes an Adapter rather than a concrete parser, so the
// grammar itself stays swappable: tests inject hand-built trees, and callers
// with a full-fidelity parser can plug it in. Default returns a built-in
// adapter that understands the GML subset this toolchain needs (declarations,
// statements, expressions, and accurate identifier ranges).
package parser

import (
	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/gml/ast"
)

// Adapter turns one file's source text into a syntax tree.
type Adapter interface {
	// Parse parses src. Path is used for positions and error messages only;
	// the adapter must not touch the filesystem.
	Parse(path string, src []byte) (*ast.File, error)
}

// Default returns the built-in GML subset parser.
func Default() Adapter {
	return builtinAdapter{}
}

type builtinAdapter struct{}

func (builtinAdapter) Parse(path string, src []byte) (*ast.File, error) {
	p := newParser(path, src)
	return p.parseFile()
}
