// Package filekind defines the types of project files recognized by the gml toolchain.
package filekind

import (
	"path/filepath"
	"strings"
)

// Kind represents the type of project file.
type Kind string

const (
	// Source file kinds.

	// KindScript is a .gml file under a scripts/ directory (a script or
	// function library).
	KindScript Kind = "script"
	// KindObjectEvent is a .gml file under an objects/ directory (an object
	// event body such as Step_0.gml or Create_0.gml).
	KindObjectEvent Kind = "object_event"
	// KindSource is any other .gml file (room creation code, shaders notes,
	// loose snippets).
	KindSource Kind = "source"

	// Manifest file kinds.

	// KindProject represents the .yyp project manifest at the root.
	KindProject Kind = "project"
	// KindResourceManifest represents per-resource .yy manifests (sprites,
	// objects, sounds, rooms, ...).
	KindResourceManifest Kind = "resource"

	// KindUnknown indicates an unrecognized file type.
	KindUnknown Kind = "unknown"
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	return string(k)
}

// IsSource returns true if this kind carries GML source code.
func (k Kind) IsSource() bool {
	switch k {
	case KindScript, KindObjectEvent, KindSource:
		return true
	}
	return false
}

// IsManifest returns true if this kind is a JSON manifest (project or resource).
func (k Kind) IsManifest() bool {
	switch k {
	case KindProject, KindResourceManifest:
		return true
	}
	return false
}

// Detect classifies a file by its path. The path may be absolute or relative
// to the project root; only the extension and the nearest well-known ancestor
// directory (scripts/, objects/) are consulted.
func Detect(path string) Kind {
	switch filepath.Ext(path) {
	case ".yyp":
		return KindProject
	case ".yy":
		return KindResourceManifest
	case ".gml":
		// fall through to directory classification below
	default:
		return KindUnknown
	}

	dir := filepath.ToSlash(filepath.Dir(path))
	for _, part := range strings.Split(dir, "/") {
		switch part {
		case "scripts":
			return KindScript
		case "objects":
			return KindObjectEvent
		}
	}
	return KindSource
}
