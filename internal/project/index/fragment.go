package index

import (
	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/gml/ast"
	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/gml/filekind"
	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/project/scanner"
)

// Fragment scope references use file-local integer indices so fragments stay
// self-contained and serializable; the accumulator remaps them into the
// arena at merge time.
const (
	// FragRootScope refers to the file's root scope: the global scope for
	// scripts, the owning object's instance scope for object events.
	FragRootScope = -1

	// FragGlobalScope forces the global scope regardless of file kind (enum
	// scopes and global declarations inside event files).
	FragGlobalScope = -2
)

// Fragment is the per-file contribution to a project index. Fragments are
// immutable once built, cacheable by (path, fingerprint), and always
// replaced wholesale on invalidation.
type Fragment struct {
	Path        string
	Kind        filekind.Kind
	Fingerprint scanner.Fingerprint
	Status      ParseStatus
	FailReason  string

	Scopes      []FragmentScope
	Occurrences []FragmentOccurrence
	Resources   []FragmentResource
	Notes       []string
}

// FragmentScope is a scope created by one file. Parent refers to an earlier
// entry in the same fragment, or FragRootScope/FragGlobalScope.
type FragmentScope struct {
	Kind   ScopeKind
	Parent int
	Name   string
}

// FragmentOccurrence is one identifier occurrence relative to the fragment's
// scope table.
type FragmentOccurrence struct {
	Name      string
	Kind      OccurrenceKind
	Scope     int
	Category  Category `json:",omitempty"`
	Qualifier string   `json:",omitempty"`
	Range     ast.Range
}

// FragmentResource is a resource definition contributed by a manifest.
type FragmentResource struct {
	Name     string
	Category ResourceCategory
}

// FragmentCache stores per-file fragments keyed by (path, fingerprint). Any
// failure to produce a previously stored fragment must surface as a miss,
// never as an error: deleting the cache may only change performance.
type FragmentCache interface {
	Get(path string, fp scanner.Fingerprint) (*Fragment, bool)
	Put(frag *Fragment) error
}
