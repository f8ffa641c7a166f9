// Package index builds the project index: the merged cross-file map of
// files, resources, scopes, and identifier occurrences for one project
// snapshot. An index is built once per call and is immutable once returned;
// rebuilds produce a fresh index rather than mutating an old one.
package index

import (
	"time"

	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/gml/ast"
	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/gml/filekind"
	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/project/scanner"
)

// ScopeID addresses a ScopeRecord in the index's scope arena.
type ScopeID int

const (
	// NoScope is the nil scope reference (the global scope's parent).
	NoScope ScopeID = -1

	// GlobalScope is always the first record in the arena.
	GlobalScope ScopeID = 0
)

// ScopeKind classifies a scope.
type ScopeKind string

const (
	// ScopeGlobal is the single project-wide scope.
	ScopeGlobal ScopeKind = "global"
	// ScopeInstance is the variable scope shared by all event files of one
	// object.
	ScopeInstance ScopeKind = "instance"
	// ScopeLocal is a function body or object event body.
	ScopeLocal ScopeKind = "local"
	// ScopeEnum holds the members of one enum declaration.
	ScopeEnum ScopeKind = "enum"
)

// ScopeRecord is one scope in the arena. Parent is assigned exactly once at
// creation, so the scope tree is acyclic by construction.
type ScopeRecord struct {
	ID     ScopeID
	Kind   ScopeKind
	Parent ScopeID
	// Name is the object name for instance scopes, the function name for
	// function-body scopes, and the enum name for enum scopes.
	Name string
	// File is the declaring file (empty for the global scope and for
	// instance scopes, which span files).
	File string
}

// ParseStatus reports whether a file contributed to the index.
type ParseStatus string

const (
	ParseOK     ParseStatus = "ok"
	ParseFailed ParseStatus = "failed"
)

// FileRecord describes one scanned file.
type FileRecord struct {
	Path        string
	Kind        filekind.Kind
	Fingerprint scanner.Fingerprint
	Status      ParseStatus
	// FailReason holds the parse error text when Status is ParseFailed.
	FailReason string
	// Scopes are the scope IDs created by this file.
	Scopes []ScopeID
	// FromCache reports whether the file's fragment came from the index
	// cache rather than a fresh parse.
	FromCache bool
}

// ResourceID addresses a ResourceRecord.
type ResourceID int

// NoResource is the nil resource reference.
const NoResource ResourceID = -1

// ResourceCategory is the asset kind of a resource, used to pick a casing
// rule.
type ResourceCategory string

const (
	ResourceSprite  ResourceCategory = "sprite"
	ResourceObject  ResourceCategory = "object"
	ResourceSound   ResourceCategory = "sound"
	ResourceRoom    ResourceCategory = "room"
	ResourceScript  ResourceCategory = "script"
	ResourceFont    ResourceCategory = "font"
	ResourceTileset ResourceCategory = "tileset"
	ResourcePath    ResourceCategory = "path"
	ResourceShader  ResourceCategory = "shader"
	ResourceOther   ResourceCategory = "other"
)

// ResourceRecord is a named project asset. Resources are owned by the index
// and referenced from occurrences by ID, never duplicated.
type ResourceRecord struct {
	ID       ResourceID
	Name     string
	Category ResourceCategory
	// File is the declaring manifest. A redeclaration overwrites this
	// pointer and is recorded as a duplicate-definition note.
	File string
	// Occurrences are indices of code occurrences that reference this
	// resource by name.
	Occurrences []int
}

// BindingID addresses a Binding.
type BindingID int

// NoBinding is the nil binding reference.
const NoBinding BindingID = -1

// Binding is the identity of one declared name within one scope. Multiple
// declaration occurrences of the same (scope, name) share a binding;
// references resolve to a binding.
type Binding struct {
	ID       BindingID
	Scope    ScopeID
	Name     string
	Category Category
	// Occurrences are indices of all occurrences (declarations and resolved
	// references) of this binding, in index order.
	Occurrences []int
}

// OccurrenceKind distinguishes declarations from references.
type OccurrenceKind string

const (
	Declaration OccurrenceKind = "declaration"
	Reference   OccurrenceKind = "reference"
)

// Category is the identifier category of a declaration, used to pick a
// casing rule.
type Category string

const (
	CategoryLocal      Category = "local"
	CategoryParameter  Category = "parameter"
	CategoryFunction   Category = "function"
	CategoryGlobal     Category = "global"
	CategoryInstance   Category = "instance"
	CategoryEnum       Category = "enum"
	CategoryEnumMember Category = "enum-member"
	CategoryMacro      Category = "macro"
	CategoryAsset      Category = "asset"
)

// IdentifierOccurrence is one use of a name at a source location.
type IdentifierOccurrence struct {
	Name string
	Kind OccurrenceKind
	// Scope is the scope the occurrence appears in (for declarations, the
	// scope the name is declared in).
	Scope ScopeID
	// Category is set for declarations.
	Category Category
	// Qualifier is "global" for global.name accesses and globalvar
	// declarations, or the qualifier identifier for member accesses like
	// State.Idle. Empty otherwise.
	Qualifier string
	File      string
	Range     ast.Range

	// Resolution results, filled in when the index is finalized.

	// Binding is the resolved binding, or NoBinding.
	Binding BindingID
	// Resource is set when the occurrence names a project resource.
	Resource ResourceID
	// Builtin is true when the name resolved to a language builtin.
	Builtin bool
	// Unresolved is true when a reference matched nothing. Member accesses
	// through non-enum qualifiers are unresolved without a note, since they
	// are ordinary struct/instance field reads the indexer cannot see into.
	Unresolved bool
}

// CacheStats counts index-cache outcomes for one build.
type CacheStats struct {
	Hits   int
	Misses int
}

// Metrics is the fixed-shape observability block of a build.
type Metrics struct {
	Counters map[string]int
	Timings  map[string]time.Duration
	Cache    CacheStats
	Notes    []string
}

func newMetrics() Metrics {
	return Metrics{
		Counters: map[string]int{},
		Timings:  map[string]time.Duration{},
	}
}

// ProjectIndex is the complete index of one project snapshot.
type ProjectIndex struct {
	Root        string
	Files       []FileRecord
	Resources   []ResourceRecord
	Scopes      []ScopeRecord
	Occurrences []IdentifierOccurrence
	Bindings    []Binding
	Metrics     Metrics

	resourcesByName map[string]ResourceID
	bindingsByKey   map[bindingKey]BindingID
	enumScopes      map[string]ScopeID
}

type bindingKey struct {
	scope ScopeID
	name  string
}

// Scope returns the scope record for id, or nil for NoScope.
func (idx *ProjectIndex) Scope(id ScopeID) *ScopeRecord {
	if id < 0 || int(id) >= len(idx.Scopes) {
		return nil
	}
	return &idx.Scopes[id]
}

// Resource returns the resource record for id, or nil.
func (idx *ProjectIndex) Resource(id ResourceID) *ResourceRecord {
	if id < 0 || int(id) >= len(idx.Resources) {
		return nil
	}
	return &idx.Resources[id]
}

// ResourceByName returns the resource with the given canonical name.
func (idx *ProjectIndex) ResourceByName(name string) (*ResourceRecord, bool) {
	id, ok := idx.resourcesByName[name]
	if !ok {
		return nil, false
	}
	return &idx.Resources[id], true
}

// BindingAt returns the binding record for id, or nil.
func (idx *ProjectIndex) BindingAt(id BindingID) *Binding {
	if id < 0 || int(id) >= len(idx.Bindings) {
		return nil
	}
	return &idx.Bindings[id]
}

// LookupVisible finds the binding a name resolves to from the given scope,
// walking the parent chain. It reports false when no declaration is
// reachable.
func (idx *ProjectIndex) LookupVisible(scope ScopeID, name string) (BindingID, bool) {
	for s := scope; s != NoScope; s = idx.Scopes[s].Parent {
		if id, ok := idx.bindingsByKey[bindingKey{s, name}]; ok {
			return id, true
		}
	}
	return NoBinding, false
}

// FileByPath returns the file record for a root-relative path.
func (idx *ProjectIndex) FileByPath(path string) (*FileRecord, bool) {
	for i := range idx.Files {
		if idx.Files[i].Path == path {
			return &idx.Files[i], true
		}
	}
	return nil, false
}
