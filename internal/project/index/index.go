package index

import (
	"fmt"

	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/gml/filekind"
)

// accumulator merges fragments into a ProjectIndex. Fragments must be added
// in deterministic (scan) order; the accumulator itself is sequential.
type accumulator struct {
	idx            *ProjectIndex
	instanceScopes map[string]ScopeID
}

func newAccumulator(root string) *accumulator {
	idx := &ProjectIndex{
		Root:            root,
		Metrics:         newMetrics(),
		resourcesByName: map[string]ResourceID{},
		bindingsByKey:   map[bindingKey]BindingID{},
		enumScopes:      map[string]ScopeID{},
	}
	idx.Scopes = append(idx.Scopes, ScopeRecord{
		ID:     GlobalScope,
		Kind:   ScopeGlobal,
		Parent: NoScope,
	})
	return &accumulator{
		idx:            idx,
		instanceScopes: map[string]ScopeID{},
	}
}

func (a *accumulator) note(format string, args ...any) {
	a.idx.Metrics.Notes = append(a.idx.Metrics.Notes, fmt.Sprintf(format, args...))
}

// instanceScope returns the shared instance scope for an object, creating it
// on first use. All event files of one object land in the same scope.
func (a *accumulator) instanceScope(object string) ScopeID {
	if id, ok := a.instanceScopes[object]; ok {
		return id
	}
	id := ScopeID(len(a.idx.Scopes))
	a.idx.Scopes = append(a.idx.Scopes, ScopeRecord{
		ID:     id,
		Kind:   ScopeInstance,
		Parent: GlobalScope,
		Name:   object,
	})
	a.instanceScopes[object] = id
	return id
}

// addResource records a resource definition. The .yyp lists every resource
// that also names itself in its own .yy, so a project-manifest entry and the
// matching .yy count as one declaration, with the resource's own manifest as
// the declaring file. Only two resource manifests claiming the same name is
// a duplicate.
func (a *accumulator) addResource(name string, cat ResourceCategory, file string, kind filekind.Kind) {
	if id, ok := a.idx.resourcesByName[name]; ok {
		prev := &a.idx.Resources[id]
		prevKind := filekind.Detect(prev.File)
		if prev.File != file && kind != filekind.KindProject && prevKind != filekind.KindProject {
			a.note("duplicate resource definition: %s in %s and %s", name, prev.File, file)
		}
		if kind != filekind.KindProject || prevKind == filekind.KindProject {
			prev.File = file
		}
		if prev.Category == ResourceOther && cat != ResourceOther {
			prev.Category = cat
		}
		return
	}
	id := ResourceID(len(a.idx.Resources))
	a.idx.Resources = append(a.idx.Resources, ResourceRecord{
		ID:       id,
		Name:     name,
		Category: cat,
		File:     file,
	})
	a.idx.resourcesByName[name] = id
}

// addFragment folds one fragment into the index, remapping the fragment's
// local scope indices into the arena.
func (a *accumulator) addFragment(frag *Fragment, fromCache bool) {
	rec := FileRecord{
		Path:        frag.Path,
		Kind:        frag.Kind,
		Fingerprint: frag.Fingerprint,
		Status:      frag.Status,
		FailReason:  frag.FailReason,
		FromCache:   fromCache,
	}
	a.idx.Metrics.Notes = append(a.idx.Metrics.Notes, frag.Notes...)

	if frag.Status == ParseFailed {
		a.idx.Metrics.Counters["files_failed"]++
		a.note("parse failed: %s: %s", frag.Path, frag.FailReason)
		a.idx.Files = append(a.idx.Files, rec)
		return
	}

	for _, res := range frag.Resources {
		a.addResource(res.Name, res.Category, frag.Path, frag.Kind)
	}

	root := GlobalScope
	if object := ObjectOf(frag.Path); object != "" {
		root = a.instanceScope(object)
	}

	mapped := make([]ScopeID, len(frag.Scopes))
	for i, sc := range frag.Scopes {
		// Enum scopes are keyed by name project-wide so members of a
		// redeclared enum merge into one scope.
		if sc.Kind == ScopeEnum {
			if id, ok := a.idx.enumScopes[sc.Name]; ok {
				mapped[i] = id
				continue
			}
		}
		parent := a.remap(sc.Parent, root, mapped[:i])
		id := ScopeID(len(a.idx.Scopes))
		a.idx.Scopes = append(a.idx.Scopes, ScopeRecord{
			ID:     id,
			Kind:   sc.Kind,
			Parent: parent,
			Name:   sc.Name,
			File:   frag.Path,
		})
		mapped[i] = id
		rec.Scopes = append(rec.Scopes, id)
		if sc.Kind == ScopeEnum {
			a.idx.enumScopes[sc.Name] = id
		}
	}

	for _, occ := range frag.Occurrences {
		a.idx.Occurrences = append(a.idx.Occurrences, IdentifierOccurrence{
			Name:      occ.Name,
			Kind:      occ.Kind,
			Scope:     a.remap(occ.Scope, root, mapped),
			Category:  occ.Category,
			Qualifier: occ.Qualifier,
			File:      frag.Path,
			Range:     occ.Range,
			Binding:   NoBinding,
			Resource:  NoResource,
		})
	}

	a.idx.Files = append(a.idx.Files, rec)
}

// remap translates a fragment-local scope reference into an arena ID.
func (a *accumulator) remap(local int, root ScopeID, mapped []ScopeID) ScopeID {
	switch local {
	case FragRootScope:
		return root
	case FragGlobalScope:
		return GlobalScope
	default:
		return mapped[local]
	}
}

// finish runs resolution and fills the summary counters.
func (a *accumulator) finish() *ProjectIndex {
	idx := a.idx
	resolve(idx)
	idx.Metrics.Counters["files"] = len(idx.Files)
	idx.Metrics.Counters["resources"] = len(idx.Resources)
	idx.Metrics.Counters["scopes"] = len(idx.Scopes)
	idx.Metrics.Counters["occurrences"] = len(idx.Occurrences)
	idx.Metrics.Counters["bindings"] = len(idx.Bindings)
	return idx
}
