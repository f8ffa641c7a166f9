package index

import (
	"fmt"

	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/gml/lang"
)

// resolve links occurrences to bindings in two passes: declarations first so
// forward references within and across files work, then references. The
// index is finalized after resolve; nothing mutates it afterwards.
func resolve(idx *ProjectIndex) {
	declarations(idx)
	references(idx)
}

func declarations(idx *ProjectIndex) {
	for i := range idx.Occurrences {
		occ := &idx.Occurrences[i]
		if occ.Kind != Declaration {
			continue
		}
		scope := occ.Scope
		if occ.Qualifier == "global" {
			// globalvar, global.name writes, enums and macros declared
			// inside nested scopes all bind project-wide.
			scope = GlobalScope
			occ.Scope = GlobalScope
		}
		key := bindingKey{scope, occ.Name}
		if id, ok := idx.bindingsByKey[key]; ok {
			b := &idx.Bindings[id]
			if note, ok := duplicateNote(idx, b, occ); ok {
				idx.Metrics.Notes = append(idx.Metrics.Notes, note)
			}
			b.Occurrences = append(b.Occurrences, i)
			occ.Binding = id
			continue
		}
		id := BindingID(len(idx.Bindings))
		idx.Bindings = append(idx.Bindings, Binding{
			ID:          id,
			Scope:       scope,
			Name:        occ.Name,
			Category:    occ.Category,
			Occurrences: []int{i},
		})
		idx.bindingsByKey[key] = id
		occ.Binding = id
	}
}

// duplicateNote reports redeclarations that are likely authoring mistakes:
// two files defining the same global function, macro, or enum. Instance
// variables assigned in several events and locals redeclared with var are
// normal GML and stay silent.
func duplicateNote(idx *ProjectIndex, b *Binding, occ *IdentifierOccurrence) (string, bool) {
	switch occ.Category {
	case CategoryFunction, CategoryMacro, CategoryEnum:
	default:
		return "", false
	}
	if b.Category != occ.Category {
		return fmt.Sprintf("conflicting declarations of %s: %s and %s", occ.Name, b.Category, occ.Category), true
	}
	first := idx.Occurrences[b.Occurrences[0]]
	if first.File == occ.File {
		return "", false
	}
	return fmt.Sprintf("duplicate %s declaration: %s in %s and %s", occ.Category, occ.Name, first.File, occ.File), true
}

func references(idx *ProjectIndex) {
	for i := range idx.Occurrences {
		occ := &idx.Occurrences[i]
		if occ.Kind != Reference {
			continue
		}
		switch {
		case occ.Qualifier == "global":
			if id, ok := idx.bindingsByKey[bindingKey{GlobalScope, occ.Name}]; ok {
				bind(idx, occ, i, id)
				continue
			}
			occ.Unresolved = true
			idx.Metrics.Counters["unresolved"]++
			idx.Metrics.Notes = append(idx.Metrics.Notes,
				fmt.Sprintf("unresolved global.%s at %s:%d", occ.Name, occ.File, occ.Range.Start.Line))

		case occ.Qualifier == "?":
			// Member access through a value; owner unknown, resolved
			// softly without a note.
			occ.Unresolved = true

		case occ.Qualifier != "":
			resolveQualified(idx, occ, i)

		default:
			resolveUnqualified(idx, occ, i)
		}
	}
}

// resolveQualified handles base.name accesses with a known base identifier.
// When the base names an enum the member must exist; any other base is an
// instance or struct whose fields the indexer cannot see, so the member
// resolves softly.
func resolveQualified(idx *ProjectIndex, occ *IdentifierOccurrence, i int) {
	enumScope, ok := idx.enumScopes[occ.Qualifier]
	if !ok {
		occ.Unresolved = true
		return
	}
	if id, ok := idx.bindingsByKey[bindingKey{enumScope, occ.Name}]; ok {
		bind(idx, occ, i, id)
		return
	}
	occ.Unresolved = true
	idx.Metrics.Counters["unresolved"]++
	idx.Metrics.Notes = append(idx.Metrics.Notes,
		fmt.Sprintf("enum %s has no member %s at %s:%d", occ.Qualifier, occ.Name, occ.File, occ.Range.Start.Line))
}

// resolveUnqualified walks the scope chain, then falls back to resource
// names and language builtins before declaring a reference unresolved.
func resolveUnqualified(idx *ProjectIndex, occ *IdentifierOccurrence, i int) {
	if id, ok := idx.LookupVisible(occ.Scope, occ.Name); ok {
		bind(idx, occ, i, id)
		return
	}
	if res, ok := idx.ResourceByName(occ.Name); ok {
		occ.Resource = res.ID
		res.Occurrences = append(res.Occurrences, i)
		return
	}
	if lang.IsReserved(occ.Name) {
		occ.Builtin = true
		return
	}
	occ.Unresolved = true
	idx.Metrics.Counters["unresolved"]++
	idx.Metrics.Notes = append(idx.Metrics.Notes,
		fmt.Sprintf("unresolved identifier %s at %s:%d", occ.Name, occ.File, occ.Range.Start.Line))
}

func bind(idx *ProjectIndex, occ *IdentifierOccurrence, i int, id BindingID) {
	occ.Binding = id
	idx.Bindings[id].Occurrences = append(idx.Bindings[id].Occurrences, i)
}
