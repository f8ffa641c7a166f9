package rename

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/gml/ast"
	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/gml/lang"
	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/project/index"
)

// ErrOverlappingRanges reports two rename operations targeting intersecting
// source ranges in one file. It indicates a bug in index construction, not
// bad input, and fails the whole plan.
var ErrOverlappingRanges = errors.New("overlapping rename ranges")

// Candidate is one identifier the policy wants to rename.
type Candidate struct {
	// Binding is the code binding, or NoBinding for asset candidates.
	Binding index.BindingID
	// Resource is the asset, or NoResource for code candidates.
	Resource index.ResourceID

	Category index.Category
	Scope    index.ScopeID
	OldName  string
	NewName  string

	// File and Offset locate the first declaration; they are the sort key
	// that makes candidate ordering, and therefore conflict tie-breaking,
	// reproducible.
	File   string
	Offset int

	// RequiresAck marks an asset candidate held out of the applicable
	// plan until asset renames are acknowledged.
	RequiresAck bool
}

// ConflictKind classifies why a candidate was rejected.
type ConflictKind string

const (
	ConflictExistingBinding ConflictKind = "collides-with-existing-binding"
	ConflictReservedWord    ConflictKind = "collides-with-reserved-word"
	ConflictCandidate       ConflictKind = "collides-with-another-candidate"
)

// Conflict is a rejected candidate. Conflicts are reported outcomes, not
// errors; the rest of the plan is unaffected.
type Conflict struct {
	Candidate Candidate
	Kind      ConflictKind
	Detail    string
}

// RenameOperation rewrites one occurrence. A plan carries one operation per
// occurrence of each accepted candidate, references included.
type RenameOperation struct {
	File    string
	Range   ast.Range
	OldName string
	NewName string
}

// PlanResult is the outcome of plan preparation.
type PlanResult struct {
	// Operations is the applicable plan, sorted by file then offset.
	Operations []RenameOperation
	// Conflicts lists rejected candidates in candidate order.
	Conflicts []Conflict
	// Held lists asset candidates awaiting acknowledgement.
	Held []Candidate
	// Metrics carries plan counters and timings.
	Metrics index.Metrics
}

// Planner prepares rename plans from a built index. Implementations must be
// deterministic and side-effect-free with respect to the index.
type Planner interface {
	PreparePlan(idx *index.ProjectIndex, policy CasingPolicy) (*PlanResult, error)
}

// NewPlanner returns the standard planner. Logger may be nil.
func NewPlanner(logger *log.Logger) Planner {
	return &planner{logger: logger}
}

type planner struct {
	logger *log.Logger
}

func (p *planner) logf(format string, args ...any) {
	if p.logger != nil {
		p.logger.Printf(format, args...)
	}
}

// PreparePlan computes candidates, rejects collisions in a single forward
// pass, and assembles per-occurrence operations. Given the same index and
// policy the result is byte-identical on every run.
func (p *planner) PreparePlan(idx *index.ProjectIndex, policy CasingPolicy) (*PlanResult, error) {
	start := time.Now()
	m := index.Metrics{
		Counters: map[string]int{},
		Timings:  map[string]time.Duration{},
	}

	candStart := time.Now()
	candidates := collectCandidates(idx, policy)
	m.Timings["candidates"] = time.Since(candStart)
	m.Counters["candidates"] = len(candidates)

	conflictStart := time.Now()
	accepted, conflicts, held := detectConflicts(idx, candidates)
	m.Timings["conflicts"] = time.Since(conflictStart)
	m.Counters["accepted"] = len(accepted)
	m.Counters["conflicts"] = len(conflicts)
	m.Counters["held"] = len(held)

	assembleStart := time.Now()
	ops, err := assemble(idx, accepted)
	if err != nil {
		return nil, err
	}
	m.Timings["assemble"] = time.Since(assembleStart)
	m.Counters["operations"] = len(ops)
	m.Cache = idx.Metrics.Cache
	m.Timings["total"] = time.Since(start)

	p.logf("plan: %d candidates, %d accepted, %d conflicts, %d held, %d operations",
		len(candidates), len(accepted), len(conflicts), len(held), len(ops))

	return &PlanResult{
		Operations: ops,
		Conflicts:  conflicts,
		Held:       held,
		Metrics:    m,
	}, nil
}

// collectCandidates walks bindings and resources, applying the policy.
// Identifiers already in the target form produce no candidate.
func collectCandidates(idx *index.ProjectIndex, policy CasingPolicy) []Candidate {
	var candidates []Candidate

	for i := range idx.Bindings {
		b := &idx.Bindings[i]
		style, ok := policy.Rules[b.Category]
		if !ok {
			continue
		}
		target := style.Apply(b.Name)
		if target == b.Name {
			continue
		}
		// Occurrences are appended in index order with declarations
		// first, so the head is the earliest declaration.
		first := idx.Occurrences[b.Occurrences[0]]
		candidates = append(candidates, Candidate{
			Binding:  b.ID,
			Resource: index.NoResource,
			Category: b.Category,
			Scope:    b.Scope,
			OldName:  b.Name,
			NewName:  target,
			File:     first.File,
			Offset:   first.Range.Start.Offset,
		})
	}

	for i := range idx.Resources {
		res := &idx.Resources[i]
		style, ok := policy.Assets[res.Category]
		if !ok {
			continue
		}
		target := style.Apply(res.Name)
		if target == res.Name {
			continue
		}
		candidates = append(candidates, Candidate{
			Binding:     index.NoBinding,
			Resource:    res.ID,
			Category:    index.CategoryAsset,
			Scope:       index.GlobalScope,
			OldName:     res.Name,
			NewName:     target,
			File:        res.File,
			RequiresAck: !policy.AcknowledgeAssetRenames,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].File != candidates[j].File {
			return candidates[i].File < candidates[j].File
		}
		return candidates[i].Offset < candidates[j].Offset
	})
	return candidates
}

type nameKey struct {
	scope index.ScopeID
	name  string
}

// detectConflicts runs the single forward pass over sorted candidates.
// Accepted candidates are never revoked by later ones; on a
// candidate-candidate collision the later candidate loses.
func detectConflicts(idx *index.ProjectIndex, candidates []Candidate) (accepted []Candidate, conflicts []Conflict, held []Candidate) {
	taken := map[nameKey]bool{}

	for _, c := range candidates {
		if lang.IsReserved(c.NewName) {
			conflicts = append(conflicts, Conflict{
				Candidate: c,
				Kind:      ConflictReservedWord,
				Detail:    fmt.Sprintf("%s is a reserved word", c.NewName),
			})
			continue
		}
		if kind, detail, collides := existingCollision(idx, c); collides {
			conflicts = append(conflicts, Conflict{Candidate: c, Kind: kind, Detail: detail})
			continue
		}
		if taken[nameKey{c.Scope, c.NewName}] {
			conflicts = append(conflicts, Conflict{
				Candidate: c,
				Kind:      ConflictCandidate,
				Detail:    fmt.Sprintf("an earlier candidate in the same scope also renames to %s", c.NewName),
			})
			continue
		}
		if c.RequiresAck {
			// Held candidates pass conflict checks but claim no name: they
			// are outside the applicable plan until acknowledged.
			held = append(held, c)
			continue
		}
		taken[nameKey{c.Scope, c.NewName}] = true
		accepted = append(accepted, c)
	}
	return accepted, conflicts, held
}

// existingCollision reports whether the new name already denotes something
// else reachable from the candidate's scope.
func existingCollision(idx *index.ProjectIndex, c Candidate) (ConflictKind, string, bool) {
	if id, ok := idx.LookupVisible(c.Scope, c.NewName); ok && id != c.Binding {
		b := idx.BindingAt(id)
		return ConflictExistingBinding,
			fmt.Sprintf("%s already names a %s in a reachable scope", c.NewName, b.Category), true
	}
	if res, ok := idx.ResourceByName(c.NewName); ok && res.ID != c.Resource {
		return ConflictExistingBinding,
			fmt.Sprintf("%s already names a %s resource", c.NewName, res.Category), true
	}
	return "", "", false
}

// assemble emits one operation per occurrence of each accepted candidate
// and asserts that no two operations in one file overlap.
func assemble(idx *index.ProjectIndex, accepted []Candidate) ([]RenameOperation, error) {
	var ops []RenameOperation
	for _, c := range accepted {
		occs := candidateOccurrences(idx, c)
		for _, i := range occs {
			occ := idx.Occurrences[i]
			ops = append(ops, RenameOperation{
				File:    occ.File,
				Range:   occ.Range,
				OldName: c.OldName,
				NewName: c.NewName,
			})
		}
	}

	sort.Slice(ops, func(i, j int) bool {
		if ops[i].File != ops[j].File {
			return ops[i].File < ops[j].File
		}
		return ops[i].Range.Start.Offset < ops[j].Range.Start.Offset
	})

	for i := 1; i < len(ops); i++ {
		prev, cur := ops[i-1], ops[i]
		if prev.File == cur.File && cur.Range.Start.Offset < prev.Range.End.Offset {
			return nil, fmt.Errorf("%s at %s offset %d: %w",
				cur.OldName, cur.File, cur.Range.Start.Offset, ErrOverlappingRanges)
		}
	}
	return ops, nil
}

func candidateOccurrences(idx *index.ProjectIndex, c Candidate) []int {
	if c.Binding != index.NoBinding {
		return idx.BindingAt(c.Binding).Occurrences
	}
	return idx.Resource(c.Resource).Occurrences
}
