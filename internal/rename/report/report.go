// Package report renders rename plans for people and for machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/rename"
)

// SourceLoader reads one project file by root-relative path. The diff
// renderer uses it to show before/after previews.
type SourceLoader func(path string) ([]byte, error)

// Reporter renders one plan to a writer.
type Reporter interface {
	Report(w io.Writer, plan *rename.PlanResult) error
}

// NewText returns the human-readable reporter. load may be nil when
// showDiff is false.
func NewText(showDiff bool, load SourceLoader) Reporter {
	return &textReporter{showDiff: showDiff, load: load}
}

type textReporter struct {
	showDiff bool
	load     SourceLoader
}

func (r *textReporter) Report(w io.Writer, plan *rename.PlanResult) error {
	byFile := plan.OperationsByFile()
	for _, file := range plan.Files() {
		ops := byFile[file]
		fmt.Fprintf(w, "%s: %d renames\n", file, len(ops))
		for _, op := range ops {
			fmt.Fprintf(w, "  %d:%d %s -> %s\n", op.Range.Start.Line, op.Range.Start.Col, op.OldName, op.NewName)
		}
		if r.showDiff {
			if err := r.diff(w, file, ops); err != nil {
				return err
			}
		}
	}

	for _, c := range plan.Conflicts {
		fmt.Fprintf(w, "conflict: %s -> %s (%s): %s\n", c.Candidate.OldName, c.Candidate.NewName, c.Kind, c.Detail)
	}
	for _, h := range plan.Held {
		fmt.Fprintf(w, "held: %s %s -> %s (requires acknowledgement)\n", h.Category, h.OldName, h.NewName)
	}

	fmt.Fprintf(w, "%d operations, %d conflicts, %d held\n",
		len(plan.Operations), len(plan.Conflicts), len(plan.Held))
	return nil
}

func (r *textReporter) diff(w io.Writer, file string, ops []rename.RenameOperation) error {
	src, err := r.load(file)
	if err != nil {
		return fmt.Errorf("loading %s for diff: %w", file, err)
	}
	rewritten, err := rename.ApplyToSource(src, ops)
	if err != nil {
		return err
	}
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(src)),
		B:        difflib.SplitLines(string(rewritten)),
		FromFile: "a/" + file,
		ToFile:   "b/" + file,
		Context:  3,
	})
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, text)
	return err
}

// NewJSON returns the machine-readable reporter.
func NewJSON() Reporter {
	return jsonReporter{}
}

type jsonReporter struct{}

// jsonPlan is the stable output shape; renames here would break consumers.
type jsonPlan struct {
	Operations []rename.RenameOperation `json:"operations"`
	Conflicts  []rename.Conflict        `json:"conflicts"`
	Held       []rename.Candidate       `json:"held"`
	Counters   map[string]int           `json:"counters"`
}

func (jsonReporter) Report(w io.Writer, plan *rename.PlanResult) error {
	out := jsonPlan{
		Operations: plan.Operations,
		Conflicts:  plan.Conflicts,
		Held:       plan.Held,
		Counters:   plan.Metrics.Counters,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
