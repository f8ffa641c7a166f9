package rename

import (
	"fmt"
	"sort"
)

// OperationsByFile groups the applicable plan per file, preserving the
// sorted offset order within each file.
func (r *PlanResult) OperationsByFile() map[string][]RenameOperation {
	byFile := map[string][]RenameOperation{}
	for _, op := range r.Operations {
		byFile[op.File] = append(byFile[op.File], op)
	}
	return byFile
}

// Files returns the sorted list of files the plan touches.
func (r *PlanResult) Files() []string {
	byFile := r.OperationsByFile()
	files := make([]string, 0, len(byFile))
	for f := range byFile {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// ApplyToSource rewrites src with one file's operations. The source must be
// the same snapshot the index was built from: every operation's range must
// still hold the old name, otherwise the plan is stale and applying it
// would corrupt the file.
func ApplyToSource(src []byte, ops []RenameOperation) ([]byte, error) {
	out := make([]byte, 0, len(src))
	cursor := 0
	for _, op := range ops {
		start, end := op.Range.Start.Offset, op.Range.End.Offset
		if start < cursor || end > len(src) {
			return nil, fmt.Errorf("rename of %s at offset %d: %w", op.OldName, start, ErrOverlappingRanges)
		}
		if string(src[start:end]) != op.OldName {
			return nil, fmt.Errorf("stale plan: expected %q at offset %d, found %q",
				op.OldName, start, src[start:end])
		}
		out = append(out, src[cursor:start]...)
		out = append(out, op.NewName...)
		cursor = end
	}
	out = append(out, src[cursor:]...)
	return out, nil
}
