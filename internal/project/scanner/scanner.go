// Package scanner discovers the candidate files of a GML project tree.
//
// Scanning is deterministic: the same root and filesystem state always yields
// the same ordered file list (lexicographic by slash-separated relative
// path). The filesystem is accessed through an afero.Fs so callers can
// substitute an in-memory tree for tests and benchmarks.
//
// Symbolic links below the root are not followed. Directory entries are
// lstat'd, so a symlinked directory is neither descended nor reported, and a
// symlinked file is skipped by kind detection. The root itself may be a
// symlink; it is resolved before walking so a root that links back into its
// own tree cannot loop.
package scanner

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/gml/filekind"
)

// Fingerprint is a cheap, comparable proxy for "has this file changed since
// it was last indexed": either size+mtime or a content hash, depending on
// Options.ContentHash.
type Fingerprint string

// FileInfo describes one discovered candidate file.
type FileInfo struct {
	// Path is the slash-separated path relative to the scanned root.
	Path string

	// Kind is the detected file kind. Only source and manifest kinds are
	// reported by Scan.
	Kind filekind.Kind

	// Fingerprint captures the file state at scan time.
	Fingerprint Fingerprint
}

// defaultIgnoredDirs are directory names never descended into. datafiles/
// holds packaged binary assets, not source.
var defaultIgnoredDirs = map[string]bool{
	"datafiles":    true,
	"node_modules": true,
}

// Options configures a scan.
type Options struct {
	// Fs is the filesystem facade. Defaults to the OS filesystem.
	Fs afero.Fs

	// IgnoreGlobs are path.Match patterns, matched against each candidate's
	// slash-separated relative path. Matching files and directories are
	// excluded.
	IgnoreGlobs []string

	// ContentHash switches fingerprints from size+mtime to a SHA-256 content
	// hash. Slower but immune to timestamp-only churn.
	ContentHash bool
}

// Result is the outcome of a scan.
type Result struct {
	// Files is the ordered, deduplicated candidate list.
	Files []FileInfo

	// Notes records non-fatal per-file problems (stat failures, unreadable
	// entries). The affected files are excluded from Files.
	Notes []string
}

// Scan walks the project root and returns the candidate file list. Failure
// to read the root directory is fatal; per-file failures are recorded as
// notes and skipped.
func Scan(root string, opts Options) (*Result, error) {
	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	if _, err := fs.Stat(root); err != nil {
		return nil, fmt.Errorf("reading project root %s: %w", root, err)
	}

	w := &walker{
		fs:      fs,
		root:    root,
		opts:    opts,
		visited: map[string]bool{},
	}
	if err := w.walkDir(root, ""); err != nil {
		return nil, err
	}

	sort.Slice(w.result.Files, func(i, j int) bool {
		return w.result.Files[i].Path < w.result.Files[j].Path
	})
	return &w.result, nil
}

type walker struct {
	fs      afero.Fs
	root    string
	opts    Options
	visited map[string]bool
	result  Result
}

// walkDir descends into dir (absolute/os form) whose relative slash path is
// rel ("" for the root). Root read failures are fatal; everything below is a
// note.
func (w *walker) walkDir(dir, rel string) error {
	canonical, skip := w.canonicalize(dir, rel)
	if skip {
		return nil
	}
	w.visited[canonical] = true

	entries, err := afero.ReadDir(w.fs, dir)
	if err != nil {
		if rel == "" {
			return fmt.Errorf("reading project root %s: %w", dir, err)
		}
		w.note("reading %s: %v", rel, err)
		return nil
	}

	// ReadDir order is not guaranteed by every afero backend.
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		name := entry.Name()
		entryRel := name
		if rel != "" {
			entryRel = rel + "/" + name
		}
		if w.ignored(name, entryRel, entry.IsDir()) {
			continue
		}
		entryPath := filepath.Join(dir, name)

		if entry.IsDir() {
			if err := w.walkDir(entryPath, entryRel); err != nil {
				return err
			}
			continue
		}

		kind := filekind.Detect(entryRel)
		if kind == filekind.KindUnknown {
			continue
		}
		fp, err := w.fingerprint(entryPath, entry)
		if err != nil {
			w.note("fingerprinting %s: %v", entryRel, err)
			continue
		}
		w.result.Files = append(w.result.Files, FileInfo{
			Path:        entryRel,
			Kind:        kind,
			Fingerprint: fp,
		})
	}
	return nil
}

// canonicalize resolves dir through symlinks where the backend allows it and
// reports whether the directory was already visited. Since entries below the
// root are lstat'd and symlinked directories never descended, this guards the
// case of a root path that itself resolves into the walked tree.
func (w *walker) canonicalize(dir, rel string) (string, bool) {
	canonical := dir
	if _, ok := w.fs.(*afero.OsFs); ok {
		if resolved, err := filepath.EvalSymlinks(dir); err == nil {
			canonical = resolved
		}
	}
	if w.visited[canonical] {
		w.note("skipping %s: symlink traversal cycle", rel)
		return canonical, true
	}
	return canonical, false
}

func (w *walker) ignored(name, rel string, isDir bool) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	if isDir && defaultIgnoredDirs[name] {
		return true
	}
	for _, glob := range w.opts.IgnoreGlobs {
		if matched, err := path.Match(glob, rel); err == nil && matched {
			return true
		}
		// Also match against the basename so "*.bak" style patterns work at
		// any depth.
		if matched, err := path.Match(glob, name); err == nil && matched {
			return true
		}
	}
	return false
}

func (w *walker) fingerprint(fullPath string, info os.FileInfo) (Fingerprint, error) {
	if !w.opts.ContentHash {
		return Fingerprint(fmt.Sprintf("%d-%d", info.Size(), info.ModTime().UnixNano())), nil
	}
	data, err := afero.ReadFile(w.fs, fullPath)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return Fingerprint("sha256-" + hex.EncodeToString(sum[:])), nil
}

func (w *walker) note(format string, args ...any) {
	w.result.Notes = append(w.result.Notes, fmt.Sprintf(format, args...))
}
