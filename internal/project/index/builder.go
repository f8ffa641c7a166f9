package index

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/spf13/afero"

	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/gml/filekind"
	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/gml/parser"
	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/project/scanner"
)

// Options configures a build.
type Options struct {
	// Fs is the filesystem to read from. Defaults to the OS filesystem.
	Fs afero.Fs

	// Parser parses .gml source files. Defaults to the built-in parser.
	Parser parser.Adapter

	// Cache is the optional fragment cache. Nil disables caching; builds
	// behave identically either way, only slower.
	Cache FragmentCache

	// Workers bounds the parse worker pool. Zero means GOMAXPROCS.
	Workers int

	// IgnoreGlobs are additional path patterns to skip while scanning.
	IgnoreGlobs []string

	// ContentHash switches file fingerprints from size+mtime to a content
	// hash.
	ContentHash bool

	// Logger receives progress lines. Nil silences them.
	Logger *log.Logger

	// LogMetrics logs the metrics block after a successful build.
	LogMetrics bool
}

func (o *Options) fill() {
	if o.Fs == nil {
		o.Fs = afero.NewOsFs()
	}
	if o.Parser == nil {
		o.Parser = parser.Default()
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
}

func (o *Options) logf(format string, args ...any) {
	if o.Logger != nil {
		o.Logger.Printf(format, args...)
	}
}

// Build scans root and produces a complete project index. Per-file parse
// failures are contained in the index; Build itself fails only when the
// root is unreadable or ctx is canceled. A canceled build returns no
// partial index.
func Build(ctx context.Context, root string, opts Options) (*ProjectIndex, error) {
	opts.fill()
	start := time.Now()

	scanStart := time.Now()
	scan, err := scanner.Scan(root, scanner.Options{
		Fs:          opts.Fs,
		IgnoreGlobs: opts.IgnoreGlobs,
		ContentHash: opts.ContentHash,
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	scanDur := time.Since(scanStart)
	opts.logf("scanned %s: %d files", root, len(scan.Files))

	parseStart := time.Now()
	frags, stats, err := parseAll(ctx, root, scan.Files, &opts)
	if err != nil {
		return nil, err
	}
	parseDur := time.Since(parseStart)

	mergeStart := time.Now()
	acc := newAccumulator(root)
	acc.idx.Metrics.Notes = append(acc.idx.Metrics.Notes, scan.Notes...)
	for _, fr := range frags {
		acc.addFragment(fr.frag, fr.fromCache)
	}
	mergeDur := time.Since(mergeStart)

	resolveStart := time.Now()
	idx := acc.finish()
	resolveDur := time.Since(resolveStart)

	idx.Metrics.Cache = stats
	idx.Metrics.Counters["files_cached"] = stats.Hits
	idx.Metrics.Timings["scan"] = scanDur
	idx.Metrics.Timings["parse"] = parseDur
	idx.Metrics.Timings["merge"] = mergeDur
	idx.Metrics.Timings["resolve"] = resolveDur
	idx.Metrics.Timings["total"] = time.Since(start)

	if opts.LogMetrics {
		logMetrics(&opts, idx)
	}
	return idx, nil
}

type builtFragment struct {
	frag      *Fragment
	fromCache bool
}

// parseAll produces one fragment per scanned file. Files are parsed by a
// bounded worker pool; results land in a position-indexed slice so the
// merge order matches the deterministic scan order no matter how the
// workers interleave.
func parseAll(ctx context.Context, root string, files []scanner.FileInfo, opts *Options) ([]builtFragment, CacheStats, error) {
	frags := make([]builtFragment, len(files))
	jobs := make(chan int)

	var (
		mu    sync.Mutex
		stats CacheStats
	)

	var wg sync.WaitGroup
	for w := 0; w < opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				frag, fromCache := buildFragment(root, files[i], opts)
				frags[i] = builtFragment{frag: frag, fromCache: fromCache}
				if opts.Cache != nil {
					mu.Lock()
					if fromCache {
						stats.Hits++
					} else {
						stats.Misses++
					}
					mu.Unlock()
				}
			}
		}()
	}

	canceled := false
feed:
	for i := range files {
		if ctx.Err() != nil {
			canceled = true
			break
		}
		select {
		case <-ctx.Done():
			canceled = true
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if canceled {
		return nil, CacheStats{}, fmt.Errorf("indexing %s: %w", root, ctx.Err())
	}
	return frags, stats, nil
}

// buildFragment parses or loads one file's fragment. Cache lookups key on
// (path, fingerprint); a hit skips the parse entirely.
func buildFragment(root string, info scanner.FileInfo, opts *Options) (*Fragment, bool) {
	if opts.Cache != nil {
		if frag, ok := opts.Cache.Get(info.Path, info.Fingerprint); ok {
			return frag, true
		}
	}

	frag := parseFragment(root, info, opts)
	if opts.Cache != nil && frag.Status == ParseOK {
		if err := opts.Cache.Put(frag); err != nil {
			opts.logf("cache put %s: %v", info.Path, err)
		}
	}
	return frag, false
}

func parseFragment(root string, info scanner.FileInfo, opts *Options) *Fragment {
	data, err := afero.ReadFile(opts.Fs, filepath.Join(root, filepath.FromSlash(info.Path)))
	if err != nil {
		return FailedFragment(info, err)
	}

	switch {
	case info.Kind == filekind.KindProject, info.Kind == filekind.KindResourceManifest:
		return ExtractManifest(info, data)
	case info.Kind.IsSource():
		file, err := opts.Parser.Parse(info.Path, data)
		if err != nil {
			return FailedFragment(info, err)
		}
		return ExtractSource(info, file)
	default:
		return FailedFragment(info, fmt.Errorf("unsupported file kind: %s", info.Kind))
	}
}

func logMetrics(opts *Options, idx *ProjectIndex) {
	m := idx.Metrics
	opts.logf("index: %d files (%d failed, %d cached), %d resources, %d scopes, %d occurrences, %d bindings",
		m.Counters["files"], m.Counters["files_failed"], m.Counters["files_cached"],
		m.Counters["resources"], m.Counters["scopes"], m.Counters["occurrences"], m.Counters["bindings"])
	opts.logf("timings: scan=%s parse=%s merge=%s resolve=%s total=%s",
		m.Timings["scan"], m.Timings["parse"], m.Timings["merge"], m.Timings["resolve"], m.Timings["total"])
	for _, note := range m.Notes {
		opts.logf("note: %s", note)
	}
}
