// Package gmlindex implements the gmlindex command: it builds the project
// index and prints a summary of files, resources, scopes, and identifier
// occurrences.
package gmlindex

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/cli"
	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/gmlconfig"
	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/project/cache"
	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/project/index"
	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/project/watch"
)

// Run executes gmlindex with the given arguments and returns the exit code.
func Run(args []string) int {
	return RunWithIO(args, os.Stdout, os.Stderr)
}

// RunWithIO allows custom IO for embedding and testing.
func RunWithIO(args []string, stdout, stderr io.Writer) int {
	return cli.Execute(Command(), args, stdout, stderr)
}

type indexFlags struct {
	json        bool
	metrics     bool
	noCache     bool
	watch       bool
	contentHash bool
	config      string
	workers     int
}

// Command returns the gmlindex command definition.
func Command() cli.Command {
	f := &indexFlags{}
	return cli.Command{
		Name:    "gmlindex",
		Summary: "Index a GameMaker project: files, resources, scopes, and identifier occurrences.",
		UsageLines: []string{
			"",
			"With no root argument, indexes the current directory.",
		},
		Flags: f.register,
		Run:   f.run,
	}
}

func (f *indexFlags) register(fs *flag.FlagSet) {
	fs.BoolVar(&f.json, "json", false, "print the index summary as JSON")
	fs.BoolVar(&f.metrics, "metrics", false, "log timings and counters after the build")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable the on-disk fragment cache")
	fs.BoolVar(&f.watch, "watch", false, "keep running and reindex on file changes")
	fs.BoolVar(&f.contentHash, "content-hash", false, "fingerprint files by content instead of size+mtime")
	fs.StringVar(&f.config, "config", "", "path to gml.toml (default: discovered)")
	fs.IntVar(&f.workers, "workers", 0, "parse worker count (default: one per CPU)")
}

func (f *indexFlags) run(fs *flag.FlagSet, stdout, stderr io.Writer) error {
	if fs.NArg() > 1 {
		return fmt.Errorf("at most one project root expected")
	}
	root := "."
	if fs.NArg() > 0 {
		root = fs.Arg(0)
	}

	cfg, err := loadConfig(f.config, root)
	if err != nil {
		return err
	}

	opts := index.Options{
		Workers:     cfg.Index.Workers,
		IgnoreGlobs: cfg.Index.Ignore,
		ContentHash: cfg.Index.ContentHash || f.contentHash,
		Logger:      log.New(stderr, "", 0),
		LogMetrics:  f.metrics,
	}
	if f.workers > 0 {
		opts.Workers = f.workers
	}
	if !f.noCache && !cfg.Index.DisableCache {
		store, err := cache.Open(root)
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		opts.Cache = store
	}

	ctx := context.Background()
	idx, err := index.Build(ctx, root, opts)
	if err != nil {
		return err
	}
	if err := printSummary(stdout, idx, f.json); err != nil {
		return err
	}

	if !f.watch {
		return nil
	}
	return watchLoop(ctx, root, opts, cfg, f.json, stdout, stderr)
}

func loadConfig(configFlag, root string) (*gmlconfig.Config, error) {
	if configFlag != "" {
		return gmlconfig.LoadConfig(configFlag)
	}
	cfg, _, err := gmlconfig.DiscoverConfig(root)
	return cfg, err
}

// watchLoop rebuilds the index on every change batch until ctx ends or the
// watcher fails.
func watchLoop(ctx context.Context, root string, opts index.Options, cfg *gmlconfig.Config, asJSON bool, stdout, stderr io.Writer) error {
	w, err := watch.New(root, cfg.Watch.Debounce.Duration)
	if err != nil {
		return err
	}
	defer w.Close()

	cli.Write(stderr, "gmlindex: watching for changes (interrupt to stop)\n")
	for {
		select {
		case <-ctx.Done():
			return nil

		case err := <-w.Errors:
			cli.Writef(stderr, "gmlindex: watch: %v\n", err)

		case batch := <-w.Events:
			cli.Writef(stderr, "gmlindex: %d file(s) changed, reindexing\n", len(batch.Paths))
			idx, err := index.Build(ctx, root, opts)
			if err != nil {
				cli.Writef(stderr, "gmlindex: %v\n", err)
				continue
			}
			if err := printSummary(stdout, idx, asJSON); err != nil {
				return err
			}
		}
	}
}

// summary is the stable JSON output shape.
type summary struct {
	Root      string                 `json:"root"`
	Files     []index.FileRecord     `json:"files"`
	Resources []index.ResourceRecord `json:"resources"`
	Counters  map[string]int         `json:"counters"`
	Notes     []string               `json:"notes,omitempty"`
}

func printSummary(w io.Writer, idx *index.ProjectIndex, asJSON bool) error {
	if asJSON {
		data, err := json.MarshalIndent(summary{
			Root:      idx.Root,
			Files:     idx.Files,
			Resources: idx.Resources,
			Counters:  idx.Metrics.Counters,
			Notes:     idx.Metrics.Notes,
		}, "", "  ")
		if err != nil {
			return err
		}
		cli.WriteBytes(w, append(data, '\n'))
		return nil
	}

	c := idx.Metrics.Counters
	cli.Writef(w, "%s: %d files, %d resources, %d scopes, %d bindings, %d occurrences\n",
		idx.Root, c["files"], c["resources"], c["scopes"], c["bindings"], c["occurrences"])
	if c["files_failed"] > 0 {
		cli.Writef(w, "%d file(s) failed to parse\n", c["files_failed"])
	}
	if c["files_cached"] > 0 {
		cli.Writef(w, "%d file(s) served from cache\n", c["files_cached"])
	}
	for _, note := range idx.Metrics.Notes {
		cli.Writef(w, "note: %s\n", note)
	}
	return nil
}
