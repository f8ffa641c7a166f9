// Package gmlrename implements the gmlrename command: it plans identifier
// case renames against the project index and reports or applies the result.
package gmlrename

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/cli"
	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/gmlconfig"
	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/project/cache"
	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/project/index"
	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/rename"
	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/rename/report"
)

// Run executes gmlrename with the given arguments and returns the exit code.
func Run(args []string) int {
	return RunWithIO(args, os.Stdout, os.Stderr)
}

// RunWithIO allows custom IO for embedding and testing.
func RunWithIO(args []string, stdout, stderr io.Writer) int {
	return cli.Execute(Command(), args, stdout, stderr)
}

type renameFlags struct {
	json      bool
	diff      bool
	write     bool
	check     bool
	ackAssets bool
	noCache   bool
	config    string
}

// Command returns the gmlrename command definition.
func Command() cli.Command {
	f := &renameFlags{}
	return cli.Command{
		Name:    "gmlrename",
		Summary: "Plan identifier-case renames for a GameMaker project.",
		UsageLines: []string{
			"",
			"The casing policy comes from gml.toml. Without -w the plan is only",
			"reported; conflicts and held asset renames are never applied.",
		},
		Flags: f.register,
		Run:   f.run,
	}
}

func (f *renameFlags) register(fs *flag.FlagSet) {
	fs.BoolVar(&f.json, "json", false, "print the plan as JSON")
	fs.BoolVar(&f.diff, "diff", false, "show unified diffs of the planned changes")
	fs.BoolVar(&f.write, "w", false, "apply the plan to the project files")
	fs.BoolVar(&f.check, "check", false, "exit with a non-zero status if any renames are needed")
	fs.BoolVar(&f.ackAssets, "ack-assets", false, "include asset renames in the applicable plan")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable the on-disk fragment cache")
	fs.StringVar(&f.config, "config", "", "path to gml.toml (default: discovered)")
}

func (f *renameFlags) run(fs *flag.FlagSet, stdout, stderr io.Writer) error {
	if f.json && f.diff {
		return fmt.Errorf("cannot use --json and --diff together")
	}
	if f.write && f.check {
		return fmt.Errorf("cannot use -w and --check together")
	}
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
	policy, err := cfg.Policy()
	if err != nil {
		return err
	}
	if f.ackAssets {
		policy.AcknowledgeAssetRenames = true
	}

	logger := log.New(stderr, "", 0)
	opts := index.Options{
		Workers:     cfg.Index.Workers,
		IgnoreGlobs: cfg.Index.Ignore,
		ContentHash: cfg.Index.ContentHash,
		Logger:      logger,
	}
	if !f.noCache && !cfg.Index.DisableCache {
		store, err := cache.Open(root)
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		opts.Cache = store
	}

	idx, err := index.Build(context.Background(), root, opts)
	if err != nil {
		return err
	}

	plan, err := rename.NewPlanner(logger).PreparePlan(idx, policy)
	if err != nil {
		return err
	}

	load := func(path string) ([]byte, error) {
		return os.ReadFile(filepath.Join(root, filepath.FromSlash(path)))
	}
	var reporter report.Reporter
	if f.json {
		reporter = report.NewJSON()
	} else {
		reporter = report.NewText(f.diff, load)
	}
	if err := reporter.Report(stdout, plan); err != nil {
		return err
	}

	if f.check {
		if len(plan.Operations) > 0 || len(plan.Conflicts) > 0 || len(plan.Held) > 0 {
			return cli.ExitCodeError(cli.ExitWarning)
		}
		return nil
	}
	if !f.write {
		return nil
	}
	if err := apply(root, plan, load); err != nil {
		return err
	}
	cli.Writef(stderr, "gmlrename: rewrote %d file(s)\n", len(plan.Files()))
	return nil
}

func loadConfig(configFlag, root string) (*gmlconfig.Config, error) {
	if configFlag != "" {
		return gmlconfig.LoadConfig(configFlag)
	}
	cfg, _, err := gmlconfig.DiscoverConfig(root)
	return cfg, err
}

// apply rewrites every planned file in place. All files are transformed
// before any is written, so a stale-plan failure leaves the project
// untouched.
func apply(root string, plan *rename.PlanResult, load report.SourceLoader) error {
	byFile := plan.OperationsByFile()
	rewritten := map[string][]byte{}
	for _, file := range plan.Files() {
		src, err := load(file)
		if err != nil {
			return fmt.Errorf("reading %s: %w", file, err)
		}
		out, err := rename.ApplyToSource(src, byFile[file])
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		rewritten[file] = out
	}
	for file, out := range rewritten {
		full := filepath.Join(root, filepath.FromSlash(file))
		info, err := os.Stat(full)
		if err != nil {
			return err
		}
		if err := os.WriteFile(full, out, info.Mode().Perm()); err != nil {
			return fmt.Errorf("writing %s: %w", file, err)
		}
	}
	return nil
}
