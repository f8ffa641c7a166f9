package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/version"
)

// Command defines a single CLI entrypoint.
type Command struct {
	Name    string
	Summary string

	// UsageLines are extra usage lines printed after the summary in help
	// output.
	UsageLines []string

	// Flags registers command-specific flags. Execute owns the flag set
	// and adds the shared -version flag itself.
	Flags func(fs *flag.FlagSet)

	// Run executes the command after flag parsing. Positional arguments
	// are available through fs.Args().
	Run func(fs *flag.FlagSet, stdout, stderr io.Writer) error
}

// ExitCodeError carries a specific process exit code out of a Command's Run
// function. Execute returns the code without printing the error, so commands
// can signal "completed with findings" states (see ExitWarning).
type ExitCodeError int

func (e ExitCodeError) Error() string {
	return fmt.Sprintf("exit code %d", int(e))
}

// Execute runs the command and returns a process exit code.
func Execute(cmd Command, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	showVersion := fs.Bool("version", false, "print version and exit")
	if cmd.Flags != nil {
		cmd.Flags(fs)
	}
	fs.Usage = func() {
		Writef(stderr, "Usage: %s [flags] [args]\n\n%s\n", cmd.Name, cmd.Summary)
		for _, line := range cmd.UsageLines {
			Writeln(stderr, line)
		}
		Writeln(stderr)
		Writeln(stderr, "Flags:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return ExitOK
		}
		return ExitError
	}

	if *showVersion {
		Writef(stdout, "%s %s\n", cmd.Name, version.String())
		return ExitOK
	}

	if cmd.Run == nil {
		Writef(stderr, "%s: no command configured\n", cmd.Name)
		return ExitError
	}

	if err := cmd.Run(fs, stdout, stderr); err != nil {
		var code ExitCodeError
		if errors.As(err, &code) {
			return int(code)
		}
		Writef(stderr, "%s: %v\n", cmd.Name, err)
		return ExitError
	}

	return ExitOK
}
