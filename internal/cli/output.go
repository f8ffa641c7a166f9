package cli

import (
	"fmt"
	"io"
)

// Writef writes formatted output to the writer.
//
// Write errors are ignored: command output goes to stdout/stderr, where
// there is no reasonable recovery from a broken pipe, and the exit code
// already reflects the operation's outcome.
//
// Example:
//
//	cli.Writef(stdout, "%d file(s) failed to parse\n", failed)
func Writef(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}

// Writeln writes a line to the writer, ignoring write errors like Writef.
//
// Example:
//
//	cli.Writeln(stderr, "error:", err)
//	cli.Writeln(stdout) // blank line
func Writeln(w io.Writer, args ...any) {
	_, _ = fmt.Fprintln(w, args...)
}

// Write writes a string to the writer, ignoring write errors like Writef.
//
// Example:
//
//	cli.Write(stderr, "gmlindex: watching for changes\n")
func Write(w io.Writer, s string) {
	_, _ = io.WriteString(w, s)
}

// WriteBytes writes bytes to the writer, ignoring write errors like Writef.
//
// Example:
//
//	cli.WriteBytes(stdout, summaryJSON)
func WriteBytes(w io.Writer, b []byte) {
	_, _ = w.Write(b)
}
