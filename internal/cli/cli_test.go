package cli

import (
	"bytes"
	"flag"
	"io"
	"strings"
	"testing"
)

func TestExitCodes(t *testing.T) {
	// Verify exit code values match expected Unix conventions
	if ExitOK != 0 {
		t.Errorf("ExitOK = %d, want 0", ExitOK)
	}
	if ExitError != 1 {
		t.Errorf("ExitError = %d, want 1", ExitError)
	}
	if ExitWarning != 2 {
		t.Errorf("ExitWarning = %d, want 2", ExitWarning)
	}
}

func TestWritef(t *testing.T) {
	var buf bytes.Buffer
	Writef(&buf, "hello %s, count=%d", "world", 42)

	got := buf.String()
	want := "hello world, count=42"
	if got != want {
		t.Errorf("Writef() = %q, want %q", got, want)
	}
}

func TestWriteln(t *testing.T) {
	tests := []struct {
		name string
		args []any
		want string
	}{
		{
			name: "no args",
			args: nil,
			want: "\n",
		},
		{
			name: "single arg",
			args: []any{"hello"},
			want: "hello\n",
		},
		{
			name: "multiple args",
			args: []any{"hello", "world", 42},
			want: "hello world 42\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			Writeln(&buf, tc.args...)

			got := buf.String()
			if got != tc.want {
				t.Errorf("Writeln() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	Write(&buf, "hello world")

	got := buf.String()
	want := "hello world"
	if got != want {
		t.Errorf("Write() = %q, want %q", got, want)
	}
}

func TestWriteBytes(t *testing.T) {
	var buf bytes.Buffer
	WriteBytes(&buf, []byte("hello world"))

	got := buf.String()
	want := "hello world"
	if got != want {
		t.Errorf("WriteBytes() = %q, want %q", got, want)
	}
}

func TestExitCodeError(t *testing.T) {
	err := ExitCodeError(42)

	if !strings.Contains(err.Error(), "42") {
		t.Errorf("ExitCodeError.Error() = %q, want to contain '42'", err.Error())
	}
}

func TestExecute_Version(t *testing.T) {
	cmd := Command{
		Name:    "testcmd",
		Summary: "test command",
		Run:     func(fs *flag.FlagSet, stdout, stderr io.Writer) error { return nil },
	}

	var stdout, stderr bytes.Buffer
	code := Execute(cmd, []string{"--version"}, &stdout, &stderr)

	if code != ExitOK {
		t.Errorf("Execute() with --version returned %d, want %d", code, ExitOK)
	}
	if !strings.Contains(stdout.String(), "testcmd") {
		t.Errorf("Execute() version output = %q, want to contain 'testcmd'", stdout.String())
	}
}

func TestExecute_Help(t *testing.T) {
	cmd := Command{
		Name:    "testcmd",
		Summary: "test command",
		Run:     func(fs *flag.FlagSet, stdout, stderr io.Writer) error { return nil },
	}

	var stdout, stderr bytes.Buffer
	code := Execute(cmd, []string{"--help"}, &stdout, &stderr)

	if code != ExitOK {
		t.Errorf("Execute() with --help returned %d, want %d", code, ExitOK)
	}
}

func TestExecute_CommandFlags(t *testing.T) {
	var verbose bool
	var gotArgs []string
	cmd := Command{
		Name:    "testcmd",
		Summary: "test command",
		Flags: func(fs *flag.FlagSet) {
			fs.BoolVar(&verbose, "verbose", false, "enable verbose output")
		},
		Run: func(fs *flag.FlagSet, stdout, stderr io.Writer) error {
			gotArgs = fs.Args()
			return nil
		},
	}

	var stdout, stderr bytes.Buffer
	code := Execute(cmd, []string{"--verbose", "some/path"}, &stdout, &stderr)

	if code != ExitOK {
		t.Fatalf("Execute() returned %d, want %d; stderr: %s", code, ExitOK, stderr.String())
	}
	if !verbose {
		t.Error("command flag was not parsed")
	}
	if len(gotArgs) != 1 || gotArgs[0] != "some/path" {
		t.Errorf("positional args = %v, want [some/path]", gotArgs)
	}
}

func TestExecute_ExitCodeError(t *testing.T) {
	cmd := Command{
		Name:    "testcmd",
		Summary: "test command",
		Run: func(fs *flag.FlagSet, stdout, stderr io.Writer) error {
			return ExitCodeError(ExitWarning)
		},
	}

	var stdout, stderr bytes.Buffer
	code := Execute(cmd, nil, &stdout, &stderr)

	if code != ExitWarning {
		t.Errorf("Execute() returned %d, want %d", code, ExitWarning)
	}
	if stderr.Len() != 0 {
		t.Errorf("ExitCodeError printed to stderr: %q", stderr.String())
	}
}
