package rename

import (
	"context"
	"testing"

	"github.com/spf13/afero"

	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/project/index"
)

func TestApplyToSource(t *testing.T) {
	src := "function scr_a() {\n    var my_Var = 1;\n    return my_Var;\n}\n"
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "proj/scripts/scr_a/scr_a.gml", []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	idx, err := index.Build(context.Background(), "proj", index.Options{Fs: fs})
	if err != nil {
		t.Fatal(err)
	}
	plan := prepare(t, idx, localCamelPolicy())

	ops := plan.OperationsByFile()["scripts/scr_a/scr_a.gml"]
	got, err := ApplyToSource([]byte(src), ops)
	if err != nil {
		t.Fatal(err)
	}
	want := "function scr_a() {\n    var myVar = 1;\n    return myVar;\n}\n"
	if string(got) != want {
		t.Errorf("ApplyToSource:\n got %q\nwant %q", got, want)
	}
}

func TestApplyToSourceStale(t *testing.T) {
	idx := buildIndex(t, map[string]string{
		"scripts/scr_a/scr_a.gml": "function scr_a() {\n    var my_Var = 1;\n    return my_Var;\n}\n",
	})
	plan := prepare(t, idx, localCamelPolicy())
	ops := plan.OperationsByFile()["scripts/scr_a/scr_a.gml"]

	// A file edited after indexing must be rejected, not corrupted.
	edited := "// new header comment\nfunction scr_a() {\n    var my_Var = 1;\n    return my_Var;\n}\n"
	if _, err := ApplyToSource([]byte(edited), ops); err == nil {
		t.Fatal("stale source applied without error")
	}
}
