package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/gml/ast"
	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/gml/filekind"
	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/project/index"
)

func testFragment() *index.Fragment {
	return &index.Fragment{
		Path:        "scripts/scr_util/scr_util.gml",
		Kind:        filekind.KindScript,
		Fingerprint: "120:1700000000",
		Status:      index.ParseOK,
		Occurrences: []index.FragmentOccurrence{
			{
				Name:     "scr_util",
				Kind:     index.Declaration,
				Scope:    index.FragRootScope,
				Category: index.CategoryFunction,
				Range: ast.Range{
					Start: ast.Position{Offset: 9, Line: 1, Col: 10},
					End:   ast.Position{Offset: 17, Line: 1, Col: 18},
				},
			},
		},
	}
}

func TestRoundTrip(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	frag := testFragment()
	if err := store.Put(frag); err != nil {
		t.Fatal(err)
	}

	got, ok := store.Get(frag.Path, frag.Fingerprint)
	if !ok {
		t.Fatal("stored fragment missed")
	}
	if diff := cmp.Diff(frag, got); diff != "" {
		t.Errorf("fragment changed in the cache:\n%s", diff)
	}
}

func TestMissOnFingerprintChange(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	frag := testFragment()
	if err := store.Put(frag); err != nil {
		t.Fatal(err)
	}

	if _, ok := store.Get(frag.Path, "121:1700000099"); ok {
		t.Error("changed fingerprint hit the cache")
	}
	if _, ok := store.Get("other/path.gml", frag.Fingerprint); ok {
		t.Error("unknown path hit the cache")
	}
}

func TestCorruptEntryIsMissAndDeleted(t *testing.T) {
	root := t.TempDir()
	store, err := Open(root)
	if err != nil {
		t.Fatal(err)
	}
	frag := testFragment()
	if err := store.Put(frag); err != nil {
		t.Fatal(err)
	}

	file := filepath.Join(root, DirName, entryKey(frag.Path, frag.Fingerprint))
	if err := os.WriteFile(file, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	// A second store has no in-memory copy and must hit the corrupt file.
	fresh, err := Open(root)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := fresh.Get(frag.Path, frag.Fingerprint); ok {
		t.Fatal("corrupt entry hit the cache")
	}
	if _, err := os.Stat(file); !os.IsNotExist(err) {
		t.Error("corrupt entry was not deleted")
	}
}

func TestSurvivesReopen(t *testing.T) {
	root := t.TempDir()
	store, err := Open(root)
	if err != nil {
		t.Fatal(err)
	}
	frag := testFragment()
	if err := store.Put(frag); err != nil {
		t.Fatal(err)
	}

	reopened, err := Open(root)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := reopened.Get(frag.Path, frag.Fingerprint); !ok {
		t.Error("entry lost across reopen")
	}
}

func TestClear(t *testing.T) {
	root := t.TempDir()
	store, err := Open(root)
	if err != nil {
		t.Fatal(err)
	}
	frag := testFragment()
	if err := store.Put(frag); err != nil {
		t.Fatal(err)
	}
	if err := store.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, ok := store.Get(frag.Path, frag.Fingerprint); ok {
		t.Error("cleared entry still hits")
	}
}
