package scanner

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"

	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/gml/filekind"
)

func writeFiles(t *testing.T, fs afero.Fs, files map[string]string) {
	t.Helper()
	for path, content := range files {
		if err := afero.WriteFile(fs, path, []byte(content), 0o644); err != nil {
			t.Fatalf("writing %s: %v", path, err)
		}
	}
}

func projectFs(t *testing.T) afero.Fs {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"game/mygame.yyp":                       `{"resources": []}`,
		"game/scripts/scr_util/scr_util.gml":    "function scr_util() {}",
		"game/scripts/scr_util/scr_util.yy":     `{"name": "scr_util"}`,
		"game/objects/obj_player/Create_0.gml":  "hp = 100;",
		"game/objects/obj_player/obj_player.yy": `{"name": "obj_player"}`,
		"game/sprites/spr_player/spr_player.yy": `{"name": "spr_player"}`,
		"game/datafiles/save.dat":               "binary",
		"game/.git/config":                      "noise",
		"game/README.md":                        "docs",
	})
	return fs
}

func TestScan_Deterministic(t *testing.T) {
	fs := projectFs(t)

	first, err := Scan("game", Options{Fs: fs})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	second, err := Scan("game", Options{Fs: fs})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if diff := cmp.Diff(first.Files, second.Files); diff != "" {
		t.Errorf("repeated scans differ (-first +second):\n%s", diff)
	}

	want := []string{
		"mygame.yyp",
		"objects/obj_player/Create_0.gml",
		"objects/obj_player/obj_player.yy",
		"scripts/scr_util/scr_util.gml",
		"scripts/scr_util/scr_util.yy",
		"sprites/spr_player/spr_player.yy",
	}
	var got []string
	for _, f := range first.Files {
		got = append(got, f.Path)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("scanned paths (-want +got):\n%s", diff)
	}
}

func TestScan_Kinds(t *testing.T) {
	fs := projectFs(t)

	result, err := Scan("game", Options{Fs: fs})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	kinds := map[string]filekind.Kind{}
	for _, f := range result.Files {
		kinds[f.Path] = f.Kind
	}
	if kinds["mygame.yyp"] != filekind.KindProject {
		t.Errorf("mygame.yyp kind = %v, want %v", kinds["mygame.yyp"], filekind.KindProject)
	}
	if kinds["scripts/scr_util/scr_util.gml"] != filekind.KindScript {
		t.Errorf("script kind = %v, want %v", kinds["scripts/scr_util/scr_util.gml"], filekind.KindScript)
	}
	if kinds["objects/obj_player/Create_0.gml"] != filekind.KindObjectEvent {
		t.Errorf("event kind = %v, want %v", kinds["objects/obj_player/Create_0.gml"], filekind.KindObjectEvent)
	}
}

func TestScan_MissingRoot(t *testing.T) {
	fs := afero.NewMemMapFs()

	if _, err := Scan("nowhere", Options{Fs: fs}); err == nil {
		t.Fatal("Scan() of missing root succeeded, want error")
	}
}

func TestScan_IgnoreGlobs(t *testing.T) {
	fs := projectFs(t)

	result, err := Scan("game", Options{Fs: fs, IgnoreGlobs: []string{"sprites/*/*.yy"}})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	for _, f := range result.Files {
		if f.Path == "sprites/spr_player/spr_player.yy" {
			t.Errorf("ignored file %s was scanned", f.Path)
		}
	}
}

func TestScan_SymlinkedDirectoriesNotFollowed(t *testing.T) {
	root := t.TempDir()
	scripts := filepath.Join(root, "scripts", "scr_util")
	if err := os.MkdirAll(scripts, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(scripts, "scr_util.gml"), []byte("var a = 1;\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	outside := t.TempDir()
	if err := os.WriteFile(filepath.Join(outside, "extra.gml"), []byte("var b = 1;\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(outside, filepath.Join(root, "linked")); err != nil {
		t.Skipf("symlinks not supported here: %v", err)
	}

	result, err := Scan(root, Options{})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	want := []string{"scripts/scr_util/scr_util.gml"}
	var got []string
	for _, f := range result.Files {
		got = append(got, f.Path)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("symlinked directory contributed files (-want +got):\n%s", diff)
	}
	if len(result.Notes) != 0 {
		t.Errorf("unexpected notes: %v", result.Notes)
	}
}

func TestScan_RootMayBeSymlink(t *testing.T) {
	real := t.TempDir()
	scripts := filepath.Join(real, "scripts", "scr_util")
	if err := os.MkdirAll(scripts, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(scripts, "scr_util.gml"), []byte("var a = 1;\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(t.TempDir(), "proj")
	if err := os.Symlink(real, link); err != nil {
		t.Skipf("symlinks not supported here: %v", err)
	}

	result, err := Scan(link, Options{})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(result.Files) != 1 || result.Files[0].Path != "scripts/scr_util/scr_util.gml" {
		t.Errorf("scan through symlinked root found %v", result.Files)
	}
}

func TestScan_FingerprintChangesWithMtime(t *testing.T) {
	fs := projectFs(t)

	before, err := Scan("game", Options{Fs: fs})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if err := fs.Chtimes("game/mygame.yyp", time.Now(), time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}
	after, err := Scan("game", Options{Fs: fs})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	fpBefore := fingerprintOf(t, before, "mygame.yyp")
	fpAfter := fingerprintOf(t, after, "mygame.yyp")
	if fpBefore == fpAfter {
		t.Errorf("fingerprint unchanged after mtime bump: %s", fpBefore)
	}
}

func TestScan_ContentHashIgnoresMtime(t *testing.T) {
	fs := projectFs(t)
	opts := Options{Fs: fs, ContentHash: true}

	before, err := Scan("game", opts)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if err := fs.Chtimes("game/mygame.yyp", time.Now(), time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}
	after, err := Scan("game", opts)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	fpBefore := fingerprintOf(t, before, "mygame.yyp")
	fpAfter := fingerprintOf(t, after, "mygame.yyp")
	if fpBefore != fpAfter {
		t.Errorf("content fingerprint changed after mtime-only bump: %s -> %s", fpBefore, fpAfter)
	}
}

func fingerprintOf(t *testing.T, r *Result, path string) Fingerprint {
	t.Helper()
	for _, f := range r.Files {
		if f.Path == path {
			return f.Fingerprint
		}
	}
	t.Fatalf("file %s not in scan result", path)
	return ""
}
