package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func waitBatch(t *testing.T, w *Watcher) Batch {
	t.Helper()
	select {
	case batch := <-w.Events:
		return batch
	case err := <-w.Errors:
		t.Fatalf("watcher error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a batch")
	}
	return Batch{}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestCoalescesBurst(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "scripts", "scr_a", "scr_a.gml"), "var a = 1;\n")
	writeFile(t, filepath.Join(root, "scripts", "scr_b", "scr_b.gml"), "var b = 2;\n")

	w, err := New(root, 100*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	writeFile(t, filepath.Join(root, "scripts", "scr_a", "scr_a.gml"), "var a = 10;\n")
	writeFile(t, filepath.Join(root, "scripts", "scr_b", "scr_b.gml"), "var b = 20;\n")

	batch := waitBatch(t, w)
	want := map[string]bool{
		"scripts/scr_a/scr_a.gml": true,
		"scripts/scr_b/scr_b.gml": true,
	}
	for _, p := range batch.Paths {
		if !want[p] {
			t.Errorf("unexpected path %q in batch", p)
		}
		delete(want, p)
	}
	if len(want) != 0 {
		t.Errorf("batch missing paths: %v (got %v)", want, batch.Paths)
	}
}

func TestIgnoresIrrelevantFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "scripts", "scr_a", "scr_a.gml"), "var a = 1;\n")

	w, err := New(root, 100*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	writeFile(t, filepath.Join(root, "notes.txt"), "irrelevant\n")
	writeFile(t, filepath.Join(root, "scripts", "scr_a", "scr_a.gml"), "var a = 2;\n")

	batch := waitBatch(t, w)
	for _, p := range batch.Paths {
		if p == "notes.txt" {
			t.Error("irrelevant file reported")
		}
	}
}

func TestWatchesNewDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "game.yyp"), "{}")

	w, err := New(root, 100*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := os.MkdirAll(filepath.Join(root, "objects", "obj_new"), 0o755); err != nil {
		t.Fatal(err)
	}
	// Give the watcher a moment to pick up the new directories.
	time.Sleep(200 * time.Millisecond)
	writeFile(t, filepath.Join(root, "objects", "obj_new", "Create_0.gml"), "hp = 1;\n")

	batch := waitBatch(t, w)
	found := false
	for _, p := range batch.Paths {
		if p == "objects/obj_new/Create_0.gml" {
			found = true
		}
	}
	if !found {
		t.Errorf("new directory's file not reported; batch: %v", batch.Paths)
	}
}
