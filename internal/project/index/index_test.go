package index

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"

	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/gml/filekind"
	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/project/scanner"
)

const gameManifest = `{
  "resources": [
    {"id": {"name": "obj_player", "path": "objects/obj_player/obj_player.yy"},},
    {"id": {"name": "scr_util", "path": "scripts/scr_util/scr_util.yy"},},
    {"id": {"name": "spr_player", "path": "sprites/spr_player/spr_player.yy"},},
  ],
}`

const utilScript = `#macro MAX_HP 100
enum State {
    Idle,
    Walk = 2
}
globalvar debug_mode;
function scr_util(amount) {
    var total = amount + MAX_HP;
    return total;
}
`

const createEvent = `hp = MAX_HP;
state = State.Idle;
global.score = 0;
`

const stepEvent = `if (hp > 0) {
    hp -= 1;
    x += speeed;
}
scr_util(hp);
sprite_index = spr_player;
`

func testProject(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	files := map[string]string{
		"game.yyp":                         gameManifest,
		"objects/obj_player/obj_player.yy": `{"name": "obj_player", "resourceType": "GMObject"}`,
		"objects/obj_player/Create_0.gml":  createEvent,
		"objects/obj_player/Step_0.gml":    stepEvent,
		"scripts/scr_util/scr_util.yy":     `{"name": "scr_util", "resourceType": "GMScript"}`,
		"scripts/scr_util/scr_util.gml":    utilScript,
		"sprites/spr_player/spr_player.yy": `{"name": "spr_player", "resourceType": "GMSprite"}`,
	}
	for path, src := range files {
		if err := afero.WriteFile(fs, "proj/"+path, []byte(src), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return fs
}

func buildTestIndex(t *testing.T, fs afero.Fs, opts Options) *ProjectIndex {
	t.Helper()
	opts.Fs = fs
	idx, err := Build(context.Background(), "proj", opts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return idx
}

func findScope(t *testing.T, idx *ProjectIndex, kind ScopeKind, name string) ScopeID {
	t.Helper()
	for _, sc := range idx.Scopes {
		if sc.Kind == kind && sc.Name == name {
			return sc.ID
		}
	}
	t.Fatalf("no %s scope named %q", kind, name)
	return NoScope
}

func hasNote(idx *ProjectIndex, substr string) bool {
	for _, n := range idx.Metrics.Notes {
		if strings.Contains(n, substr) {
			return true
		}
	}
	return false
}

func TestBuildSmallProject(t *testing.T) {
	idx := buildTestIndex(t, testProject(t), Options{})

	if got := idx.Metrics.Counters["files"]; got != 7 {
		t.Fatalf("files = %d, want 7", got)
	}
	if got := idx.Metrics.Counters["files_failed"]; got != 0 {
		t.Errorf("files_failed = %d, want 0", got)
	}

	for _, name := range []string{"obj_player", "scr_util", "spr_player"} {
		if _, ok := idx.ResourceByName(name); !ok {
			t.Errorf("missing resource %q", name)
		}
	}
	res, _ := idx.ResourceByName("spr_player")
	if res.Category != ResourceSprite {
		t.Errorf("spr_player category = %s, want %s", res.Category, ResourceSprite)
	}
	if len(res.Occurrences) != 1 {
		t.Errorf("spr_player occurrences = %d, want 1", len(res.Occurrences))
	}

	// hp is written in two event files and must land in one shared
	// instance scope.
	instance := findScope(t, idx, ScopeInstance, "obj_player")
	hpID, ok := idx.LookupVisible(instance, "hp")
	if !ok {
		t.Fatal("hp not visible from obj_player instance scope")
	}
	hp := idx.BindingAt(hpID)
	if hp.Category != CategoryInstance {
		t.Errorf("hp category = %s, want %s", hp.Category, CategoryInstance)
	}
	seen := map[string]bool{}
	for _, i := range hp.Occurrences {
		seen[idx.Occurrences[i].File] = true
	}
	if !seen["objects/obj_player/Create_0.gml"] || !seen["objects/obj_player/Step_0.gml"] {
		t.Errorf("hp occurrences span files %v, want both event files", seen)
	}

	// State.Idle resolves to the enum member binding.
	enumScope := findScope(t, idx, ScopeEnum, "State")
	if _, ok := idx.LookupVisible(enumScope, "Idle"); !ok {
		t.Error("State.Idle did not produce an enum member binding")
	}

	// globalvar and global.score both bind in the global scope.
	for _, name := range []string{"debug_mode", "score", "MAX_HP", "scr_util"} {
		if _, ok := idx.LookupVisible(GlobalScope, name); !ok {
			t.Errorf("%s not bound in the global scope", name)
		}
	}

	if !hasNote(idx, "speeed") {
		t.Errorf("expected an unresolved note for speeed; notes: %v", idx.Metrics.Notes)
	}

	// Builtin writes stay references.
	for _, occ := range idx.Occurrences {
		if occ.Name == "sprite_index" {
			if occ.Kind != Reference || !occ.Builtin {
				t.Errorf("sprite_index = %+v, want builtin reference", occ)
			}
		}
	}
}

func TestBuildManifestPairIsNotDuplicate(t *testing.T) {
	idx := buildTestIndex(t, testProject(t), Options{})

	// Every resource in a healthy project appears in the .yyp and in its
	// own .yy; that is one declaration, not two.
	if hasNote(idx, "duplicate resource definition") {
		t.Fatalf("healthy project produced duplicate notes: %v", idx.Metrics.Notes)
	}
	res, _ := idx.ResourceByName("spr_player")
	if res.File != "sprites/spr_player/spr_player.yy" {
		t.Errorf("spr_player declared in %s, want its own manifest", res.File)
	}
}

func TestBuildDuplicateResourceNote(t *testing.T) {
	fs := testProject(t)
	clash := `{"name": "spr_player", "resourceType": "GMSprite"}`
	if err := afero.WriteFile(fs, "proj/sprites/spr_old/spr_old.yy", []byte(clash), 0o644); err != nil {
		t.Fatal(err)
	}

	idx := buildTestIndex(t, fs, Options{})

	if !hasNote(idx, "duplicate resource definition: spr_player") {
		t.Errorf("two resource manifests claiming spr_player produced no note; notes: %v", idx.Metrics.Notes)
	}
}

func TestBuildPartialFailure(t *testing.T) {
	fs := testProject(t)
	broken := "if (hp > 0 {\n"
	if err := afero.WriteFile(fs, "proj/objects/obj_player/Draw_0.gml", []byte(broken), 0o644); err != nil {
		t.Fatal(err)
	}

	idx := buildTestIndex(t, fs, Options{})

	if got := idx.Metrics.Counters["files_failed"]; got != 1 {
		t.Fatalf("files_failed = %d, want 1", got)
	}
	rec, ok := idx.FileByPath("objects/obj_player/Draw_0.gml")
	if !ok {
		t.Fatal("failed file missing from index")
	}
	if rec.Status != ParseFailed || rec.FailReason == "" {
		t.Errorf("record = %+v, want failed with a reason", rec)
	}
	if !hasNote(idx, "Draw_0.gml") {
		t.Error("expected a parse failure note")
	}

	// The rest of the project still indexes.
	if _, ok := idx.LookupVisible(GlobalScope, "scr_util"); !ok {
		t.Error("healthy files were not indexed")
	}
}

func TestBuildDeterministic(t *testing.T) {
	fs := testProject(t)
	a := buildTestIndex(t, fs, Options{Workers: 4})
	b := buildTestIndex(t, fs, Options{Workers: 1})

	if diff := cmp.Diff(a.Files, b.Files); diff != "" {
		t.Errorf("Files differ (-w1 +w4):\n%s", diff)
	}
	if diff := cmp.Diff(a.Scopes, b.Scopes); diff != "" {
		t.Errorf("Scopes differ:\n%s", diff)
	}
	if diff := cmp.Diff(a.Occurrences, b.Occurrences); diff != "" {
		t.Errorf("Occurrences differ:\n%s", diff)
	}
	if diff := cmp.Diff(a.Bindings, b.Bindings); diff != "" {
		t.Errorf("Bindings differ:\n%s", diff)
	}
	if diff := cmp.Diff(a.Resources, b.Resources); diff != "" {
		t.Errorf("Resources differ:\n%s", diff)
	}
	if diff := cmp.Diff(a.Metrics.Notes, b.Metrics.Notes); diff != "" {
		t.Errorf("Notes differ:\n%s", diff)
	}
}

type memCache struct {
	frags map[string]*Fragment
}

func newMemCache() *memCache { return &memCache{frags: map[string]*Fragment{}} }

func (c *memCache) Get(path string, fp scanner.Fingerprint) (*Fragment, bool) {
	frag, ok := c.frags[path+"\x00"+string(fp)]
	return frag, ok
}

func (c *memCache) Put(frag *Fragment) error {
	c.frags[frag.Path+"\x00"+string(frag.Fingerprint)] = frag
	return nil
}

func TestBuildCacheTransparent(t *testing.T) {
	fs := testProject(t)
	cache := newMemCache()

	cold := buildTestIndex(t, fs, Options{Cache: cache})
	if cold.Metrics.Cache.Hits != 0 || cold.Metrics.Cache.Misses != 7 {
		t.Fatalf("cold cache = %+v, want 0 hits / 7 misses", cold.Metrics.Cache)
	}

	warm := buildTestIndex(t, fs, Options{Cache: cache})
	if warm.Metrics.Cache.Hits != 7 || warm.Metrics.Cache.Misses != 0 {
		t.Fatalf("warm cache = %+v, want 7 hits / 0 misses", warm.Metrics.Cache)
	}

	if diff := cmp.Diff(cold.Occurrences, warm.Occurrences); diff != "" {
		t.Errorf("cached build changed occurrences:\n%s", diff)
	}
	if diff := cmp.Diff(cold.Bindings, warm.Bindings); diff != "" {
		t.Errorf("cached build changed bindings:\n%s", diff)
	}
	rec, _ := warm.FileByPath("scripts/scr_util/scr_util.gml")
	if !rec.FromCache {
		t.Error("warm build did not mark files as cached")
	}
}

func TestBuildCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	idx, err := Build(ctx, "proj", Options{Fs: testProject(t)})
	if err == nil {
		t.Fatal("Build with canceled context succeeded")
	}
	if idx != nil {
		t.Error("canceled build returned a partial index")
	}
}

func TestBuildMissingRoot(t *testing.T) {
	_, err := Build(context.Background(), "nope", Options{Fs: afero.NewMemMapFs()})
	if err == nil {
		t.Fatal("Build on a missing root succeeded")
	}
}

func TestObjectOf(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"objects/obj_player/Step_0.gml", "obj_player"},
		{"objects/obj_door/Create_0.gml", "obj_door"},
		{"scripts/scr_util/scr_util.gml", ""},
		{"game.yyp", ""},
	}
	for _, tc := range cases {
		if got := ObjectOf(tc.path); got != tc.want {
			t.Errorf("ObjectOf(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestExtractManifestMalformed(t *testing.T) {
	info := scanner.FileInfo{Path: "bad.yy", Kind: filekind.KindResourceManifest}
	frag := ExtractManifest(info, []byte(`{"name": `))
	if frag.Status != ParseFailed {
		t.Fatalf("status = %s, want %s", frag.Status, ParseFailed)
	}
}
