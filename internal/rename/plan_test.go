package rename

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"

	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/project/index"
	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/rename/casing"
)

func buildIndex(t *testing.T, files map[string]string) *index.ProjectIndex {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, src := range files {
		if err := afero.WriteFile(fs, "proj/"+path, []byte(src), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	idx, err := index.Build(context.Background(), "proj", index.Options{Fs: fs})
	if err != nil {
		t.Fatal(err)
	}
	return idx
}

func prepare(t *testing.T, idx *index.ProjectIndex, policy CasingPolicy) *PlanResult {
	t.Helper()
	plan, err := NewPlanner(nil).PreparePlan(idx, policy)
	if err != nil {
		t.Fatalf("PreparePlan: %v", err)
	}
	return plan
}

func localCamelPolicy() CasingPolicy {
	return CasingPolicy{Rules: map[index.Category]casing.Style{
		index.CategoryLocal: casing.Camel,
	}}
}

func opNames(plan *PlanResult) map[string]string {
	names := map[string]string{}
	for _, op := range plan.Operations {
		names[op.OldName] = op.NewName
	}
	return names
}

func TestPlanRenamesLocals(t *testing.T) {
	idx := buildIndex(t, map[string]string{
		"scripts/scr_a/scr_a.gml": "function scr_a() {\n    var my_Var = 1;\n    return my_Var;\n}\n",
		"scripts/scr_b/scr_b.gml": "function scr_b() {\n    var MY_VAR2 = 2;\n    return MY_VAR2;\n}\n",
	})
	plan := prepare(t, idx, localCamelPolicy())

	if len(plan.Conflicts) != 0 {
		t.Fatalf("conflicts: %+v", plan.Conflicts)
	}
	names := opNames(plan)
	if names["my_Var"] != "myVar" {
		t.Errorf("my_Var renamed to %q, want myVar", names["my_Var"])
	}
	if names["MY_VAR2"] != "myVar2" {
		t.Errorf("MY_VAR2 renamed to %q, want myVar2", names["MY_VAR2"])
	}
	// One operation per occurrence: declaration plus the return reference.
	count := 0
	for _, op := range plan.Operations {
		if op.OldName == "my_Var" {
			count++
		}
	}
	if count != 2 {
		t.Errorf("my_Var operations = %d, want 2", count)
	}
}

func TestPlanAlreadyCasedIsNoCandidate(t *testing.T) {
	idx := buildIndex(t, map[string]string{
		"scripts/scr_a/scr_a.gml": "function scr_a() {\n    var myVar = 1;\n    return myVar;\n}\n",
	})
	plan := prepare(t, idx, localCamelPolicy())

	if got := plan.Metrics.Counters["candidates"]; got != 0 {
		t.Errorf("candidates = %d, want 0", got)
	}
	if len(plan.Operations) != 0 {
		t.Errorf("operations: %+v", plan.Operations)
	}
}

func TestPlanCandidateCollision(t *testing.T) {
	idx := buildIndex(t, map[string]string{
		"scripts/scr_a/scr_a.gml": "function scr_a() {\n    var foo_bar = 1;\n    var foo_Bar = 2;\n    return foo_bar + foo_Bar;\n}\n",
	})
	plan := prepare(t, idx, localCamelPolicy())

	if len(plan.Conflicts) != 1 {
		t.Fatalf("conflicts = %+v, want exactly one", plan.Conflicts)
	}
	c := plan.Conflicts[0]
	if c.Kind != ConflictCandidate {
		t.Errorf("kind = %s, want %s", c.Kind, ConflictCandidate)
	}
	// The later declaration loses.
	if c.Candidate.OldName != "foo_Bar" {
		t.Errorf("rejected %q, want foo_Bar", c.Candidate.OldName)
	}
	names := opNames(plan)
	if names["foo_bar"] != "fooBar" {
		t.Errorf("foo_bar renamed to %q, want fooBar", names["foo_bar"])
	}
	if _, ok := names["foo_Bar"]; ok {
		t.Error("rejected candidate still produced operations")
	}
}

func TestPlanExistingBindingCollision(t *testing.T) {
	idx := buildIndex(t, map[string]string{
		"scripts/scr_a/scr_a.gml": "function scr_a() {\n    var playerHealth = 1;\n    var player_health = 2;\n    return playerHealth + player_health;\n}\n",
	})
	plan := prepare(t, idx, localCamelPolicy())

	if len(plan.Conflicts) != 1 {
		t.Fatalf("conflicts = %+v, want exactly one", plan.Conflicts)
	}
	if plan.Conflicts[0].Kind != ConflictExistingBinding {
		t.Errorf("kind = %s, want %s", plan.Conflicts[0].Kind, ConflictExistingBinding)
	}
	if len(plan.Operations) != 0 {
		t.Errorf("operations: %+v", plan.Operations)
	}
}

func TestPlanReservedWordCollision(t *testing.T) {
	idx := buildIndex(t, map[string]string{
		"scripts/scr_a/scr_a.gml": "function scr_a() {\n    var Repeat = 1;\n    return Repeat;\n}\n",
	})
	plan := prepare(t, idx, localCamelPolicy())

	if len(plan.Conflicts) != 1 || plan.Conflicts[0].Kind != ConflictReservedWord {
		t.Fatalf("conflicts = %+v, want one reserved-word conflict", plan.Conflicts)
	}
}

func assetProject() map[string]string {
	return map[string]string{
		"game.yyp":                         `{"resources": [{"id": {"name": "spr_Player", "path": "sprites/spr_Player/spr_Player.yy"}}]}`,
		"sprites/spr_Player/spr_Player.yy": `{"name": "spr_Player", "resourceType": "GMSprite"}`,
		"objects/obj_player/obj_player.yy": `{"name": "obj_player", "resourceType": "GMObject"}`,
		"objects/obj_player/Create_0.gml":  "sprite_index = spr_Player;\n",
	}
}

func assetPolicy(ack bool) CasingPolicy {
	return CasingPolicy{
		Assets: map[index.ResourceCategory]casing.Style{
			index.ResourceSprite: casing.Snake,
		},
		AcknowledgeAssetRenames: ack,
	}
}

func TestPlanAssetHeldWithoutAcknowledgement(t *testing.T) {
	idx := buildIndex(t, assetProject())
	plan := prepare(t, idx, assetPolicy(false))

	if len(plan.Held) != 1 {
		t.Fatalf("held = %+v, want exactly one", plan.Held)
	}
	h := plan.Held[0]
	if h.OldName != "spr_Player" || h.NewName != "spr_player" || !h.RequiresAck {
		t.Errorf("held candidate = %+v", h)
	}
	if len(plan.Operations) != 0 {
		t.Errorf("held candidate leaked into the plan: %+v", plan.Operations)
	}
	if len(plan.Conflicts) != 0 {
		t.Errorf("conflicts: %+v", plan.Conflicts)
	}
}

func TestPlanAssetAcknowledged(t *testing.T) {
	idx := buildIndex(t, assetProject())
	plan := prepare(t, idx, assetPolicy(true))

	if len(plan.Held) != 0 {
		t.Fatalf("held: %+v", plan.Held)
	}
	names := opNames(plan)
	if names["spr_Player"] != "spr_player" {
		t.Errorf("spr_Player renamed to %q, want spr_player", names["spr_Player"])
	}
}

func TestPlanDeterministic(t *testing.T) {
	files := map[string]string{
		"scripts/scr_a/scr_a.gml": "function scr_a(Some_Arg) {\n    var my_Var = Some_Arg;\n    return my_Var;\n}\n",
		"scripts/scr_b/scr_b.gml": "#macro maxHp 100\nfunction scr_b() {\n    var Other_var = maxHp;\n    return Other_var;\n}\n",
	}
	policy := DefaultPolicy()
	policy.Rules[index.CategoryLocal] = casing.Camel
	policy.Rules[index.CategoryParameter] = casing.Camel

	a := prepare(t, buildIndex(t, files), policy)
	b := prepare(t, buildIndex(t, files), policy)

	if diff := cmp.Diff(a.Operations, b.Operations); diff != "" {
		t.Errorf("operations differ:\n%s", diff)
	}
	if diff := cmp.Diff(a.Conflicts, b.Conflicts); diff != "" {
		t.Errorf("conflicts differ:\n%s", diff)
	}
	if diff := cmp.Diff(a.Held, b.Held); diff != "" {
		t.Errorf("held differ:\n%s", diff)
	}
}

func TestPlanNoOverlappingRanges(t *testing.T) {
	idx := buildIndex(t, map[string]string{
		"scripts/scr_a/scr_a.gml": "enum my_state {\n    first_one,\n    second_one\n}\nfunction scr_a() {\n    var cur_state = my_state.first_one;\n    return cur_state;\n}\n",
	})
	policy := DefaultPolicy()
	policy.Rules[index.CategoryLocal] = casing.Camel
	plan := prepare(t, idx, policy)

	for i := 1; i < len(plan.Operations); i++ {
		prev, cur := plan.Operations[i-1], plan.Operations[i]
		if prev.File == cur.File && cur.Range.Start.Offset < prev.Range.End.Offset {
			t.Fatalf("operations overlap: %+v then %+v", prev, cur)
		}
	}
}

func TestPlanConflictSoundness(t *testing.T) {
	idx := buildIndex(t, map[string]string{
		"scripts/scr_a/scr_a.gml": "function scr_a() {\n    var my_Var = 1;\n    var other_Var = 2;\n    return my_Var + other_Var;\n}\n",
	})
	plan := prepare(t, idx, localCamelPolicy())

	seen := map[string]bool{}
	for _, op := range plan.Operations {
		if op.OldName == op.NewName {
			t.Errorf("no-op operation for %q", op.OldName)
		}
		seen[op.NewName] = true
	}
	for name := range seen {
		if _, ok := idx.LookupVisible(index.GlobalScope, name); ok {
			t.Errorf("accepted name %q shadows an existing global binding", name)
		}
	}
}
