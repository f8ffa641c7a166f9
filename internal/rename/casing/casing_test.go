package casing

import "testing"

func TestApply(t *testing.T) {
	cases := []struct {
		style Style
		in    string
		want  string
	}{
		{Snake, "playerHealth", "player_health"},
		{Snake, "PlayerHealth", "player_health"},
		{Snake, "player_health", "player_health"},
		{Snake, "PLAYER_HEALTH", "player_health"},
		{Snake, "player-health", "player_health"},
		{Snake, "HTTPServer", "http_server"},
		{Snake, "player2", "player2"},
		{Snake, "spr_player2", "spr_player2"},
		{Snake, "max2hp", "max2_hp"},

		{Scream, "maxHp", "MAX_HP"},
		{Scream, "max_hp", "MAX_HP"},
		{Scream, "MAX_HP", "MAX_HP"},

		{Camel, "player_health", "playerHealth"},
		{Camel, "PlayerHealth", "playerHealth"},
		{Camel, "MAX_HP", "maxHp"},
		{Camel, "hp", "hp"},

		{Pascal, "player_health", "PlayerHealth"},
		{Pascal, "playerHealth", "PlayerHealth"},
		{Pascal, "state", "State"},

		// Underscore affixes survive.
		{Snake, "_privateVar", "_private_var"},
		{Camel, "_private_var", "_privateVar"},
		{Snake, "temp_", "temp_"},

		// Degenerate inputs come back unchanged.
		{Snake, "_", "_"},
		{Snake, "", ""},
	}
	for _, tc := range cases {
		if got := tc.style.Apply(tc.in); got != tc.want {
			t.Errorf("%s.Apply(%q) = %q, want %q", tc.style, tc.in, got, tc.want)
		}
	}
}

func TestApplyIdempotent(t *testing.T) {
	names := []string{"playerHealth", "MAX_HP", "spr_player2", "HTTPServer", "_privateVar", "x"}
	styles := []Style{Camel, Pascal, Snake, Scream}
	for _, style := range styles {
		for _, name := range names {
			once := style.Apply(name)
			twice := style.Apply(once)
			if once != twice {
				t.Errorf("%s.Apply not idempotent on %q: %q then %q", style, name, once, twice)
			}
		}
	}
}

func TestMatches(t *testing.T) {
	if !Snake.Matches("player_health") {
		t.Error("player_health should match snake")
	}
	if Snake.Matches("playerHealth") {
		t.Error("playerHealth should not match snake")
	}
}

func TestParseStyle(t *testing.T) {
	if _, err := ParseStyle("camel"); err != nil {
		t.Errorf("camel: %v", err)
	}
	if _, err := ParseStyle("kebab"); err == nil {
		t.Error("kebab parsed without error")
	}
}
