package classify

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRulesMissingFile(t *testing.T) {
	rs, err := LoadRules(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Error("expected error for missing file")
	}
	if rs == nil {
		t.Fatal("expected default ruleset, got nil")
	}
	if rs.DefaultCategory != "Other" {
		t.Errorf("DefaultCategory = %q, want Other", rs.DefaultCategory)
	}
	if len(rs.Categories) == 0 {
		t.Error("default ruleset has no categories")
	}
}

func TestLoadRulesMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	rs, err := LoadRules(path)
	if err == nil {
		t.Error("expected error for malformed file")
	}
	if rs == nil || len(rs.Categories) == 0 {
		t.Fatal("malformed file should degrade to defaults")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "rules.json")
	rs := &Ruleset{
		Categories: []CategoryRule{
			{Name: "Zulu", Patterns: []string{"zz"}},
			{Name: "Alpha", Patterns: []string{"aa", "bb"}},
		},
		DefaultCategory: "Misc",
	}

	if err := SaveRules(path, rs); err != nil {
		t.Fatalf("SaveRules: %v", err)
	}

	loaded, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if len(loaded.Categories) != 2 {
		t.Fatalf("got %d categories, want 2", len(loaded.Categories))
	}
	// Order must survive the round trip.
	if loaded.Categories[0].Name != "Zulu" || loaded.Categories[1].Name != "Alpha" {
		t.Errorf("category order not preserved: %+v", loaded.Categories)
	}
	if loaded.DefaultCategory != "Misc" {
		t.Errorf("DefaultCategory = %q, want Misc", loaded.DefaultCategory)
	}
}

func TestSaveRulesDeterministic(t *testing.T) {
	dir := t.TempDir()
	p1 := filepath.Join(dir, "a.json")
	p2 := filepath.Join(dir, "b.json")
	rs := DefaultRuleset()

	if err := SaveRules(p1, rs); err != nil {
		t.Fatal(err)
	}
	if err := SaveRules(p2, rs); err != nil {
		t.Fatal(err)
	}

	b1, _ := os.ReadFile(p1)
	b2, _ := os.ReadFile(p2)
	if string(b1) != string(b2) {
		t.Error("SaveRules output is not deterministic")
	}
}

func TestSaveRulesUnwritablePath(t *testing.T) {
	// A path whose parent is an existing file cannot be created.
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := SaveRules(filepath.Join(blocker, "rules.json"), DefaultRuleset())
	if err == nil {
		t.Error("expected error writing under a file path")
	}
}
