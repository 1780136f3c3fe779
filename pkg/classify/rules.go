package classify

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// CategoryRule is one named category with its ordered substring patterns.
// Patterns are plain substrings, matched case-insensitively against the
// full package name.
type CategoryRule struct {
	Name     string   `json:"name"`
	Patterns []string `json:"patterns"`
}

// Ruleset is the ordered category configuration used by Category.
// Declaration order of categories and patterns is semantically significant
// and is preserved exactly as loaded.
type Ruleset struct {
	Categories      []CategoryRule `json:"categories"`
	DefaultCategory string         `json:"defaultCategory"`
}

// DefaultRuleset returns the built-in category rules used when no ruleset
// file is present. Callers get a fresh copy and may mutate it freely.
func DefaultRuleset() *Ruleset {
	return &Ruleset{
		Categories: []CategoryRule{
			{Name: "Airport", Patterns: []string{"-airport-", "airport-"}},
			{Name: "Aircraft", Patterns: []string{"-aircraft-"}},
			{Name: "Livery", Patterns: []string{"-livery-"}},
			{Name: "Scenery", Patterns: []string{"scenery", "cityscape", "landmarks"}},
			{Name: "Library", Patterns: []string{"commonlibrary", "modellib", "material-lib", "-library-", "-lib", "lib-"}},
			{Name: "Missions", Patterns: []string{"activities", "challenges", "mission", "training", "discovery", "travelbook"}},
			{Name: "Utilities", Patterns: []string{"jetways", "toolbar", "gsx", "flow"}},
		},
		DefaultCategory: "Other",
	}
}

// LoadRules reads a ruleset from path. On any read or parse failure it
// returns the built-in defaults along with the failure, so callers can log
// the degradation without treating it as fatal. A nil error means the file
// was loaded as-is.
func LoadRules(path string) (*Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultRuleset(), err
	}

	var rs Ruleset
	if err := json.Unmarshal(data, &rs); err != nil {
		return DefaultRuleset(), fmt.Errorf("parse ruleset %s: %w", path, err)
	}
	if rs.DefaultCategory == "" {
		rs.DefaultCategory = "Other"
	}
	return &rs, nil
}

// SaveRules writes the ruleset to path as indented JSON, creating parent
// directories as needed. Write failures are returned to the caller.
func SaveRules(path string, rs *Ruleset) error {
	if rs == nil {
		rs = DefaultRuleset()
	}
	data, err := json.MarshalIndent(rs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode ruleset: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create ruleset dir: %w", err)
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write ruleset %s: %w", path, err)
	}
	return nil
}
