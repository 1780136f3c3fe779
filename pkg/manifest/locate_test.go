package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("<Content/>"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLocatePrefersDefault(t *testing.T) {
	base := t.TempDir()
	def := filepath.Join(base, "Packages", limitlessPackage, "LocalCache", "Content.xml")
	other := filepath.Join(base, "Packages", "Some.Other.App", "LocalCache", "Content.xml")
	touch(t, def)
	touch(t, other)

	got, ok := locateIn(base)
	if !ok || got != def {
		t.Errorf("locateIn = %q, %v; want default path", got, ok)
	}
}

func TestLocateScanPrefersLimitless(t *testing.T) {
	base := t.TempDir()
	// No file at the exact default package id; scan must still prefer a
	// Limitless-flavored path over alphabetically earlier candidates.
	limitless := filepath.Join(base, "Packages", "Microsoft.Limitless_other", "LocalCache", "Content.xml")
	other := filepath.Join(base, "Packages", "A.Other.App", "LocalCache", "Content.xml")
	touch(t, limitless)
	touch(t, other)

	got, ok := locateIn(base)
	if !ok || got != limitless {
		t.Errorf("locateIn = %q, %v; want Limitless path", got, ok)
	}
}

func TestLocateScanIgnoresLimitlessOutsidePackageDir(t *testing.T) {
	// "Limitless" in an ancestor directory must not promote a candidate;
	// only the store package directory itself counts.
	base := filepath.Join(t.TempDir(), "LimitlessUser")
	a := filepath.Join(base, "Packages", "A.Other.App", "LocalCache", "Content.xml")
	b := filepath.Join(base, "Packages", "B.Other.App", "LocalCache", "Content.xml")
	touch(t, a)
	touch(t, b)

	got, ok := locateIn(base)
	if !ok || got != a {
		t.Errorf("locateIn = %q, %v; want glob order with no real Limitless package", got, ok)
	}
}

func TestLocateUnconfigured(t *testing.T) {
	if _, ok := locateIn(t.TempDir()); ok {
		t.Error("locateIn found a manifest in an empty dir")
	}
	if _, ok := locateIn(""); ok {
		t.Error("locateIn found a manifest with no base")
	}
}
