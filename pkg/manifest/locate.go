package manifest

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// limitlessPackage is the MSFS 2024 store package directory; the 2024
// manifest lives under its LocalCache.
const limitlessPackage = "Microsoft.Limitless_8wekyb3d8bbwe"

// Locate discovers the most plausible manifest path on this machine.
//
// It prefers the MSFS 2024 per-user default, then falls back to scanning
// every store package's LocalCache for a Content.xml, still preferring a
// "Limitless" path over others. A miss is the normal unconfigured state,
// not an error: the caller prompts for an explicit path.
func Locate() (string, bool) {
	return locateIn(os.Getenv("LOCALAPPDATA"))
}

// locateIn is Locate with the packages base injected for tests.
func locateIn(localAppData string) (string, bool) {
	if localAppData == "" {
		return "", false
	}

	def := filepath.Join(localAppData, "Packages", limitlessPackage, "LocalCache", "Content.xml")
	if fileExists(def) {
		return def, true
	}

	base := filepath.Join(localAppData, "Packages")
	candidates, err := filepath.Glob(filepath.Join(base, "*", "LocalCache", "Content.xml"))
	if err != nil || len(candidates) == 0 {
		return "", false
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		return isLimitless(candidates[a]) && !isLimitless(candidates[b])
	})
	return candidates[0], true
}

// isLimitless checks the store package directory component only, two
// levels above the manifest, so "Limitless" elsewhere in the path (a user
// name, a mount point) does not sway the preference.
func isLimitless(candidate string) bool {
	pkg := filepath.Base(filepath.Dir(filepath.Dir(candidate)))
	return strings.Contains(pkg, "Limitless")
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
