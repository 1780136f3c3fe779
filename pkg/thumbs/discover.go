package thumbs

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fswrangler/fswrangler/pkg/classify"
)

// imageExts are the recognized thumbnail image extensions.
var imageExts = []string{".png", ".jpg", ".jpeg", ".webp"}

// installedPathRe pulls the InstalledPackagesPath setting out of a
// UserCfg.opt file.
var installedPathRe = regexp.MustCompile(`InstalledPackagesPath\s+"([^"]+)"`)

// liverySplitRe cuts a package folder name at its livery suffix, since
// liveries live under the base aircraft's folder.
var liverySplitRe = regexp.MustCompile(`(?i)-livery-`)

// RootSet holds the candidate package-content directories per source and
// simulator version.
type RootSet struct {
	Official24 []string
	Official20 []string
	Community  []string
}

// RootsFor derives the search roots from the manifest location, following
// the simulator's LocalCache layout and the InstalledPackagesPath setting
// in UserCfg.opt when present. Roots that do not exist are kept; Discover
// skips them cheaply.
func RootsFor(manifestPath string) RootSet {
	localCache := findLocalCache(manifestPath)
	installed := installedPackagesRoot(localCache)
	state := filepath.Join(filepath.Dir(localCache), "LocalState", "packages")

	official := func(gen string) []string {
		return []string{
			filepath.Join(installed, gen, "OneStore"),
			filepath.Join(installed, "Official", "OneStore"),
			filepath.Join(localCache, "Packages", gen, "OneStore"),
			filepath.Join(localCache, "Packages", "Official", "OneStore"),
			filepath.Join(state, gen, "OneStore"),
			filepath.Join(state, "Official", "OneStore"),
		}
	}

	return RootSet{
		Official24: official("Official2024"),
		Official20: official("Official2020"),
		Community: []string{
			filepath.Join(installed, "Community2024"),
			filepath.Join(installed, "Community"),
			filepath.Join(localCache, "Packages", "Community2024"),
			filepath.Join(localCache, "Packages", "Community"),
			filepath.Join(state, "Community2024"),
			filepath.Join(state, "Community"),
		},
	}
}

// roots selects the candidate list for a classified package.
func (rs RootSet) roots(source classify.Source, sim classify.Sim) []string {
	switch {
	case source == classify.SourceOfficial && sim == classify.SimFS24:
		return rs.Official24
	case source == classify.SourceOfficial && sim == classify.SimFS20:
		return rs.Official20
	default:
		return rs.Community
	}
}

// Discover searches the root set for a thumbnail image belonging to the
// named package. It returns the image path and true on success. Discovery
// never fails hard: unreadable directories are skipped and a miss is a
// normal result.
func Discover(name string, source classify.Source, sim classify.Sim, rs RootSet) (string, bool) {
	folder := stripPrefix(name)
	baseFolder := liverySplitRe.Split(folder, 2)[0]
	want := tokens(baseFolder)

	for _, root := range rs.roots(source, sim) {
		dir, ok := findPackageDir(root, []string{baseFolder, folder, name}, want)
		if !ok {
			continue
		}
		if img, ok := discoverViaLayout(dir); ok {
			return img, true
		}
		if img, ok := anyContentInfoImage(dir); ok {
			return img, true
		}
	}
	return "", false
}

// findPackageDir tries the exact folder guesses first, then falls back to
// a token-subset fuzzy match over the root's children.
func findPackageDir(root string, exact []string, want map[string]bool) (string, bool) {
	for _, guess := range exact {
		dir := filepath.Join(root, guess)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir, true
		}
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return "", false
	}
	for _, e := range entries {
		if e.IsDir() && tokenSubset(want, tokens(e.Name())) {
			return filepath.Join(root, e.Name()), true
		}
	}
	return "", false
}

// discoverViaLayout reads the package's layout.json and picks the best
// image by priority: ContentInfo thumbnails, then screenshots, then any
// ContentInfo image, then aircraft thumbnails under simobjects.
func discoverViaLayout(pkgDir string) (string, bool) {
	data, err := os.ReadFile(filepath.Join(pkgDir, "layout.json"))
	if err != nil {
		return "", false
	}

	var layout struct {
		Content []json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(data, &layout); err != nil {
		return "", false
	}

	var rels []string
	for _, item := range layout.Content {
		var entry struct {
			Path string `json:"path"`
		}
		if json.Unmarshal(item, &entry) == nil && entry.Path != "" {
			rels = append(rels, entry.Path)
			continue
		}
		var plain string
		if json.Unmarshal(item, &plain) == nil && plain != "" {
			rels = append(rels, plain)
		}
	}

	picks := []func(low string) bool{
		func(low string) bool {
			return strings.HasPrefix(low, "contentinfo/") && strings.Contains(low, "/thumbnail") &&
				strings.HasPrefix(lastSegment(low), "thumbnail")
		},
		func(low string) bool {
			return strings.HasPrefix(low, "contentinfo/") && strings.Contains(low, "/screenshot")
		},
		func(low string) bool {
			return strings.HasPrefix(low, "contentinfo/")
		},
		func(low string) bool {
			return strings.HasPrefix(low, "simobjects/airplanes/") && strings.Contains(low, "thumbnail")
		},
	}

	for _, pick := range picks {
		for _, rel := range rels {
			low := strings.ToLower(rel)
			if !isImage(low) || !pick(low) {
				continue
			}
			abs := filepath.Join(pkgDir, filepath.FromSlash(rel))
			if fileExists(abs) {
				return abs, true
			}
		}
	}
	return "", false
}

// anyContentInfoImage is the lightweight fallback when layout.json is
// absent or unhelpful: the first image anywhere under ContentInfo.
func anyContentInfoImage(pkgDir string) (string, bool) {
	ci := filepath.Join(pkgDir, "ContentInfo")
	var found string
	_ = filepath.WalkDir(ci, func(path string, d fs.DirEntry, err error) error {
		if err != nil || found != "" || d.IsDir() {
			return nil
		}
		if isImage(strings.ToLower(path)) {
			found = path
		}
		return nil
	})
	return found, found != ""
}

// findLocalCache walks up from the manifest to the LocalCache directory,
// falling back to the manifest's own directory.
func findLocalCache(manifestPath string) string {
	dir := filepath.Dir(manifestPath)
	for p := dir; ; {
		if strings.EqualFold(filepath.Base(p), "LocalCache") {
			return p
		}
		parent := filepath.Dir(p)
		if parent == p {
			break
		}
		p = parent
	}
	return dir
}

// installedPackagesRoot resolves the InstalledPackagesPath configured in
// UserCfg.opt, defaulting to the LocalCache Packages directory.
func installedPackagesRoot(localCache string) string {
	for _, cfg := range []string{
		filepath.Join(localCache, "UserCfg.opt"),
		filepath.Join(filepath.Dir(localCache), "LocalCache", "UserCfg.opt"),
	} {
		data, err := os.ReadFile(cfg)
		if err != nil {
			continue
		}
		if m := installedPathRe.FindSubmatch(data); m != nil {
			if p := string(m[1]); dirExists(p) {
				return p
			}
		}
	}
	return filepath.Join(localCache, "Packages")
}

func stripPrefix(name string) string {
	low := strings.ToLower(name)
	for _, p := range []string{"communityfs24-", "communityfs20-", "fs24-", "fs20-"} {
		if strings.HasPrefix(low, p) {
			return name[len(p):]
		}
	}
	return name
}

func tokens(s string) map[string]bool {
	out := map[string]bool{}
	for _, t := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	}) {
		out[t] = true
	}
	return out
}

func tokenSubset(want, have map[string]bool) bool {
	if len(want) == 0 {
		return false
	}
	for t := range want {
		if !have[t] {
			return false
		}
	}
	return true
}

func isImage(low string) bool {
	for _, ext := range imageExts {
		if strings.HasSuffix(low, ext) {
			return true
		}
	}
	return false
}

func lastSegment(low string) string {
	if i := strings.LastIndex(low, "/"); i >= 0 {
		return low[i+1:]
	}
	return low
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
