// Package backup copies the content manifest aside before destructive
// writes. Backups are timestamped files in a "_backup" directory next to
// the manifest, rotated oldest-first above a bounded count.
package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fswrangler/fswrangler/pkg/errors"
)

// DefaultKeep is the number of timestamped backups retained per manifest.
const DefaultKeep = 10

const (
	backupDirName = "_backup"
	timeLayout    = "20060102_150405"
)

// Manager creates and rotates manifest backups.
type Manager struct {
	// Keep bounds how many backups are retained; oldest are evicted
	// first. Zero means DefaultKeep.
	Keep int

	// now is swappable for tests.
	now func() time.Time
}

// New returns a Manager retaining keep backups (DefaultKeep if keep <= 0).
func New(keep int) *Manager {
	if keep <= 0 {
		keep = DefaultKeep
	}
	return &Manager{Keep: keep, now: time.Now}
}

// Backup copies path into the sibling backup directory and returns the
// backup file path. The copy preserves the source's modification time.
// Any failure is returned to the caller; the enclosing save must treat it
// as fatal and not proceed.
func (m *Manager) Backup(path string) (string, error) {
	dir := filepath.Join(filepath.Dir(path), backupDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(errors.ErrCodeBackupFailed, err, "create backup dir %s", dir)
	}

	now := time.Now
	if m.now != nil {
		now = m.now
	}
	stem := backupStem(path)
	dst := filepath.Join(dir, fmt.Sprintf("%s_%s%s", stem, now().Format(timeLayout), filepath.Ext(path)))

	if err := copyFile(path, dst); err != nil {
		return "", errors.Wrap(errors.ErrCodeBackupFailed, err, "back up %s", path)
	}

	m.rotate(dir, stem, filepath.Ext(path))
	return dst, nil
}

// List returns existing backups for path, newest first. Listing a manifest
// that has never been backed up returns an empty slice.
func (m *Manager) List(path string) []string {
	pattern := filepath.Join(filepath.Dir(path), backupDirName, backupStem(path)+"_*"+filepath.Ext(path))
	matches, _ := filepath.Glob(pattern)
	sort.Sort(sort.Reverse(sort.StringSlice(matches)))
	return matches
}

// rotate evicts the oldest backups beyond the retention bound. Eviction is
// best effort; a failed removal never blocks the save that triggered it.
func (m *Manager) rotate(dir, stem, ext string) {
	matches, err := filepath.Glob(filepath.Join(dir, stem+"_*"+ext))
	if err != nil {
		return
	}
	sort.Strings(matches) // timestamp format sorts chronologically
	keep := m.Keep
	if keep <= 0 {
		keep = DefaultKeep
	}
	for len(matches) > keep {
		_ = os.Remove(matches[0])
		matches = matches[1:]
	}
}

// backupStem is the manifest filename without extension, used to namespace
// backups when multiple manifests share a directory.
func backupStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// copyFile copies src to dst byte for byte and carries over the source
// modification time.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}
