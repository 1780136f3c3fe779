package manifest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/fswrangler/fswrangler/pkg/backup"
	"github.com/fswrangler/fswrangler/pkg/classify"
	"github.com/fswrangler/fswrangler/pkg/errors"
)

// Repository owns load/save access to one manifest file.
//
// Load and Save are synchronous and hold no internal state between calls:
// Save re-reads the file fresh rather than trusting anything cached at
// load time, so external edits between Load and Save are patched rather
// than clobbered. Concurrent Save calls against the same path are not
// supported; the caller serializes them.
type Repository struct {
	// Path is the manifest file location.
	Path string

	// Rules classifies package names at load time. Nil falls back to the
	// built-in defaults.
	Rules *classify.Ruleset

	// Backups guards every save. Nil disables the backup step only for
	// tests; NewRepository always wires one.
	Backups *backup.Manager
}

// NewRepository returns a repository with the default backup policy.
func NewRepository(path string, rules *classify.Ruleset) *Repository {
	return &Repository{
		Path:    path,
		Rules:   rules,
		Backups: backup.New(backup.DefaultKeep),
	}
}

// Load parses the manifest into a classified record collection.
//
// The parse is all-or-nothing: on any failure the previous collection held
// by the caller is untouched and the returned error says which path failed
// and why. Missing status attributes default to Activated.
func (r *Repository) Load(ctx context.Context) (*Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(r.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeManifestNotFound, err, "manifest not found at %s", r.Path)
		}
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read manifest %s", r.Path)
	}

	doc, err := ParseDocument(raw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse manifest %s", r.Path)
	}

	records := make([]Record, 0, doc.Len())
	for i := 0; i < doc.Len(); i++ {
		el := doc.Element(i)
		status := ParseStatus(el.Active)
		cl := classify.Classify(el.Name, r.Rules)
		records = append(records, Record{
			Name:           el.Name,
			Status:         status,
			OriginalStatus: status,
			Source:         cl.Source,
			Sim:            cl.Sim,
			Category:       cl.Category,
			Vendor:         cl.Vendor,
			Ordinal:        i,
		})
	}
	return NewCollection(records), nil
}

// Save patches the on-disk manifest with the collection's statuses and
// returns how many legacy community-fs20 elements were pruned.
//
// Sequence: back up the current file (failure aborts the save), re-parse
// the file fresh, prune if requested, patch the active attribute of every
// element whose name the collection knows, write a temporary file in the
// target directory and atomically rename it over the original. Elements
// the collection does not know are left byte-identical.
//
// Save never clears dirty state; the caller calls ClearDirty on the
// collection after a confirmed success so a failed save stays retryable.
func (r *Repository) Save(ctx context.Context, col *Collection, prune bool) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	if r.Backups != nil {
		if _, err := r.Backups.Backup(r.Path); err != nil {
			return 0, err
		}
	}

	raw, err := os.ReadFile(r.Path)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeFileNotFound, err, "re-read manifest %s", r.Path)
	}
	doc, err := ParseDocument(raw)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse manifest %s", r.Path)
	}

	out, pruned := doc.Apply(col.Statuses(), prune)

	tmp := filepath.Join(filepath.Dir(r.Path), fmt.Sprintf(".%s.%s.tmp", filepath.Base(r.Path), uuid.NewString()))
	if err := os.WriteFile(tmp, out, 0o644); err != nil {
		return 0, errors.Wrap(errors.ErrCodeWriteFailed, err, "write temp manifest %s", tmp)
	}
	if err := os.Rename(tmp, r.Path); err != nil {
		_ = os.Remove(tmp)
		return 0, errors.Wrap(errors.ErrCodeWriteFailed, err, "replace manifest %s", r.Path)
	}
	return pruned, nil
}
