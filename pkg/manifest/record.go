package manifest

import "github.com/fswrangler/fswrangler/pkg/classify"

// Record is one manifest entry plus its derived classification.
//
// Identity is the Name string. Source, Sim, Category and Vendor are pure
// functions of (name, ruleset): they are recomputed wholesale on every
// load and never patched incrementally. Ordinal is the record's position
// in the source file at load time and is never altered by display sorting.
type Record struct {
	Name           string
	Status         Status
	OriginalStatus Status
	Source         classify.Source
	Sim            classify.Sim
	Category       string
	Vendor         string
	Ordinal        int
}

// ReadOnly reports whether the record's status is externally authoritative
// and must not be changed by this application.
func (r *Record) ReadOnly() bool {
	return r.Status == SystemDisabled
}

// Dirty reports whether the status differs from the last loaded or saved
// value.
func (r *Record) Dirty() bool {
	return r.Status != r.OriginalStatus
}
