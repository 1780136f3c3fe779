// Package manifest implements the content-manifest synchronization core:
// parsing the simulator's package manifest into classified records, dirty
// tracking against the last loaded snapshot, and writing status changes
// back atomically while preserving every untouched byte of the file.
//
// The manifest is an XML document whose root holds repeated <Package>
// elements, each carrying at least a "name" and an "active" attribute.
// Only those two attributes are interpreted; everything else in the file
// is opaque payload that a save must not disturb.
package manifest

import "strings"

// Status is a package activation state as stored in the manifest.
type Status string

// Activation states. SystemDisabled is set by the simulator itself and is
// treated as read-only by every mutation path in this package.
const (
	Activated      Status = "Activated"
	UserDisabled   Status = "UserDisabled"
	SystemDisabled Status = "SystemDisabled"
)

// ParseStatus interprets a raw "active" attribute value. A missing or
// blank value means Activated; other values are preserved verbatim so an
// unrecognized state written by the simulator survives a round trip.
func ParseStatus(raw string) Status {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Activated
	}
	return Status(s)
}

// Valid reports whether s is one of the three known activation states.
// Only valid states may be written through SetStatus.
func (s Status) Valid() bool {
	switch s {
	case Activated, UserDisabled, SystemDisabled:
		return true
	}
	return false
}
