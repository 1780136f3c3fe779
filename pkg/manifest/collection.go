package manifest

import "sort"

// Collection is the ordered, mutable set of records for one loaded
// manifest. Insertion order equals original file order. All status
// mutations go through the collection so the SystemDisabled invariant is
// enforced at a single choke point instead of at every call site.
//
// A Collection is not safe for concurrent mutation; the caller serializes
// access (the CLI and TUI are single-threaded over it).
type Collection struct {
	records []Record
	byName  map[string]int // name -> index, last seen wins
}

// NewCollection builds a collection from records in file order.
func NewCollection(records []Record) *Collection {
	c := &Collection{
		records: records,
		byName:  make(map[string]int, len(records)),
	}
	for i := range c.records {
		if c.records[i].OriginalStatus == "" {
			c.records[i].OriginalStatus = c.records[i].Status
		}
		c.byName[c.records[i].Name] = i
	}
	return c
}

// Len returns the number of records.
func (c *Collection) Len() int { return len(c.records) }

// Get returns a pointer to the i-th record in file order. The pointer is
// valid for reading; mutations must go through SetStatus.
func (c *Collection) Get(i int) *Record { return &c.records[i] }

// ByName returns the index for a package name, or -1 when unknown.
// Duplicate names in the manifest resolve to the last occurrence.
func (c *Collection) ByName(name string) int {
	if i, ok := c.byName[name]; ok {
		return i
	}
	return -1
}

// SetStatus updates the i-th record's status. It reports false without
// mutating anything when the record is SystemDisabled or the target
// status is not a known state.
func (c *Collection) SetStatus(i int, s Status) bool {
	if i < 0 || i >= len(c.records) || !s.Valid() {
		return false
	}
	r := &c.records[i]
	if r.ReadOnly() {
		return false
	}
	r.Status = s
	return true
}

// SetStatusByName is SetStatus keyed by package name.
func (c *Collection) SetStatusByName(name string, s Status) bool {
	return c.SetStatus(c.ByName(name), s)
}

// BulkSet applies SetStatus to each index, silently skipping read-only
// records, and returns the count actually changed.
func (c *Collection) BulkSet(indices []int, s Status) int {
	changed := 0
	for _, i := range indices {
		if i < 0 || i >= len(c.records) {
			continue
		}
		prev := c.records[i].Status
		if c.SetStatus(i, s) && prev != s {
			changed++
		}
	}
	return changed
}

// DirtyChanges returns copies of every record whose status differs from
// its original value, ordered by original file position regardless of any
// display sort the caller maintains.
func (c *Collection) DirtyChanges() []Record {
	var dirty []Record
	for i := range c.records {
		if c.records[i].Dirty() {
			dirty = append(dirty, c.records[i])
		}
	}
	sort.Slice(dirty, func(a, b int) bool { return dirty[a].Ordinal < dirty[b].Ordinal })
	return dirty
}

// ClearDirty snapshots every record's current status as its original.
// Called by the owner after a confirmed successful save.
func (c *Collection) ClearDirty() {
	for i := range c.records {
		c.records[i].OriginalStatus = c.records[i].Status
	}
}

// Statuses returns the name -> current status lookup used by the save
// path. Duplicate names collapse to the last occurrence.
func (c *Collection) Statuses() map[string]Status {
	m := make(map[string]Status, len(c.records))
	for i := range c.records {
		m[c.records[i].Name] = c.records[i].Status
	}
	return m
}
