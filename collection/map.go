// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package collection

import (
	"maps"

	"github.com/juju/collections/transform"
	"github.com/juju/errors"

	"github.com/juju/acquire"
)

// Map is an acquirable protecting a mapping of keys to values.
type Map[K comparable, V any] struct {
	guard   *acquire.Acquirable
	entries map[K]V
}

// NewMap returns a Map protecting a copy of the initial entries.
func NewMap[K comparable, V any](initial map[K]V) *Map[K, V] {
	entries := make(map[K]V, len(initial))
	maps.Copy(entries, initial)
	return &Map[K, V]{
		guard:   acquire.New(),
		entries: entries,
	}
}

// AcquireRead acquires the map for reading.
func (m *Map[K, V]) AcquireRead() *MapAcquisition[K, V] {
	inner := m.guard.AcquireRead()
	return &MapAcquisition[K, V]{
		Acquisition: inner,
		view:        &GuardedMap[K, V]{acq: inner, owner: m},
	}
}

// AcquireWrite acquires the map for writing, upgrading a read
// acquisition already held by the calling goroutine if necessary. The
// returned acquisition exposes a fresh writable view; guarded views
// handed out by an earlier read acquisition stay read-only.
func (m *Map[K, V]) AcquireWrite() (*WriteMapAcquisition[K, V], error) {
	inner, err := m.guard.AcquireWrite()
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &WriteMapAcquisition[K, V]{
		Acquisition: inner,
		view: &WritableMap[K, V]{
			GuardedMap: GuardedMap[K, V]{acq: inner, owner: m, writable: true},
		},
	}, nil
}

// Cond returns a condition variable of the map's write lock.
func (m *Map[K, V]) Cond() *acquire.Condition {
	return m.guard.Cond()
}

// MapAcquisition grants read access to a map.
type MapAcquisition[K comparable, V any] struct {
	acquire.Acquisition

	view *GuardedMap[K, V]
}

// Map returns the guarded view of the protected map.
func (a *MapAcquisition[K, V]) Map() *GuardedMap[K, V] {
	return a.view
}

// WriteMapAcquisition grants read and write access to a map.
type WriteMapAcquisition[K comparable, V any] struct {
	acquire.Acquisition

	view *WritableMap[K, V]
}

// Map returns the guarded writable view of the protected map.
func (a *WriteMapAcquisition[K, V]) Map() *WritableMap[K, V] {
	return a.view
}

// GuardedMap is a guarded read view over a map.
type GuardedMap[K comparable, V any] struct {
	acq   acquire.Acquisition
	owner *Map[K, V]

	// writable is fixed when the view is created: entries emitted by a
	// view never grant more access than the view itself, even if the
	// underlying acquisition is upgraded later.
	writable bool
}

// Len returns the number of entries in the map.
func (m *GuardedMap[K, V]) Len() (int, error) {
	if err := m.acq.Check(); err != nil {
		return 0, errors.Trace(err)
	}
	return len(m.owner.entries), nil
}

// IsEmpty reports whether the map contains no entries.
func (m *GuardedMap[K, V]) IsEmpty() (bool, error) {
	n, err := m.Len()
	if err != nil {
		return false, errors.Trace(err)
	}
	return n == 0, nil
}

// ContainsKey reports whether the map contains the given key.
func (m *GuardedMap[K, V]) ContainsKey(k K) (bool, error) {
	if err := m.acq.Check(); err != nil {
		return false, errors.Trace(err)
	}
	_, ok := m.owner.entries[k]
	return ok, nil
}

// Get returns the value mapped to the given key, reporting whether the
// map contains the key.
func (m *GuardedMap[K, V]) Get(k K) (V, bool, error) {
	if err := m.acq.Check(); err != nil {
		var zero V
		return zero, false, errors.Trace(err)
	}
	v, ok := m.owner.entries[k]
	return v, ok, nil
}

// Keys returns the map's keys in unspecified order.
func (m *GuardedMap[K, V]) Keys() ([]K, error) {
	if err := m.acq.Check(); err != nil {
		return nil, errors.Trace(err)
	}
	return m.keys(), nil
}

func (m *GuardedMap[K, V]) keys() []K {
	ks := make([]K, 0, len(m.owner.entries))
	for k := range m.owner.entries {
		ks = append(ks, k)
	}
	return ks
}

// Values returns the map's values in unspecified order.
func (m *GuardedMap[K, V]) Values() ([]V, error) {
	if err := m.acq.Check(); err != nil {
		return nil, errors.Trace(err)
	}
	vs := make([]V, 0, len(m.owner.entries))
	for _, v := range m.owner.entries {
		vs = append(vs, v)
	}
	return vs, nil
}

// Snapshot returns a copy of the map's contents.
func (m *GuardedMap[K, V]) Snapshot() (map[K]V, error) {
	if err := m.acq.Check(); err != nil {
		return nil, errors.Trace(err)
	}
	return maps.Clone(m.owner.entries), nil
}

// Entries returns a guarded iterator over the map's entries. Each
// emitted entry is itself a guarded view bound to the same acquisition,
// so entries kept across the close of the acquisition fail with
// acquire.ErrAlreadyUnlocked. Entry values read the live map: mutations
// made while the entry is held are visible through it.
func (m *GuardedMap[K, V]) Entries() (*Iterator[*Entry[K, V]], error) {
	if err := m.acq.Check(); err != nil {
		return nil, errors.Trace(err)
	}
	ks := m.keys()
	i := 0
	return newIterator(m.acq, func() (*Entry[K, V], bool) {
		if i >= len(ks) {
			return nil, false
		}
		e := m.wrap(ks[i])
		i++
		return e, true
	}), nil
}

// EntrySlice returns the map's entries as a slice, each wrapped in a
// guarded entry bound to the same acquisition.
func (m *GuardedMap[K, V]) EntrySlice() ([]*Entry[K, V], error) {
	if err := m.acq.Check(); err != nil {
		return nil, errors.Trace(err)
	}
	return transform.Slice(m.keys(), m.wrap), nil
}

func (m *GuardedMap[K, V]) wrap(k K) *Entry[K, V] {
	return &Entry[K, V]{
		acq:      m.acq,
		owner:    m.owner,
		key:      k,
		writable: m.writable,
	}
}

// WritableMap is a guarded view additionally permitting mutation. It is
// only reachable through a write acquisition.
type WritableMap[K comparable, V any] struct {
	GuardedMap[K, V]
}

// Put maps the given key to the given value, returning the previous
// value and whether one was present.
func (m *WritableMap[K, V]) Put(k K, v V) (V, bool, error) {
	if err := m.acq.Check(); err != nil {
		var zero V
		return zero, false, errors.Trace(err)
	}
	old, ok := m.owner.entries[k]
	m.owner.entries[k] = v
	return old, ok, nil
}

// PutIfAbsent maps the given key to the given value unless the key is
// already present, reporting whether the entry was added.
func (m *WritableMap[K, V]) PutIfAbsent(k K, v V) (bool, error) {
	if err := m.acq.Check(); err != nil {
		return false, errors.Trace(err)
	}
	if _, ok := m.owner.entries[k]; ok {
		return false, nil
	}
	m.owner.entries[k] = v
	return true, nil
}

// Replace maps the given key to the given value only if the key is
// already present, reporting whether it was.
func (m *WritableMap[K, V]) Replace(k K, v V) (bool, error) {
	if err := m.acq.Check(); err != nil {
		return false, errors.Trace(err)
	}
	if _, ok := m.owner.entries[k]; !ok {
		return false, nil
	}
	m.owner.entries[k] = v
	return true, nil
}

// Delete removes the entry for the given key, returning its value and
// whether it was present.
func (m *WritableMap[K, V]) Delete(k K) (V, bool, error) {
	if err := m.acq.Check(); err != nil {
		var zero V
		return zero, false, errors.Trace(err)
	}
	old, ok := m.owner.entries[k]
	delete(m.owner.entries, k)
	return old, ok, nil
}

// Clear removes all entries from the map.
func (m *WritableMap[K, V]) Clear() error {
	if err := m.acq.Check(); err != nil {
		return errors.Trace(err)
	}
	clear(m.owner.entries)
	return nil
}

// Entry is a guarded view over a single map entry, produced by the
// entry emission paths of a guarded map. Key and value access run the
// acquisition check; Set additionally requires the entry to come from a
// writable view.
type Entry[K comparable, V any] struct {
	acq      acquire.Acquisition
	owner    *Map[K, V]
	key      K
	writable bool
}

// Key returns the entry's key.
func (e *Entry[K, V]) Key() (K, error) {
	if err := e.acq.Check(); err != nil {
		var zero K
		return zero, errors.Trace(err)
	}
	return e.key, nil
}

// Value returns the value currently mapped to the entry's key,
// reporting whether the mapping still exists.
func (e *Entry[K, V]) Value() (V, bool, error) {
	if err := e.acq.Check(); err != nil {
		var zero V
		return zero, false, errors.Trace(err)
	}
	v, ok := e.owner.entries[e.key]
	return v, ok, nil
}

// Set maps the entry's key to the given value, returning the previous
// value. Entries emitted by a read view fail with
// acquire.ErrTypeMismatch.
func (e *Entry[K, V]) Set(v V) (V, error) {
	var zero V
	if !e.writable {
		return zero, errors.Trace(acquire.ErrTypeMismatch)
	}
	if err := e.acq.Check(); err != nil {
		return zero, errors.Trace(err)
	}
	old := e.owner.entries[e.key]
	e.owner.entries[e.key] = v
	return old, nil
}
