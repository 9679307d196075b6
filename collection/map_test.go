// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package collection_test

import (
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/juju/acquire"
	"github.com/juju/acquire/collection"
)

type mapSuite struct {
	testing.IsolationSuite
}

var _ = gc.Suite(&mapSuite{})

func (s *mapSuite) TestInitialContentsCopied(c *gc.C) {
	initial := map[string]int{"a": 1}
	m := collection.NewMap(initial)
	initial["a"] = 99

	r := m.AcquireRead()
	defer r.Close()
	v, ok, err := r.Map().Get("a")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(ok, jc.IsTrue)
	c.Assert(v, gc.Equals, 1)
}

func (s *mapSuite) TestReadView(c *gc.C) {
	m := collection.NewMap(map[string]int{"a": 1, "b": 2})

	r := m.AcquireRead()
	defer r.Close()
	view := r.Map()

	n, err := view.Len()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(n, gc.Equals, 2)

	ok, err := view.ContainsKey("a")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(ok, jc.IsTrue)

	_, ok, err = view.Get("missing")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(ok, jc.IsFalse)

	keys, err := view.Keys()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(keys, jc.SameContents, []string{"a", "b"})

	values, err := view.Values()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(values, jc.SameContents, []int{1, 2})

	snapshot, err := view.Snapshot()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(snapshot, gc.DeepEquals, map[string]int{"a": 1, "b": 2})
}

func (s *mapSuite) TestWriteView(c *gc.C) {
	m := collection.NewMap[string, int](nil)

	w, err := m.AcquireWrite()
	c.Assert(err, jc.ErrorIsNil)
	view := w.Map()

	_, replaced, err := view.Put("a", 1)
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(replaced, jc.IsFalse)

	old, replaced, err := view.Put("a", 2)
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(replaced, jc.IsTrue)
	c.Assert(old, gc.Equals, 1)

	added, err := view.PutIfAbsent("a", 3)
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(added, jc.IsFalse)
	added, err = view.PutIfAbsent("b", 3)
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(added, jc.IsTrue)

	ok, err := view.Replace("missing", 9)
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(ok, jc.IsFalse)
	ok, err = view.Replace("b", 4)
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(ok, jc.IsTrue)

	old, ok, err = view.Delete("a")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(ok, jc.IsTrue)
	c.Assert(old, gc.Equals, 2)

	snapshot, err := view.Snapshot()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(snapshot, gc.DeepEquals, map[string]int{"b": 4})

	c.Assert(view.Clear(), jc.ErrorIsNil)
	empty, err := view.IsEmpty()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(empty, jc.IsTrue)

	c.Assert(w.Close(), jc.ErrorIsNil)
}

func (s *mapSuite) TestMutationVisibleThroughLiveReadView(c *gc.C) {
	m := collection.NewMap(map[string]string{"k": "v"})

	r := m.AcquireRead()
	w, err := m.AcquireWrite()
	c.Assert(err, jc.ErrorIsNil)

	_, _, err = w.Map().Put("k2", "v2")
	c.Assert(err, jc.ErrorIsNil)

	v, ok, err := r.Map().Get("k2")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(ok, jc.IsTrue)
	c.Assert(v, gc.Equals, "v2")

	c.Assert(w.Close(), jc.ErrorIsNil)
	c.Assert(r.Close(), jc.ErrorIsNil)
}

func (s *mapSuite) TestIteratorFailsAfterClose(c *gc.C) {
	m := collection.NewMap(map[string]string{"k": "v"})

	r := m.AcquireRead()
	it, err := r.Map().Entries()
	c.Assert(err, jc.ErrorIsNil)

	c.Assert(r.Close(), jc.ErrorIsNil)
	c.Assert(it.Next(), jc.IsFalse)
	c.Assert(it.Err(), jc.ErrorIs, acquire.ErrAlreadyUnlocked)
}

func (s *mapSuite) TestEntries(c *gc.C) {
	m := collection.NewMap(map[string]int{"a": 1, "b": 2})

	r := m.AcquireRead()
	defer r.Close()

	it, err := r.Map().Entries()
	c.Assert(err, jc.ErrorIsNil)

	got := map[string]int{}
	for it.Next() {
		e := it.Value()
		k, err := e.Key()
		c.Assert(err, jc.ErrorIsNil)
		v, ok, err := e.Value()
		c.Assert(err, jc.ErrorIsNil)
		c.Assert(ok, jc.IsTrue)
		got[k] = v
	}
	c.Assert(it.Err(), jc.ErrorIsNil)
	c.Assert(got, gc.DeepEquals, map[string]int{"a": 1, "b": 2})
}

func (s *mapSuite) TestEntryFailsAfterClose(c *gc.C) {
	m := collection.NewMap(map[string]string{"k": "v"})

	r := m.AcquireRead()
	it, err := r.Map().Entries()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(it.Next(), jc.IsTrue)
	entry := it.Value()

	c.Assert(r.Close(), jc.ErrorIsNil)

	_, err = entry.Key()
	c.Assert(err, jc.ErrorIs, acquire.ErrAlreadyUnlocked)
	_, _, err = entry.Value()
	c.Assert(err, jc.ErrorIs, acquire.ErrAlreadyUnlocked)
}

func (s *mapSuite) TestEntrySetOnReadViewRefused(c *gc.C) {
	m := collection.NewMap(map[string]int{"a": 1})

	r := m.AcquireRead()
	defer r.Close()

	entries, err := r.Map().EntrySlice()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(entries, gc.HasLen, 1)

	_, err = entries[0].Set(2)
	c.Assert(err, jc.ErrorIs, acquire.ErrTypeMismatch)

	v, ok, err := entries[0].Value()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(ok, jc.IsTrue)
	c.Assert(v, gc.Equals, 1)
}

func (s *mapSuite) TestEntrySetOnWriteView(c *gc.C) {
	m := collection.NewMap(map[string]int{"a": 1})

	w, err := m.AcquireWrite()
	c.Assert(err, jc.ErrorIsNil)

	entries, err := w.Map().EntrySlice()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(entries, gc.HasLen, 1)

	old, err := entries[0].Set(2)
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(old, gc.Equals, 1)

	v, ok, err := w.Map().Get("a")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(ok, jc.IsTrue)
	c.Assert(v, gc.Equals, 2)

	c.Assert(w.Close(), jc.ErrorIsNil)
}

func (s *mapSuite) TestEntryTracksLiveMutation(c *gc.C) {
	m := collection.NewMap(map[string]int{"a": 1})

	w, err := m.AcquireWrite()
	c.Assert(err, jc.ErrorIsNil)
	view := w.Map()

	entries, err := view.EntrySlice()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(entries, gc.HasLen, 1)
	entry := entries[0]

	// The entry reads the live map, including removal of its mapping.
	_, _, err = view.Put("a", 5)
	c.Assert(err, jc.ErrorIsNil)
	v, ok, err := entry.Value()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(ok, jc.IsTrue)
	c.Assert(v, gc.Equals, 5)

	_, _, err = view.Delete("a")
	c.Assert(err, jc.ErrorIsNil)
	_, ok, err = entry.Value()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(ok, jc.IsFalse)

	c.Assert(w.Close(), jc.ErrorIsNil)
}

func (s *mapSuite) TestUpgradedViewWritesReadViewStaysReadOnly(c *gc.C) {
	m := collection.NewMap(map[string]int{"a": 1})

	r := m.AcquireRead()
	readView := r.Map()

	w, err := m.AcquireWrite()
	c.Assert(err, jc.ErrorIsNil)

	_, _, err = w.Map().Put("b", 2)
	c.Assert(err, jc.ErrorIsNil)

	// Entries from the pre-upgrade read view still refuse writes even
	// while the upgrade is live.
	entries, err := readView.EntrySlice()
	c.Assert(err, jc.ErrorIsNil)
	for _, e := range entries {
		_, err := e.Set(9)
		c.Check(err, jc.ErrorIs, acquire.ErrTypeMismatch)
	}

	c.Assert(w.Close(), jc.ErrorIsNil)
	c.Assert(r.Close(), jc.ErrorIsNil)
}
