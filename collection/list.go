// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package collection provides acquirables protecting containers: an
// ordered list, hash sets and a map. Acquisitions expose the container
// through guarded views whose every operation verifies the acquisition
// before touching the container, so views, iterators, sub-lists and map
// entries all become invalid the moment their acquisition closes.
package collection

import (
	"slices"

	"github.com/juju/errors"

	"github.com/juju/acquire"
)

// List is an acquirable protecting an ordered sequence of elements.
type List[T comparable] struct {
	guard *acquire.Acquirable
	items []T
}

// NewList returns a List protecting a copy of the initial elements.
func NewList[T comparable](initial []T) *List[T] {
	return &List[T]{
		guard: acquire.New(),
		items: slices.Clone(initial),
	}
}

// AcquireRead acquires the list for reading.
func (l *List[T]) AcquireRead() *ListAcquisition[T] {
	inner := l.guard.AcquireRead()
	return &ListAcquisition[T]{
		Acquisition: inner,
		view:        &GuardedList[T]{acq: inner, owner: l, to: wholeList},
	}
}

// AcquireWrite acquires the list for writing, upgrading a read
// acquisition already held by the calling goroutine if necessary. The
// returned acquisition exposes a fresh writable view; guarded views
// handed out by an earlier read acquisition stay read-only.
func (l *List[T]) AcquireWrite() (*WriteListAcquisition[T], error) {
	inner, err := l.guard.AcquireWrite()
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &WriteListAcquisition[T]{
		Acquisition: inner,
		view: &WritableList[T]{
			GuardedList: GuardedList[T]{acq: inner, owner: l, to: wholeList},
		},
	}, nil
}

// Cond returns a condition variable of the list's write lock.
func (l *List[T]) Cond() *acquire.Condition {
	return l.guard.Cond()
}

// ListAcquisition grants read access to a list.
type ListAcquisition[T comparable] struct {
	acquire.Acquisition

	view *GuardedList[T]
}

// List returns the guarded view of the protected list.
func (a *ListAcquisition[T]) List() *GuardedList[T] {
	return a.view
}

// WriteListAcquisition grants read and write access to a list.
type WriteListAcquisition[T comparable] struct {
	acquire.Acquisition

	view *WritableList[T]
}

// List returns the guarded writable view of the protected list.
func (a *WriteListAcquisition[T]) List() *WritableList[T] {
	return a.view
}

// wholeList marks a view tracking the full extent of the list rather
// than a fixed sub-range.
const wholeList = -1

// GuardedList is a guarded read view over a list or one of its
// sub-ranges. Every operation runs the bound acquisition's check first
// and surfaces its failure without touching the list.
type GuardedList[T comparable] struct {
	acq   acquire.Acquisition
	owner *List[T]

	// [from, to) bounds the view within the backing list; to is
	// wholeList for a view covering the entire list.
	from int
	to   int
}

func (l *GuardedList[T]) bounds() (int, int) {
	if l.to == wholeList {
		return l.from, len(l.owner.items)
	}
	return l.from, l.to
}

func (l *GuardedList[T]) window() []T {
	from, to := l.bounds()
	return l.owner.items[from:to:to]
}

// Len returns the number of elements in the view.
func (l *GuardedList[T]) Len() (int, error) {
	if err := l.acq.Check(); err != nil {
		return 0, errors.Trace(err)
	}
	from, to := l.bounds()
	return to - from, nil
}

// IsEmpty reports whether the view contains no elements.
func (l *GuardedList[T]) IsEmpty() (bool, error) {
	n, err := l.Len()
	if err != nil {
		return false, errors.Trace(err)
	}
	return n == 0, nil
}

// Get returns the element at the given index.
func (l *GuardedList[T]) Get(i int) (T, error) {
	var zero T
	if err := l.acq.Check(); err != nil {
		return zero, errors.Trace(err)
	}
	w := l.window()
	if i < 0 || i >= len(w) {
		return zero, errors.Errorf("index %d out of range [0, %d)", i, len(w))
	}
	return w[i], nil
}

// Contains reports whether the view contains the given element.
func (l *GuardedList[T]) Contains(v T) (bool, error) {
	if err := l.acq.Check(); err != nil {
		return false, errors.Trace(err)
	}
	return slices.Contains(l.window(), v), nil
}

// IndexOf returns the index of the first occurrence of the given
// element, or -1 if the view does not contain it.
func (l *GuardedList[T]) IndexOf(v T) (int, error) {
	if err := l.acq.Check(); err != nil {
		return 0, errors.Trace(err)
	}
	return slices.Index(l.window(), v), nil
}

// Values returns a copy of the view's elements.
func (l *GuardedList[T]) Values() ([]T, error) {
	if err := l.acq.Check(); err != nil {
		return nil, errors.Trace(err)
	}
	return slices.Clone(l.window()), nil
}

// Iterator returns a guarded iterator over the view. The iterator reads
// the live list, so elements appended through a writable view of the
// same acquisition scope are visited.
func (l *GuardedList[T]) Iterator() (*Iterator[T], error) {
	if err := l.acq.Check(); err != nil {
		return nil, errors.Trace(err)
	}
	i := 0
	return newIterator(l.acq, func() (T, bool) {
		w := l.window()
		if i >= len(w) {
			var zero T
			return zero, false
		}
		v := w[i]
		i++
		return v, true
	}), nil
}

// SubList returns a guarded view over the half-open range [from, to) of
// this view, bound to the same acquisition. The sub-list shares storage
// with the list; it does not snapshot.
func (l *GuardedList[T]) SubList(from, to int) (*GuardedList[T], error) {
	if err := l.acq.Check(); err != nil {
		return nil, errors.Trace(err)
	}
	base, limit := l.bounds()
	if from < 0 || to < from || base+to > limit {
		return nil, errors.Errorf(
			"sub-list range [%d, %d) out of range [0, %d)", from, to, limit-base)
	}
	return &GuardedList[T]{
		acq:   l.acq,
		owner: l.owner,
		from:  base + from,
		to:    base + to,
	}, nil
}

// WritableList is a guarded view additionally permitting mutation. It
// is only reachable through a write acquisition.
type WritableList[T comparable] struct {
	GuardedList[T]
}

// Set replaces the element at the given index, returning the previous
// element.
func (l *WritableList[T]) Set(i int, v T) (T, error) {
	var zero T
	if err := l.acq.Check(); err != nil {
		return zero, errors.Trace(err)
	}
	from, to := l.bounds()
	if i < 0 || from+i >= to {
		return zero, errors.Errorf("index %d out of range [0, %d)", i, to-from)
	}
	old := l.owner.items[from+i]
	l.owner.items[from+i] = v
	return old, nil
}

// Append adds elements at the end of the view: at the end of the list
// for a whole-list view, before the upper bound for a sub-list.
func (l *WritableList[T]) Append(vs ...T) error {
	if err := l.acq.Check(); err != nil {
		return errors.Trace(err)
	}
	if l.to == wholeList {
		l.owner.items = append(l.owner.items, vs...)
		return nil
	}
	l.owner.items = slices.Insert(l.owner.items, l.to, vs...)
	l.to += len(vs)
	return nil
}

// Insert adds an element at the given index, shifting later elements.
func (l *WritableList[T]) Insert(i int, v T) error {
	if err := l.acq.Check(); err != nil {
		return errors.Trace(err)
	}
	from, to := l.bounds()
	if i < 0 || from+i > to {
		return errors.Errorf("index %d out of range [0, %d]", i, to-from)
	}
	l.owner.items = slices.Insert(l.owner.items, from+i, v)
	if l.to != wholeList {
		l.to++
	}
	return nil
}

// RemoveAt removes and returns the element at the given index.
func (l *WritableList[T]) RemoveAt(i int) (T, error) {
	var zero T
	if err := l.acq.Check(); err != nil {
		return zero, errors.Trace(err)
	}
	from, to := l.bounds()
	if i < 0 || from+i >= to {
		return zero, errors.Errorf("index %d out of range [0, %d)", i, to-from)
	}
	old := l.owner.items[from+i]
	l.owner.items = slices.Delete(l.owner.items, from+i, from+i+1)
	if l.to != wholeList {
		l.to--
	}
	return old, nil
}

// Remove removes the first occurrence of the given element, reporting
// whether the view contained it.
func (l *WritableList[T]) Remove(v T) (bool, error) {
	if err := l.acq.Check(); err != nil {
		return false, errors.Trace(err)
	}
	i := slices.Index(l.window(), v)
	if i < 0 {
		return false, nil
	}
	from, _ := l.bounds()
	l.owner.items = slices.Delete(l.owner.items, from+i, from+i+1)
	if l.to != wholeList {
		l.to--
	}
	return true, nil
}

// Clear removes all elements of the view from the list.
func (l *WritableList[T]) Clear() error {
	if err := l.acq.Check(); err != nil {
		return errors.Trace(err)
	}
	from, to := l.bounds()
	l.owner.items = slices.Delete(l.owner.items, from, to)
	if l.to != wholeList {
		l.to = l.from
	}
	return nil
}

// SubList returns a writable guarded view over the half-open range
// [from, to) of this view, bound to the same acquisition.
func (l *WritableList[T]) SubList(from, to int) (*WritableList[T], error) {
	sub, err := l.GuardedList.SubList(from, to)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &WritableList[T]{GuardedList: *sub}, nil
}
