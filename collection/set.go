// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package collection

import (
	"github.com/juju/errors"

	"github.com/juju/acquire"
)

// Set is an acquirable protecting a hash set of elements.
type Set[T comparable] struct {
	guard *acquire.Acquirable
	elems map[T]struct{}
}

// NewSet returns a Set protecting a copy of the initial elements.
func NewSet[T comparable](initial ...T) *Set[T] {
	elems := make(map[T]struct{}, len(initial))
	for _, v := range initial {
		elems[v] = struct{}{}
	}
	return &Set[T]{
		guard: acquire.New(),
		elems: elems,
	}
}

// AcquireRead acquires the set for reading.
func (s *Set[T]) AcquireRead() *SetAcquisition[T] {
	inner := s.guard.AcquireRead()
	return &SetAcquisition[T]{
		Acquisition: inner,
		view:        &GuardedSet[T]{acq: inner, owner: s},
	}
}

// AcquireWrite acquires the set for writing, upgrading a read
// acquisition already held by the calling goroutine if necessary.
func (s *Set[T]) AcquireWrite() (*WriteSetAcquisition[T], error) {
	inner, err := s.guard.AcquireWrite()
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &WriteSetAcquisition[T]{
		Acquisition: inner,
		view: &WritableSet[T]{
			GuardedSet: GuardedSet[T]{acq: inner, owner: s},
		},
	}, nil
}

// Cond returns a condition variable of the set's write lock.
func (s *Set[T]) Cond() *acquire.Condition {
	return s.guard.Cond()
}

// SetAcquisition grants read access to a set.
type SetAcquisition[T comparable] struct {
	acquire.Acquisition

	view *GuardedSet[T]
}

// Set returns the guarded view of the protected set.
func (a *SetAcquisition[T]) Set() *GuardedSet[T] {
	return a.view
}

// WriteSetAcquisition grants read and write access to a set.
type WriteSetAcquisition[T comparable] struct {
	acquire.Acquisition

	view *WritableSet[T]
}

// Set returns the guarded writable view of the protected set.
func (a *WriteSetAcquisition[T]) Set() *WritableSet[T] {
	return a.view
}

// GuardedSet is a guarded read view over a set.
type GuardedSet[T comparable] struct {
	acq   acquire.Acquisition
	owner *Set[T]
}

// Len returns the number of elements in the set.
func (s *GuardedSet[T]) Len() (int, error) {
	if err := s.acq.Check(); err != nil {
		return 0, errors.Trace(err)
	}
	return len(s.owner.elems), nil
}

// IsEmpty reports whether the set contains no elements.
func (s *GuardedSet[T]) IsEmpty() (bool, error) {
	n, err := s.Len()
	if err != nil {
		return false, errors.Trace(err)
	}
	return n == 0, nil
}

// Contains reports whether the set contains the given element.
func (s *GuardedSet[T]) Contains(v T) (bool, error) {
	if err := s.acq.Check(); err != nil {
		return false, errors.Trace(err)
	}
	_, ok := s.owner.elems[v]
	return ok, nil
}

// Values returns the set's elements in unspecified order.
func (s *GuardedSet[T]) Values() ([]T, error) {
	if err := s.acq.Check(); err != nil {
		return nil, errors.Trace(err)
	}
	vs := make([]T, 0, len(s.owner.elems))
	for v := range s.owner.elems {
		vs = append(vs, v)
	}
	return vs, nil
}

// Iterator returns a guarded iterator over a snapshot of the set's
// membership taken now. Element removal after the snapshot is not
// reflected.
func (s *GuardedSet[T]) Iterator() (*Iterator[T], error) {
	vs, err := s.Values()
	if err != nil {
		return nil, errors.Trace(err)
	}
	i := 0
	return newIterator(s.acq, func() (T, bool) {
		if i >= len(vs) {
			var zero T
			return zero, false
		}
		v := vs[i]
		i++
		return v, true
	}), nil
}

// WritableSet is a guarded view additionally permitting mutation. It is
// only reachable through a write acquisition.
type WritableSet[T comparable] struct {
	GuardedSet[T]
}

// Add adds the given elements to the set, reporting whether the set
// changed.
func (s *WritableSet[T]) Add(vs ...T) (bool, error) {
	if err := s.acq.Check(); err != nil {
		return false, errors.Trace(err)
	}
	changed := false
	for _, v := range vs {
		if _, ok := s.owner.elems[v]; !ok {
			s.owner.elems[v] = struct{}{}
			changed = true
		}
	}
	return changed, nil
}

// Remove removes the given element, reporting whether the set contained
// it.
func (s *WritableSet[T]) Remove(v T) (bool, error) {
	if err := s.acq.Check(); err != nil {
		return false, errors.Trace(err)
	}
	_, ok := s.owner.elems[v]
	delete(s.owner.elems, v)
	return ok, nil
}

// Clear removes all elements from the set.
func (s *WritableSet[T]) Clear() error {
	if err := s.acq.Check(); err != nil {
		return errors.Trace(err)
	}
	clear(s.owner.elems)
	return nil
}
