// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package collection

import (
	"github.com/juju/collections/set"
	"github.com/juju/errors"

	"github.com/juju/acquire"
)

// Strings is an acquirable protecting a set.Strings. It is the named
// string form of Set, with the set-algebra operations of
// juju/collections available on its views.
type Strings struct {
	guard *acquire.Acquirable
	set   set.Strings
}

// NewStrings returns a Strings protecting a set of the initial
// elements.
func NewStrings(initial ...string) *Strings {
	return &Strings{
		guard: acquire.New(),
		set:   set.NewStrings(initial...),
	}
}

// AcquireRead acquires the set for reading.
func (s *Strings) AcquireRead() *StringsAcquisition {
	inner := s.guard.AcquireRead()
	return &StringsAcquisition{
		Acquisition: inner,
		view:        &GuardedStrings{acq: inner, owner: s},
	}
}

// AcquireWrite acquires the set for writing, upgrading a read
// acquisition already held by the calling goroutine if necessary.
func (s *Strings) AcquireWrite() (*WriteStringsAcquisition, error) {
	inner, err := s.guard.AcquireWrite()
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &WriteStringsAcquisition{
		Acquisition: inner,
		view: &WritableStrings{
			GuardedStrings: GuardedStrings{acq: inner, owner: s},
		},
	}, nil
}

// Cond returns a condition variable of the set's write lock.
func (s *Strings) Cond() *acquire.Condition {
	return s.guard.Cond()
}

// StringsAcquisition grants read access to a string set.
type StringsAcquisition struct {
	acquire.Acquisition

	view *GuardedStrings
}

// Strings returns the guarded view of the protected set.
func (a *StringsAcquisition) Strings() *GuardedStrings {
	return a.view
}

// WriteStringsAcquisition grants read and write access to a string set.
type WriteStringsAcquisition struct {
	acquire.Acquisition

	view *WritableStrings
}

// Strings returns the guarded writable view of the protected set.
func (a *WriteStringsAcquisition) Strings() *WritableStrings {
	return a.view
}

// GuardedStrings is a guarded read view over a string set.
type GuardedStrings struct {
	acq   acquire.Acquisition
	owner *Strings
}

// Len returns the number of elements in the set.
func (s *GuardedStrings) Len() (int, error) {
	if err := s.acq.Check(); err != nil {
		return 0, errors.Trace(err)
	}
	return s.owner.set.Size(), nil
}

// IsEmpty reports whether the set contains no elements.
func (s *GuardedStrings) IsEmpty() (bool, error) {
	if err := s.acq.Check(); err != nil {
		return false, errors.Trace(err)
	}
	return s.owner.set.IsEmpty(), nil
}

// Contains reports whether the set contains the given element.
func (s *GuardedStrings) Contains(v string) (bool, error) {
	if err := s.acq.Check(); err != nil {
		return false, errors.Trace(err)
	}
	return s.owner.set.Contains(v), nil
}

// Values returns the set's elements in unspecified order.
func (s *GuardedStrings) Values() ([]string, error) {
	if err := s.acq.Check(); err != nil {
		return nil, errors.Trace(err)
	}
	return s.owner.set.Values(), nil
}

// SortedValues returns the set's elements in sorted order.
func (s *GuardedStrings) SortedValues() ([]string, error) {
	if err := s.acq.Check(); err != nil {
		return nil, errors.Trace(err)
	}
	return s.owner.set.SortedValues(), nil
}

// Union returns a snapshot of the union of the set with the given one.
func (s *GuardedStrings) Union(other set.Strings) (set.Strings, error) {
	if err := s.acq.Check(); err != nil {
		return set.Strings{}, errors.Trace(err)
	}
	return s.owner.set.Union(other), nil
}

// Intersection returns a snapshot of the intersection of the set with
// the given one.
func (s *GuardedStrings) Intersection(other set.Strings) (set.Strings, error) {
	if err := s.acq.Check(); err != nil {
		return set.Strings{}, errors.Trace(err)
	}
	return s.owner.set.Intersection(other), nil
}

// Difference returns a snapshot of the elements of the set that are not
// in the given one.
func (s *GuardedStrings) Difference(other set.Strings) (set.Strings, error) {
	if err := s.acq.Check(); err != nil {
		return set.Strings{}, errors.Trace(err)
	}
	return s.owner.set.Difference(other), nil
}

// Iterator returns a guarded iterator over the set's elements in sorted
// order, snapshot at creation.
func (s *GuardedStrings) Iterator() (*Iterator[string], error) {
	vs, err := s.SortedValues()
	if err != nil {
		return nil, errors.Trace(err)
	}
	i := 0
	return newIterator(s.acq, func() (string, bool) {
		if i >= len(vs) {
			return "", false
		}
		v := vs[i]
		i++
		return v, true
	}), nil
}

// WritableStrings is a guarded view additionally permitting mutation.
// It is only reachable through a write acquisition.
type WritableStrings struct {
	GuardedStrings
}

// Add adds the given elements to the set.
func (s *WritableStrings) Add(vs ...string) error {
	if err := s.acq.Check(); err != nil {
		return errors.Trace(err)
	}
	for _, v := range vs {
		s.owner.set.Add(v)
	}
	return nil
}

// Remove removes the given element, reporting whether the set contained
// it.
func (s *WritableStrings) Remove(v string) (bool, error) {
	if err := s.acq.Check(); err != nil {
		return false, errors.Trace(err)
	}
	ok := s.owner.set.Contains(v)
	s.owner.set.Remove(v)
	return ok, nil
}

// Clear removes all elements from the set.
func (s *WritableStrings) Clear() error {
	if err := s.acq.Check(); err != nil {
		return errors.Trace(err)
	}
	s.owner.set = set.NewStrings()
	return nil
}
