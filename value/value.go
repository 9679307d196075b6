// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package value provides acquirables protecting a single cell: a
// generic cell for any Go value, a variant rejecting nil references,
// and named forms for the common primitive types.
package value

import (
	"github.com/juju/errors"

	"github.com/juju/acquire"
)

// Value is an acquirable protecting a single cell of type T. Reading
// and writing the cell requires an acquisition; both are O(1) and run
// under the acquisition's permitted-and-locked check.
type Value[T any] struct {
	guard *acquire.Acquirable
	cell  T
}

// New returns a Value protecting the given initial value.
func New[T any](initial T) *Value[T] {
	return &Value[T]{
		guard: acquire.New(),
		cell:  initial,
	}
}

// AcquireRead acquires the cell for reading. If the calling goroutine
// already holds an acquisition of this value the returned acquisition
// reuses it; see acquire.Acquirable.
func (v *Value[T]) AcquireRead() *Acquisition[T] {
	return &Acquisition[T]{
		Acquisition: v.guard.AcquireRead(),
		cell:        v,
	}
}

// AcquireWrite acquires the cell for writing, upgrading a read
// acquisition already held by the calling goroutine if necessary.
func (v *Value[T]) AcquireWrite() (*WriteAcquisition[T], error) {
	inner, err := v.guard.AcquireWrite()
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &WriteAcquisition[T]{
		Acquisition: Acquisition[T]{Acquisition: inner, cell: v},
	}, nil
}

// Cond returns a condition variable of the value's write lock.
func (v *Value[T]) Cond() *acquire.Condition {
	return v.guard.Cond()
}

// Acquisition grants read access to a value cell.
type Acquisition[T any] struct {
	acquire.Acquisition

	cell *Value[T]
}

// Get returns the protected value.
func (a *Acquisition[T]) Get() (T, error) {
	if err := a.Check(); err != nil {
		var zero T
		return zero, errors.Trace(err)
	}
	return a.cell.cell, nil
}

// WriteAcquisition grants read and write access to a value cell.
type WriteAcquisition[T any] struct {
	Acquisition[T]
}

// Set stores a new value in the cell.
func (a *WriteAcquisition[T]) Set(v T) error {
	if err := a.Check(); err != nil {
		return errors.Trace(err)
	}
	a.cell.cell = v
	return nil
}
