// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package collection

import (
	"github.com/juju/errors"

	"github.com/juju/acquire"
)

// Iterator walks the elements of a guarded view. It is itself a guarded
// view: every advance re-runs the acquisition's permitted-and-locked
// check, so an iterator kept across the close of its acquisition stops
// and reports acquire.ErrAlreadyUnlocked.
//
// The usual pattern is:
//
//	it, err := view.Iterator()
//	...
//	for it.Next() {
//	    use(it.Value())
//	}
//	if err := it.Err(); err != nil {
//	    ...
//	}
type Iterator[T any] struct {
	acq  acquire.Acquisition
	next func() (T, bool)

	current T
	err     error
	done    bool
}

func newIterator[T any](acq acquire.Acquisition, next func() (T, bool)) *Iterator[T] {
	return &Iterator[T]{acq: acq, next: next}
}

// Next advances the iterator, reporting whether an element is
// available. It returns false once the elements are exhausted or the
// acquisition check fails; Err distinguishes the two.
func (it *Iterator[T]) Next() bool {
	if it.done || it.err != nil {
		return false
	}
	if err := it.acq.Check(); err != nil {
		it.err = errors.Trace(err)
		return false
	}
	v, ok := it.next()
	if !ok {
		it.done = true
		return false
	}
	it.current = v
	return true
}

// Value returns the element produced by the last successful Next.
func (it *Iterator[T]) Value() T {
	return it.current
}

// Err returns the acquisition check failure that ended iteration, if
// any.
func (it *Iterator[T]) Err() error {
	return it.err
}
