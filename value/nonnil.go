// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package value

import (
	"fmt"
	"reflect"

	"github.com/juju/errors"

	"github.com/juju/acquire"
)

// NonNil is an acquirable protecting a single reference cell that is
// never nil: both the constructor and Set reject nil pointers, maps,
// slices, channels, functions and interface values with
// acquire.ErrNilValue. Non-nilable types are always accepted.
type NonNil[T any] struct {
	value Value[T]
}

// NewNonNil returns a NonNil protecting the given initial value.
func NewNonNil[T any](initial T) (*NonNil[T], error) {
	if err := checkNotNil(initial); err != nil {
		return nil, errors.Trace(err)
	}
	return &NonNil[T]{
		value: Value[T]{
			guard: acquire.New(),
			cell:  initial,
		},
	}, nil
}

// AcquireRead acquires the cell for reading.
func (v *NonNil[T]) AcquireRead() *Acquisition[T] {
	return v.value.AcquireRead()
}

// AcquireWrite acquires the cell for writing. The returned
// acquisition's Set rejects nil values, leaving the cell unchanged.
func (v *NonNil[T]) AcquireWrite() (*NonNilWriteAcquisition[T], error) {
	inner, err := v.value.AcquireWrite()
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &NonNilWriteAcquisition[T]{WriteAcquisition: *inner}, nil
}

// Cond returns a condition variable of the cell's write lock.
func (v *NonNil[T]) Cond() *acquire.Condition {
	return v.value.Cond()
}

// NonNilWriteAcquisition grants read and write access to a non-nil
// reference cell.
type NonNilWriteAcquisition[T any] struct {
	WriteAcquisition[T]
}

// Set stores a new value in the cell, rejecting nil.
func (a *NonNilWriteAcquisition[T]) Set(v T) error {
	if err := checkNotNil(v); err != nil {
		return errors.Trace(err)
	}
	return a.WriteAcquisition.Set(v)
}

func checkNotNil(v any) error {
	if v == nil {
		return acquire.ErrNilValue
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan,
		reflect.Func, reflect.Interface, reflect.UnsafePointer:
		if rv.IsNil() {
			return fmt.Errorf(
				"nil %s%w", rv.Kind(), errors.Hide(acquire.ErrNilValue))
		}
	}
	return nil
}
