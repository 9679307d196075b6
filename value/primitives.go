// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package value

// Named forms of Value for the primitive types, in the manner of the
// named set shapes in juju/collections.

// Bool is an acquirable protecting a single bool.
type Bool = Value[bool]

// NewBool returns a Bool protecting the given initial value.
func NewBool(initial bool) *Bool { return New(initial) }

// Int is an acquirable protecting a single int.
type Int = Value[int]

// NewInt returns an Int protecting the given initial value.
func NewInt(initial int) *Int { return New(initial) }

// Int8 is an acquirable protecting a single int8.
type Int8 = Value[int8]

// NewInt8 returns an Int8 protecting the given initial value.
func NewInt8(initial int8) *Int8 { return New(initial) }

// Int16 is an acquirable protecting a single int16.
type Int16 = Value[int16]

// NewInt16 returns an Int16 protecting the given initial value.
func NewInt16(initial int16) *Int16 { return New(initial) }

// Int32 is an acquirable protecting a single int32.
type Int32 = Value[int32]

// NewInt32 returns an Int32 protecting the given initial value.
func NewInt32(initial int32) *Int32 { return New(initial) }

// Int64 is an acquirable protecting a single int64.
type Int64 = Value[int64]

// NewInt64 returns an Int64 protecting the given initial value.
func NewInt64(initial int64) *Int64 { return New(initial) }

// Byte is an acquirable protecting a single byte.
type Byte = Value[byte]

// NewByte returns a Byte protecting the given initial value.
func NewByte(initial byte) *Byte { return New(initial) }

// Float32 is an acquirable protecting a single float32.
type Float32 = Value[float32]

// NewFloat32 returns a Float32 protecting the given initial value.
func NewFloat32(initial float32) *Float32 { return New(initial) }

// Float64 is an acquirable protecting a single float64.
type Float64 = Value[float64]

// NewFloat64 returns a Float64 protecting the given initial value.
func NewFloat64(initial float64) *Float64 { return New(initial) }

// Rune is an acquirable protecting a single rune.
type Rune = Value[rune]

// NewRune returns a Rune protecting the given initial value.
func NewRune(initial rune) *Rune { return New(initial) }

// String is an acquirable protecting a single string.
type String = Value[string]

// NewString returns a String protecting the given initial value.
func NewString(initial string) *String { return New(initial) }
