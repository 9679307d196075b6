// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package acquire

import (
	"github.com/juju/errors"
)

const (
	// ErrWrongGoroutine is returned when an acquisition operation is
	// attempted by a goroutine other than the one that created the
	// acquisition.
	ErrWrongGoroutine = errors.ConstError("acquisition used by non-owner goroutine")

	// ErrAlreadyUnlocked is returned when an operation is attempted on
	// an acquisition, or on a guarded view bound to it, after the
	// acquisition was closed.
	ErrAlreadyUnlocked = errors.ConstError("acquisition already unlocked")

	// ErrNilValue is returned when a nil reference is supplied to a
	// cell whose contract excludes nil.
	ErrNilValue = errors.ConstError("nil value not permitted")

	// ErrUpgradeRefused is returned by AcquireWrite when the caller
	// holds a read acquisition and the lock's read-to-write conversion
	// cannot be performed, typically because other readers share the
	// lock.
	ErrUpgradeRefused = errors.ConstError("read to write upgrade refused")

	// ErrTypeMismatch is returned when a write operation is attempted
	// through a capability that only grants read access, such as a map
	// entry produced by a read acquisition.
	ErrTypeMismatch = errors.ConstError("acquisition does not permit write operations")

	// ErrLockInvariantViolation reports internal lock state that no
	// sequence of permitted operations should be able to produce. It is
	// returned when a root acquisition is closed while an upgrade is
	// still live, and by AcquireWrite if the held acquisition reports an
	// unknown kind. Corrupt state detected inside the lock itself, such
	// as a failed downgrade, panics instead of returning this error.
	ErrLockInvariantViolation = errors.ConstError("lock invariant violated")

	// ErrConditionNotHeld is returned by condition operations invoked
	// by a goroutine that does not hold a write acquisition of the
	// condition's acquirable.
	ErrConditionNotHeld = errors.ConstError("write lock not held for condition")
)
