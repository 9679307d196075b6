// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package acquire

import (
	"fmt"
	"sync/atomic"

	"github.com/juju/errors"
	"github.com/petermattis/goid"
)

// Kind reports whether an acquisition permits write operations.
type Kind int32

const (
	// Read acquisitions permit read operations only.
	Read Kind = iota
	// Write acquisitions permit both read and write operations.
	Write
)

// String is part of the fmt.Stringer interface.
func (k Kind) String() string {
	switch k {
	case Read:
		return "read"
	case Write:
		return "write"
	}
	return fmt.Sprintf("unknown kind %d", int32(k))
}

// Acquisition is a scoped capability granting access to the state of an
// Acquirable. An acquisition is pinned to the goroutine that created it:
// every operation other than Kind fails with ErrWrongGoroutine when
// invoked from any other goroutine.
//
// Acquisitions are not re-taken recursively. When the owning goroutine
// acquires again on the same acquirable it receives a lightweight
// wrapper sharing the outer acquisition's lock; see Acquirable.
type Acquisition interface {
	// Close releases the acquisition. The first successful call
	// releases the underlying lock and deregisters the acquisition;
	// subsequent calls by the owner are no-ops. Close never releases a
	// lock it does not hold: a reused wrapper returned for a nested
	// acquire leaves the outer acquisition's lock untouched, and an
	// upgraded wrapper only converts it back into a read lock.
	Close() error

	// IsUnlocked reports whether Close has run. Reused wrappers
	// produced for nested acquires report true unconditionally, since
	// their lifecycle belongs to the original acquisition; an upgraded
	// wrapper reports whether its own Close has run.
	IsUnlocked() (bool, error)

	// Check is the permitted-and-locked predicate run by every guarded
	// operation. It returns ErrWrongGoroutine when the caller does not
	// own the acquisition and ErrAlreadyUnlocked after Close has run.
	Check() error

	// Kind reports whether the acquisition currently permits writes.
	// A root read acquisition transiently reports Write while an
	// upgrade is live and reverts to Read once the upgrade unwinds.
	Kind() Kind
}

// rootAcquisition is the acquisition variant that actually holds the
// lock and occupies the acquirable's registry slot for its owner.
type rootAcquisition struct {
	acquirable *Acquirable
	owner      int64

	// kind is atomic so that Kind can be called from goroutines racing
	// with an owner-side upgrade; all other fields are only touched by
	// the owner after the ownership check passes.
	kind         atomic.Int32
	upgradeDepth int
	unlocked     bool
}

func newRootAcquisition(a *Acquirable, kind Kind) *rootAcquisition {
	r := &rootAcquisition{
		acquirable: a,
		owner:      goid.Get(),
	}
	r.kind.Store(int32(kind))
	return r
}

func (r *rootAcquisition) checkOwner() error {
	if gid := goid.Get(); gid != r.owner {
		return fmt.Errorf(
			"goroutine %d does not own this acquisition%w",
			gid, errors.Hide(ErrWrongGoroutine))
	}
	return nil
}

// Close implements Acquisition.
func (r *rootAcquisition) Close() error {
	if err := r.checkOwner(); err != nil {
		return errors.Trace(err)
	}
	if r.unlocked {
		return nil
	}
	if r.upgradeDepth > 0 {
		return fmt.Errorf(
			"closing a root acquisition below %d live upgrade(s)%w",
			r.upgradeDepth, errors.Hide(ErrLockInvariantViolation))
	}
	r.unlocked = true
	r.acquirable.unregister(r)

	switch r.Kind() {
	case Read:
		r.acquirable.lock.RUnlock()
	case Write:
		r.acquirable.lock.Unlock()
	}
	return nil
}

// IsUnlocked implements Acquisition.
func (r *rootAcquisition) IsUnlocked() (bool, error) {
	if err := r.checkOwner(); err != nil {
		return false, errors.Trace(err)
	}
	return r.unlocked, nil
}

// Check implements Acquisition.
func (r *rootAcquisition) Check() error {
	if err := r.checkOwner(); err != nil {
		return errors.Trace(err)
	}
	if r.unlocked {
		return ErrAlreadyUnlocked
	}
	return nil
}

// Kind implements Acquisition.
func (r *rootAcquisition) Kind() Kind {
	return Kind(r.kind.Load())
}

// reusedAcquisition is returned when the owning goroutine acquires again
// while it already holds an acquisition whose kind satisfies the
// request. It shares the root's lock and checks, carries no lifecycle of
// its own, and its Close is a no-op.
type reusedAcquisition struct {
	root *rootAcquisition
}

// Close implements Acquisition. Unlocking must go through the original
// acquisition, so beyond the owner check this is a no-op.
func (r *reusedAcquisition) Close() error {
	if err := r.root.checkOwner(); err != nil {
		return errors.Trace(err)
	}
	return nil
}

// IsUnlocked implements Acquisition. A reused acquisition relies on the
// original for its lock, so it always reports true to its owner.
func (r *reusedAcquisition) IsUnlocked() (bool, error) {
	if err := r.root.checkOwner(); err != nil {
		return false, errors.Trace(err)
	}
	return true, nil
}

// Check implements Acquisition.
func (r *reusedAcquisition) Check() error {
	return r.root.Check()
}

// Kind implements Acquisition.
func (r *reusedAcquisition) Kind() Kind {
	return r.root.Kind()
}

// upgradedAcquisition converts the root's read lock into a write lock
// for the duration of its own scope. Upgrades nest: only the outermost
// one performs the conversion back.
type upgradedAcquisition struct {
	root   *rootAcquisition
	closed bool
}

// Close implements Acquisition. Closing the outermost live upgrade
// converts the root's write lock back into a read lock.
func (u *upgradedAcquisition) Close() error {
	if err := u.root.checkOwner(); err != nil {
		return errors.Trace(err)
	}
	if u.closed {
		return nil
	}
	u.closed = true

	u.root.upgradeDepth--
	if u.root.upgradeDepth > 0 {
		return nil
	}
	u.root.acquirable.lock.Downgrade()
	u.root.kind.Store(int32(Read))
	logger.Tracef("downgraded acquisition for goroutine %d", u.root.owner)
	return nil
}

// IsUnlocked implements Acquisition.
func (u *upgradedAcquisition) IsUnlocked() (bool, error) {
	if err := u.root.checkOwner(); err != nil {
		return false, errors.Trace(err)
	}
	return u.closed, nil
}

// Check implements Acquisition. An upgraded acquisition stops granting
// access the moment its own scope closes, even though the root remains
// held: a write capability must not outlive its upgrade.
func (u *upgradedAcquisition) Check() error {
	if err := u.root.checkOwner(); err != nil {
		return errors.Trace(err)
	}
	if u.closed {
		return ErrAlreadyUnlocked
	}
	return u.root.Check()
}

// Kind implements Acquisition.
func (u *upgradedAcquisition) Kind() Kind {
	if u.closed {
		return u.root.Kind()
	}
	return Write
}
