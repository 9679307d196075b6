// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package acquire

import (
	"sync"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
	"github.com/petermattis/goid"

	"github.com/juju/acquire/internal/rwlock"
)

var logger = loggo.GetLogger("juju.acquire")

// Acquirable owns one unit of state protected by an upgradable
// read/write lock. Access to the state goes through acquisitions minted
// by AcquireRead and AcquireWrite.
//
// An Acquirable carries no state of its own beyond the lock, so it also
// serves directly as a scoped reentrant lock; the typed cells in the
// value package and the containers in the collection package build on it
// to protect actual data.
//
// Each goroutine holds at most one root acquisition of a given
// acquirable at a time. Acquiring again from the same goroutine returns
// a wrapper sharing the root's lock rather than taking the lock a second
// time, so the reentrancy hazards of a plain RWMutex do not apply.
type Acquirable struct {
	lock rwlock.Upgradable

	// mu guards held. It is never held while operating on lock, not
	// even for the non-blocking upgrade conversion.
	mu   sync.Mutex
	held map[int64]*rootAcquisition
}

// New returns an Acquirable with no protected state, usable as a scoped
// reentrant lock with read-to-write upgrade.
func New() *Acquirable {
	return &Acquirable{}
}

// AcquireRead returns an acquisition permitting read operations,
// blocking while a writer holds or awaits the lock. If the calling
// goroutine already holds an acquisition of this acquirable, a wrapper
// reusing it is returned immediately and the lock is left untouched.
func (a *Acquirable) AcquireRead() Acquisition {
	gid := goid.Get()

	a.mu.Lock()
	if r, ok := a.held[gid]; ok {
		a.mu.Unlock()
		return &reusedAcquisition{root: r}
	}
	a.mu.Unlock()

	// Only this goroutine can register under gid, so the registry
	// cannot gain an entry for it between the lookup above and the
	// registration below.
	a.lock.RLock()
	r := newRootAcquisition(a, Read)
	a.register(r)
	return r
}

// AcquireWrite returns an acquisition permitting write operations,
// blocking until all readers have drained and any writer has unlocked.
//
// If the calling goroutine already holds a write acquisition, a wrapper
// reusing it is returned. If it holds a read acquisition, AcquireWrite
// attempts the lock's atomic read-to-write conversion and returns an
// upgraded acquisition whose Close reverts the conversion; while any
// upgraded acquisition is live the root reports Write. The conversion
// fails with ErrUpgradeRefused when other readers share the lock.
func (a *Acquirable) AcquireWrite() (Acquisition, error) {
	gid := goid.Get()

	a.mu.Lock()
	r, ok := a.held[gid]
	a.mu.Unlock()

	if !ok {
		a.lock.Lock()
		r = newRootAcquisition(a, Write)
		a.register(r)
		return r, nil
	}

	switch r.Kind() {
	case Write:
		return &reusedAcquisition{root: r}, nil
	case Read:
		if !a.lock.TryUpgrade() {
			return nil, errors.Trace(ErrUpgradeRefused)
		}
		r.kind.Store(int32(Write))
		r.upgradeDepth++
		logger.Tracef("upgraded acquisition for goroutine %d (depth %d)", gid, r.upgradeDepth)
		return &upgradedAcquisition{root: r}, nil
	}
	return nil, errors.Trace(ErrLockInvariantViolation)
}

// Cond returns a condition variable of this acquirable's write lock,
// using the wall clock for timed waits.
func (a *Acquirable) Cond() *Condition {
	return a.CondWithClock(clock.WallClock)
}

// CondWithClock returns a condition variable of this acquirable's write
// lock that schedules timed waits on the supplied clock.
func (a *Acquirable) CondWithClock(clk clock.Clock) *Condition {
	return &Condition{acquirable: a, clock: clk}
}

func (a *Acquirable) register(r *rootAcquisition) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.held == nil {
		a.held = make(map[int64]*rootAcquisition)
	}
	if _, ok := a.held[r.owner]; ok {
		panic("acquire: acquisition already registered for goroutine")
	}
	a.held[r.owner] = r
}

func (a *Acquirable) unregister(r *rootAcquisition) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.held[r.owner] == r {
		delete(a.held, r.owner)
	}
}

// heldBy returns the root acquisition registered by the given goroutine,
// if any.
func (a *Acquirable) heldBy(gid int64) (*rootAcquisition, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	r, ok := a.held[gid]
	return r, ok
}
