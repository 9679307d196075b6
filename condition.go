// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package acquire

import (
	"sync"
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/petermattis/goid"
)

// Condition is a condition variable of an acquirable's write lock. It
// is not tied to any particular acquisition: any goroutine currently
// holding a write acquisition of the acquirable may wait on it or
// signal it. Waiting releases the write lock and re-acquires it before
// returning, so the protected state must be re-checked after every
// wake-up; wake-ups may be spurious in the usual condition variable
// manner.
type Condition struct {
	acquirable *Acquirable
	clock      clock.Clock

	mu      sync.Mutex
	waiters []chan struct{}
}

// checkHeld verifies that the calling goroutine holds a write
// acquisition of the condition's acquirable.
func (c *Condition) checkHeld() error {
	r, ok := c.acquirable.heldBy(goid.Get())
	if !ok || r.Kind() != Write {
		return errors.Trace(ErrConditionNotHeld)
	}
	return nil
}

// Wait atomically releases the write lock and suspends the calling
// goroutine until the condition is signalled, then re-acquires the
// write lock before returning. It fails with ErrConditionNotHeld if the
// caller does not hold a write acquisition.
func (c *Condition) Wait() error {
	if err := c.checkHeld(); err != nil {
		return errors.Trace(err)
	}
	ch := c.enqueue()
	// Signallers hold the write lock, so no signal can slip in between
	// enqueueing and releasing it here.
	c.acquirable.lock.Unlock()
	<-ch
	c.acquirable.lock.Lock()
	return nil
}

// WaitTimeout behaves as Wait but gives up once the supplied duration
// has elapsed on the condition's clock. It reports whether the wait was
// ended by a signal rather than by the timeout. The write lock is held
// again on return either way.
func (c *Condition) WaitTimeout(timeout time.Duration) (bool, error) {
	if err := c.checkHeld(); err != nil {
		return false, errors.Trace(err)
	}
	ch := c.enqueue()
	c.acquirable.lock.Unlock()

	signalled := true
	select {
	case <-ch:
	case <-c.clock.After(timeout):
		// A signal may have raced the timeout. If the waiter is no
		// longer queued it consumed that signal and reports success.
		signalled = !c.dequeue(ch)
	}
	c.acquirable.lock.Lock()
	return signalled, nil
}

// Signal wakes one goroutine waiting on the condition, if there is one.
// It fails with ErrConditionNotHeld if the caller does not hold a write
// acquisition.
func (c *Condition) Signal() error {
	if err := c.checkHeld(); err != nil {
		return errors.Trace(err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.waiters) > 0 {
		close(c.waiters[0])
		c.waiters = c.waiters[1:]
	}
	return nil
}

// Broadcast wakes all goroutines waiting on the condition. It fails
// with ErrConditionNotHeld if the caller does not hold a write
// acquisition.
func (c *Condition) Broadcast() error {
	if err := c.checkHeld(); err != nil {
		return errors.Trace(err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ch := range c.waiters {
		close(ch)
	}
	c.waiters = nil
	return nil
}

func (c *Condition) enqueue() chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := make(chan struct{})
	c.waiters = append(c.waiters, ch)
	return ch
}

// dequeue removes ch from the waiter queue, reporting whether it was
// still queued.
func (c *Condition) dequeue(ch chan struct{}) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, w := range c.waiters {
		if w == ch {
			c.waiters = append(c.waiters[:i], c.waiters[i+1:]...)
			return true
		}
	}
	return false
}
