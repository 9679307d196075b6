// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package acquire makes shared mutable state safe to use across
// goroutines by wrapping it in a guarded container. A caller wishing to
// read or mutate protected state must first acquire it; the acquisition
// is a scoped capability that holds a read or write lock, is pinned to
// the acquiring goroutine, exposes the state only through operations
// that verify the lock is still held, and releases the lock when
// closed.
//
// Acquisitions are reentrant within a goroutine: acquiring again while
// an acquisition is held returns a lightweight wrapper sharing the
// outer lock. A goroutine holding a read acquisition may acquire write
// access on the same acquirable; the read lock is upgraded in place for
// the scope of the returned acquisition and reverts when it closes.
//
// The package provides the acquisition lifecycle and a stateless
// acquirable usable as a scoped lock. Typed cells over single values
// live in the value package; guarded lists, sets and maps live in the
// collection package.
package acquire
