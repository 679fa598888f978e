// SPDX-License-Identifier: GPL-3.0-or-later

// Package filelock guards output directories against concurrent runs.
package filelock

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
)

const suffix = ".lock"

func New(dir string) *Locker {
	return &Locker{
		dir:   dir,
		locks: make(map[string]*flock.Flock),
	}
}

type Locker struct {
	dir string

	mu    sync.Mutex
	locks map[string]*flock.Flock
}

// Lock takes the named lock without blocking. It reports false if another
// process holds it. Locking a name this Locker already holds succeeds.
func (l *Locker) Lock(name string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	filename := l.filename(name)

	if _, ok := l.locks[filename]; ok {
		return true, nil
	}

	fl := flock.New(filename)

	ok, err := fl.TryLock()
	if err != nil {
		_ = fl.Close()
		return false, fmt.Errorf("lock '%s': %w", filename, err)
	}
	if !ok {
		_ = fl.Close()
		return false, nil
	}

	l.locks[filename] = fl

	return true, nil
}

func (l *Locker) Unlock(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	filename := l.filename(name)

	if fl, ok := l.locks[filename]; ok {
		delete(l.locks, filename)
		_ = fl.Close()
	}
}

func (l *Locker) UnlockAll() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key, fl := range l.locks {
		delete(l.locks, key)
		_ = fl.Close()
	}
}

// Path returns the lock file used for name.
func (l *Locker) Path(name string) string {
	return l.filename(name)
}

func (l *Locker) isLocked(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, ok := l.locks[l.filename(name)]
	return ok
}

func (l *Locker) filename(name string) string {
	return filepath.Join(l.dir, "."+name+suffix)
}
