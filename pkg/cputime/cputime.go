// SPDX-License-Identifier: GPL-3.0-or-later

//go:build unix

// Package cputime reports the CPU time consumed by the current process.
package cputime

import (
	"time"

	"golang.org/x/sys/unix"
)

// User returns the user CPU time consumed by the process so far.
// It returns 0 if the kernel refuses the query.
func User() time.Duration {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return 0
	}
	return time.Duration(ru.Utime.Nano())
}
