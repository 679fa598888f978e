// SPDX-License-Identifier: GPL-3.0-or-later

//go:build !unix

package cputime

import "time"

var start = time.Now()

// User falls back to wall-clock time since process start on platforms
// without getrusage.
func User() time.Duration {
	return time.Since(start)
}
