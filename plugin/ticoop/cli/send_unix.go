// SPDX-License-Identifier: GPL-3.0-or-later

//go:build unix

package cli

import "golang.org/x/sys/unix"

const openNonblock = unix.O_NONBLOCK
