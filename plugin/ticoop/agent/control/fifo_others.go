// SPDX-License-Identifier: GPL-3.0-or-later

//go:build !unix

package control

import "errors"

func EnsureFIFO(string) error {
	return errors.New("named pipes are not supported on this platform")
}
