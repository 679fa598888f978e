// SPDX-License-Identifier: GPL-3.0-or-later

//go:build unix

package control

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// EnsureFIFO creates a named pipe at path unless something already exists there.
func EnsureFIFO(path string) error {
	fi, err := os.Stat(path)
	if err == nil {
		if fi.Mode()&os.ModeNamedPipe == 0 {
			return fmt.Errorf("'%s' exists and is not a named pipe", path)
		}
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return unix.Mkfifo(path, 0660)
}
