// SPDX-License-Identifier: GPL-3.0-or-later

// Package executable exposes the name and real directory of the running binary.
package executable

import (
	"os"
	"path/filepath"
	"strings"
)

const defaultName = "ticoop"

var (
	Name      = defaultName
	Directory string
)

func init() {
	path, err := os.Executable()
	if err != nil || path == "" {
		return
	}
	Name, Directory = resolve(path)
}

// resolve derives the binary name from path and the directory it really
// lives in, following a symlink. The logger cannot be used here: it imports
// this package.
func resolve(path string) (name, dir string) {
	name = filepath.Base(path)
	switch {
	case strings.HasSuffix(name, ".test"):
		name = "test"
	case name == "." || name == string(filepath.Separator):
		name = defaultName
	default:
		name = strings.TrimSuffix(name, ".exe")
		name = strings.TrimSuffix(name, ".plugin")
	}

	dir = filepath.Dir(path)
	if real, err := filepath.EvalSymlinks(path); err == nil {
		dir = filepath.Dir(real)
	}

	return name, dir
}
