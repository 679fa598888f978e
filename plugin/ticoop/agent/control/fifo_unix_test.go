// SPDX-License-Identifier: GPL-3.0-or-later

//go:build unix

package control

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureFIFO(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "control")

	require.NoError(t, EnsureFIFO(path))
	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.NotZero(t, fi.Mode()&os.ModeNamedPipe)

	assert.NoError(t, EnsureFIFO(path))

	regular := filepath.Join(dir, "regular")
	require.NoError(t, os.WriteFile(regular, nil, 0644))
	assert.Error(t, EnsureFIFO(regular))
}
