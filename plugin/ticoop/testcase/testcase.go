// SPDX-License-Identifier: GPL-3.0-or-later

// Package testcase writes the concrete inputs of a state to disk.
package testcase

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tl455047/TICooperator/logger"
	"github.com/tl455047/TICooperator/plugin/ticoop/engine"
)

var _ engine.TestCaseGenerator = (*FileGenerator)(nil)

func NewFileGenerator(dir string) *FileGenerator {
	return &FileGenerator{
		Logger: logger.New().With(
			slog.String("component", "testcase generator"),
		),
		Dir: dir,
	}
}

// FileGenerator stores one file per symbolic object, named
// "<prefix>-<object name>", holding the object's concrete bytes.
type FileGenerator struct {
	*logger.Logger

	Dir string
}

func (g *FileGenerator) GenerateTestCases(ctx context.Context, state engine.State, prefix string, typ engine.TestCaseType) error {
	switch typ {
	case engine.TestCaseFile:
		return g.writeFiles(ctx, state, prefix)
	case engine.TestCaseLog:
		g.logValues(state, prefix)
		return nil
	default:
		return fmt.Errorf("unsupported test case type '%s'", typ)
	}
}

func (g *FileGenerator) writeFiles(ctx context.Context, state engine.State, prefix string) error {
	var errs []error

	for _, arr := range state.Symbolics() {
		if err := ctx.Err(); err != nil {
			return err
		}

		value, ok := state.Concolics().Value(arr)
		if !ok {
			errs = append(errs, fmt.Errorf("object '%s': no concrete value", arr.Name))
			continue
		}

		path := filepath.Join(g.Dir, FileName(prefix, arr.Name))
		if err := writeFile(path, value); err != nil {
			errs = append(errs, fmt.Errorf("object '%s': %w", arr.Name, err))
			continue
		}

		g.Debugf("wrote %d bytes to '%s'", len(value), path)
	}

	return errors.Join(errs...)
}

func (g *FileGenerator) logValues(state engine.State, prefix string) {
	for _, arr := range state.Symbolics() {
		value, _ := state.Concolics().Value(arr)
		g.Infof("%s: %s = %s", prefix, arr.Name, hex.EncodeToString(value))
	}
}

// FileName returns the file name used for object name under prefix.
func FileName(prefix, name string) string {
	return prefix + "-" + strings.Map(func(r rune) rune {
		if r == '/' || r == os.PathSeparator || r == 0 {
			return '_'
		}
		return r
	}, name)
}

// writeFile replaces path atomically so a reader never sees a partial input.
func writeFile(path string, data []byte) error {
	f, err := os.CreateTemp(filepath.Dir(path), ".tmp-"+filepath.Base(path))
	if err != nil {
		return err
	}
	tmp := f.Name()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Chmod(tmp, 0644); err != nil {
		_ = os.Remove(tmp)
		return err
	}

	return os.Rename(tmp, path)
}
