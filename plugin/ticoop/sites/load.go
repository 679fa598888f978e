// SPDX-License-Identifier: GPL-3.0-or-later

package sites

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/tl455047/TICooperator/logger"
)

var log = logger.New().With(
	slog.String("component", "sites"),
)

// Load reads the site list at path. It never fails: an unreadable file gives
// an empty registry, and bad records are logged and skipped.
func Load(path string) *Registry {
	f, err := os.Open(path)
	if err != nil {
		log.Warningf("unable to open site list: %v", err)
		r, _ := NewRegistry()
		return r
	}
	defer func() { _ = f.Close() }()

	r, errs := Parse(f)
	for _, err := range errs {
		log.Warningf("%s: %v", path, err)
	}

	log.Infof("loaded %d sites from '%s'", r.Len(), path)

	return r
}

// Parse reads one site per line in the form "hexAddress [decimalId]".
// Blank lines and lines starting with '#' are ignored.
func Parse(rd io.Reader) (*Registry, []error) {
	var (
		list []Site
		errs []error
	)

	sc := bufio.NewScanner(rd)
	for num := 1; sc.Scan(); num++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		s, err := parseLine(line)
		if err != nil {
			errs = append(errs, fmt.Errorf("line %d: %w", num, err))
			continue
		}
		list = append(list, s)
	}
	if err := sc.Err(); err != nil {
		errs = append(errs, fmt.Errorf("read: %w", err))
	}

	r, dupErrs := NewRegistry(list...)

	return r, append(errs, dupErrs...)
}

func parseLine(line string) (Site, error) {
	fields := strings.Fields(line)
	if len(fields) > 2 {
		return Site{}, fmt.Errorf("unexpected number of fields: want 1 or 2, got %d", len(fields))
	}

	hex := strings.TrimPrefix(strings.ToLower(fields[0]), "0x")
	addr, err := strconv.ParseUint(hex, 16, 64)
	if err != nil {
		return Site{}, fmt.Errorf("invalid address '%s': %w", fields[0], err)
	}

	var id uint64
	if len(fields) == 2 {
		if id, err = strconv.ParseUint(fields[1], 10, 32); err != nil {
			return Site{}, fmt.Errorf("invalid id '%s': %w", fields[1], err)
		}
	}

	return Site{Address: addr, ID: uint32(id)}, nil
}
