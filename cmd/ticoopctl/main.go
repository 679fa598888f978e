// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"os"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/tl455047/TICooperator/plugin/ticoop/cli"
)

func main() {
	_, _ = maxprocs.Set(maxprocs.Logger(func(s string, args ...interface{}) {}))

	if err := cli.Run(os.Args[1:], os.Stdout); err != nil {
		if cli.IsHelp(err) {
			os.Exit(0)
		}
		os.Exit(1)
	}
}
