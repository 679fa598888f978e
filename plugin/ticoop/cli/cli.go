// SPDX-License-Identifier: GPL-3.0-or-later

package cli

import (
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/jessevdk/go-flags"

	"github.com/tl455047/TICooperator/logger"
	"github.com/tl455047/TICooperator/pkg/buildinfo"
	"github.com/tl455047/TICooperator/pkg/executable"
	"github.com/tl455047/TICooperator/plugin/ticoop/cooperator"
	"github.com/tl455047/TICooperator/plugin/ticoop/sites"
)

// Option defines global command line options.
type Option struct {
	Debug    bool   `short:"d" long:"debug" description:"debug mode"`
	LogLevel string `short:"l" long:"log-level" description:"log level (debug, info, notice, warning, error)"`
	Version  bool   `short:"v" long:"version" description:"display the version and exit"`
}

// Run parses args and executes the selected command, writing its output to out.
func Run(args []string, out io.Writer) error {
	opt := &Option{}

	parser := flags.NewParser(opt, flags.Default)
	parser.Name = executable.Name
	parser.SubcommandsOptional = true
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		if opt.LogLevel != "" {
			if err := logger.Level.SetByName(opt.LogLevel); err != nil {
				return err
			}
		}
		if opt.Debug {
			logger.Level.Set(slog.LevelDebug)
		}
		if opt.Version {
			_, err := fmt.Fprintf(out, "%s, %s\n", executable.Name, buildinfo.Info())
			return err
		}
		if cmd == nil {
			return &flags.Error{Type: flags.ErrCommandRequired, Message: "no command specified, see --help"}
		}
		return cmd.Execute(args)
	}

	if _, err := parser.AddCommand("print-stats",
		"Flush a statistics row",
		"Ask a running agent to append a statistics row to its log.",
		&printStatsCommand{out: out}); err != nil {
		return err
	}
	if _, err := parser.AddCommand("sites",
		"Validate a site list",
		"Parse a site list and print the sites it registers.",
		&sitesCommand{out: out}); err != nil {
		return err
	}
	if _, err := parser.AddCommand("encode",
		"Encode a guest command",
		"Print the hex encoding of a guest command buffer.",
		&encodeCommand{out: out}); err != nil {
		return err
	}

	_, err := parser.ParseArgs(args)

	return err
}

func IsHelp(err error) bool {
	return flags.WroteHelp(err)
}

type printStatsCommand struct {
	Control string `short:"c" long:"control" description:"control channel of the running agent" required:"true"`

	out io.Writer
}

func (c *printStatsCommand) Execute([]string) error {
	if err := sendCommand(c.Control, cooperator.CmdPrintStatistics); err != nil {
		return err
	}
	_, err := fmt.Fprintf(c.out, "sent %s to '%s'\n", cooperator.CmdPrintStatistics, c.Control)
	return err
}

type sitesCommand struct {
	Args struct {
		Pattern string `positional-arg-name:"FILE" required:"yes" description:"site list, or a ** glob of site lists"`
	} `positional-args:"yes"`

	out io.Writer
}

func (c *sitesCommand) Execute([]string) error {
	files, err := doublestar.FilepathGlob(c.Args.Pattern)
	if err != nil {
		return fmt.Errorf("bad pattern '%s': %w", c.Args.Pattern, err)
	}
	if len(files) == 0 {
		files = []string{c.Args.Pattern}
	}

	var empty []string
	for _, file := range files {
		if len(files) > 1 {
			if _, err := fmt.Fprintf(c.out, "# %s\n", file); err != nil {
				return err
			}
		}

		r := sites.Load(file)
		for _, s := range r.Sites() {
			if _, err := fmt.Fprintln(c.out, s); err != nil {
				return err
			}
		}
		if r.Len() == 0 {
			empty = append(empty, file)
		}
	}

	if len(empty) > 0 {
		return fmt.Errorf("no sites registered by %v", empty)
	}
	return nil
}

type encodeCommand struct {
	Param uint64 `short:"p" long:"param" description:"command parameter" default:"0"`
	Args  struct {
		Command string `positional-arg-name:"COMMAND" required:"yes"`
	} `positional-args:"yes"`

	out io.Writer
}

func (c *encodeCommand) Execute([]string) error {
	cmd, err := cooperator.ParseCommand(c.Args.Command)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.out, hex.EncodeToString(cooperator.EncodeCommand(cmd, c.Param)))
	return err
}
