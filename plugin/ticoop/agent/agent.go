// SPDX-License-Identifier: GPL-3.0-or-later

// Package agent wires the cooperator into an engine host: it loads the
// configuration, guards the output directory and serves the control channel.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc"

	"github.com/tl455047/TICooperator/logger"
	"github.com/tl455047/TICooperator/plugin/ticoop/agent/control"
	"github.com/tl455047/TICooperator/plugin/ticoop/agent/filelock"
	"github.com/tl455047/TICooperator/plugin/ticoop/cooperator"
	"github.com/tl455047/TICooperator/plugin/ticoop/engine"
)

const lockName = "ticoop"

// Config is an Agent configuration.
type Config struct {
	Name       string
	ConfigFile string
}

// Agent owns one cooperator for the lifetime of an engine run.
type Agent struct {
	*logger.Logger

	Name       string
	ConfigFile string
	RunID      string

	cfg    config
	coop   *cooperator.Cooperator
	locker *filelock.Locker
}

func New(cfg Config) *Agent {
	runID := uuid.NewString()

	return &Agent{
		Logger: logger.New().With(
			slog.String("component", "agent"),
			slog.String("run_id", runID),
		),
		Name:       cfg.Name,
		ConfigFile: cfg.ConfigFile,
		RunID:      runID,
		cfg:        defaultConfig(),
	}
}

// Attach loads the configuration and attaches a cooperator to host.
func (a *Agent) Attach(host engine.Host) error {
	a.cfg = a.loadConfig()
	if a.cfg.LogLevel != "" {
		if err := logger.Level.SetByName(a.cfg.LogLevel); err != nil {
			a.Warning(err)
		}
	}
	a.Infof("using config: %s", a.cfg.String())

	coop := cooperator.New()
	coop.Config = a.cfg.Config
	if coop.OutputDir == "" {
		coop.OutputDir = host.OutputDirectory()
	}

	if a.cfg.LockOutputDir {
		if err := a.lockOutputDir(coop.OutputDir); err != nil {
			return err
		}
	}

	if err := coop.Attach(host); err != nil {
		a.unlock()
		return fmt.Errorf("attach cooperator: %w", err)
	}

	a.coop = coop

	return nil
}

func (a *Agent) Cooperator() *cooperator.Cooperator { return a.coop }

// Run serves the control channel and the statistics ticker until ctx is done.
func (a *Agent) Run(ctx context.Context) error {
	if a.coop == nil {
		return errors.New("agent is not attached")
	}

	a.Info("instance is started")
	defer func() { a.Info("instance is stopped") }()

	var mgr *control.Manager
	if path := a.cfg.ControlPath; path != "" {
		if path != control.StdinPath {
			if err := control.EnsureFIFO(path); err != nil {
				return fmt.Errorf("control channel: %w", err)
			}
		}
		mgr = control.NewManager(path)
		a.registerCommands(mgr)
	}

	wg := conc.NewWaitGroup()

	if mgr != nil {
		quitCh := make(chan struct{}, 1)
		wg.Go(func() {
			if err := mgr.Run(ctx, quitCh); err != nil {
				a.Warning(err)
			}
			select {
			case <-quitCh:
				a.Info("control channel closed by QUIT")
			default:
			}
		})
	}

	if a.cfg.UpdateEvery > 0 {
		wg.Go(func() { a.tick(ctx, time.Duration(a.cfg.UpdateEvery)*time.Second) })
	}

	wg.Wait()
	<-ctx.Done()

	return nil
}

// Close releases the statistics log and the output directory lock.
func (a *Agent) Close() {
	if a.coop != nil {
		a.coop.Cleanup()
	}
	a.unlock()
}

func (a *Agent) loadConfig() config {
	if a.ConfigFile == "" {
		return defaultConfig()
	}

	cfg, err := loadConfig(a.ConfigFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			a.Infof("config file '%s' not found, using defaults", a.ConfigFile)
		} else {
			a.Warningf("%v, using defaults", err)
		}
	}
	return cfg
}

func (a *Agent) lockOutputDir(dir string) error {
	if err := os.MkdirAll(dir, 0775); err != nil {
		return fmt.Errorf("output directory: %w", err)
	}

	locker := filelock.New(dir)

	ok, err := locker.Lock(lockName)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("output directory '%s' is in use by another run (%s)", dir, locker.Path(lockName))
	}

	a.locker = locker

	return nil
}

func (a *Agent) unlock() {
	if a.locker != nil {
		a.locker.UnlockAll()
		a.locker = nil
	}
}

func (a *Agent) registerCommands(mgr *control.Manager) {
	handle := func(req control.Request) {
		cmd, err := cooperator.ParseCommand(req.Name)
		if err != nil {
			a.Warning(err)
			return
		}
		a.Debugf("control command %s", cmd)
		a.coop.Execute(cmd)
	}

	for _, cmd := range cooperator.Commands() {
		mgr.Register(cmd.String(), handle)
		mgr.Register(fmt.Sprint(uint32(cmd)), handle)
	}
}

func (a *Agent) tick(ctx context.Context, every time.Duration) {
	tk := time.NewTicker(every)
	defer tk.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-tk.C:
			a.coop.OnTimer()
		}
	}
}
