// SPDX-License-Identifier: GPL-3.0-or-later

package cooperator

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/tl455047/TICooperator/logger"
	"github.com/tl455047/TICooperator/pkg/confopt"
	"github.com/tl455047/TICooperator/pkg/cputime"
	"github.com/tl455047/TICooperator/plugin/ticoop/engine"
	"github.com/tl455047/TICooperator/plugin/ticoop/sites"
	"github.com/tl455047/TICooperator/plugin/ticoop/testcase"
)

var _ engine.Plugin = (*Cooperator)(nil)

func New() *Cooperator {
	return &Cooperator{
		Logger: logger.New().With(
			slog.String("component", "cooperator"),
		),
		Config:  DefaultConfig(),
		ctx:     context.Background(),
		cpuTime: cputime.User,
	}
}

func DefaultConfig() Config {
	return Config{
		SitesFile:   "ret_addr",
		StatsFile:   "Solving.stats",
		ReportFile:  "failed.stats",
		TestCaseDir: "testcase-",
		Timeout:     confopt.Duration(time.Hour),
	}
}

type Config struct {
	SitesFile    string           `yaml:"sites_file"`
	OutputDir    string           `yaml:"output_dir"`
	StatsFile    string           `yaml:"stats_file"`
	ReportFile   string           `yaml:"report_file"`
	TestCaseDir  string           `yaml:"testcase_dir"`
	Timeout      confopt.Duration `yaml:"timeout"`
	SolveTimeout confopt.Duration `yaml:"solve_timeout"`
}

func (c Config) String() string {
	return fmt.Sprintf("sites_file '%s', output_dir '%s', timeout '%s', solve_timeout '%s'",
		c.SitesFile, c.OutputDir, c.Timeout, c.SolveTimeout)
}

// Cooperator disables state forking and, at registered sites, solves and
// materializes the branch the engine did not take.
type Cooperator struct {
	*logger.Logger
	Config `yaml:",inline"`

	Executor  engine.Executor
	Exprs     engine.ExprBuilder
	Generator engine.TestCaseGenerator

	// mu serializes the hooks; the control channel calls in from its own goroutine.
	mu sync.Mutex

	ctx      context.Context
	cpuTime  func() time.Duration
	registry *sites.Registry
	stats    Stats

	tracked    engine.StateID
	hasTracked bool
	handoffs   int

	statsFile   *os.File
	statsWriter *bufio.Writer
	testCaseDir string
	shutdown    bool
}

// Attach initializes the cooperator against host and registers its hooks.
// A host without a test case generator gets one writing into the test case
// directory.
func (c *Cooperator) Attach(host engine.Host) error {
	c.Executor = host.Executor()
	c.Exprs = host.Exprs()
	if gen := host.TestCaseGenerator(); gen != nil {
		c.Generator = gen
	}
	if c.OutputDir == "" {
		c.OutputDir = host.OutputDirectory()
	}

	if err := c.Init(); err != nil {
		return err
	}

	host.Register(c)

	return nil
}

func (c *Cooperator) Init() error {
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	if err := c.validateConfig(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	dir, err := c.initTestCaseDir()
	if err != nil {
		return fmt.Errorf("test case directory: %w", err)
	}
	c.testCaseDir = dir

	if c.Generator == nil {
		c.Generator = testcase.NewFileGenerator(dir)
	}

	if err := c.openStatsFile(); err != nil {
		return fmt.Errorf("statistics log: %w", err)
	}

	c.registry = sites.Load(c.SitesFile)

	c.Infof("using config: %s", c.Config)
	c.Infof("watching %d sites, test cases go to '%s'", c.registry.Len(), c.testCaseDir)

	return nil
}

// Cleanup closes the statistics log if the engine never shut down.
func (c *Cooperator) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closeStatsFile()
}

// Stats returns a snapshot of the solve counters.
func (c *Cooperator) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.stats
}

func (c *Cooperator) Registry() *sites.Registry { return c.registry }

// TestCaseDir returns the directory created for generated test cases.
func (c *Cooperator) TestCaseDir() string { return c.testCaseDir }

func (c *Cooperator) validateConfig() error {
	if c.Executor == nil {
		return errors.New("executor not set")
	}
	if c.Exprs == nil {
		return errors.New("expression builder not set")
	}
	if c.StatsFile == "" {
		return errors.New("'stats_file' not set")
	}
	if c.ReportFile == "" {
		return errors.New("'report_file' not set")
	}
	if c.Timeout < 0 || c.SolveTimeout < 0 {
		return errors.New("timeouts must not be negative")
	}
	return nil
}

func (c *Cooperator) initTestCaseDir() (string, error) {
	dir := c.outputPath(c.Config.TestCaseDir)

	// MkdirAll applies the process umask to 0775.
	if err := os.MkdirAll(dir, 0775); err != nil {
		return "", err
	}
	return dir, nil
}

func (c *Cooperator) openStatsFile() error {
	f, err := os.Create(c.outputPath(c.StatsFile))
	if err != nil {
		return err
	}
	c.statsFile = f
	c.statsWriter = bufio.NewWriter(f)
	return nil
}

func (c *Cooperator) closeStatsFile() {
	if c.statsFile == nil {
		return
	}
	if err := c.statsWriter.Flush(); err != nil {
		c.Warningf("flush statistics log: %v", err)
	}
	if err := c.statsFile.Close(); err != nil {
		c.Warningf("close statistics log: %v", err)
	}
	c.statsFile, c.statsWriter = nil, nil
}

func (c *Cooperator) outputPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.OutputDir, name)
}
