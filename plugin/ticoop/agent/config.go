// SPDX-License-Identifier: GPL-3.0-or-later

package agent

import (
	"errors"
	"fmt"
	"os"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v2"

	"github.com/tl455047/TICooperator/plugin/ticoop/cooperator"
)

func defaultConfig() config {
	return config{
		Config:        cooperator.DefaultConfig(),
		LockOutputDir: true,
	}
}

type config struct {
	cooperator.Config `yaml:",inline"`

	LogLevel      string `yaml:"log_level"`
	UpdateEvery   int    `yaml:"update_every"`
	ControlPath   string `yaml:"control_path"`
	LockOutputDir bool   `yaml:"lock_output_dir"`
}

func (c *config) String() string {
	return fmt.Sprintf("%s, update_every '%d', control_path '%s', lock_output_dir '%v'",
		c.Config, c.UpdateEvery, c.ControlPath, c.LockOutputDir)
}

func (c *config) validate() error {
	if c.UpdateEvery < 0 {
		return errors.New("'update_every' must not be negative")
	}
	return nil
}

// expandPaths resolves a leading "~" in path options.
func (c *config) expandPaths() error {
	for _, p := range []*string{&c.SitesFile, &c.OutputDir, &c.ControlPath} {
		v, err := homedir.Expand(*p)
		if err != nil {
			return err
		}
		*p = v
	}
	return nil
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	bs, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(bs, &cfg); err != nil {
		return defaultConfig(), fmt.Errorf("parse '%s': %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return defaultConfig(), fmt.Errorf("validate '%s': %w", path, err)
	}
	if err := cfg.expandPaths(); err != nil {
		return defaultConfig(), fmt.Errorf("expand paths in '%s': %w", path, err)
	}

	return cfg, nil
}
