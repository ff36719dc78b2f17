// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package config loads the YAML configuration of the accrual node.
package config

import (
	"bytes"
	"os"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/rayforge/accrual/ident"
)

// Config is the node configuration.
type Config struct {
	DataDir     string  `yaml:"data-dir"`
	CacheSize   int     `yaml:"cache-size"`   // leveldb cache, in MiB
	RecordCache int     `yaml:"record-cache"` // decoded records kept in memory
	Gauge       Gauge   `yaml:"gauge"`
	Reactor     Reactor `yaml:"reactor"`
	Keeper      Keeper  `yaml:"keeper"`
	API         API     `yaml:"api"`
	Metrics     Metrics `yaml:"metrics"`
}

// Gauge holds the initial emission settings.
type Gauge struct {
	RayEmissionPerDay uint64 `yaml:"ray-emission-per-day"`

	// TimeTrackerMint names the reward stream of concentrated liquidity
	// positions that carries time units. Either a hex id or a label.
	TimeTrackerMint string `yaml:"time-tracker-mint"`
}

// Reactor holds the initial staking settings.
type Reactor struct {
	RayRewardDailyEmission uint64 `yaml:"ray-reward-daily-emission"`
	IsoRayAprBps           uint16 `yaml:"iso-ray-apr-bps"`
}

// Keeper schedules periodic index refreshes. An empty schedule disables it.
type Keeper struct {
	Schedule string   `yaml:"schedule"`
	Pools    []string `yaml:"pools"` // empty means every pool gauge
}

type API struct {
	Addr string `yaml:"addr"`
}

type Metrics struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		DataDir:     "./data",
		CacheSize:   64,
		RecordCache: 4096,
		Gauge: Gauge{
			TimeTrackerMint: "time-tracker",
		},
		Keeper: Keeper{
			Schedule: "@every 1m",
		},
		API: API{
			Addr: "localhost:8670",
		},
		Metrics: Metrics{
			Addr: "localhost:2112",
		},
	}
}

// Load reads path over the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "read config")
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, errors.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the node cannot run with.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return errors.New("data-dir is required")
	}
	if c.CacheSize < 0 {
		return errors.Errorf("cache-size must not be negative, got %d", c.CacheSize)
	}
	if c.RecordCache <= 0 {
		return errors.Errorf("record-cache must be positive, got %d", c.RecordCache)
	}
	if c.Gauge.TimeTrackerMint == "" {
		return errors.New("gauge.time-tracker-mint is required")
	}
	if c.Keeper.Schedule != "" {
		if _, err := cron.ParseStandard(c.Keeper.Schedule); err != nil {
			return errors.Wrap(err, "keeper.schedule")
		}
	}
	for _, pool := range c.Keeper.Pools {
		if pool == "" {
			return errors.New("keeper.pools must not contain empty names")
		}
	}
	if c.API.Addr == "" {
		return errors.New("api.addr is required")
	}
	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return errors.New("metrics.addr is required when metrics are enabled")
	}
	return nil
}

// TimeTrackerMint resolves the configured time tracker mint.
func (c *Config) TimeTrackerMint() ident.ID {
	return ident.Named(c.Gauge.TimeTrackerMint)
}

// KeeperPools resolves the pools the keeper refreshes.
func (c *Config) KeeperPools() []ident.ID {
	pools := make([]ident.ID, 0, len(c.Keeper.Pools))
	for _, name := range c.Keeper.Pools {
		pools = append(pools, ident.Named(name))
	}
	return pools
}
