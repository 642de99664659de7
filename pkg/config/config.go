// Copyright 2026 nerdsane
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full harness run configuration.
type Config struct {
	Run        RunConfig        `mapstructure:"run"`
	Fault      FaultConfig      `mapstructure:"fault"`
	SUT        SUTConfig        `mapstructure:"sut"`
	Store      StoreConfig      `mapstructure:"store"`
	Overrides  OverridesConfig  `mapstructure:"overrides"`
	Log        LogConfig        `mapstructure:"log"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
}

// RunConfig controls the simulated run itself.
type RunConfig struct {
	Seed       int64 `mapstructure:"seed"`        // run seed; 0 means "derive from wall clock" and is rejected in replay use
	StepBudget int   `mapstructure:"step_budget"` // number of engine steps; <=0 uses default 30
	AgentCount int   `mapstructure:"agent_count"` // initial registered agents; <=0 uses default 4
}

// FaultConfig controls the seeded fault injector.
type FaultConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Probability float64 `mapstructure:"probability"`   // decide() threshold, [0,1]
	DelayMinMs  int     `mapstructure:"delay_min_ms"`  // lower delay bound
	DelayMaxMs  int     `mapstructure:"delay_max_ms"`  // upper delay bound (exclusive)
}

// SUTConfig locates the live service under test.
type SUTConfig struct {
	BaseURL string  `mapstructure:"base_url"`
	RateRPS float64 `mapstructure:"rate_rps"` // client-side request cap; <=0 disables
}

// StoreConfig is the backing store the orchestrator provisions for the SUT.
type StoreConfig struct {
	Type string `mapstructure:"type"` // memory | postgres
	DSN  string `mapstructure:"dsn"`  // required when type=postgres
}

// OverridesConfig shrinks or disables time-window business rules in the SUT so
// edge cases can be exercised without waiting wall-clock time.
type OverridesConfig struct {
	DedupWindowMs int  `mapstructure:"dedup_window_ms"` // duplicate-submission window; 0 collapses it
	RandomDelays  bool `mapstructure:"random_delays"`   // SUT-side artificial delays; forced off for reproducibility
	AdminBypass   bool `mapstructure:"admin_bypass"`    // admin shortcut endpoints; forced off
}

// LogConfig mirrors pkg/log.Config.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// MonitoringConfig enables the prometheus dump at teardown.
type MonitoringConfig struct {
	Prometheus PrometheusConfig `mapstructure:"prometheus"`
}

// PrometheusConfig controls metric exposition.
type PrometheusConfig struct {
	Enable bool `mapstructure:"enable"`
}

// Defaults applied when the file leaves fields unset.
const (
	DefaultStepBudget = 30
	DefaultAgentCount = 4
	DefaultDelayMinMs = 1
	DefaultDelayMaxMs = 50
)

// LoadConfig reads and validates a harness config file.
func LoadConfig(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetEnvPrefix("DST")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// ApplyDefaults fills unset fields with their documented defaults.
func (c *Config) ApplyDefaults() {
	if c.Run.StepBudget <= 0 {
		c.Run.StepBudget = DefaultStepBudget
	}
	if c.Run.AgentCount <= 0 {
		c.Run.AgentCount = DefaultAgentCount
	}
	if c.Fault.DelayMinMs <= 0 {
		c.Fault.DelayMinMs = DefaultDelayMinMs
	}
	if c.Fault.DelayMaxMs <= c.Fault.DelayMinMs {
		c.Fault.DelayMaxMs = c.Fault.DelayMinMs + DefaultDelayMaxMs
	}
	if c.Store.Type == "" {
		c.Store.Type = "memory"
	}
}

// Validate rejects configurations that cannot produce a reproducible run.
func (c *Config) Validate() error {
	if c.Fault.Probability < 0 || c.Fault.Probability > 1 {
		return fmt.Errorf("fault.probability %v outside [0,1]", c.Fault.Probability)
	}
	switch c.Store.Type {
	case "memory":
	case "postgres":
		if c.Store.DSN == "" {
			return fmt.Errorf("store.type=postgres requires store.dsn")
		}
		if c.SUT.BaseURL == "" {
			return fmt.Errorf("store.type=postgres requires sut.base_url")
		}
	default:
		return fmt.Errorf("unknown store.type %q", c.Store.Type)
	}
	return nil
}

// DelayBounds returns the injector delay range as durations.
func (c *Config) DelayBounds() (min, max time.Duration) {
	return time.Duration(c.Fault.DelayMinMs) * time.Millisecond,
		time.Duration(c.Fault.DelayMaxMs) * time.Millisecond
}
