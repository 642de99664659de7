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

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/nerdsane/deep-sci-fi-sub003/internal/harness"
	"github.com/nerdsane/deep-sci-fi-sub003/pkg/config"
	"github.com/nerdsane/deep-sci-fi-sub003/pkg/errors"
	"github.com/nerdsane/deep-sci-fi-sub003/pkg/log"
	"github.com/nerdsane/deep-sci-fi-sub003/pkg/metrics"
)

// Exit codes: 0 run passed, 1 invariant violation or run failure,
// 2 misconfiguration.
const (
	exitPass      = 0
	exitViolation = 1
	exitConfig    = 2
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(exitConfig)
	}
	cmd := os.Args[1]
	args := os.Args[2:]
	switch cmd {
	case "version":
		fmt.Println("dst 0.1.0")
	case "run":
		os.Exit(runHarness(args))
	case "config":
		os.Exit(checkConfig(args))
	default:
		printUsage()
		os.Exit(exitConfig)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: dst <command>

Commands:
  run <config.yaml> [seed]   execute one simulated run
  config <config.yaml>       validate a config file
  version                    print version
`)
}

func loadConfig(args []string) (*config.Config, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("config file path required")
	}
	return config.LoadConfig(args[0])
}

func runHarness(args []string) int {
	cfg, err := loadConfig(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		return exitConfig
	}
	if len(args) > 1 {
		seed, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "bad seed %q: %v\n", args[1], err)
			return exitConfig
		}
		cfg.Run.Seed = seed
	}

	logger, err := log.NewLogger(&log.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		return exitConfig
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report, err := harness.New(cfg, logger).Run(ctx)
	if report != nil {
		report.Write(os.Stdout)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "run failed: %v\n", err)
		if errors.Is(err, errors.ErrMisconfigured) {
			return exitConfig
		}
		return exitViolation
	}
	if cfg.Monitoring.Prometheus.Enable {
		if err := metrics.WritePrometheus(os.Stderr); err != nil {
			logger.Warn("metrics dump failed", "error", err)
		}
	}
	if !report.Passed() {
		return exitViolation
	}
	return exitPass
}

func checkConfig(args []string) int {
	cfg, err := loadConfig(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		return exitConfig
	}
	fmt.Printf("ok: seed=%d budget=%d agents=%d store=%s\n",
		cfg.Run.Seed, cfg.Run.StepBudget, cfg.Run.AgentCount, cfg.Store.Type)
	return exitPass
}
