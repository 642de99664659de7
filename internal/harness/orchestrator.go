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

// Package harness wires one deterministic run end to end: provision backing
// state, point the simulated world at the service, step the rule engine, check
// liveness, tear everything down and report.
package harness

import (
	"context"
	"fmt"
	"time"

	"github.com/nerdsane/deep-sci-fi-sub003/internal/invariant"
	"github.com/nerdsane/deep-sci-fi-sub003/internal/mirror"
	"github.com/nerdsane/deep-sci-fi-sub003/internal/rules"
	"github.com/nerdsane/deep-sci-fi-sub003/internal/sim"
	"github.com/nerdsane/deep-sci-fi-sub003/internal/sut"
	"github.com/nerdsane/deep-sci-fi-sub003/internal/sut/sutfake"
	"github.com/nerdsane/deep-sci-fi-sub003/pkg/config"
	"github.com/nerdsane/deep-sci-fi-sub003/pkg/errors"
	"github.com/nerdsane/deep-sci-fi-sub003/pkg/log"
	"github.com/nerdsane/deep-sci-fi-sub003/pkg/metrics"
)

// Harness runs one simulated test against the configured service.
type Harness struct {
	cfg    *config.Config
	logger *log.Logger

	// FakeHook, when set, tunes the in-memory fake service before stepping
	// starts. Only applies to the memory store.
	FakeHook func(*sutfake.Server)
}

// New builds a harness over a validated config.
func New(cfg *config.Config, logger *log.Logger) *Harness {
	return &Harness{cfg: cfg, logger: logger}
}

// Run executes one full run: setup, stepping, teardown-time liveness checks.
// The returned error covers harness-level failures (provisioning, protocol
// violations); invariant violations land in the report, not the error.
// Setup failures carry errors.ErrMisconfigured so callers can tell a bad
// deployment from a failing run.
func (h *Harness) Run(ctx context.Context) (*Report, error) {
	seed := h.cfg.Run.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
		h.logger.Info("no seed configured, derived one", "seed", seed)
	}
	h.logger.Info("starting run",
		"seed", seed,
		"step_budget", h.cfg.Run.StepBudget,
		"fault_enabled", h.cfg.Fault.Enabled,
		"store", h.cfg.Store.Type)

	delayMin, delayMax := h.cfg.DelayBounds()
	simCtx := sim.NewSimulationContext(seed, h.cfg.Fault.Enabled, h.cfg.Fault.Probability, delayMin, delayMax)

	store, err := ProvisionStore(ctx, h.cfg, h.logger)
	if err != nil {
		return nil, fmt.Errorf("provision store: %w", err)
	}
	defer func() {
		if cerr := store.Close(context.WithoutCancel(ctx)); cerr != nil {
			h.logger.Warn("store teardown failed", "error", cerr)
		}
	}()

	if ms, ok := store.(*memoryStore); ok && h.FakeHook != nil {
		h.FakeHook(ms.Fake())
	}

	baseURL := store.BaseURL()
	if baseURL == "" {
		baseURL = h.cfg.SUT.BaseURL
	}
	client := sut.NewClient(baseURL, h.cfg.SUT.RateRPS)

	if err := h.pushOverrides(ctx, client); err != nil {
		return nil, err
	}

	m := mirror.New()
	env := &rules.Env{
		Sim:    simCtx,
		SUT:    client,
		Runner: sim.NewRunner(simCtx),
		Mirror: m,
		Log:    h.logger,
	}
	if err := rules.SeedAgents(ctx, env, h.cfg.Run.AgentCount); err != nil {
		return nil, fmt.Errorf("seed agents: %w", err)
	}

	engine := rules.NewEngine(seed, rules.All(), h.cfg.Run.StepBudget, func() *invariant.Violation {
		return invariant.Safety(m)
	})
	res, err := engine.Run(ctx, env)
	report := &Report{
		Seed:          seed,
		RuleTrace:     res.RuleTrace,
		StepsExecuted: res.StepsExecuted,
	}
	if err != nil {
		return report, err
	}
	report.SafetyViolation = res.Violation

	// Liveness holds only over completed runs; a safety halt already failed.
	if res.Violation == nil {
		report.LivenessViolations = invariant.Liveness(ctx, m, client)
		for i := range report.LivenessViolations {
			v := &report.LivenessViolations[i]
			metrics.InvariantViolationTotal.WithLabelValues(v.Invariant).Inc()
			h.logger.Error("liveness violation", "invariant", v.Invariant, "detail", v.Detail)
		}
	}
	report.ServerErrors = m.ServerErrors()

	h.logger.Info("run finished",
		"seed", seed,
		"steps", report.StepsExecuted,
		"passed", report.Passed(),
		"server_errors", len(report.ServerErrors))
	return report, nil
}

// pushOverrides pins the service's non-deterministic production features for
// the run: dedup window from config, random delays and admin bypass always
// off. A service without the endpoint fails the run; nothing downstream can be
// trusted to replay.
func (h *Harness) pushOverrides(ctx context.Context, client *sut.Client) error {
	req := sut.OverridesRequest{
		DedupWindowMs: h.cfg.Overrides.DedupWindowMs,
		RandomDelays:  false,
		AdminBypass:   false,
	}
	resp, err := client.Post(ctx, "/api/admin/test-overrides", req)
	if err != nil {
		return errors.Wrapf(errors.ErrMisconfigured, "push test overrides: %v", err)
	}
	if !resp.OK() {
		return errors.Wrapf(errors.ErrMisconfigured, "push test overrides: service returned %d", resp.Status)
	}
	h.logger.Info("test overrides applied", "dedup_window_ms", req.DedupWindowMs)
	return nil
}
