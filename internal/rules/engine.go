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

package rules

import (
	"context"
	"math/rand"
	"time"

	"github.com/nerdsane/deep-sci-fi-sub003/internal/invariant"
	"github.com/nerdsane/deep-sci-fi-sub003/pkg/errors"
	"github.com/nerdsane/deep-sci-fi-sub003/pkg/metrics"
)

// DefaultStepBudget bounds a run when the config leaves it unset.
const DefaultStepBudget = 30

// Engine drives the simulated run: each step it selects one rule with its own
// seed-initialized stream (uniform over the registration-ordered library),
// invokes it, then hands control to the safety checkers. Selection and fault
// injection are two independent RNG streams seeded with the same run seed, so
// neither perturbs the other's sequence.
type Engine struct {
	rules  []Rule
	rng    *rand.Rand
	budget int
	safety func() *invariant.Violation
}

// Result is what a completed (or aborted) stepping phase reports.
type Result struct {
	StepsExecuted int
	RuleTrace     []string
	Violation     *invariant.Violation
}

// NewEngine builds an engine over the rule library. budget <= 0 uses the
// default. safety runs after every completed rule; a non-nil violation halts
// the run immediately.
func NewEngine(seed int64, ruleLib []Rule, budget int, safety func() *invariant.Violation) *Engine {
	if budget <= 0 {
		budget = DefaultStepBudget
	}
	return &Engine{
		rules:  ruleLib,
		rng:    rand.New(rand.NewSource(seed)),
		budget: budget,
		safety: safety,
	}
}

// Run steps until the budget is exhausted or a safety violation occurs.
// A rule returning an error is a protocol violation or rule defect and aborts
// the run with that error.
func (e *Engine) Run(ctx context.Context, env *Env) (*Result, error) {
	res := &Result{}
	for step := 1; step <= e.budget; step++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		rule := e.rules[e.rng.Intn(len(e.rules))]
		env.Step = step
		res.RuleTrace = append(res.RuleTrace, rule.Name())

		start := time.Now()
		err := rule.Run(ctx, env)
		metrics.RuleDuration.WithLabelValues(rule.Name()).Observe(time.Since(start).Seconds())
		metrics.StepTotal.WithLabelValues(rule.Name()).Inc()
		res.StepsExecuted = step
		if err != nil {
			env.Log.Error("rule aborted run", "rule", rule.Name(), "step", step, "error", err)
			return res, errors.Wrapf(err, "step %d rule %s", step, rule.Name())
		}

		if v := e.safety(); v != nil {
			v.Step = step
			v.Rule = rule.Name()
			metrics.InvariantViolationTotal.WithLabelValues(v.Invariant).Inc()
			env.Log.Error("safety violation",
				"invariant", v.Invariant, "rule", rule.Name(), "step", step, "detail", v.Detail)
			res.Violation = v
			return res, nil
		}
	}
	return res, nil
}
