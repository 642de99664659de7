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

package sim

import (
	"context"
	"sort"
	"time"

	"github.com/nerdsane/deep-sci-fi-sub003/pkg/metrics"
)

// Op is one logical operation scheduled by the Runner. It issues a single
// live-service call and returns whatever the caller wants to collect.
type Op func(ctx context.Context) (any, error)

// OpResult pairs an Op's return values with the delay it was suspended for.
type OpResult struct {
	Value any
	Err   error
	Delay time.Duration
}

// Runner executes a batch of logical operations under single-threaded
// cooperative scheduling. Each operation first suspends for a delay drawn from
// the fault injector; the operation with the shortest delay resumes first,
// ties resolved by submission order. Interleaving is therefore fully
// determined by the run seed. No true parallelism: concurrency against the
// live service is simulated by resumption order alone.
type Runner struct {
	sim *SimulationContext
}

// NewRunner builds a Runner over the run's simulation context.
func NewRunner(sim *SimulationContext) *Runner {
	return &Runner{sim: sim}
}

// Go schedules ops and returns their results in submission order.
//
// Injection decisions and delays are drawn in submission order (a fixed RNG
// consumption order), then ops resume sorted by (delay, submission index).
// Ops whose decision comes up negative run with zero delay.
// The simulated clock is advanced to each op's wake time before it runs, so
// SUT-side time-window logic observes the injected suspension.
func (r *Runner) Go(ctx context.Context, ops []Op) []OpResult {
	type task struct {
		index int
		delay time.Duration
		op    Op
	}
	tasks := make([]task, len(ops))
	for i, op := range ops {
		var d time.Duration
		if r.sim.Injector.Decide(r.sim.Probability) {
			d = r.sim.Injector.Delay(r.sim.DelayMin, r.sim.DelayMax)
			metrics.InjectedDelayMs.Observe(float64(d.Milliseconds()))
		}
		tasks[i] = task{index: i, delay: d, op: op}
	}

	order := make([]int, len(tasks))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ta, tb := tasks[order[a]], tasks[order[b]]
		if ta.delay != tb.delay {
			return ta.delay < tb.delay
		}
		return ta.index < tb.index
	})

	results := make([]OpResult, len(ops))
	clock := r.sim.SimClock()
	var elapsed time.Duration
	for _, idx := range order {
		t := tasks[idx]
		if clock != nil && t.delay > elapsed {
			clock.Advance(t.delay - elapsed)
			elapsed = t.delay
		}
		v, err := t.op(ctx)
		results[t.index] = OpResult{Value: v, Err: err, Delay: t.delay}
	}
	return results
}
