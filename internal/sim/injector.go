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
	"math/rand"
	"time"
)

// FaultInjector produces seed-reproducible fault decisions and delays.
// Two injectors built with the same seed and called with the same operation
// sequence produce bit-identical streams. When disabled both methods are pure
// no-ops and consume no RNG state, so callers never special-case the disabled
// path themselves.
type FaultInjector struct {
	enabled bool
	seed    int64
	rng     *rand.Rand
}

// NewFaultInjector builds an injector from the run seed.
func NewFaultInjector(seed int64, enabled bool) *FaultInjector {
	return &FaultInjector{
		enabled: enabled,
		seed:    seed,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// Enabled reports whether fault injection is active for this run.
func (f *FaultInjector) Enabled() bool { return f.enabled }

// Seed returns the run seed the injector was built with.
func (f *FaultInjector) Seed() int64 { return f.seed }

// Decide draws one uniform value in [0,1) and returns true iff it is below p.
// Disabled injectors always return false without drawing.
func (f *FaultInjector) Decide(p float64) bool {
	if !f.enabled {
		return false
	}
	return f.rng.Float64() < p
}

// Delay draws one uniform duration in [min, max). Disabled injectors return 0
// without drawing. min >= max yields min.
func (f *FaultInjector) Delay(min, max time.Duration) time.Duration {
	if !f.enabled {
		return 0
	}
	if max <= min {
		return min
	}
	return min + time.Duration(f.rng.Int63n(int64(max-min)))
}
