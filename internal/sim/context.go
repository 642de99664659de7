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

import "time"

// SimulationContext carries the run seed, the active clock and the fault
// injector. The orchestrator builds exactly one per run and passes it to every
// component that needs it; there is no ambient/global lookup.
type SimulationContext struct {
	Seed     int64
	Clock    Clock
	Injector *FaultInjector

	// Probability gates each injection decision; DelayMin/DelayMax bound the
	// delay drawn when injection fires.
	Probability float64
	DelayMin    time.Duration
	DelayMax    time.Duration
}

// NewSimulationContext builds a simulated-run context: SimClock at Epoch plus
// a seeded injector.
func NewSimulationContext(seed int64, faultEnabled bool, probability float64, delayMin, delayMax time.Duration) *SimulationContext {
	return &SimulationContext{
		Seed:        seed,
		Clock:       NewSimClock(),
		Injector:    NewFaultInjector(seed, faultEnabled),
		Probability: probability,
		DelayMin:    delayMin,
		DelayMax:    delayMax,
	}
}

// SimClock returns the clock as a *SimClock when the run is simulated, nil for
// a real clock.
func (s *SimulationContext) SimClock() *SimClock {
	c, _ := s.Clock.(*SimClock)
	return c
}
