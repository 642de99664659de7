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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFaultInjector_SameSeedSameStream(t *testing.T) {
	a := NewFaultInjector(42, true)
	b := NewFaultInjector(42, true)
	for i := 0; i < 1000; i++ {
		assert.Equal(t, a.Decide(0.5), b.Decide(0.5), "decision %d diverged", i)
		assert.Equal(t,
			a.Delay(time.Millisecond, 50*time.Millisecond),
			b.Delay(time.Millisecond, 50*time.Millisecond),
			"delay %d diverged", i)
	}
}

func TestFaultInjector_ProbabilityExtremes(t *testing.T) {
	f := NewFaultInjector(7, true)
	for i := 0; i < 10000; i++ {
		if f.Decide(0) {
			t.Fatal("Decide(0) returned true")
		}
	}
	for i := 0; i < 10000; i++ {
		if !f.Decide(1) {
			t.Fatal("Decide(1) returned false")
		}
	}
}

func TestFaultInjector_DelayBounds(t *testing.T) {
	f := NewFaultInjector(99, true)
	min, max := 2*time.Millisecond, 20*time.Millisecond
	for i := 0; i < 10000; i++ {
		d := f.Delay(min, max)
		if d < min || d >= max {
			t.Fatalf("delay %v outside [%v, %v)", d, min, max)
		}
	}
}

func TestFaultInjector_DegenerateRange(t *testing.T) {
	f := NewFaultInjector(1, true)
	assert.Equal(t, time.Millisecond, f.Delay(time.Millisecond, time.Millisecond))
}

func TestFaultInjector_DisabledIsInert(t *testing.T) {
	f := NewFaultInjector(42, false)
	for i := 0; i < 100; i++ {
		assert.False(t, f.Decide(1))
		assert.Equal(t, time.Duration(0), f.Delay(time.Millisecond, time.Second))
	}
}

func TestFaultInjector_DisabledConsumesNoRandomness(t *testing.T) {
	f := NewFaultInjector(42, false)
	for i := 0; i < 100; i++ {
		f.Decide(1)
		f.Delay(time.Millisecond, time.Second)
	}

	// After all those calls the private stream must still sit at the position
	// of a fresh same-seed source.
	ref := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		assert.Equal(t, ref.Float64(), f.rng.Float64(), "draw %d advanced while disabled", i)
	}
}
