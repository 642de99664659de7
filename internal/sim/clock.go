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
	"sync"
	"time"
)

// Clock is the only time source harness components may consult. Production
// code uses RealClock; simulated runs use SimClock so time-dependent logic is
// identical in both modes.
type Clock interface {
	Now() time.Time
}

// RealClock reflects wall time.
type RealClock struct{}

// Now implements Clock.
func (RealClock) Now() time.Time { return time.Now() }

// Epoch is the fixed instant every simulated run starts at.
var Epoch = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

// SimClock is a manually advanced clock. It never moves unless told to.
// Control flow is single-threaded, but the fake SUT reads the clock from
// handler goroutines, so access is guarded.
type SimClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewSimClock creates a SimClock set to Epoch.
func NewSimClock() *SimClock {
	return &SimClock{now: Epoch}
}

// Now implements Clock.
func (c *SimClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance adds d to the current instant and returns the new instant.
func (c *SimClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

// Set moves the clock to t directly.
func (c *SimClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}
