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
	"testing"
	"time"
)

func TestSimClock_StartsAtEpoch(t *testing.T) {
	c := NewSimClock()
	if !c.Now().Equal(Epoch) {
		t.Errorf("expected %v, got %v", Epoch, c.Now())
	}
}

func TestSimClock_AdvanceExact(t *testing.T) {
	c := NewSimClock()
	got := c.Advance(5 * time.Millisecond)
	want := Epoch.Add(5 * time.Millisecond)
	if !got.Equal(want) {
		t.Errorf("Advance returned %v, want %v", got, want)
	}
	if !c.Now().Equal(want) {
		t.Errorf("Now after Advance is %v, want %v", c.Now(), want)
	}
	// No drift across many small advances.
	for i := 0; i < 1000; i++ {
		c.Advance(time.Microsecond)
	}
	want = want.Add(1000 * time.Microsecond)
	if !c.Now().Equal(want) {
		t.Errorf("after 1000 advances got %v, want %v", c.Now(), want)
	}
}

func TestSimClock_NeverMovesOnItsOwn(t *testing.T) {
	c := NewSimClock()
	before := c.Now()
	time.Sleep(10 * time.Millisecond)
	if !c.Now().Equal(before) {
		t.Errorf("clock moved without Advance: %v -> %v", before, c.Now())
	}
}

func TestSimClock_Set(t *testing.T) {
	c := NewSimClock()
	target := Epoch.Add(time.Hour)
	c.Set(target)
	if !c.Now().Equal(target) {
		t.Errorf("Set failed: got %v, want %v", c.Now(), target)
	}
}
