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

// Package invariant holds the read-only predicates the harness evaluates over
// the state mirror: safety checks after every step, liveness checks once at
// teardown.
package invariant

import "fmt"

// Violation describes one failed predicate with enough context to reproduce
// the run.
type Violation struct {
	Invariant string
	Step      int
	Rule      string
	EntityIDs []string
	Detail    string
}

// Error renders the violation for the failure report.
func (v *Violation) Error() string {
	return fmt.Sprintf("%s: %s (step=%d rule=%s entities=%v)",
		v.Invariant, v.Detail, v.Step, v.Rule, v.EntityIDs)
}
