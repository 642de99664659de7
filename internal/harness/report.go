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

package harness

import (
	"fmt"
	"io"

	"github.com/nerdsane/deep-sci-fi-sub003/internal/invariant"
	"github.com/nerdsane/deep-sci-fi-sub003/internal/mirror"
)

// Report is the outcome of one harness run. Seed plus the rule trace is
// everything needed to reproduce it.
type Report struct {
	Seed          int64
	StepsExecuted int
	RuleTrace     []string

	SafetyViolation    *invariant.Violation
	LivenessViolations []invariant.Violation
	ServerErrors       []mirror.ServerError
}

// Passed reports whether the run finished with no violation of either class.
// Logged server errors do not fail a run by themselves.
func (r *Report) Passed() bool {
	return r.SafetyViolation == nil && len(r.LivenessViolations) == 0
}

// Write renders the human-readable run summary.
func (r *Report) Write(w io.Writer) {
	fmt.Fprintf(w, "seed=%d steps=%d server_errors=%d\n", r.Seed, r.StepsExecuted, len(r.ServerErrors))
	for i, name := range r.RuleTrace {
		fmt.Fprintf(w, "  step %2d: %s\n", i+1, name)
	}
	if r.SafetyViolation != nil {
		fmt.Fprintf(w, "SAFETY VIOLATION: %s\n", r.SafetyViolation.Error())
	}
	for i := range r.LivenessViolations {
		fmt.Fprintf(w, "LIVENESS VIOLATION: %s\n", r.LivenessViolations[i].Error())
	}
	for _, e := range r.ServerErrors {
		fmt.Fprintf(w, "server error: step=%d rule=%s op=%s status=%d body=%s\n",
			e.Step, e.Rule, e.Op, e.Status, e.Body)
	}
	if r.Passed() {
		fmt.Fprintf(w, "PASS\n")
	} else {
		fmt.Fprintf(w, "FAIL (replay with seed=%d)\n", r.Seed)
	}
}
