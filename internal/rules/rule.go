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

// Package rules holds the model-based test driver: a library of parameterized
// rules, each attempting one state transition against the live service, and
// the seeded engine that selects among them.
package rules

import (
	"context"

	"github.com/nerdsane/deep-sci-fi-sub003/internal/mirror"
	"github.com/nerdsane/deep-sci-fi-sub003/internal/sim"
	"github.com/nerdsane/deep-sci-fi-sub003/internal/sut"
	"github.com/nerdsane/deep-sci-fi-sub003/pkg/log"
	"github.com/nerdsane/deep-sci-fi-sub003/pkg/metrics"
)

// Rule is one precondition-gated attempted state transition. Run must return
// nil without effect when the precondition is unmet, mutate the mirror only
// after a successful response, log unexpected server failures through the
// env, and return an error only for an immediate protocol violation or a rule
// defect (both abort the run).
type Rule interface {
	Name() string
	Run(ctx context.Context, env *Env) error
}

// Env is everything a rule may touch. One Env is shared across the whole run;
// Step is updated by the engine before each invocation.
type Env struct {
	Sim    *sim.SimulationContext
	SUT    *sut.Client
	Runner *sim.Runner
	Mirror *mirror.Mirror
	Log    *log.Logger
	Step   int
}

// Unexpected records a live-service failure in the mirror's error log without
// aborting the run.
func (e *Env) Unexpected(rule, op string, resp sut.Response) {
	metrics.SUTErrorTotal.WithLabelValues(op).Inc()
	e.Mirror.RecordServerError(mirror.ServerError{
		Step:   e.Step,
		Rule:   rule,
		Op:     op,
		Status: resp.Status,
		Body:   string(resp.Body),
	})
	e.Log.Warn("unexpected live-service response",
		"rule", rule, "op", op, "status", resp.Status, "step", e.Step)
}

// pick returns a deterministic element of xs varying with the step index.
func pick[T any](xs []T, step int) T {
	return xs[step%len(xs)]
}

// All returns the full rule library in registration order. The order is part
// of the determinism contract: the engine's seeded selection indexes into it.
func All() []Rule {
	return []Rule{
		RegisterAgent{},
		CreateProposal{},
		VoteProposal{Verdict: mirror.VerdictApprove},
		VoteProposal{Verdict: mirror.VerdictReject},
		CreateWorld{},
		ArchiveWorld{},
		CreateDweller{},
		RetireDweller{},
		CreateDwellerProposal{},
		VoteDwellerProposal{Verdict: mirror.VerdictApprove},
		VoteDwellerProposal{Verdict: mirror.VerdictReject},
		CreateAspect{},
		RecordEvent{},
		TakeAction{},
		ResolveAction{},
		EscalateAction{},
		PublishStory{},
		ReviewStory{},
		RespondToReview{},
		ReviseStory{},
		CreateSuggestion{},
		CreateSuggestionConcurrent{},
		UpvoteSuggestion{},
		ResolveSuggestion{Status: mirror.SuggestionAccepted},
		ResolveSuggestion{Status: mirror.SuggestionRejected},
		ResolveSuggestion{Status: mirror.SuggestionWithdrawn},
		SubmitFeedback{},
		DeleteMissingSuggestion{},
	}
}
