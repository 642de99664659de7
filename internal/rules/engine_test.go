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
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerdsane/deep-sci-fi-sub003/internal/invariant"
	"github.com/nerdsane/deep-sci-fi-sub003/internal/mirror"
	"github.com/nerdsane/deep-sci-fi-sub003/internal/sim"
	"github.com/nerdsane/deep-sci-fi-sub003/internal/sut"
	"github.com/nerdsane/deep-sci-fi-sub003/internal/sut/sutfake"
	"github.com/nerdsane/deep-sci-fi-sub003/pkg/log"
)

// newTestEnv wires an Env against a fresh in-memory fake service.
func newTestEnv(t *testing.T, seed int64) (*Env, *sutfake.Server) {
	t.Helper()
	fake := sutfake.New()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	logger, err := log.NewLogger(&log.Config{Level: "error"})
	require.NoError(t, err)

	simCtx := sim.NewSimulationContext(seed, true, 0.3, time.Millisecond, 50*time.Millisecond)
	return &Env{
		Sim:    simCtx,
		SUT:    sut.NewClient(srv.URL, 0),
		Runner: sim.NewRunner(simCtx),
		Mirror: mirror.New(),
		Log:    logger,
	}, fake
}

func seedTestAgents(t *testing.T, env *Env, n int) {
	t.Helper()
	require.NoError(t, SeedAgents(context.Background(), env, n))
}

// snapshot flattens the mirror into comparable lines, one per record.
func snapshot(m *mirror.Mirror) []string {
	var out []string
	for _, a := range m.Agents() {
		out = append(out, fmt.Sprintf("agent %s", a.ID))
	}
	for _, p := range m.Proposals() {
		out = append(out, fmt.Sprintf("proposal %s %s a=%d r=%d", p.ID, p.Status, p.Approvals(), p.Rejections()))
	}
	for _, w := range m.Worlds() {
		out = append(out, fmt.Sprintf("world %s %s from=%s", w.ID, w.Status, w.ProposalID))
	}
	for _, d := range m.Dwellers() {
		out = append(out, fmt.Sprintf("dweller %s %s in=%s", d.ID, d.Status, d.WorldID))
	}
	for _, p := range m.DwellerProposals() {
		out = append(out, fmt.Sprintf("dwellerproposal %s %s a=%d r=%d", p.ID, p.Status, p.Approvals(), p.Rejections()))
	}
	for _, a := range m.Aspects() {
		out = append(out, fmt.Sprintf("aspect %s %s", a.ID, a.Kind))
	}
	for _, e := range m.Events() {
		out = append(out, fmt.Sprintf("event %s %s at=%s", e.ID, e.Kind, e.At.Format(time.RFC3339Nano)))
	}
	for _, a := range m.Actions() {
		out = append(out, fmt.Sprintf("action %s %s esc=%v", a.ID, a.Status, a.Escalated))
	}
	for _, s := range m.Stories() {
		rec, resp := s.AcclaimReviews()
		out = append(out, fmt.Sprintf("story %s %s rev=%d acclaim=%d/%d", s.ID, s.Status, s.RevisionCount, resp, rec))
	}
	for _, s := range m.Suggestions() {
		out = append(out, fmt.Sprintf("suggestion %s %s up=%d", s.ID, s.Status, len(s.Upvoters)))
	}
	for _, f := range m.Feedbacks() {
		out = append(out, fmt.Sprintf("feedback %s by=%s", f.ID, f.AuthorID))
	}
	return out
}

func runOnce(t *testing.T, seed int64, budget int) (*Result, []string) {
	t.Helper()
	env, _ := newTestEnv(t, seed)
	seedTestAgents(t, env, 4)
	engine := NewEngine(seed, All(), budget, func() *invariant.Violation {
		return invariant.Safety(env.Mirror)
	})
	res, err := engine.Run(context.Background(), env)
	require.NoError(t, err)
	return res, snapshot(env.Mirror)
}

func TestEngine_SameSeedIsReproducible(t *testing.T) {
	res1, snap1 := runOnce(t, 42, 100)
	res2, snap2 := runOnce(t, 42, 100)
	assert.Equal(t, res1.RuleTrace, res2.RuleTrace)
	assert.Equal(t, snap1, snap2)
	assert.Nil(t, res1.Violation)
}

func TestEngine_DifferentSeedsDiverge(t *testing.T) {
	res1, _ := runOnce(t, 1, 100)
	res2, _ := runOnce(t, 2, 100)
	assert.NotEqual(t, res1.RuleTrace, res2.RuleTrace)
}

func TestEngine_RespectsStepBudget(t *testing.T) {
	res, _ := runOnce(t, 7, 25)
	assert.Equal(t, 25, res.StepsExecuted)
	assert.Len(t, res.RuleTrace, 25)
}

func TestEngine_ZeroBudgetUsesDefault(t *testing.T) {
	res, _ := runOnce(t, 7, 0)
	assert.Equal(t, DefaultStepBudget, res.StepsExecuted)
}

func TestEngine_SafetyViolationHaltsRun(t *testing.T) {
	env, _ := newTestEnv(t, 5)
	seedTestAgents(t, env, 4)
	calls := 0
	engine := NewEngine(5, All(), 50, func() *invariant.Violation {
		calls++
		if calls == 3 {
			return &invariant.Violation{Invariant: "safety.test", Detail: "forced"}
		}
		return nil
	})
	res, err := engine.Run(context.Background(), env)
	require.NoError(t, err)
	require.NotNil(t, res.Violation)
	assert.Equal(t, 3, res.StepsExecuted)
	assert.Equal(t, 3, res.Violation.Step)
	assert.Equal(t, res.RuleTrace[2], res.Violation.Rule)
}

func TestEngine_UnmetPreconditionIsNoOp(t *testing.T) {
	env, _ := newTestEnv(t, 9)
	// No agents registered: every rule's precondition fails, nothing mutates.
	engine := NewEngine(9, []Rule{
		CreateProposal{},
		VoteProposal{Verdict: mirror.VerdictApprove},
		CreateWorld{},
		PublishStory{},
	}, 20, func() *invariant.Violation { return invariant.Safety(env.Mirror) })
	res, err := engine.Run(context.Background(), env)
	require.NoError(t, err)
	assert.Equal(t, 20, res.StepsExecuted)
	assert.Nil(t, res.Violation)
	assert.Empty(t, snapshot(env.Mirror))
}

func TestEngine_CancelledContextStops(t *testing.T) {
	env, _ := newTestEnv(t, 11)
	seedTestAgents(t, env, 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	engine := NewEngine(11, All(), 10, func() *invariant.Violation { return nil })
	res, err := engine.Run(ctx, env)
	assert.Error(t, err)
	assert.Equal(t, 0, res.StepsExecuted)
}
