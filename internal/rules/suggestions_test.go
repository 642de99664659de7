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
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerdsane/deep-sci-fi-sub003/internal/mirror"
	"github.com/nerdsane/deep-sci-fi-sub003/pkg/errors"
)

func TestCreateSuggestionConcurrent_CollapsesToOneRecord(t *testing.T) {
	env, _ := newTestEnv(t, 21)
	seedTestAgents(t, env, 3)
	env.Step = 4

	require.NoError(t, CreateSuggestionConcurrent{}.Run(context.Background(), env))

	suggestions := env.Mirror.Suggestions()
	require.Len(t, suggestions, 1)
	assert.Equal(t, mirror.SuggestionPending, suggestions[0].Status)
	assert.NotEqual(t, suggestions[0].SuggesterID, suggestions[0].OwnerID)
}

func TestCreateSuggestionConcurrent_ServerFailureIsLoggedNotFatal(t *testing.T) {
	env, fake := newTestEnv(t, 22)
	seedTestAgents(t, env, 3)
	env.Step = 4

	fake.FailureHook = func(r *http.Request) bool {
		return r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/api/suggestions")
	}
	require.NoError(t, CreateSuggestionConcurrent{}.Run(context.Background(), env))
	assert.Empty(t, env.Mirror.Suggestions())
	assert.Len(t, env.Mirror.ServerErrors(), 2)
}

func TestDeleteMissingSuggestion_Expects404(t *testing.T) {
	env, fake := newTestEnv(t, 23)
	env.Step = 1

	require.NoError(t, DeleteMissingSuggestion{}.Run(context.Background(), env))

	// Anything but 404 for a missing ID is a contract breach and aborts.
	fake.FailureHook = func(r *http.Request) bool { return r.Method == http.MethodDelete }
	err := DeleteMissingSuggestion{}.Run(context.Background(), env)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrViolation)
}

func TestResolveSuggestion_Transitions(t *testing.T) {
	env, _ := newTestEnv(t, 24)
	seedTestAgents(t, env, 3)

	for step, want := range map[int]mirror.SuggestionStatus{
		1: mirror.SuggestionAccepted,
		2: mirror.SuggestionRejected,
		3: mirror.SuggestionWithdrawn,
	} {
		env.Step = step
		require.NoError(t, CreateSuggestion{}.Run(context.Background(), env))
		require.NoError(t, ResolveSuggestion{Status: want}.Run(context.Background(), env))
	}
	statuses := make(map[mirror.SuggestionStatus]int)
	for _, s := range env.Mirror.Suggestions() {
		statuses[s.Status]++
	}
	assert.Equal(t, 1, statuses[mirror.SuggestionAccepted])
	assert.Equal(t, 1, statuses[mirror.SuggestionRejected])
	assert.Equal(t, 1, statuses[mirror.SuggestionWithdrawn])
}

func TestVoteProposal_ThresholdApproves(t *testing.T) {
	env, _ := newTestEnv(t, 25)
	seedTestAgents(t, env, 4)
	env.Step = 0

	require.NoError(t, CreateProposal{}.Run(context.Background(), env))
	require.Len(t, env.Mirror.Proposals(), 1)

	// Two approvals from distinct validators finalize the proposal.
	require.NoError(t, VoteProposal{Verdict: mirror.VerdictApprove}.Run(context.Background(), env))
	require.NoError(t, VoteProposal{Verdict: mirror.VerdictApprove}.Run(context.Background(), env))

	p := env.Mirror.Proposals()[0]
	assert.Equal(t, 2, p.Approvals())
	assert.Equal(t, mirror.ProposalApproved, p.Status)
}

func TestEscalateAction_RecordsEventFirst(t *testing.T) {
	env, _ := newTestEnv(t, 26)
	seedTestAgents(t, env, 4)
	env.Step = 0

	require.NoError(t, CreateProposal{}.Run(context.Background(), env))
	require.NoError(t, VoteProposal{Verdict: mirror.VerdictApprove}.Run(context.Background(), env))
	require.NoError(t, VoteProposal{Verdict: mirror.VerdictApprove}.Run(context.Background(), env))
	require.NoError(t, CreateWorld{}.Run(context.Background(), env))
	require.NoError(t, CreateDweller{}.Run(context.Background(), env))
	require.NoError(t, TakeAction{}.Run(context.Background(), env))
	require.NoError(t, EscalateAction{}.Run(context.Background(), env))

	require.Len(t, env.Mirror.Actions(), 1)
	a := env.Mirror.Actions()[0]
	assert.True(t, a.Escalated)
	assert.Equal(t, mirror.ActionEscalated, a.Status)
	require.Len(t, env.Mirror.Events(), 1)
	assert.Equal(t, "escalation", env.Mirror.Events()[0].Kind)
}
