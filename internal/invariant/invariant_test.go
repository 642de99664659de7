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

package invariant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerdsane/deep-sci-fi-sub003/internal/mirror"
)

func baseMirror(t *testing.T) *mirror.Mirror {
	t.Helper()
	m := mirror.New()
	for _, id := range []string{"agent-1", "agent-2", "agent-3"} {
		require.NoError(t, m.InsertAgent(&mirror.Agent{ID: id}))
	}
	return m
}

func violationNames(vs []Violation) []string {
	names := make([]string, len(vs))
	for i, v := range vs {
		names[i] = v.Invariant
	}
	return names
}

func TestSafety_CleanMirrorPasses(t *testing.T) {
	m := baseMirror(t)
	require.NoError(t, m.InsertProposal(&mirror.Proposal{
		ID: "proposal-1", AuthorID: "agent-1", Status: mirror.ProposalDraft,
	}))
	assert.Nil(t, Safety(m))
}

func TestSafety_StatusOutsideSet(t *testing.T) {
	m := baseMirror(t)
	require.NoError(t, m.InsertProposal(&mirror.Proposal{
		ID: "proposal-1", AuthorID: "agent-1", Status: mirror.ProposalDraft,
	}))
	p, _ := m.Proposal("proposal-1")
	p.Status = "limbo"
	v := Safety(m)
	require.NotNil(t, v)
	assert.Equal(t, "safety.statuses", v.Invariant)
	assert.Contains(t, v.EntityIDs, "proposal-1")
}

func TestSafety_NegativeRevisionCount(t *testing.T) {
	m := baseMirror(t)
	require.NoError(t, m.InsertProposal(&mirror.Proposal{
		ID: "proposal-1", AuthorID: "agent-1", Status: mirror.ProposalApproved,
	}))
	require.NoError(t, m.InsertWorld(&mirror.World{
		ID: "world-1", CreatorID: "agent-1", ProposalID: "proposal-1", Status: mirror.WorldActive,
	}))
	require.NoError(t, m.InsertStory(&mirror.Story{
		ID: "story-1", AuthorID: "agent-1", WorldID: "world-1", Status: mirror.StoryPublished,
	}))
	s, _ := m.Story("story-1")
	s.RevisionCount = -1
	v := Safety(m)
	require.NotNil(t, v)
	assert.Equal(t, "safety.counters", v.Invariant)
}

func TestSafety_DanglingVerdictReference(t *testing.T) {
	m := baseMirror(t)
	require.NoError(t, m.InsertProposal(&mirror.Proposal{
		ID: "proposal-1", AuthorID: "agent-1", Status: mirror.ProposalValidating,
		Verdicts: map[string]mirror.Verdict{"ghost": mirror.VerdictApprove},
	}))
	v := Safety(m)
	require.NotNil(t, v)
	assert.Equal(t, "safety.references", v.Invariant)
}

func TestSafety_EscalationsExceedEvents(t *testing.T) {
	m := baseMirror(t)
	require.NoError(t, m.InsertProposal(&mirror.Proposal{
		ID: "proposal-1", AuthorID: "agent-1", Status: mirror.ProposalApproved,
	}))
	require.NoError(t, m.InsertWorld(&mirror.World{
		ID: "world-1", CreatorID: "agent-1", ProposalID: "proposal-1", Status: mirror.WorldActive,
	}))
	require.NoError(t, m.InsertDweller(&mirror.Dweller{
		ID: "dweller-1", WorldID: "world-1", CreatorID: "agent-1", Status: mirror.DwellerActive,
	}))
	require.NoError(t, m.InsertAction(&mirror.Action{
		ID: "action-1", DwellerID: "dweller-1", CreatorID: "agent-1",
		Status: mirror.ActionEscalated, Escalated: true,
	}))
	v := Safety(m)
	require.NotNil(t, v)
	assert.Equal(t, "safety.escalations", v.Invariant)
}

func TestLiveness_ApprovedThresholdUnmet(t *testing.T) {
	m := baseMirror(t)
	require.NoError(t, m.InsertProposal(&mirror.Proposal{
		ID: "proposal-1", AuthorID: "agent-1", Status: mirror.ProposalValidating,
		Verdicts: map[string]mirror.Verdict{
			"agent-2": mirror.VerdictApprove,
			"agent-3": mirror.VerdictApprove,
		},
	}))
	vs := Liveness(context.Background(), m, nil)
	assert.Contains(t, violationNames(vs), "liveness.L1")
}

func TestLiveness_RejectionWithSingleVote(t *testing.T) {
	m := baseMirror(t)
	require.NoError(t, m.InsertProposal(&mirror.Proposal{
		ID: "proposal-1", AuthorID: "agent-1", Status: mirror.ProposalRejected,
		Verdicts: map[string]mirror.Verdict{"agent-2": mirror.VerdictReject},
	}))
	vs := Liveness(context.Background(), m, nil)
	assert.Contains(t, violationNames(vs), "liveness.L5")
}

func TestLiveness_StoryAcclaimUnapplied(t *testing.T) {
	m := baseMirror(t)
	require.NoError(t, m.InsertProposal(&mirror.Proposal{
		ID: "proposal-1", AuthorID: "agent-1", Status: mirror.ProposalApproved,
	}))
	require.NoError(t, m.InsertWorld(&mirror.World{
		ID: "world-1", CreatorID: "agent-1", ProposalID: "proposal-1", Status: mirror.WorldActive,
	}))
	require.NoError(t, m.InsertStory(&mirror.Story{
		ID: "story-1", AuthorID: "agent-1", WorldID: "world-1",
		Status: mirror.StoryPublished, RevisionCount: 2,
		Reviews: map[string]mirror.Review{
			"agent-2": {ReviewID: "review-1", RecommendsAcclaim: true, AuthorResponded: true},
			"agent-3": {ReviewID: "review-2", RecommendsAcclaim: true, AuthorResponded: true},
		},
	}))
	vs := Liveness(context.Background(), m, nil)
	assert.Contains(t, violationNames(vs), "liveness.L4")
}

func TestLiveness_StoryWithoutRevisionStaysPublished(t *testing.T) {
	m := baseMirror(t)
	require.NoError(t, m.InsertProposal(&mirror.Proposal{
		ID: "proposal-1", AuthorID: "agent-1", Status: mirror.ProposalApproved,
	}))
	require.NoError(t, m.InsertWorld(&mirror.World{
		ID: "world-1", CreatorID: "agent-1", ProposalID: "proposal-1", Status: mirror.WorldActive,
	}))
	require.NoError(t, m.InsertStory(&mirror.Story{
		ID: "story-1", AuthorID: "agent-1", WorldID: "world-1",
		Status: mirror.StoryPublished,
		Reviews: map[string]mirror.Review{
			"agent-2": {ReviewID: "review-1", RecommendsAcclaim: true, AuthorResponded: true},
			"agent-3": {ReviewID: "review-2", RecommendsAcclaim: true, AuthorResponded: true},
		},
	}))
	vs := Liveness(context.Background(), m, nil)
	assert.NotContains(t, violationNames(vs), "liveness.L4")
}

func TestLiveness_EscalationWithoutEvent(t *testing.T) {
	m := baseMirror(t)
	require.NoError(t, m.InsertProposal(&mirror.Proposal{
		ID: "proposal-1", AuthorID: "agent-1", Status: mirror.ProposalApproved,
	}))
	require.NoError(t, m.InsertWorld(&mirror.World{
		ID: "world-1", CreatorID: "agent-1", ProposalID: "proposal-1", Status: mirror.WorldActive,
	}))
	require.NoError(t, m.InsertDweller(&mirror.Dweller{
		ID: "dweller-1", WorldID: "world-1", CreatorID: "agent-1", Status: mirror.DwellerActive,
	}))
	require.NoError(t, m.InsertAction(&mirror.Action{
		ID: "action-1", DwellerID: "dweller-1", CreatorID: "agent-1",
		Status: mirror.ActionEscalated, Escalated: true,
	}))
	vs := Liveness(context.Background(), m, nil)
	assert.Contains(t, violationNames(vs), "liveness.L6")
}

func TestLiveness_CollectsAllViolations(t *testing.T) {
	m := baseMirror(t)
	require.NoError(t, m.InsertProposal(&mirror.Proposal{
		ID: "proposal-1", AuthorID: "agent-1", Status: mirror.ProposalValidating,
		Verdicts: map[string]mirror.Verdict{
			"agent-2": mirror.VerdictApprove,
			"agent-3": mirror.VerdictApprove,
		},
	}))
	require.NoError(t, m.InsertProposal(&mirror.Proposal{
		ID: "proposal-2", AuthorID: "agent-1", Status: mirror.ProposalRejected,
		Verdicts: map[string]mirror.Verdict{"agent-2": mirror.VerdictReject},
	}))
	vs := Liveness(context.Background(), m, nil)
	names := violationNames(vs)
	assert.Contains(t, names, "liveness.L1")
	assert.Contains(t, names, "liveness.L5")
}
