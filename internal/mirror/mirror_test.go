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

package mirror

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerdsane/deep-sci-fi-sub003/pkg/errors"
)

func TestMirror_InsertValidatesReferences(t *testing.T) {
	m := New()
	require.NoError(t, m.InsertAgent(&Agent{ID: "agent-1", Name: "a"}))

	err := m.InsertProposal(&Proposal{ID: "proposal-1", AuthorID: "nobody", Status: ProposalDraft})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidArg)

	require.NoError(t, m.InsertProposal(&Proposal{ID: "proposal-1", AuthorID: "agent-1", Status: ProposalDraft}))

	// World referencing a proposal not in the mirror.
	err = m.InsertWorld(&World{ID: "world-1", CreatorID: "agent-1", ProposalID: "proposal-99", Status: WorldActive})
	assert.ErrorIs(t, err, errors.ErrInvalidArg)

	require.NoError(t, m.InsertWorld(&World{ID: "world-1", CreatorID: "agent-1", ProposalID: "proposal-1", Status: WorldActive}))

	err = m.InsertDweller(&Dweller{ID: "dweller-1", WorldID: "world-2", CreatorID: "agent-1", Status: DwellerActive})
	assert.ErrorIs(t, err, errors.ErrInvalidArg)

	require.NoError(t, m.InsertDweller(&Dweller{ID: "dweller-1", WorldID: "world-1", CreatorID: "agent-1", Status: DwellerActive}))

	err = m.InsertSuggestion(&Suggestion{ID: "s-1", SuggesterID: "agent-1", OwnerID: "ghost", Status: SuggestionPending})
	assert.ErrorIs(t, err, errors.ErrInvalidArg)
}

func TestMirror_DuplicateIDRejected(t *testing.T) {
	m := New()
	require.NoError(t, m.InsertAgent(&Agent{ID: "agent-1"}))
	err := m.InsertAgent(&Agent{ID: "agent-1"})
	assert.ErrorIs(t, err, errors.ErrInvalidArg)
}

func TestMirror_IterationIsInsertionOrder(t *testing.T) {
	m := New()
	ids := []string{"agent-3", "agent-1", "agent-2"}
	for _, id := range ids {
		require.NoError(t, m.InsertAgent(&Agent{ID: id}))
	}
	got := make([]string, 0, 3)
	for _, a := range m.Agents() {
		got = append(got, a.ID)
	}
	assert.Equal(t, ids, got)
}

func TestMirror_VoteCounts(t *testing.T) {
	p := &Proposal{Verdicts: map[string]Verdict{
		"agent-1": VerdictApprove,
		"agent-2": VerdictApprove,
		"agent-3": VerdictReject,
	}}
	assert.Equal(t, 2, p.Approvals())
	assert.Equal(t, 1, p.Rejections())
}

func TestMirror_AcclaimReviews(t *testing.T) {
	s := &Story{Reviews: map[string]Review{
		"agent-1": {ReviewID: "review-1", RecommendsAcclaim: true, AuthorResponded: true},
		"agent-2": {ReviewID: "review-2", RecommendsAcclaim: true},
		"agent-3": {ReviewID: "review-3", RecommendsAcclaim: false, AuthorResponded: true},
	}}
	recommending, responded := s.AcclaimReviews()
	assert.Equal(t, 2, recommending)
	assert.Equal(t, 1, responded)
}

func TestMirror_ServerErrorLogKeepsOrder(t *testing.T) {
	m := New()
	m.RecordServerError(ServerError{Step: 1, Rule: "a", Status: 500})
	m.RecordServerError(ServerError{Step: 2, Rule: "b", Status: 503})
	log := m.ServerErrors()
	require.Len(t, log, 2)
	assert.Equal(t, 1, log[0].Step)
	assert.Equal(t, 2, log[1].Step)
}
