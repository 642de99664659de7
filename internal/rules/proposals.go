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

	"github.com/nerdsane/deep-sci-fi-sub003/internal/mirror"
	"github.com/nerdsane/deep-sci-fi-sub003/internal/sut"
	"github.com/nerdsane/deep-sci-fi-sub003/pkg/metrics"
)

func skip(rule string) error {
	metrics.RuleSkippedTotal.WithLabelValues(rule).Inc()
	return nil
}

// openProposals lists proposals still accepting votes.
func openProposals(m *mirror.Mirror) []*mirror.Proposal {
	var out []*mirror.Proposal
	for _, p := range m.Proposals() {
		if p.Status == mirror.ProposalDraft || p.Status == mirror.ProposalValidating {
			out = append(out, p)
		}
	}
	return out
}

// CreateProposal opens a new world proposal authored by an existing agent.
type CreateProposal struct{}

// Name implements Rule.
func (CreateProposal) Name() string { return "proposal.create" }

// Run implements Rule.
func (r CreateProposal) Run(ctx context.Context, env *Env) error {
	agents := env.Mirror.Agents()
	if len(agents) == 0 {
		return skip(r.Name())
	}
	author := pick(agents, env.Step)
	title := fmt.Sprintf("proposal at step %d", env.Step)
	var out sut.CreatedResponse
	ok, err := post(ctx, env, r.Name(), "/api/proposals",
		sut.CreateProposalRequest{AuthorID: author.ID, Title: title}, &out)
	if err != nil || !ok {
		return err
	}
	return env.Mirror.InsertProposal(&mirror.Proposal{
		ID:       out.ID,
		AuthorID: author.ID,
		Title:    title,
		Status:   mirror.ProposalStatus(out.Status),
	})
}

// VoteProposal casts one validator verdict on an open world proposal. The
// validator is the first registered agent that has not voted on it yet.
type VoteProposal struct {
	Verdict mirror.Verdict
}

// Name implements Rule.
func (r VoteProposal) Name() string { return "proposal.vote." + string(r.Verdict) }

// Run implements Rule.
func (r VoteProposal) Run(ctx context.Context, env *Env) error {
	open := openProposals(env.Mirror)
	if len(open) == 0 {
		return skip(r.Name())
	}
	p := pick(open, env.Step)
	var validator *mirror.Agent
	for _, a := range env.Mirror.Agents() {
		if _, voted := p.Verdicts[a.ID]; !voted {
			validator = a
			break
		}
	}
	if validator == nil {
		return skip(r.Name())
	}
	var out sut.VoteResponse
	ok, err := post(ctx, env, r.Name(), "/api/proposals/"+p.ID+"/votes",
		sut.VoteRequest{ValidatorID: validator.ID, Verdict: string(r.Verdict)}, &out)
	if err != nil || !ok {
		return err
	}
	p.Verdicts[validator.ID] = r.Verdict
	p.Status = mirror.ProposalStatus(out.Status)
	return nil
}
