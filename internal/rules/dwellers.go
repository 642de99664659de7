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
)

// activeDwellers lists dwellers that have not been retired.
func activeDwellers(m *mirror.Mirror) []*mirror.Dweller {
	var out []*mirror.Dweller
	for _, d := range m.Dwellers() {
		if d.Status == mirror.DwellerActive {
			out = append(out, d)
		}
	}
	return out
}

// CreateDweller adds an inhabitant to an active world.
type CreateDweller struct{}

// Name implements Rule.
func (CreateDweller) Name() string { return "dweller.create" }

// Run implements Rule.
func (r CreateDweller) Run(ctx context.Context, env *Env) error {
	worlds := activeWorlds(env.Mirror)
	agents := env.Mirror.Agents()
	if len(worlds) == 0 || len(agents) == 0 {
		return skip(r.Name())
	}
	w := pick(worlds, env.Step)
	creator := pick(agents, env.Step)
	name := fmt.Sprintf("dweller at step %d", env.Step)
	var out sut.CreatedResponse
	ok, err := post(ctx, env, r.Name(), "/api/worlds/"+w.ID+"/dwellers",
		sut.CreateDwellerRequest{CreatorID: creator.ID, Name: name}, &out)
	if err != nil || !ok {
		return err
	}
	return env.Mirror.InsertDweller(&mirror.Dweller{
		ID:        out.ID,
		WorldID:   w.ID,
		CreatorID: creator.ID,
		Name:      name,
		Status:    mirror.DwellerStatus(out.Status),
	})
}

// RetireDweller retires an active dweller.
type RetireDweller struct{}

// Name implements Rule.
func (RetireDweller) Name() string { return "dweller.retire" }

// Run implements Rule.
func (r RetireDweller) Run(ctx context.Context, env *Env) error {
	dwellers := activeDwellers(env.Mirror)
	if len(dwellers) == 0 {
		return skip(r.Name())
	}
	d := pick(dwellers, env.Step)
	var out sut.StatusResponse
	ok, err := post(ctx, env, r.Name(), "/api/dwellers/"+d.ID+"/retire", nil, &out)
	if err != nil || !ok {
		return err
	}
	d.Status = mirror.DwellerStatus(out.Status)
	return nil
}

// CreateDwellerProposal opens a change proposal against an active dweller.
type CreateDwellerProposal struct{}

// Name implements Rule.
func (CreateDwellerProposal) Name() string { return "dwellerproposal.create" }

// Run implements Rule.
func (r CreateDwellerProposal) Run(ctx context.Context, env *Env) error {
	dwellers := activeDwellers(env.Mirror)
	agents := env.Mirror.Agents()
	if len(dwellers) == 0 || len(agents) == 0 {
		return skip(r.Name())
	}
	d := pick(dwellers, env.Step)
	author := pick(agents, env.Step)
	var out sut.CreatedResponse
	ok, err := post(ctx, env, r.Name(), "/api/dweller-proposals",
		sut.CreateDwellerProposalRequest{AuthorID: author.ID, DwellerID: d.ID}, &out)
	if err != nil || !ok {
		return err
	}
	return env.Mirror.InsertDwellerProposal(&mirror.DwellerProposal{
		ID:        out.ID,
		DwellerID: d.ID,
		AuthorID:  author.ID,
		Status:    mirror.ProposalStatus(out.Status),
	})
}

// VoteDwellerProposal casts one validator verdict on an open dweller proposal.
type VoteDwellerProposal struct {
	Verdict mirror.Verdict
}

// Name implements Rule.
func (r VoteDwellerProposal) Name() string { return "dwellerproposal.vote." + string(r.Verdict) }

// Run implements Rule.
func (r VoteDwellerProposal) Run(ctx context.Context, env *Env) error {
	var open []*mirror.DwellerProposal
	for _, p := range env.Mirror.DwellerProposals() {
		if p.Status == mirror.ProposalDraft || p.Status == mirror.ProposalValidating {
			open = append(open, p)
		}
	}
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
	ok, err := post(ctx, env, r.Name(), "/api/dweller-proposals/"+p.ID+"/votes",
		sut.VoteRequest{ValidatorID: validator.ID, Verdict: string(r.Verdict)}, &out)
	if err != nil || !ok {
		return err
	}
	p.Verdicts[validator.ID] = r.Verdict
	p.Status = mirror.ProposalStatus(out.Status)
	return nil
}
