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

// aspectKinds cycles through the facet categories a world can grow.
var aspectKinds = []string{"culture", "technology", "geography", "economy"}

// activeWorlds lists worlds that have not been archived.
func activeWorlds(m *mirror.Mirror) []*mirror.World {
	var out []*mirror.World
	for _, w := range m.Worlds() {
		if w.Status == mirror.WorldActive {
			out = append(out, w)
		}
	}
	return out
}

// CreateWorld instantiates a world from an approved proposal that has not
// seeded one yet.
type CreateWorld struct{}

// Name implements Rule.
func (CreateWorld) Name() string { return "world.create" }

// Run implements Rule.
func (r CreateWorld) Run(ctx context.Context, env *Env) error {
	used := make(map[string]bool)
	for _, w := range env.Mirror.Worlds() {
		used[w.ProposalID] = true
	}
	var candidates []*mirror.Proposal
	for _, p := range env.Mirror.Proposals() {
		if p.Status == mirror.ProposalApproved && !used[p.ID] {
			candidates = append(candidates, p)
		}
	}
	agents := env.Mirror.Agents()
	if len(candidates) == 0 || len(agents) == 0 {
		return skip(r.Name())
	}
	p := pick(candidates, env.Step)
	creator := pick(agents, env.Step)
	name := fmt.Sprintf("world from %s", p.ID)
	var out sut.CreatedResponse
	ok, err := post(ctx, env, r.Name(), "/api/worlds",
		sut.CreateWorldRequest{CreatorID: creator.ID, ProposalID: p.ID, Name: name}, &out)
	if err != nil || !ok {
		return err
	}
	return env.Mirror.InsertWorld(&mirror.World{
		ID:         out.ID,
		CreatorID:  creator.ID,
		ProposalID: p.ID,
		Name:       name,
		Status:     mirror.WorldStatus(out.Status),
	})
}

// ArchiveWorld archives an active world.
type ArchiveWorld struct{}

// Name implements Rule.
func (ArchiveWorld) Name() string { return "world.archive" }

// Run implements Rule.
func (r ArchiveWorld) Run(ctx context.Context, env *Env) error {
	worlds := activeWorlds(env.Mirror)
	if len(worlds) == 0 {
		return skip(r.Name())
	}
	w := pick(worlds, env.Step)
	var out sut.StatusResponse
	ok, err := post(ctx, env, r.Name(), "/api/worlds/"+w.ID+"/archive", nil, &out)
	if err != nil || !ok {
		return err
	}
	w.Status = mirror.WorldStatus(out.Status)
	return nil
}

// CreateAspect adds a facet to an active world.
type CreateAspect struct{}

// Name implements Rule.
func (CreateAspect) Name() string { return "aspect.create" }

// Run implements Rule.
func (r CreateAspect) Run(ctx context.Context, env *Env) error {
	worlds := activeWorlds(env.Mirror)
	agents := env.Mirror.Agents()
	if len(worlds) == 0 || len(agents) == 0 {
		return skip(r.Name())
	}
	w := pick(worlds, env.Step)
	creator := pick(agents, env.Step)
	kind := pick(aspectKinds, env.Step)
	var out sut.CreatedResponse
	ok, err := post(ctx, env, r.Name(), "/api/worlds/"+w.ID+"/aspects",
		sut.CreateAspectRequest{CreatorID: creator.ID, Kind: kind}, &out)
	if err != nil || !ok {
		return err
	}
	return env.Mirror.InsertAspect(&mirror.Aspect{
		ID:        out.ID,
		WorldID:   w.ID,
		CreatorID: creator.ID,
		Kind:      kind,
	})
}
