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

// maxAgents caps mid-run registration so the actor population stays small
// enough for vote thresholds to be reachable.
const maxAgents = 8

// SeedAgents registers the fixed initial actor population before stepping
// begins. Used by the orchestrator, not part of the engine rotation.
func SeedAgents(ctx context.Context, env *Env, count int) error {
	for i := 0; i < count; i++ {
		var out sut.CreatedResponse
		ok, err := post(ctx, env, "agent.seed", "/api/agents",
			sut.CreateAgentRequest{Name: fmt.Sprintf("seed-agent-%d", i+1)}, &out)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("agent seeding failed, cannot start run")
		}
		if err := env.Mirror.InsertAgent(&mirror.Agent{ID: out.ID, Name: fmt.Sprintf("seed-agent-%d", i+1)}); err != nil {
			return err
		}
	}
	return nil
}

// RegisterAgent adds one more actor mid-run, up to maxAgents.
type RegisterAgent struct{}

// Name implements Rule.
func (RegisterAgent) Name() string { return "agent.register" }

// Run implements Rule.
func (r RegisterAgent) Run(ctx context.Context, env *Env) error {
	if len(env.Mirror.Agents()) >= maxAgents {
		return skip(r.Name())
	}
	name := fmt.Sprintf("agent-step-%d", env.Step)
	var out sut.CreatedResponse
	ok, err := post(ctx, env, "agent.register", "/api/agents", sut.CreateAgentRequest{Name: name}, &out)
	if err != nil || !ok {
		return err
	}
	return env.Mirror.InsertAgent(&mirror.Agent{ID: out.ID, Name: name})
}
