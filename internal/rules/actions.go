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

	"github.com/nerdsane/deep-sci-fi-sub003/internal/mirror"
	"github.com/nerdsane/deep-sci-fi-sub003/internal/sut"
)

// eventKinds cycles through the happenings the harness records.
var eventKinds = []string{"discovery", "disaster", "migration", "uprising"}

// pendingActions lists actions awaiting resolution or escalation.
func pendingActions(m *mirror.Mirror) []*mirror.Action {
	var out []*mirror.Action
	for _, a := range m.Actions() {
		if a.Status == mirror.ActionPending {
			out = append(out, a)
		}
	}
	return out
}

// RecordEvent records a happening in an active world.
type RecordEvent struct{}

// Name implements Rule.
func (RecordEvent) Name() string { return "event.record" }

// Run implements Rule.
func (r RecordEvent) Run(ctx context.Context, env *Env) error {
	worlds := activeWorlds(env.Mirror)
	agents := env.Mirror.Agents()
	if len(worlds) == 0 || len(agents) == 0 {
		return skip(r.Name())
	}
	w := pick(worlds, env.Step)
	creator := pick(agents, env.Step)
	kind := pick(eventKinds, env.Step)
	var out sut.CreatedResponse
	ok, err := post(ctx, env, r.Name(), "/api/worlds/"+w.ID+"/events",
		sut.CreateEventRequest{CreatorID: creator.ID, Kind: kind}, &out)
	if err != nil || !ok {
		return err
	}
	return env.Mirror.InsertEvent(&mirror.Event{
		ID:        out.ID,
		WorldID:   w.ID,
		CreatorID: creator.ID,
		Kind:      kind,
		At:        env.Sim.Clock.Now(),
	})
}

// TakeAction has an active dweller start an action.
type TakeAction struct{}

// Name implements Rule.
func (TakeAction) Name() string { return "action.take" }

// Run implements Rule.
func (r TakeAction) Run(ctx context.Context, env *Env) error {
	dwellers := activeDwellers(env.Mirror)
	agents := env.Mirror.Agents()
	if len(dwellers) == 0 || len(agents) == 0 {
		return skip(r.Name())
	}
	d := pick(dwellers, env.Step)
	creator := pick(agents, env.Step)
	var out sut.CreatedResponse
	ok, err := post(ctx, env, r.Name(), "/api/dwellers/"+d.ID+"/actions",
		sut.CreateActionRequest{CreatorID: creator.ID}, &out)
	if err != nil || !ok {
		return err
	}
	return env.Mirror.InsertAction(&mirror.Action{
		ID:        out.ID,
		DwellerID: d.ID,
		CreatorID: creator.ID,
		Status:    mirror.ActionStatus(out.Status),
	})
}

// ResolveAction resolves a pending action.
type ResolveAction struct{}

// Name implements Rule.
func (ResolveAction) Name() string { return "action.resolve" }

// Run implements Rule.
func (r ResolveAction) Run(ctx context.Context, env *Env) error {
	actions := pendingActions(env.Mirror)
	if len(actions) == 0 {
		return skip(r.Name())
	}
	a := pick(actions, env.Step)
	var out sut.StatusResponse
	ok, err := post(ctx, env, r.Name(), "/api/actions/"+a.ID+"/resolve", nil, &out)
	if err != nil || !ok {
		return err
	}
	a.Status = mirror.ActionStatus(out.Status)
	return nil
}

// EscalateAction escalates a pending action. The service records the backing
// event as part of the escalation; the mirror stores that event before
// flagging the action so the escalations-never-exceed-events predicate holds
// at every intermediate state.
type EscalateAction struct{}

// Name implements Rule.
func (EscalateAction) Name() string { return "action.escalate" }

// Run implements Rule.
func (r EscalateAction) Run(ctx context.Context, env *Env) error {
	actions := pendingActions(env.Mirror)
	if len(actions) == 0 {
		return skip(r.Name())
	}
	a := pick(actions, env.Step)
	d, found := env.Mirror.Dweller(a.DwellerID)
	if !found {
		return skip(r.Name())
	}
	var out sut.EscalateResponse
	ok, err := post(ctx, env, r.Name(), "/api/actions/"+a.ID+"/escalate", nil, &out)
	if err != nil || !ok {
		return err
	}
	if err := env.Mirror.InsertEvent(&mirror.Event{
		ID:        out.EventID,
		WorldID:   d.WorldID,
		CreatorID: a.CreatorID,
		Kind:      "escalation",
		At:        env.Sim.Clock.Now(),
	}); err != nil {
		return err
	}
	a.Status = mirror.ActionStatus(out.Status)
	a.Escalated = true
	return nil
}
