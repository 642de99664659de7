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
	"github.com/nerdsane/deep-sci-fi-sub003/internal/sim"
	"github.com/nerdsane/deep-sci-fi-sub003/internal/sut"
	"github.com/nerdsane/deep-sci-fi-sub003/pkg/errors"
)

// pendingSuggestions lists suggestions awaiting resolution.
func pendingSuggestions(m *mirror.Mirror) []*mirror.Suggestion {
	var out []*mirror.Suggestion
	for _, s := range m.Suggestions() {
		if s.Status == mirror.SuggestionPending {
			out = append(out, s)
		}
	}
	return out
}

// suggestionParties picks a suggester and a distinct owner.
func suggestionParties(env *Env) (suggester, owner *mirror.Agent, ok bool) {
	agents := env.Mirror.Agents()
	if len(agents) < 2 {
		return nil, nil, false
	}
	suggester = pick(agents, env.Step)
	owner = agents[(env.Step+1)%len(agents)]
	return suggester, owner, true
}

// CreateSuggestion files a suggestion from one agent against another.
type CreateSuggestion struct{}

// Name implements Rule.
func (CreateSuggestion) Name() string { return "suggestion.create" }

// Run implements Rule.
func (r CreateSuggestion) Run(ctx context.Context, env *Env) error {
	suggester, owner, ok := suggestionParties(env)
	if !ok {
		return skip(r.Name())
	}
	body := fmt.Sprintf("suggestion at step %d", env.Step)
	var out sut.CreatedResponse
	posted, err := post(ctx, env, r.Name(), "/api/suggestions",
		sut.CreateSuggestionRequest{SuggesterID: suggester.ID, OwnerID: owner.ID, Body: body}, &out)
	if err != nil || !posted {
		return err
	}
	return env.Mirror.InsertSuggestion(&mirror.Suggestion{
		ID:          out.ID,
		SuggesterID: suggester.ID,
		OwnerID:     owner.ID,
		Status:      mirror.SuggestionStatus(out.Status),
	})
}

// CreateSuggestionConcurrent submits the same suggestion twice through the
// scheduler, sharing one idempotency key. The service must collapse the pair
// into a single record; two distinct IDs coming back is a contract breach that
// aborts the run.
type CreateSuggestionConcurrent struct{}

// Name implements Rule.
func (CreateSuggestionConcurrent) Name() string { return "suggestion.create.duplicate" }

// Run implements Rule.
func (r CreateSuggestionConcurrent) Run(ctx context.Context, env *Env) error {
	suggester, owner, ok := suggestionParties(env)
	if !ok {
		return skip(r.Name())
	}
	key := fmt.Sprintf("dup-%d", env.Step)
	req := sut.CreateSuggestionRequest{
		SuggesterID: suggester.ID,
		OwnerID:     owner.ID,
		Body:        fmt.Sprintf("duplicate suggestion at step %d", env.Step),
	}
	submit := func(ctx context.Context) (any, error) {
		return env.SUT.PostIdempotent(ctx, "/api/suggestions", req, key)
	}
	results := env.Runner.Go(ctx, []sim.Op{submit, submit})

	ids := make(map[string]bool)
	for _, res := range results {
		if res.Err != nil {
			return errors.Wrap(res.Err, "duplicate suggestion submission")
		}
		resp := res.Value.(sut.Response)
		if !resp.OK() {
			env.Unexpected(r.Name(), "POST /api/suggestions", resp)
			continue
		}
		var out sut.CreatedResponse
		if err := resp.Decode(&out); err != nil {
			return errors.Wrap(err, "decode duplicate suggestion response")
		}
		ids[out.ID] = true
	}
	if len(ids) == 0 {
		return nil
	}
	if len(ids) > 1 {
		return errors.Wrapf(errors.ErrViolation,
			"duplicate submission with key %s produced %d distinct suggestions", key, len(ids))
	}
	var id string
	for only := range ids {
		id = only
	}
	return env.Mirror.InsertSuggestion(&mirror.Suggestion{
		ID:          id,
		SuggesterID: suggester.ID,
		OwnerID:     owner.ID,
		Status:      mirror.SuggestionPending,
	})
}

// UpvoteSuggestion upvotes a pending suggestion.
type UpvoteSuggestion struct{}

// Name implements Rule.
func (UpvoteSuggestion) Name() string { return "suggestion.upvote" }

// Run implements Rule.
func (r UpvoteSuggestion) Run(ctx context.Context, env *Env) error {
	pending := pendingSuggestions(env.Mirror)
	agents := env.Mirror.Agents()
	if len(pending) == 0 || len(agents) == 0 {
		return skip(r.Name())
	}
	s := pick(pending, env.Step)
	voter := pick(agents, env.Step)
	var out sut.UpvoteResponse
	ok, err := post(ctx, env, r.Name(), "/api/suggestions/"+s.ID+"/upvote",
		sut.UpvoteRequest{AgentID: voter.ID}, &out)
	if err != nil || !ok {
		return err
	}
	s.Upvoters[voter.ID] = struct{}{}
	return nil
}

// ResolveSuggestion closes a pending suggestion: the owner accepts or rejects,
// the suggester withdraws.
type ResolveSuggestion struct {
	Status mirror.SuggestionStatus
}

// Name implements Rule.
func (r ResolveSuggestion) Name() string { return "suggestion.resolve." + string(r.Status) }

// Run implements Rule.
func (r ResolveSuggestion) Run(ctx context.Context, env *Env) error {
	pending := pendingSuggestions(env.Mirror)
	if len(pending) == 0 {
		return skip(r.Name())
	}
	s := pick(pending, env.Step)
	var verb, actorID string
	switch r.Status {
	case mirror.SuggestionAccepted:
		verb, actorID = "accept", s.OwnerID
	case mirror.SuggestionRejected:
		verb, actorID = "reject", s.OwnerID
	case mirror.SuggestionWithdrawn:
		verb, actorID = "withdraw", s.SuggesterID
	default:
		return errors.Wrapf(errors.ErrInvalidArg, "resolve verb for status %q", r.Status)
	}
	var out sut.StatusResponse
	ok, err := post(ctx, env, r.Name(), "/api/suggestions/"+s.ID+"/"+verb,
		sut.ResolveSuggestionRequest{AgentID: actorID}, &out)
	if err != nil || !ok {
		return err
	}
	s.Status = mirror.SuggestionStatus(out.Status)
	return nil
}

// DeleteMissingSuggestion probes the documented contract that deleting an
// unknown suggestion always returns 404. Any other status is treated as an
// immediate contract breach and aborts the run.
type DeleteMissingSuggestion struct{}

// Name implements Rule.
func (DeleteMissingSuggestion) Name() string { return "suggestion.delete.missing" }

// Run implements Rule.
func (r DeleteMissingSuggestion) Run(ctx context.Context, env *Env) error {
	id := fmt.Sprintf("ghost-%d", env.Step)
	resp, err := env.SUT.Delete(ctx, "/api/suggestions/"+id)
	if err != nil {
		return errors.Wrapf(err, "DELETE /api/suggestions/%s", id)
	}
	if resp.Status != 404 {
		return errors.Wrapf(errors.ErrViolation,
			"DELETE of missing suggestion %s returned %d, want 404", id, resp.Status)
	}
	return nil
}
