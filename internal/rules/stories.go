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
	"sort"

	"github.com/nerdsane/deep-sci-fi-sub003/internal/mirror"
	"github.com/nerdsane/deep-sci-fi-sub003/internal/sut"
)

// publishedStories lists stories still in PUBLISHED.
func publishedStories(m *mirror.Mirror) []*mirror.Story {
	var out []*mirror.Story
	for _, s := range m.Stories() {
		if s.Status == mirror.StoryPublished {
			out = append(out, s)
		}
	}
	return out
}

// PublishStory publishes a story set in an active world.
type PublishStory struct{}

// Name implements Rule.
func (PublishStory) Name() string { return "story.publish" }

// Run implements Rule.
func (r PublishStory) Run(ctx context.Context, env *Env) error {
	worlds := activeWorlds(env.Mirror)
	agents := env.Mirror.Agents()
	if len(worlds) == 0 || len(agents) == 0 {
		return skip(r.Name())
	}
	w := pick(worlds, env.Step)
	author := pick(agents, env.Step)
	var out sut.CreatedResponse
	ok, err := post(ctx, env, r.Name(), "/api/stories",
		sut.CreateStoryRequest{AuthorID: author.ID, WorldID: w.ID}, &out)
	if err != nil || !ok {
		return err
	}
	return env.Mirror.InsertStory(&mirror.Story{
		ID:       out.ID,
		AuthorID: author.ID,
		WorldID:  w.ID,
		Status:   mirror.StoryStatus(out.Status),
	})
}

// ReviewStory posts an acclaim-recommending review from an agent who has not
// reviewed the story yet.
type ReviewStory struct{}

// Name implements Rule.
func (ReviewStory) Name() string { return "story.review" }

// Run implements Rule.
func (r ReviewStory) Run(ctx context.Context, env *Env) error {
	stories := publishedStories(env.Mirror)
	if len(stories) == 0 {
		return skip(r.Name())
	}
	s := pick(stories, env.Step)
	var reviewer *mirror.Agent
	for _, a := range env.Mirror.Agents() {
		if a.ID == s.AuthorID {
			continue
		}
		if _, reviewed := s.Reviews[a.ID]; !reviewed {
			reviewer = a
			break
		}
	}
	if reviewer == nil {
		return skip(r.Name())
	}
	var out sut.ReviewResponse
	ok, err := post(ctx, env, r.Name(), "/api/stories/"+s.ID+"/reviews",
		sut.CreateReviewRequest{ReviewerID: reviewer.ID, RecommendsAcclaim: true}, &out)
	if err != nil || !ok {
		return err
	}
	s.Reviews[reviewer.ID] = mirror.Review{ReviewID: out.ReviewID, RecommendsAcclaim: true}
	s.Status = mirror.StoryStatus(out.StoryStatus)
	return nil
}

// RespondToReview has the author respond to the lowest-keyed unanswered
// review. Reviews live in a map; the reviewer IDs are sorted before choosing
// so replays pick the same one.
type RespondToReview struct{}

// Name implements Rule.
func (RespondToReview) Name() string { return "story.review.respond" }

// Run implements Rule.
func (r RespondToReview) Run(ctx context.Context, env *Env) error {
	var target *mirror.Story
	var reviewerID string
	for _, s := range env.Mirror.Stories() {
		reviewers := make([]string, 0, len(s.Reviews))
		for id, rv := range s.Reviews {
			if !rv.AuthorResponded {
				reviewers = append(reviewers, id)
			}
		}
		if len(reviewers) == 0 {
			continue
		}
		sort.Strings(reviewers)
		target, reviewerID = s, reviewers[0]
		break
	}
	if target == nil {
		return skip(r.Name())
	}
	rv := target.Reviews[reviewerID]
	var out sut.ReviewResponse
	ok, err := post(ctx, env, r.Name(), "/api/reviews/"+rv.ReviewID+"/response",
		sut.ReviewResponseRequest{AuthorID: target.AuthorID}, &out)
	if err != nil || !ok {
		return err
	}
	rv.AuthorResponded = true
	target.Reviews[reviewerID] = rv
	target.Status = mirror.StoryStatus(out.StoryStatus)
	return nil
}

// ReviseStory lands a revision on a published story.
type ReviseStory struct{}

// Name implements Rule.
func (ReviseStory) Name() string { return "story.revise" }

// Run implements Rule.
func (r ReviseStory) Run(ctx context.Context, env *Env) error {
	stories := publishedStories(env.Mirror)
	if len(stories) == 0 {
		return skip(r.Name())
	}
	s := pick(stories, env.Step)
	var out sut.RevisionResponse
	ok, err := post(ctx, env, r.Name(), "/api/stories/"+s.ID+"/revisions",
		sut.RevisionRequest{AuthorID: s.AuthorID}, &out)
	if err != nil || !ok {
		return err
	}
	s.RevisionCount = out.RevisionCount
	s.Status = mirror.StoryStatus(out.Status)
	return nil
}
