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

package sut

// Wire types for the live service's JSON API. Rules marshal these on the way
// out and decode them on the way back; the in-memory fake serves the same
// shapes.

// CreateAgentRequest registers an actor.
type CreateAgentRequest struct {
	Name string `json:"name"`
}

// CreatedResponse is the common create result.
type CreatedResponse struct {
	ID     string `json:"id"`
	Status string `json:"status,omitempty"`
}

// CreateProposalRequest opens a world proposal.
type CreateProposalRequest struct {
	AuthorID string `json:"author_id"`
	Title    string `json:"title"`
}

// VoteRequest casts a validator verdict on a proposal or dweller proposal.
type VoteRequest struct {
	ValidatorID string `json:"validator_id"`
	Verdict     string `json:"verdict"` // approve | reject
}

// VoteResponse reports the entity status after the vote was applied.
type VoteResponse struct {
	Status string `json:"status"`
}

// ProposalView is the server's read model for a proposal.
type ProposalView struct {
	ID       string            `json:"id"`
	AuthorID string            `json:"author_id"`
	Status   string            `json:"status"`
	Verdicts map[string]string `json:"verdicts"`
}

// CreateWorldRequest creates a world from an approved proposal.
type CreateWorldRequest struct {
	CreatorID  string `json:"creator_id"`
	ProposalID string `json:"proposal_id"`
	Name       string `json:"name"`
}

// CreateDwellerRequest adds a dweller to a world.
type CreateDwellerRequest struct {
	CreatorID string `json:"creator_id"`
	Name      string `json:"name"`
}

// CreateDwellerProposalRequest opens a proposal against a dweller.
type CreateDwellerProposalRequest struct {
	AuthorID  string `json:"author_id"`
	DwellerID string `json:"dweller_id"`
}

// CreateAspectRequest adds an aspect to a world.
type CreateAspectRequest struct {
	CreatorID string `json:"creator_id"`
	Kind      string `json:"kind"`
}

// CreateEventRequest records a world event.
type CreateEventRequest struct {
	CreatorID string `json:"creator_id"`
	Kind      string `json:"kind"`
}

// CreateActionRequest has a dweller take an action.
type CreateActionRequest struct {
	CreatorID string `json:"creator_id"`
}

// EscalateResponse reports the event recorded for an escalation.
type EscalateResponse struct {
	Status  string `json:"status"`
	EventID string `json:"event_id"`
}

// CreateStoryRequest publishes a story.
type CreateStoryRequest struct {
	AuthorID string `json:"author_id"`
	WorldID  string `json:"world_id"`
}

// StoryView is the server's read model for a story.
type StoryView struct {
	ID            string `json:"id"`
	AuthorID      string `json:"author_id"`
	Status        string `json:"status"`
	RevisionCount int    `json:"revision_count"`
}

// CreateReviewRequest reviews a story.
type CreateReviewRequest struct {
	ReviewerID        string `json:"reviewer_id"`
	RecommendsAcclaim bool   `json:"recommends_acclaim"`
}

// ReviewResponse is the result of posting a review or an author response.
type ReviewResponse struct {
	ReviewID    string `json:"review_id,omitempty"`
	StoryStatus string `json:"story_status"`
}

// ReviewResponseRequest is the author responding to a review.
type ReviewResponseRequest struct {
	AuthorID string `json:"author_id"`
}

// RevisionRequest revises a story.
type RevisionRequest struct {
	AuthorID string `json:"author_id"`
}

// RevisionResponse reports the revision count and story status.
type RevisionResponse struct {
	RevisionCount int    `json:"revision_count"`
	Status        string `json:"status"`
}

// CreateSuggestionRequest files a suggestion with a target owner.
type CreateSuggestionRequest struct {
	SuggesterID string `json:"suggester_id"`
	OwnerID     string `json:"owner_id"`
	Body        string `json:"body"`
}

// UpvoteRequest upvotes a suggestion.
type UpvoteRequest struct {
	AgentID string `json:"agent_id"`
}

// UpvoteResponse reports the upvote count after the vote.
type UpvoteResponse struct {
	Upvotes int `json:"upvotes"`
}

// ResolveSuggestionRequest accepts or rejects a suggestion (owner) or
// withdraws it (suggester).
type ResolveSuggestionRequest struct {
	AgentID string `json:"agent_id"`
}

// StatusResponse is a bare post-transition status.
type StatusResponse struct {
	Status string `json:"status"`
}

// CreateFeedbackRequest submits free-form feedback.
type CreateFeedbackRequest struct {
	AuthorID string `json:"author_id"`
	Body     string `json:"body"`
}

// OverridesRequest tunes non-deterministic production features for a harness
// run: the duplicate-submission dedup window, SUT-side random delays and the
// admin bypass shortcuts.
type OverridesRequest struct {
	DedupWindowMs int  `json:"dedup_window_ms"`
	RandomDelays  bool `json:"random_delays"`
	AdminBypass   bool `json:"admin_bypass"`
}
