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

import "time"

// Verdict is one validator's vote on a proposal.
type Verdict string

// Verdict values.
const (
	VerdictApprove Verdict = "approve"
	VerdictReject  Verdict = "reject"
)

// ProposalStatus is the proposal state machine:
// draft -> validating -> approved | rejected.
type ProposalStatus string

// ProposalStatus values.
const (
	ProposalDraft      ProposalStatus = "draft"
	ProposalValidating ProposalStatus = "validating"
	ProposalApproved   ProposalStatus = "approved"
	ProposalRejected   ProposalStatus = "rejected"
)

// WorldStatus values.
type WorldStatus string

const (
	WorldActive   WorldStatus = "active"
	WorldArchived WorldStatus = "archived"
)

// DwellerStatus values.
type DwellerStatus string

const (
	DwellerActive  DwellerStatus = "active"
	DwellerRetired DwellerStatus = "retired"
)

// ActionStatus values.
type ActionStatus string

const (
	ActionPending   ActionStatus = "pending"
	ActionResolved  ActionStatus = "resolved"
	ActionEscalated ActionStatus = "escalated"
)

// StoryStatus is the story state machine: PUBLISHED -> ACCLAIMED, gated by
// acclaim-recommending review count and author-response completeness.
type StoryStatus string

// StoryStatus values (upper case on the wire, kept verbatim).
const (
	StoryPublished StoryStatus = "PUBLISHED"
	StoryAcclaimed StoryStatus = "ACCLAIMED"
)

// SuggestionStatus is the suggestion state machine:
// pending -> accepted | rejected | withdrawn.
type SuggestionStatus string

// SuggestionStatus values.
const (
	SuggestionPending   SuggestionStatus = "pending"
	SuggestionAccepted  SuggestionStatus = "accepted"
	SuggestionRejected  SuggestionStatus = "rejected"
	SuggestionWithdrawn SuggestionStatus = "withdrawn"
)

// Agent is a registered actor; every other record's creator must resolve here.
type Agent struct {
	ID   string
	Name string
}

// Proposal is a world proposal with validator verdicts.
type Proposal struct {
	ID       string
	AuthorID string
	Title    string
	Status   ProposalStatus
	Verdicts map[string]Verdict // validator agent ID -> verdict
}

// Approvals counts approve verdicts.
func (p *Proposal) Approvals() int { return countVerdicts(p.Verdicts, VerdictApprove) }

// Rejections counts reject verdicts.
func (p *Proposal) Rejections() int { return countVerdicts(p.Verdicts, VerdictReject) }

// World is created from an approved proposal.
type World struct {
	ID         string
	CreatorID  string
	ProposalID string
	Name       string
	Status     WorldStatus
}

// Dweller inhabits a world.
type Dweller struct {
	ID        string
	WorldID   string
	CreatorID string
	Name      string
	Status    DwellerStatus
}

// DwellerProposal proposes a change to a dweller; same vote thresholds as
// world proposals.
type DwellerProposal struct {
	ID        string
	DwellerID string
	AuthorID  string
	Status    ProposalStatus
	Verdicts  map[string]Verdict
}

// Approvals counts approve verdicts.
func (p *DwellerProposal) Approvals() int { return countVerdicts(p.Verdicts, VerdictApprove) }

// Rejections counts reject verdicts.
func (p *DwellerProposal) Rejections() int { return countVerdicts(p.Verdicts, VerdictReject) }

// Aspect is a facet of a world (culture, technology, geography...).
type Aspect struct {
	ID        string
	WorldID   string
	CreatorID string
	Kind      string
}

// Event is a recorded world happening.
type Event struct {
	ID        string
	WorldID   string
	CreatorID string
	Kind      string
	At        time.Time
}

// Action is something a dweller does; escalation must record an Event first.
type Action struct {
	ID        string
	DwellerID string
	CreatorID string
	Status    ActionStatus
	Escalated bool
}

// Review is one reviewer's take on a story.
type Review struct {
	ReviewID          string
	RecommendsAcclaim bool
	AuthorResponded   bool
}

// Story is a published story with reviews and revisions.
type Story struct {
	ID            string
	AuthorID      string
	WorldID       string
	Status        StoryStatus
	RevisionCount int
	Reviews       map[string]Review // reviewer agent ID -> review
}

// AcclaimReviews counts acclaim-recommending reviews, and how many of those
// have an author response.
func (s *Story) AcclaimReviews() (recommending, responded int) {
	for _, r := range s.Reviews {
		if r.RecommendsAcclaim {
			recommending++
			if r.AuthorResponded {
				responded++
			}
		}
	}
	return recommending, responded
}

// Suggestion is a community suggestion with an upvoter set.
type Suggestion struct {
	ID          string
	SuggesterID string
	OwnerID     string
	Status      SuggestionStatus
	Upvoters    map[string]struct{}
}

// Feedback is free-form feedback from an agent.
type Feedback struct {
	ID       string
	AuthorID string
	Body     string
}

func countVerdicts(m map[string]Verdict, want Verdict) int {
	n := 0
	for _, v := range m {
		if v == want {
			n++
		}
	}
	return n
}
