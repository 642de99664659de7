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

package invariant

import (
	"context"
	"fmt"

	"github.com/nerdsane/deep-sci-fi-sub003/internal/mirror"
	"github.com/nerdsane/deep-sci-fi-sub003/internal/sut"
)

// Liveness evaluates the teardown-only predicates: workflows that crossed
// their thresholds must have completed their transition. All violations are
// collected, never just the first, since the run is already over. client may
// be nil to skip the ground-truth comparison against the live service.
func Liveness(ctx context.Context, m *mirror.Mirror, client *sut.Client) []Violation {
	var out []Violation
	out = append(out, livenessProposals(ctx, m, client)...)
	out = append(out, livenessDwellerProposals(ctx, m, client)...)
	out = append(out, livenessSuggestions(m)...)
	out = append(out, livenessStories(ctx, m, client)...)
	out = append(out, livenessRejections(m)...)
	out = append(out, livenessEscalations(m)...)
	return out
}

// fetchStatus pulls the live service's status for an entity; empty on any
// failure (the mirror-side predicate still applies).
func fetchStatus(ctx context.Context, client *sut.Client, path string) string {
	if client == nil {
		return ""
	}
	resp, err := client.Get(ctx, path)
	if err != nil || !resp.OK() {
		return ""
	}
	var view sut.StatusResponse
	if err := resp.Decode(&view); err != nil {
		return ""
	}
	return view.Status
}

// livenessProposals is L1: two or more approvals with zero rejections must
// have produced status approved, in the mirror and on the live service.
func livenessProposals(ctx context.Context, m *mirror.Mirror, client *sut.Client) []Violation {
	var out []Violation
	for _, p := range m.Proposals() {
		if p.Approvals() >= 2 && p.Rejections() == 0 && p.Status != mirror.ProposalApproved {
			out = append(out, Violation{
				Invariant: "liveness.L1",
				EntityIDs: []string{p.ID},
				Detail: fmt.Sprintf("proposal %s has %d approvals, 0 rejections, but status %q",
					p.ID, p.Approvals(), p.Status),
			})
			continue
		}
		if p.Status == mirror.ProposalApproved {
			if got := fetchStatus(ctx, client, "/api/proposals/"+p.ID); got != "" && got != string(p.Status) {
				out = append(out, Violation{
					Invariant: "liveness.L1",
					EntityIDs: []string{p.ID},
					Detail:    fmt.Sprintf("proposal %s: live service reports %q, mirror %q", p.ID, got, p.Status),
				})
			}
		}
	}
	return out
}

// livenessDwellerProposals is L2, the dweller-proposal half of L1.
func livenessDwellerProposals(ctx context.Context, m *mirror.Mirror, client *sut.Client) []Violation {
	var out []Violation
	for _, p := range m.DwellerProposals() {
		if p.Approvals() >= 2 && p.Rejections() == 0 && p.Status != mirror.ProposalApproved {
			out = append(out, Violation{
				Invariant: "liveness.L2",
				EntityIDs: []string{p.ID},
				Detail: fmt.Sprintf("dweller proposal %s has %d approvals, 0 rejections, but status %q",
					p.ID, p.Approvals(), p.Status),
			})
			continue
		}
		if p.Status == mirror.ProposalApproved {
			if got := fetchStatus(ctx, client, "/api/dweller-proposals/"+p.ID); got != "" && got != string(p.Status) {
				out = append(out, Violation{
					Invariant: "liveness.L2",
					EntityIDs: []string{p.ID},
					Detail:    fmt.Sprintf("dweller proposal %s: live service reports %q, mirror %q", p.ID, got, p.Status),
				})
			}
		}
	}
	return out
}

// livenessSuggestions is L3: accepted suggestions keep a resolvable owner,
// withdrawn ones a resolvable suggester.
func livenessSuggestions(m *mirror.Mirror) []Violation {
	var out []Violation
	for _, s := range m.Suggestions() {
		if s.Status == mirror.SuggestionAccepted {
			if _, ok := m.Agent(s.OwnerID); !ok {
				out = append(out, Violation{
					Invariant: "liveness.L3",
					EntityIDs: []string{s.ID},
					Detail:    fmt.Sprintf("accepted suggestion %s owner %q missing", s.ID, s.OwnerID),
				})
			}
		}
		if s.Status == mirror.SuggestionWithdrawn {
			if _, ok := m.Agent(s.SuggesterID); !ok {
				out = append(out, Violation{
					Invariant: "liveness.L3",
					EntityIDs: []string{s.ID},
					Detail:    fmt.Sprintf("withdrawn suggestion %s suggester %q missing", s.ID, s.SuggesterID),
				})
			}
		}
	}
	return out
}

// livenessStories is L4: two or more acclaim-recommending reviews, all with
// author responses, plus at least one revision, must have produced ACCLAIMED.
func livenessStories(ctx context.Context, m *mirror.Mirror, client *sut.Client) []Violation {
	var out []Violation
	for _, s := range m.Stories() {
		recommending, responded := s.AcclaimReviews()
		if recommending >= 2 && responded == recommending && s.RevisionCount >= 1 &&
			s.Status != mirror.StoryAcclaimed {
			out = append(out, Violation{
				Invariant: "liveness.L4",
				EntityIDs: []string{s.ID},
				Detail: fmt.Sprintf("story %s has %d responded acclaim reviews and %d revisions, but status %q",
					s.ID, responded, s.RevisionCount, s.Status),
			})
			continue
		}
		if s.Status == mirror.StoryAcclaimed {
			if got := fetchStatus(ctx, client, "/api/stories/"+s.ID); got != "" && got != string(s.Status) {
				out = append(out, Violation{
					Invariant: "liveness.L4",
					EntityIDs: []string{s.ID},
					Detail:    fmt.Sprintf("story %s: live service reports %q, mirror %q", s.ID, got, s.Status),
				})
			}
		}
	}
	return out
}

// livenessRejections is L5: a rejected proposal must carry at least two
// recorded rejection votes.
func livenessRejections(m *mirror.Mirror) []Violation {
	var out []Violation
	for _, p := range m.Proposals() {
		if p.Status == mirror.ProposalRejected && p.Rejections() < 2 {
			out = append(out, Violation{
				Invariant: "liveness.L5",
				EntityIDs: []string{p.ID},
				Detail: fmt.Sprintf("proposal %s is rejected with only %d rejection votes",
					p.ID, p.Rejections()),
			})
		}
	}
	for _, p := range m.DwellerProposals() {
		if p.Status == mirror.ProposalRejected && p.Rejections() < 2 {
			out = append(out, Violation{
				Invariant: "liveness.L5",
				EntityIDs: []string{p.ID},
				Detail: fmt.Sprintf("dweller proposal %s is rejected with only %d rejection votes",
					p.ID, p.Rejections()),
			})
		}
	}
	return out
}

// livenessEscalations is L6: every escalation must have produced an event.
func livenessEscalations(m *mirror.Mirror) []Violation {
	escalated := 0
	for _, a := range m.Actions() {
		if a.Escalated {
			escalated++
		}
	}
	if events := len(m.Events()); escalated > events {
		return []Violation{{
			Invariant: "liveness.L6",
			Detail:    fmt.Sprintf("%d escalated actions exceed %d recorded events", escalated, events),
		}}
	}
	return nil
}
