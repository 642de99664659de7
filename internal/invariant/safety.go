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
	"fmt"

	"github.com/nerdsane/deep-sci-fi-sub003/internal/mirror"
)

// Safety evaluates every safety predicate against the mirror and returns the
// first violation, or nil. Safety violations halt the run at the step where
// corruption became observable.
func Safety(m *mirror.Mirror) *Violation {
	checks := []func(*mirror.Mirror) *Violation{
		safetyReferences,
		safetyCounters,
		safetyStatuses,
		safetyEscalations,
	}
	for _, check := range checks {
		if v := check(m); v != nil {
			return v
		}
	}
	return nil
}

func agentExists(m *mirror.Mirror, id string) bool {
	_, ok := m.Agent(id)
	return ok
}

// safetyReferences re-validates structural referential integrity: every
// foreign reference resolves to an existing record of the right kind. The
// mirror validates at insert time; this catches rule-defect mutations after.
func safetyReferences(m *mirror.Mirror) *Violation {
	bad := func(kind, id, field, ref string) *Violation {
		return &Violation{
			Invariant: "safety.references",
			EntityIDs: []string{id},
			Detail:    fmt.Sprintf("%s %s: %s %q does not resolve", kind, id, field, ref),
		}
	}
	for _, p := range m.Proposals() {
		if !agentExists(m, p.AuthorID) {
			return bad("proposal", p.ID, "author", p.AuthorID)
		}
		for validator := range p.Verdicts {
			if !agentExists(m, validator) {
				return bad("proposal", p.ID, "validator", validator)
			}
		}
	}
	for _, w := range m.Worlds() {
		if !agentExists(m, w.CreatorID) {
			return bad("world", w.ID, "creator", w.CreatorID)
		}
		if w.ProposalID != "" {
			if _, ok := m.Proposal(w.ProposalID); !ok {
				return bad("world", w.ID, "proposal", w.ProposalID)
			}
		}
	}
	for _, d := range m.Dwellers() {
		if !agentExists(m, d.CreatorID) {
			return bad("dweller", d.ID, "creator", d.CreatorID)
		}
		if _, ok := m.World(d.WorldID); !ok {
			return bad("dweller", d.ID, "world", d.WorldID)
		}
	}
	for _, p := range m.DwellerProposals() {
		if !agentExists(m, p.AuthorID) {
			return bad("dweller proposal", p.ID, "author", p.AuthorID)
		}
		if _, ok := m.Dweller(p.DwellerID); !ok {
			return bad("dweller proposal", p.ID, "dweller", p.DwellerID)
		}
	}
	for _, a := range m.Aspects() {
		if !agentExists(m, a.CreatorID) {
			return bad("aspect", a.ID, "creator", a.CreatorID)
		}
		if _, ok := m.World(a.WorldID); !ok {
			return bad("aspect", a.ID, "world", a.WorldID)
		}
	}
	for _, e := range m.Events() {
		if !agentExists(m, e.CreatorID) {
			return bad("event", e.ID, "creator", e.CreatorID)
		}
		if _, ok := m.World(e.WorldID); !ok {
			return bad("event", e.ID, "world", e.WorldID)
		}
	}
	for _, a := range m.Actions() {
		if !agentExists(m, a.CreatorID) {
			return bad("action", a.ID, "creator", a.CreatorID)
		}
		if _, ok := m.Dweller(a.DwellerID); !ok {
			return bad("action", a.ID, "dweller", a.DwellerID)
		}
	}
	for _, s := range m.Stories() {
		if !agentExists(m, s.AuthorID) {
			return bad("story", s.ID, "author", s.AuthorID)
		}
		if _, ok := m.World(s.WorldID); !ok {
			return bad("story", s.ID, "world", s.WorldID)
		}
		for reviewer := range s.Reviews {
			if !agentExists(m, reviewer) {
				return bad("story", s.ID, "reviewer", reviewer)
			}
		}
	}
	for _, s := range m.Suggestions() {
		if !agentExists(m, s.SuggesterID) {
			return bad("suggestion", s.ID, "suggester", s.SuggesterID)
		}
		if !agentExists(m, s.OwnerID) {
			return bad("suggestion", s.ID, "owner", s.OwnerID)
		}
		for upvoter := range s.Upvoters {
			if !agentExists(m, upvoter) {
				return bad("suggestion", s.ID, "upvoter", upvoter)
			}
		}
	}
	for _, f := range m.Feedbacks() {
		if !agentExists(m, f.AuthorID) {
			return bad("feedback", f.ID, "author", f.AuthorID)
		}
	}
	return nil
}

// safetyCounters enforces no-negative-count constraints.
func safetyCounters(m *mirror.Mirror) *Violation {
	for _, s := range m.Stories() {
		if s.RevisionCount < 0 {
			return &Violation{
				Invariant: "safety.counters",
				EntityIDs: []string{s.ID},
				Detail:    fmt.Sprintf("story %s revision_count %d is negative", s.ID, s.RevisionCount),
			}
		}
	}
	return nil
}

// safetyStatuses checks every record's status stays within its declared set.
func safetyStatuses(m *mirror.Mirror) *Violation {
	bad := func(kind, id string, status any) *Violation {
		return &Violation{
			Invariant: "safety.statuses",
			EntityIDs: []string{id},
			Detail:    fmt.Sprintf("%s %s has status %q outside its declared set", kind, id, status),
		}
	}
	proposalOK := map[mirror.ProposalStatus]bool{
		mirror.ProposalDraft: true, mirror.ProposalValidating: true,
		mirror.ProposalApproved: true, mirror.ProposalRejected: true,
	}
	for _, p := range m.Proposals() {
		if !proposalOK[p.Status] {
			return bad("proposal", p.ID, p.Status)
		}
	}
	for _, p := range m.DwellerProposals() {
		if !proposalOK[p.Status] {
			return bad("dweller proposal", p.ID, p.Status)
		}
	}
	for _, w := range m.Worlds() {
		if w.Status != mirror.WorldActive && w.Status != mirror.WorldArchived {
			return bad("world", w.ID, w.Status)
		}
	}
	for _, d := range m.Dwellers() {
		if d.Status != mirror.DwellerActive && d.Status != mirror.DwellerRetired {
			return bad("dweller", d.ID, d.Status)
		}
	}
	for _, a := range m.Actions() {
		switch a.Status {
		case mirror.ActionPending, mirror.ActionResolved, mirror.ActionEscalated:
		default:
			return bad("action", a.ID, a.Status)
		}
	}
	for _, s := range m.Stories() {
		if s.Status != mirror.StoryPublished && s.Status != mirror.StoryAcclaimed {
			return bad("story", s.ID, s.Status)
		}
	}
	for _, s := range m.Suggestions() {
		switch s.Status {
		case mirror.SuggestionPending, mirror.SuggestionAccepted,
			mirror.SuggestionRejected, mirror.SuggestionWithdrawn:
		default:
			return bad("suggestion", s.ID, s.Status)
		}
	}
	return nil
}

// safetyEscalations: derived escalation flags never exceed the events that
// should have produced them.
func safetyEscalations(m *mirror.Mirror) *Violation {
	escalated := 0
	for _, a := range m.Actions() {
		if a.Escalated {
			escalated++
		}
	}
	if events := len(m.Events()); escalated > events {
		return &Violation{
			Invariant: "safety.escalations",
			Detail:    fmt.Sprintf("%d escalated actions exceed %d recorded events", escalated, events),
		}
	}
	return nil
}
