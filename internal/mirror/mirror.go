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

// Package mirror holds the harness's expected-state oracle: an in-memory
// shadow of the live service's entities, mutated only by rules after a
// successful response is observed. The mirror is owned exclusively by the
// engine's single thread of control, so no locking is used.
package mirror

import (
	"fmt"

	"github.com/nerdsane/deep-sci-fi-sub003/pkg/errors"
)

// ServerError is one unexpected live-service failure observed during a step.
type ServerError struct {
	Step   int
	Rule   string
	Op     string
	Status int
	Body   string
}

// store keeps records of one kind with insertion-order-stable iteration.
type store[T any] struct {
	byID  map[string]*T
	order []string
}

func newStore[T any]() store[T] {
	return store[T]{byID: make(map[string]*T)}
}

func (s *store[T]) insert(id string, rec *T) error {
	if _, exists := s.byID[id]; exists {
		return errors.Wrapf(errors.ErrInvalidArg, "duplicate id %s", id)
	}
	s.byID[id] = rec
	s.order = append(s.order, id)
	return nil
}

func (s *store[T]) get(id string) (*T, bool) {
	rec, ok := s.byID[id]
	return rec, ok
}

func (s *store[T]) all() []*T {
	out := make([]*T, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// Mirror is the full expected state, one store per entity kind, plus the
// error log of unexpected server failures.
type Mirror struct {
	agents           store[Agent]
	proposals        store[Proposal]
	worlds           store[World]
	dwellers         store[Dweller]
	dwellerProposals store[DwellerProposal]
	aspects          store[Aspect]
	events           store[Event]
	actions          store[Action]
	stories          store[Story]
	suggestions      store[Suggestion]
	feedback         store[Feedback]

	serverErrors []ServerError
}

// New creates an empty mirror.
func New() *Mirror {
	return &Mirror{
		agents:           newStore[Agent](),
		proposals:        newStore[Proposal](),
		worlds:           newStore[World](),
		dwellers:         newStore[Dweller](),
		dwellerProposals: newStore[DwellerProposal](),
		aspects:          newStore[Aspect](),
		events:           newStore[Event](),
		actions:          newStore[Action](),
		stories:          newStore[Story](),
		suggestions:      newStore[Suggestion](),
		feedback:         newStore[Feedback](),
	}
}

// requireAgent fails loudly when ref does not resolve to a registered agent.
// A dangling reference here is a defect in a rule, not a soft error.
func (m *Mirror) requireAgent(ref, field string) error {
	if _, ok := m.agents.get(ref); !ok {
		return fmt.Errorf("%s %q does not resolve to a registered agent: %w",
			field, ref, errors.ErrInvalidArg)
	}
	return nil
}

func (m *Mirror) requireWorld(ref string) error {
	if _, ok := m.worlds.get(ref); !ok {
		return fmt.Errorf("world %q not in mirror: %w", ref, errors.ErrInvalidArg)
	}
	return nil
}

func (m *Mirror) requireDweller(ref string) error {
	if _, ok := m.dwellers.get(ref); !ok {
		return fmt.Errorf("dweller %q not in mirror: %w", ref, errors.ErrInvalidArg)
	}
	return nil
}

// InsertAgent registers an agent.
func (m *Mirror) InsertAgent(a *Agent) error {
	return m.agents.insert(a.ID, a)
}

// InsertProposal validates the author reference and stores the proposal.
func (m *Mirror) InsertProposal(p *Proposal) error {
	if err := m.requireAgent(p.AuthorID, "proposal author"); err != nil {
		return err
	}
	if p.Verdicts == nil {
		p.Verdicts = make(map[string]Verdict)
	}
	return m.proposals.insert(p.ID, p)
}

// InsertWorld validates creator and source proposal references.
func (m *Mirror) InsertWorld(w *World) error {
	if err := m.requireAgent(w.CreatorID, "world creator"); err != nil {
		return err
	}
	if w.ProposalID != "" {
		if _, ok := m.proposals.get(w.ProposalID); !ok {
			return fmt.Errorf("world source proposal %q not in mirror: %w",
				w.ProposalID, errors.ErrInvalidArg)
		}
	}
	return m.worlds.insert(w.ID, w)
}

// InsertDweller validates creator and world references.
func (m *Mirror) InsertDweller(d *Dweller) error {
	if err := m.requireAgent(d.CreatorID, "dweller creator"); err != nil {
		return err
	}
	if err := m.requireWorld(d.WorldID); err != nil {
		return err
	}
	return m.dwellers.insert(d.ID, d)
}

// InsertDwellerProposal validates author and dweller references.
func (m *Mirror) InsertDwellerProposal(p *DwellerProposal) error {
	if err := m.requireAgent(p.AuthorID, "dweller proposal author"); err != nil {
		return err
	}
	if err := m.requireDweller(p.DwellerID); err != nil {
		return err
	}
	if p.Verdicts == nil {
		p.Verdicts = make(map[string]Verdict)
	}
	return m.dwellerProposals.insert(p.ID, p)
}

// InsertAspect validates creator and world references.
func (m *Mirror) InsertAspect(a *Aspect) error {
	if err := m.requireAgent(a.CreatorID, "aspect creator"); err != nil {
		return err
	}
	if err := m.requireWorld(a.WorldID); err != nil {
		return err
	}
	return m.aspects.insert(a.ID, a)
}

// InsertEvent validates creator and world references.
func (m *Mirror) InsertEvent(e *Event) error {
	if err := m.requireAgent(e.CreatorID, "event creator"); err != nil {
		return err
	}
	if err := m.requireWorld(e.WorldID); err != nil {
		return err
	}
	return m.events.insert(e.ID, e)
}

// InsertAction validates creator and dweller references.
func (m *Mirror) InsertAction(a *Action) error {
	if err := m.requireAgent(a.CreatorID, "action creator"); err != nil {
		return err
	}
	if err := m.requireDweller(a.DwellerID); err != nil {
		return err
	}
	return m.actions.insert(a.ID, a)
}

// InsertStory validates author and world references.
func (m *Mirror) InsertStory(s *Story) error {
	if err := m.requireAgent(s.AuthorID, "story author"); err != nil {
		return err
	}
	if err := m.requireWorld(s.WorldID); err != nil {
		return err
	}
	if s.Reviews == nil {
		s.Reviews = make(map[string]Review)
	}
	return m.stories.insert(s.ID, s)
}

// InsertSuggestion validates suggester and owner references.
func (m *Mirror) InsertSuggestion(s *Suggestion) error {
	if err := m.requireAgent(s.SuggesterID, "suggestion suggester"); err != nil {
		return err
	}
	if err := m.requireAgent(s.OwnerID, "suggestion owner"); err != nil {
		return err
	}
	if s.Upvoters == nil {
		s.Upvoters = make(map[string]struct{})
	}
	return m.suggestions.insert(s.ID, s)
}

// InsertFeedback validates the author reference.
func (m *Mirror) InsertFeedback(f *Feedback) error {
	if err := m.requireAgent(f.AuthorID, "feedback author"); err != nil {
		return err
	}
	return m.feedback.insert(f.ID, f)
}

// Lookup accessors. Iteration order is insertion order, stable per kind.

// Agent returns the agent with id.
func (m *Mirror) Agent(id string) (*Agent, bool) { return m.agents.get(id) }

// Agents lists agents in insertion order.
func (m *Mirror) Agents() []*Agent { return m.agents.all() }

// Proposal returns the proposal with id.
func (m *Mirror) Proposal(id string) (*Proposal, bool) { return m.proposals.get(id) }

// Proposals lists proposals in insertion order.
func (m *Mirror) Proposals() []*Proposal { return m.proposals.all() }

// World returns the world with id.
func (m *Mirror) World(id string) (*World, bool) { return m.worlds.get(id) }

// Worlds lists worlds in insertion order.
func (m *Mirror) Worlds() []*World { return m.worlds.all() }

// Dweller returns the dweller with id.
func (m *Mirror) Dweller(id string) (*Dweller, bool) { return m.dwellers.get(id) }

// Dwellers lists dwellers in insertion order.
func (m *Mirror) Dwellers() []*Dweller { return m.dwellers.all() }

// DwellerProposal returns the dweller proposal with id.
func (m *Mirror) DwellerProposal(id string) (*DwellerProposal, bool) {
	return m.dwellerProposals.get(id)
}

// DwellerProposals lists dweller proposals in insertion order.
func (m *Mirror) DwellerProposals() []*DwellerProposal { return m.dwellerProposals.all() }

// Aspects lists aspects in insertion order.
func (m *Mirror) Aspects() []*Aspect { return m.aspects.all() }

// Events lists events in insertion order.
func (m *Mirror) Events() []*Event { return m.events.all() }

// Actions lists actions in insertion order.
func (m *Mirror) Actions() []*Action { return m.actions.all() }

// Story returns the story with id.
func (m *Mirror) Story(id string) (*Story, bool) { return m.stories.get(id) }

// Stories lists stories in insertion order.
func (m *Mirror) Stories() []*Story { return m.stories.all() }

// Suggestion returns the suggestion with id.
func (m *Mirror) Suggestion(id string) (*Suggestion, bool) { return m.suggestions.get(id) }

// Suggestions lists suggestions in insertion order.
func (m *Mirror) Suggestions() []*Suggestion { return m.suggestions.all() }

// Feedbacks lists feedback records in insertion order.
func (m *Mirror) Feedbacks() []*Feedback { return m.feedback.all() }

// RecordServerError appends one unexpected failure to the error log.
func (m *Mirror) RecordServerError(e ServerError) {
	m.serverErrors = append(m.serverErrors, e)
}

// ServerErrors returns the error log in observation order.
func (m *Mirror) ServerErrors() []ServerError { return m.serverErrors }
