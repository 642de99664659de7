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

// Package sutfake is an in-memory stand-in for the live service, serving the
// same JSON API the harness drives. IDs are sequential per kind so a run
// against the fake is reproducible end to end. The fake applies the same
// workflow transitions the real backend does (vote thresholds, story acclaim,
// idempotent suggestion creation); AutoFinalize=false suppresses them to
// provoke liveness violations in tests.
//
// The fake treats the dedup window as infinite: an idempotency key, once seen,
// dedups for the life of the server no matter what dedup_window_ms the
// overrides endpoint was given. The override value is recorded for inspection
// only; the fake has no clock to expire keys against.
package sutfake

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/nerdsane/deep-sci-fi-sub003/internal/sut"
)

type proposal struct {
	ID       string
	AuthorID string
	Status   string
	Verdicts map[string]string
}

type world struct {
	ID         string
	CreatorID  string
	ProposalID string
	Status     string
}

type dweller struct {
	ID        string
	WorldID   string
	CreatorID string
	Status    string
}

type action struct {
	ID        string
	DwellerID string
	CreatorID string
	Status    string
	Escalated bool
}

type review struct {
	ID                string
	StoryID           string
	ReviewerID        string
	RecommendsAcclaim bool
	AuthorResponded   bool
}

type story struct {
	ID            string
	AuthorID      string
	WorldID       string
	Status        string
	RevisionCount int
	ReviewIDs     []string
}

type suggestion struct {
	ID          string
	SuggesterID string
	OwnerID     string
	Status      string
	Upvoters    map[string]struct{}
}

// Server is the fake live service.
type Server struct {
	mu sync.Mutex

	// AutoFinalize applies threshold-gated transitions (approve/reject/
	// acclaim) as soon as their condition holds. Tests switch it off to
	// simulate a backend whose triggering transition never fires.
	AutoFinalize bool

	// FailureHook, when set, returns true to force a 500 for a request.
	FailureHook func(r *http.Request) bool

	agents           map[string]string // id -> name
	proposals        map[string]*proposal
	worlds           map[string]*world
	dwellers         map[string]*dweller
	dwellerProposals map[string]*proposal
	aspects          map[string]string // id -> world id
	events           map[string]string // id -> world id
	actions          map[string]*action
	stories          map[string]*story
	reviews          map[string]*review
	suggestions      map[string]*suggestion
	feedback         map[string]string
	idempotency      map[string]string // idempotency key -> suggestion id

	overrides sut.OverridesRequest
	seq       map[string]int

	mux *http.ServeMux
}

// New creates a fake server with finalization enabled.
func New() *Server {
	s := &Server{
		AutoFinalize:     true,
		agents:           make(map[string]string),
		proposals:        make(map[string]*proposal),
		worlds:           make(map[string]*world),
		dwellers:         make(map[string]*dweller),
		dwellerProposals: make(map[string]*proposal),
		aspects:          make(map[string]string),
		events:           make(map[string]string),
		actions:          make(map[string]*action),
		stories:          make(map[string]*story),
		reviews:          make(map[string]*review),
		suggestions:      make(map[string]*suggestion),
		feedback:         make(map[string]string),
		idempotency:      make(map[string]string),
		seq:              make(map[string]int),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if s.FailureHook != nil && s.FailureHook(r) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "injected failure"})
		return
	}
	s.mux.ServeHTTP(w, r)
}

// Overrides returns the last overrides pushed by the harness.
func (s *Server) Overrides() sut.OverridesRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overrides
}

// EventCount reports how many events the fake has recorded.
func (s *Server) EventCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func (s *Server) nextID(kind string) string {
	s.seq[kind]++
	return fmt.Sprintf("%s-%d", kind, s.seq[kind])
}

func (s *Server) routes() {
	s.mux = http.NewServeMux()
	s.mux.HandleFunc("POST /api/agents", s.createAgent)
	s.mux.HandleFunc("POST /api/proposals", s.createProposal)
	s.mux.HandleFunc("GET /api/proposals/{id}", s.getProposal)
	s.mux.HandleFunc("POST /api/proposals/{id}/votes", s.voteProposal)
	s.mux.HandleFunc("POST /api/worlds", s.createWorld)
	s.mux.HandleFunc("POST /api/worlds/{id}/archive", s.archiveWorld)
	s.mux.HandleFunc("POST /api/worlds/{id}/dwellers", s.createDweller)
	s.mux.HandleFunc("POST /api/worlds/{id}/aspects", s.createAspect)
	s.mux.HandleFunc("POST /api/worlds/{id}/events", s.createEvent)
	s.mux.HandleFunc("POST /api/dwellers/{id}/retire", s.retireDweller)
	s.mux.HandleFunc("POST /api/dwellers/{id}/actions", s.createAction)
	s.mux.HandleFunc("POST /api/dweller-proposals", s.createDwellerProposal)
	s.mux.HandleFunc("GET /api/dweller-proposals/{id}", s.getDwellerProposal)
	s.mux.HandleFunc("POST /api/dweller-proposals/{id}/votes", s.voteDwellerProposal)
	s.mux.HandleFunc("POST /api/actions/{id}/resolve", s.resolveAction)
	s.mux.HandleFunc("POST /api/actions/{id}/escalate", s.escalateAction)
	s.mux.HandleFunc("POST /api/stories", s.createStory)
	s.mux.HandleFunc("GET /api/stories/{id}", s.getStory)
	s.mux.HandleFunc("POST /api/stories/{id}/reviews", s.createReview)
	s.mux.HandleFunc("POST /api/reviews/{id}/response", s.respondReview)
	s.mux.HandleFunc("POST /api/stories/{id}/revisions", s.reviseStory)
	s.mux.HandleFunc("POST /api/suggestions", s.createSuggestion)
	s.mux.HandleFunc("POST /api/suggestions/{id}/upvote", s.upvoteSuggestion)
	s.mux.HandleFunc("POST /api/suggestions/{id}/accept", s.acceptSuggestion)
	s.mux.HandleFunc("POST /api/suggestions/{id}/reject", s.rejectSuggestion)
	s.mux.HandleFunc("POST /api/suggestions/{id}/withdraw", s.withdrawSuggestion)
	s.mux.HandleFunc("DELETE /api/suggestions/{id}", s.deleteSuggestion)
	s.mux.HandleFunc("POST /api/feedback", s.createFeedback)
	s.mux.HandleFunc("POST /api/admin/test-overrides", s.setOverrides)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func (s *Server) createAgent(w http.ResponseWriter, r *http.Request) {
	var req sut.CreateAgentRequest
	if err := decode(r, &req); err != nil || req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name required"})
		return
	}
	s.mu.Lock()
	id := s.nextID("agent")
	s.agents[id] = req.Name
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, sut.CreatedResponse{ID: id})
}

func (s *Server) createProposal(w http.ResponseWriter, r *http.Request) {
	var req sut.CreateProposalRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad body"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.agents[req.AuthorID]; !ok {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "unknown author"})
		return
	}
	id := s.nextID("proposal")
	s.proposals[id] = &proposal{ID: id, AuthorID: req.AuthorID, Status: "draft", Verdicts: map[string]string{}}
	writeJSON(w, http.StatusCreated, sut.CreatedResponse{ID: id, Status: "draft"})
}

func (s *Server) getProposal(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.proposals[r.PathValue("id")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no such proposal"})
		return
	}
	writeJSON(w, http.StatusOK, sut.ProposalView{ID: p.ID, AuthorID: p.AuthorID, Status: p.Status, Verdicts: p.Verdicts})
}

// finalizeProposal applies the vote-threshold transitions: two rejections
// reject, two approvals with zero rejections approve.
func (s *Server) finalizeProposal(p *proposal) {
	if !s.AutoFinalize {
		return
	}
	approvals, rejections := 0, 0
	for _, v := range p.Verdicts {
		switch v {
		case "approve":
			approvals++
		case "reject":
			rejections++
		}
	}
	switch {
	case rejections >= 2:
		p.Status = "rejected"
	case approvals >= 2 && rejections == 0:
		p.Status = "approved"
	}
}

func (s *Server) vote(w http.ResponseWriter, r *http.Request, pool map[string]*proposal) {
	var req sut.VoteRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad body"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := pool[r.PathValue("id")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no such proposal"})
		return
	}
	if _, ok := s.agents[req.ValidatorID]; !ok {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "unknown validator"})
		return
	}
	if p.Status == "approved" || p.Status == "rejected" {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "proposal finalized"})
		return
	}
	p.Verdicts[req.ValidatorID] = req.Verdict
	if p.Status == "draft" {
		p.Status = "validating"
	}
	s.finalizeProposal(p)
	writeJSON(w, http.StatusOK, sut.VoteResponse{Status: p.Status})
}

func (s *Server) voteProposal(w http.ResponseWriter, r *http.Request) {
	s.vote(w, r, s.proposals)
}

func (s *Server) voteDwellerProposal(w http.ResponseWriter, r *http.Request) {
	s.vote(w, r, s.dwellerProposals)
}

func (s *Server) createWorld(w http.ResponseWriter, r *http.Request) {
	var req sut.CreateWorldRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad body"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.proposals[req.ProposalID]
	if !ok || p.Status != "approved" {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "proposal not approved"})
		return
	}
	id := s.nextID("world")
	s.worlds[id] = &world{ID: id, CreatorID: req.CreatorID, ProposalID: req.ProposalID, Status: "active"}
	writeJSON(w, http.StatusCreated, sut.CreatedResponse{ID: id, Status: "active"})
}

func (s *Server) archiveWorld(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wd, ok := s.worlds[r.PathValue("id")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no such world"})
		return
	}
	wd.Status = "archived"
	writeJSON(w, http.StatusOK, sut.StatusResponse{Status: "archived"})
}

func (s *Server) createDweller(w http.ResponseWriter, r *http.Request) {
	var req sut.CreateDwellerRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad body"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	worldID := r.PathValue("id")
	if _, ok := s.worlds[worldID]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no such world"})
		return
	}
	id := s.nextID("dweller")
	s.dwellers[id] = &dweller{ID: id, WorldID: worldID, CreatorID: req.CreatorID, Status: "active"}
	writeJSON(w, http.StatusCreated, sut.CreatedResponse{ID: id, Status: "active"})
}

func (s *Server) retireDweller(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.dwellers[r.PathValue("id")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no such dweller"})
		return
	}
	d.Status = "retired"
	writeJSON(w, http.StatusOK, sut.StatusResponse{Status: "retired"})
}

func (s *Server) createDwellerProposal(w http.ResponseWriter, r *http.Request) {
	var req sut.CreateDwellerProposalRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad body"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.dwellers[req.DwellerID]; !ok {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "unknown dweller"})
		return
	}
	id := s.nextID("dproposal")
	s.dwellerProposals[id] = &proposal{ID: id, AuthorID: req.AuthorID, Status: "draft", Verdicts: map[string]string{}}
	writeJSON(w, http.StatusCreated, sut.CreatedResponse{ID: id, Status: "draft"})
}

func (s *Server) getDwellerProposal(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.dwellerProposals[r.PathValue("id")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no such proposal"})
		return
	}
	writeJSON(w, http.StatusOK, sut.ProposalView{ID: p.ID, AuthorID: p.AuthorID, Status: p.Status, Verdicts: p.Verdicts})
}

func (s *Server) createAspect(w http.ResponseWriter, r *http.Request) {
	var req sut.CreateAspectRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad body"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	worldID := r.PathValue("id")
	if _, ok := s.worlds[worldID]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no such world"})
		return
	}
	id := s.nextID("aspect")
	s.aspects[id] = worldID
	writeJSON(w, http.StatusCreated, sut.CreatedResponse{ID: id})
}

func (s *Server) createEvent(w http.ResponseWriter, r *http.Request) {
	var req sut.CreateEventRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad body"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	worldID := r.PathValue("id")
	if _, ok := s.worlds[worldID]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no such world"})
		return
	}
	id := s.nextID("event")
	s.events[id] = worldID
	writeJSON(w, http.StatusCreated, sut.CreatedResponse{ID: id})
}

func (s *Server) createAction(w http.ResponseWriter, r *http.Request) {
	var req sut.CreateActionRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad body"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	dwellerID := r.PathValue("id")
	if _, ok := s.dwellers[dwellerID]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no such dweller"})
		return
	}
	id := s.nextID("action")
	s.actions[id] = &action{ID: id, DwellerID: dwellerID, CreatorID: req.CreatorID, Status: "pending"}
	writeJSON(w, http.StatusCreated, sut.CreatedResponse{ID: id, Status: "pending"})
}

func (s *Server) resolveAction(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.actions[r.PathValue("id")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no such action"})
		return
	}
	a.Status = "resolved"
	writeJSON(w, http.StatusOK, sut.StatusResponse{Status: "resolved"})
}

// escalateAction records the corresponding event before flagging the action,
// preserving the escalations<=events invariant on the server side.
func (s *Server) escalateAction(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.actions[r.PathValue("id")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no such action"})
		return
	}
	d := s.dwellers[a.DwellerID]
	eventID := s.nextID("event")
	s.events[eventID] = d.WorldID
	a.Status = "escalated"
	a.Escalated = true
	writeJSON(w, http.StatusOK, sut.EscalateResponse{Status: "escalated", EventID: eventID})
}

func (s *Server) createStory(w http.ResponseWriter, r *http.Request) {
	var req sut.CreateStoryRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad body"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.worlds[req.WorldID]; !ok {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "unknown world"})
		return
	}
	id := s.nextID("story")
	s.stories[id] = &story{ID: id, AuthorID: req.AuthorID, WorldID: req.WorldID, Status: "PUBLISHED"}
	writeJSON(w, http.StatusCreated, sut.CreatedResponse{ID: id, Status: "PUBLISHED"})
}

func (s *Server) getStory(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stories[r.PathValue("id")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no such story"})
		return
	}
	writeJSON(w, http.StatusOK, sut.StoryView{ID: st.ID, AuthorID: st.AuthorID, Status: st.Status, RevisionCount: st.RevisionCount})
}

// finalizeStory promotes PUBLISHED to ACCLAIMED once two or more
// acclaim-recommending reviews all carry author responses and at least one
// revision has landed.
func (s *Server) finalizeStory(st *story) {
	if !s.AutoFinalize || st.Status != "PUBLISHED" {
		return
	}
	recommending, responded := 0, 0
	for _, rid := range st.ReviewIDs {
		rv := s.reviews[rid]
		if rv.RecommendsAcclaim {
			recommending++
			if rv.AuthorResponded {
				responded++
			}
		}
	}
	if recommending >= 2 && responded == recommending && st.RevisionCount >= 1 {
		st.Status = "ACCLAIMED"
	}
}

func (s *Server) createReview(w http.ResponseWriter, r *http.Request) {
	var req sut.CreateReviewRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad body"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stories[r.PathValue("id")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no such story"})
		return
	}
	id := s.nextID("review")
	s.reviews[id] = &review{ID: id, StoryID: st.ID, ReviewerID: req.ReviewerID, RecommendsAcclaim: req.RecommendsAcclaim}
	st.ReviewIDs = append(st.ReviewIDs, id)
	s.finalizeStory(st)
	writeJSON(w, http.StatusCreated, sut.ReviewResponse{ReviewID: id, StoryStatus: st.Status})
}

func (s *Server) respondReview(w http.ResponseWriter, r *http.Request) {
	var req sut.ReviewResponseRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad body"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rv, ok := s.reviews[r.PathValue("id")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no such review"})
		return
	}
	rv.AuthorResponded = true
	st := s.stories[rv.StoryID]
	s.finalizeStory(st)
	writeJSON(w, http.StatusOK, sut.ReviewResponse{StoryStatus: st.Status})
}

func (s *Server) reviseStory(w http.ResponseWriter, r *http.Request) {
	var req sut.RevisionRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad body"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stories[r.PathValue("id")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no such story"})
		return
	}
	st.RevisionCount++
	s.finalizeStory(st)
	writeJSON(w, http.StatusOK, sut.RevisionResponse{RevisionCount: st.RevisionCount, Status: st.Status})
}

// createSuggestion dedups by Idempotency-Key: a repeated key returns the
// already-created suggestion with 200 instead of 201. Keys never expire, see
// the package comment.
func (s *Server) createSuggestion(w http.ResponseWriter, r *http.Request) {
	var req sut.CreateSuggestionRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad body"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if key := r.Header.Get("Idempotency-Key"); key != "" {
		if id, ok := s.idempotency[key]; ok {
			writeJSON(w, http.StatusOK, sut.CreatedResponse{ID: id, Status: s.suggestions[id].Status})
			return
		}
		id := s.newSuggestion(req)
		s.idempotency[key] = id
		writeJSON(w, http.StatusCreated, sut.CreatedResponse{ID: id, Status: "pending"})
		return
	}
	id := s.newSuggestion(req)
	writeJSON(w, http.StatusCreated, sut.CreatedResponse{ID: id, Status: "pending"})
}

func (s *Server) newSuggestion(req sut.CreateSuggestionRequest) string {
	id := s.nextID("suggestion")
	s.suggestions[id] = &suggestion{
		ID:          id,
		SuggesterID: req.SuggesterID,
		OwnerID:     req.OwnerID,
		Status:      "pending",
		Upvoters:    make(map[string]struct{}),
	}
	return id
}

func (s *Server) upvoteSuggestion(w http.ResponseWriter, r *http.Request) {
	var req sut.UpvoteRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad body"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sg, ok := s.suggestions[r.PathValue("id")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no such suggestion"})
		return
	}
	sg.Upvoters[req.AgentID] = struct{}{}
	writeJSON(w, http.StatusOK, sut.UpvoteResponse{Upvotes: len(sg.Upvoters)})
}

func (s *Server) resolveSuggestion(w http.ResponseWriter, r *http.Request, status string) {
	var req sut.ResolveSuggestionRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad body"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sg, ok := s.suggestions[r.PathValue("id")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no such suggestion"})
		return
	}
	if sg.Status != "pending" {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "suggestion already resolved"})
		return
	}
	sg.Status = status
	writeJSON(w, http.StatusOK, sut.StatusResponse{Status: status})
}

func (s *Server) acceptSuggestion(w http.ResponseWriter, r *http.Request) {
	s.resolveSuggestion(w, r, "accepted")
}

func (s *Server) rejectSuggestion(w http.ResponseWriter, r *http.Request) {
	s.resolveSuggestion(w, r, "rejected")
}

func (s *Server) withdrawSuggestion(w http.ResponseWriter, r *http.Request) {
	s.resolveSuggestion(w, r, "withdrawn")
}

// deleteSuggestion is the documented always-404-on-missing-ID operation the
// harness probes for contract drift.
func (s *Server) deleteSuggestion(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := r.PathValue("id")
	if _, ok := s.suggestions[id]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no such suggestion"})
		return
	}
	delete(s.suggestions, id)
	writeJSON(w, http.StatusOK, sut.StatusResponse{Status: "deleted"})
}

func (s *Server) createFeedback(w http.ResponseWriter, r *http.Request) {
	var req sut.CreateFeedbackRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad body"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID("feedback")
	s.feedback[id] = req.Body
	writeJSON(w, http.StatusCreated, sut.CreatedResponse{ID: id})
}

func (s *Server) setOverrides(w http.ResponseWriter, r *http.Request) {
	var req sut.OverridesRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad body"})
		return
	}
	s.mu.Lock()
	s.overrides = req
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, sut.StatusResponse{Status: "applied"})
}
