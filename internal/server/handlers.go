package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/dovvnloading/Leadz/internal/search"
	"github.com/dovvnloading/Leadz/internal/types"
)

// SearchRequest is the payload for POST /search and POST /search/stream
type SearchRequest struct {
	Query string `json:"query" validate:"required,min=3,max=500"`
}

// SearchResponse is the synchronous search result
type SearchResponse struct {
	SessionID string            `json:"session_id"`
	Query     string            `json:"query"`
	Status    string            `json:"status"`
	JobCount  int               `json:"job_count"`
	Jobs      []types.JobRecord `json:"jobs"`
}

// startSession validates the request and registers a session for the client.
// One in-flight search per client address; a second one gets 409.
func (s *Server) startSession(w http.ResponseWriter, r *http.Request) (*search.Session, string, bool) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return nil, "", false
	}

	if err := s.validate.Struct(req); err != nil {
		verr := &ErrValidation{Field: "query", Message: "must be between 3 and 500 characters"}
		if fields, ok := err.(validator.ValidationErrors); ok && len(fields) > 0 {
			verr.Field = fields[0].Field()
		}
		s.errorResponse(w, HTTPStatus(verr), verr.Error())
		return nil, "", false
	}

	owner := s.extractClientID(r)
	session := s.orchestrator.Start(r.Context(), req.Query)
	if err := s.registry.Acquire(owner, session); err != nil {
		session.Stop()
		go discard(session)
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return nil, "", false
	}
	return session, owner, true
}

// handleSearch runs a search to completion and returns all results at once
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	session, owner, ok := s.startSession(w, r)
	if !ok {
		return
	}
	defer s.registry.Release(owner)

	jobs := make([]types.JobRecord, 0)
	lastStatus := ""

	statusCh, jobsCh := session.Status(), session.Jobs()
	for statusCh != nil || jobsCh != nil {
		select {
		case msg, chOpen := <-statusCh:
			if !chOpen {
				statusCh = nil
				continue
			}
			lastStatus = msg
		case job, chOpen := <-jobsCh:
			if !chOpen {
				jobsCh = nil
				continue
			}
			jobs = append(jobs, job)
		}
	}
	<-session.Done()

	s.jsonResponse(w, http.StatusOK, SearchResponse{
		SessionID: session.ID().String(),
		Query:     session.Query(),
		Status:    lastStatus,
		JobCount:  len(jobs),
		Jobs:      jobs,
	})
}

// handleSearchStream runs a search and streams progress via SSE
func (s *Server) handleSearchStream(w http.ResponseWriter, r *http.Request) {
	session, owner, ok := s.startSession(w, r)
	if !ok {
		return
	}
	defer s.registry.Release(owner)

	sse, err := NewSSEWriter(w)
	if err != nil {
		session.Stop()
		go discard(session)
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	log.Printf("Starting streaming search %s", session.ID())

	count := 0
	lastStatus := ""
	disconnect := r.Context().Done()

	statusCh, jobsCh := session.Status(), session.Jobs()
	for statusCh != nil || jobsCh != nil {
		select {
		case <-disconnect:
			// Client went away; cancel the pipeline and drain what remains.
			session.Stop()
			disconnect = nil
		case msg, chOpen := <-statusCh:
			if !chOpen {
				statusCh = nil
				continue
			}
			lastStatus = msg
			if err := sse.WriteStatus(msg); err != nil {
				log.Printf("Error writing SSE event: %v", err)
			}
		case job, chOpen := <-jobsCh:
			if !chOpen {
				jobsCh = nil
				continue
			}
			count++
			if err := sse.WriteEvent("job", job); err != nil {
				log.Printf("Error writing SSE event: %v", err)
			}
		}
	}
	<-session.Done()

	sse.WriteComplete(session.ID().String(), count, lastStatus)
}

// discard consumes a stopped session's channels so its goroutine can finish.
func discard(session *search.Session) {
	for range session.Status() {
	}
	for range session.Jobs() {
	}
}
