// Package search orchestrates the job-search pipeline: query expansion, web
// search, page fetching, relevance ranking, and structured extraction, with
// a retry loop and streaming results.
package search

import (
	"context"

	"github.com/google/uuid"

	"github.com/dovvnloading/Leadz/internal/types"
)

// Session is one orchestrated search in flight. Callers consume the three
// event channels; Done is closed exactly once, after which no further status
// or job events arrive.
type Session struct {
	id     uuid.UUID
	query  string
	cancel context.CancelFunc

	status chan string
	jobs   chan types.JobRecord
	done   chan struct{}
}

func newSession(query string, cancel context.CancelFunc) *Session {
	return &Session{
		id:     uuid.New(),
		query:  query,
		cancel: cancel,
		status: make(chan string, 16),
		jobs:   make(chan types.JobRecord, 16),
		done:   make(chan struct{}),
	}
}

// ID returns the session's unique identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// Query returns the user query this session is searching for.
func (s *Session) Query() string { return s.query }

// Status delivers human-readable progress updates.
func (s *Session) Status() <-chan string { return s.status }

// Jobs delivers discovered job records as they are extracted.
func (s *Session) Jobs() <-chan types.JobRecord { return s.jobs }

// Done is closed when the session terminates, for any reason.
func (s *Session) Done() <-chan struct{} { return s.done }

// Stop requests early termination. The pipeline halts at the next stage
// boundary; Done still closes.
func (s *Session) Stop() { s.cancel() }

// emitStatus delivers a status update unless the session is cancelled.
func (s *Session) emitStatus(ctx context.Context, message string) {
	select {
	case s.status <- message:
	case <-ctx.Done():
	}
}

// emitJob delivers a discovered record unless the session is cancelled.
// A cancelled session emits no further job events.
func (s *Session) emitJob(ctx context.Context, record types.JobRecord) {
	if ctx.Err() != nil {
		return
	}
	select {
	case s.jobs <- record:
	case <-ctx.Done():
	}
}

// finish closes the event channels. The completion signal fires exactly
// once; run guarantees finish is called on every path.
func (s *Session) finish() {
	close(s.status)
	close(s.jobs)
	close(s.done)
}
