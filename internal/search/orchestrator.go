package search

import (
	"context"
	"fmt"
	"log"

	"github.com/dovvnloading/Leadz/internal/config"
	"github.com/dovvnloading/Leadz/internal/expand"
	"github.com/dovvnloading/Leadz/internal/extraction"
	"github.com/dovvnloading/Leadz/internal/fetch"
	"github.com/dovvnloading/Leadz/internal/llm"
	"github.com/dovvnloading/Leadz/internal/ranking"
	"github.com/dovvnloading/Leadz/internal/types"
	"github.com/dovvnloading/Leadz/internal/websearch"
)

// EmbedderFactory constructs the session's embedder. Loading the embedding
// model is the one fatal setup step: when it fails, the session reports the
// error and never runs a pipeline stage.
type EmbedderFactory func(ctx context.Context) (llm.Embedder, error)

// Orchestrator drives the five-stage pipeline through up to two attempts,
// streaming status updates and discovered jobs to the session's channels.
type Orchestrator struct {
	cfg         config.Config
	expander    *expand.Expander
	extractor   *extraction.Extractor
	webClient   *websearch.Client
	newEmbedder EmbedderFactory
	fetchOpts   *fetch.Options
}

// NewOrchestrator wires the pipeline components together.
func NewOrchestrator(cfg config.Config, client llm.Client, searcher websearch.Searcher, newEmbedder EmbedderFactory) *Orchestrator {
	fetchOpts := fetch.DefaultOptions()
	fetchOpts.UseBrowser = cfg.UseBrowser

	return &Orchestrator{
		cfg:         cfg,
		expander:    expand.New(client),
		extractor:   extraction.New(client),
		webClient:   websearch.NewClient(searcher, cfg.SearchResultsCount),
		newEmbedder: newEmbedder,
		fetchOpts:   fetchOpts,
	}
}

// Start launches a search session for the given query. The caller owns the
// returned session and must consume its channels until Done closes (or call
// Stop). Start never blocks on the pipeline.
func (o *Orchestrator) Start(ctx context.Context, query string) *Session {
	ctx, cancel := context.WithCancel(ctx)
	session := newSession(query, cancel)

	go o.run(ctx, session)

	return session
}

// run executes the attempt loop. It guarantees exactly one completion
// signal: every exit path, including a panic inside a stage, funnels
// through session.finish.
func (o *Orchestrator) run(ctx context.Context, session *Session) {
	defer session.cancel()
	defer session.finish()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("search: unexpected error in session %s: %v", session.id, r)
			session.emitStatus(ctx, fmt.Sprintf("An unexpected error occurred: %v", r))
		}
	}()

	embedder, err := o.newEmbedder(ctx)
	if err != nil {
		log.Printf("search: could not load embedding model: %v", err)
		session.emitStatus(ctx, fmt.Sprintf("Error loading embedding model: %v", err))
		return
	}
	defer func() { _ = embedder.Close() }()

	jobsFound := 0
	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		isRetry := attempt > 1
		if isRetry {
			session.emitStatus(ctx, "Initial search yielded few results. Retrying with a more targeted approach...")
		}

		found, aborted := o.runAttempt(ctx, session, embedder, isRetry)
		jobsFound += found
		if ctx.Err() != nil {
			return
		}
		if !aborted && jobsFound >= config.MinimumJobsThreshold {
			break
		}
	}

	if jobsFound == 0 {
		session.emitStatus(ctx, "No relevant jobs found.")
	} else {
		session.emitStatus(ctx, "Search complete!")
	}
}

// runAttempt runs the five stages once. It returns the number of jobs
// emitted and whether the attempt aborted on an empty stage. Cancellation is
// checked at each stage boundary.
func (o *Orchestrator) runAttempt(ctx context.Context, session *Session, embedder llm.Embedder, isRetry bool) (int, bool) {
	if ctx.Err() != nil {
		return 0, true
	}
	session.emitStatus(ctx, "Step 1/5: Generating intelligent search queries...")
	queries := o.expander.Expand(ctx, session.query, isRetry)
	if len(queries) == 0 {
		session.emitStatus(ctx, "Error: Could not generate search queries from your request.")
		return 0, true
	}
	log.Printf("search: generated %d queries for session %s", len(queries), session.id)

	if ctx.Err() != nil {
		return 0, true
	}
	session.emitStatus(ctx, "Step 2/5: Searching the web...")
	results := o.webClient.Run(ctx, queries)
	if len(results) == 0 {
		session.emitStatus(ctx, "Error: Web search found no results.")
		return 0, true
	}
	log.Printf("search: found %d unique URLs for session %s", len(results), session.id)

	if ctx.Err() != nil {
		return 0, true
	}
	session.emitStatus(ctx, "Step 3/5: Fetching pages...")
	urls := make([]string, len(results))
	for i, r := range results {
		urls[i] = r.URL
	}
	pages := fetch.FetchAll(ctx, urls, o.fetchOpts)
	if len(pages) == 0 {
		session.emitStatus(ctx, "Error: Failed to fetch content from websites.")
		return 0, true
	}
	log.Printf("search: cleaned %d pages for session %s", len(pages), session.id)

	if ctx.Err() != nil {
		return 0, true
	}
	session.emitStatus(ctx, "Step 4/5: Ranking & filtering pages...")
	topPages, err := ranking.Rank(ctx, embedder, session.query, pages, o.cfg.SimilarityThreshold, o.cfg.TopNPages)
	if err != nil {
		log.Printf("search: ranking failed for session %s: %v", session.id, err)
	}
	if len(topPages) == 0 {
		session.emitStatus(ctx, "Could not find relevant pages after filtering.")
		return 0, true
	}
	log.Printf("search: selected top %d pages for session %s", len(topPages), session.id)

	if ctx.Err() != nil {
		return 0, true
	}
	session.emitStatus(ctx, fmt.Sprintf("Step 5/5: Analyzing %d job listings for relevance...", len(topPages)))
	found := o.extractor.ExtractAll(ctx, session.query, topPages, func(record types.JobRecord) {
		session.emitJob(ctx, record)
	})

	return found, false
}
