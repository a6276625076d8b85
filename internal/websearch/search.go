// Package websearch executes expanded queries against a web search backend,
// supplements queries that lack a site restriction, and deduplicates results
// by URL.
package websearch

import (
	"context"
	"fmt"
	"strings"
)

// Result is a single search engine result. Only the URL is required; title
// and snippet are kept when the backend provides them.
type Result struct {
	URL     string `json:"url"`
	Title   string `json:"title,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

// Searcher is the interface for web search backends.
type Searcher interface {
	// Search runs a single query and returns up to maxResults results.
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)
}

// SearchError represents a failure of a single backend search call.
type SearchError struct {
	Query   string
	Message string
	Cause   error
}

func (e *SearchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("search error for %q: %s: %v", e.Query, e.Message, e.Cause)
	}
	return fmt.Sprintf("search error for %q: %s", e.Query, e.Message)
}

func (e *SearchError) Unwrap() error {
	return e.Cause
}

// HasSiteRestriction reports whether a query already carries a site: clause.
func HasSiteRestriction(query string) bool {
	return strings.Contains(query, "site:")
}
