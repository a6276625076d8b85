package websearch

import (
	"context"
	"fmt"
	"log"
)

// SiteRestriction is the fixed disjunction of known job-board domains
// appended to queries that have no site: clause of their own.
const SiteRestriction = "(site:linkedin.com OR site:indeed.com OR site:glassdoor.com OR site:greenhouse.io OR site:lever.co OR site:wellfound.com)"

// Client runs a batch of expanded queries against a Searcher and collects a
// deduplicated result set.
type Client struct {
	searcher     Searcher
	totalResults int
}

// NewClient creates a search client targeting roughly totalResults results
// across the whole batch.
func NewClient(searcher Searcher, totalResults int) *Client {
	return &Client{searcher: searcher, totalResults: totalResults}
}

// Run executes every query, running an additional job-board-restricted
// search for queries without their own site: clause. Results are
// deduplicated by URL in first-seen order. Individual search failures are
// logged and skipped; the returned slice is empty only when every
// sub-search failed or returned nothing.
func (c *Client) Run(ctx context.Context, queries []string) []Result {
	if len(queries) == 0 {
		return nil
	}

	quota := c.perQueryQuota(queries)

	var collected []Result
	seen := make(map[string]bool)

	perform := func(query string) {
		results, err := c.searcher.Search(ctx, query, quota)
		if err != nil {
			log.Printf("websearch: search for %q failed: %v", query, err)
			return
		}
		for _, r := range results {
			if r.URL == "" || seen[r.URL] {
				continue
			}
			seen[r.URL] = true
			collected = append(collected, r)
		}
	}

	for _, query := range queries {
		if ctx.Err() != nil {
			return collected
		}
		perform(query)
		if !HasSiteRestriction(query) {
			perform(fmt.Sprintf("%s %s", query, SiteRestriction))
		}
	}

	return collected
}

// perQueryQuota divides the total target across the effective sub-query
// count. A query without a site restriction runs twice, so it counts as two
// effective queries. The quota never drops below one.
func (c *Client) perQueryQuota(queries []string) int {
	effective := 0
	for _, q := range queries {
		effective++
		if !HasSiteRestriction(q) {
			effective++
		}
	}

	quota := c.totalResults / effective
	if quota < 1 {
		quota = 1
	}
	return quota
}
