package websearch

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

// DefaultEndpoint is the DuckDuckGo HTML (no-JavaScript) search endpoint.
const DefaultEndpoint = "https://html.duckduckgo.com/html/"

// searchUserAgent mimics a conventional browser; the HTML endpoint rejects
// obviously robotic agents.
const searchUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// DuckDuckGo is a Searcher that scrapes the DuckDuckGo HTML endpoint.
// Requests are rate limited so that a multi-query batch stays polite.
type DuckDuckGo struct {
	endpoint string
	client   *http.Client
	limiter  *rate.Limiter
}

// NewDuckDuckGo creates a DuckDuckGo searcher with a 10 second request
// timeout and one request per second sustained rate.
func NewDuckDuckGo() *DuckDuckGo {
	return &DuckDuckGo{
		endpoint: DefaultEndpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
		limiter:  rate.NewLimiter(rate.Every(time.Second), 2),
	}
}

// NewDuckDuckGoWithEndpoint creates a searcher against a custom endpoint.
// Used by tests to point at a local server.
func NewDuckDuckGoWithEndpoint(endpoint string, client *http.Client) *DuckDuckGo {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &DuckDuckGo{
		endpoint: endpoint,
		client:   client,
		limiter:  rate.NewLimiter(rate.Inf, 1),
	}
}

// Search runs one query and parses up to maxResults result links.
func (d *DuckDuckGo) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return nil, &SearchError{Query: query, Message: "rate limiter interrupted", Cause: err}
	}

	reqURL := d.endpoint + "?q=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &SearchError{Query: query, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", searchUserAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, &SearchError{Query: query, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &SearchError{Query: query, Message: resp.Status}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, &SearchError{Query: query, Message: "failed to parse result page", Cause: err}
	}

	var results []Result
	doc.Find(".result__body").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if len(results) >= maxResults {
			return false
		}

		anchor := s.Find("a.result__a").First()
		href, ok := anchor.Attr("href")
		if !ok {
			return true
		}
		target := resolveRedirect(href)
		if target == "" {
			return true
		}

		results = append(results, Result{
			URL:     target,
			Title:   strings.TrimSpace(anchor.Text()),
			Snippet: strings.TrimSpace(s.Find(".result__snippet").Text()),
		})
		return true
	})

	return results, nil
}

// resolveRedirect unwraps DuckDuckGo's /l/?uddg= redirect links into the
// destination URL. Direct links are returned as is.
func resolveRedirect(href string) string {
	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}

	if strings.HasPrefix(parsed.Path, "/l/") {
		if target := parsed.Query().Get("uddg"); target != "" {
			return target
		}
		return ""
	}

	if parsed.Scheme == "" {
		// Scheme-relative redirect hosts still carry the uddg parameter.
		if target := parsed.Query().Get("uddg"); target != "" {
			return target
		}
	}

	return href
}
