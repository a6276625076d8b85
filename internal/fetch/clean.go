package fetch

import (
	"context"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"
)

// MinContentLength is the cleaned-text floor for keeping a page. Pages with
// exactly this many characters are dropped; the keep condition is strictly
// greater-than.
const MinContentLength = 300

// structuralNoise lists the elements stripped before text extraction.
const structuralNoise = "script, style, nav, footer, header, aside, noscript, form, iframe, .cookie-banner, .cookie-consent, .sidebar"

// Page is a fetched URL reduced to its cleaned visible text.
type Page struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}

// ExtractText parses HTML, strips non-content structural elements
// (including platform-specific noise for recognized job boards), and
// returns the visible text with whitespace collapsed to single spaces.
func ExtractText(html, pageURL string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", &Error{URL: pageURL, Message: "failed to parse HTML", Cause: err}
	}

	doc.Find(structuralNoise).Remove()
	if noise := PlatformNoiseSelectors(DetectPlatform(pageURL)); noise != "" {
		doc.Find(noise).Remove()
	}

	body := doc.Find("body")
	if body.Length() == 0 {
		return cleanWhitespace(doc.Text()), nil
	}
	return cleanWhitespace(body.Text()), nil
}

// Clean fetches a URL and reduces it to a Page. Pages whose cleaned text
// does not exceed MinContentLength are rejected. When opts.UseBrowser is
// set and the plain HTTP fetch yields too little text, the page is
// re-rendered in a headless browser before giving up.
func Clean(ctx context.Context, urlStr string, opts *Options) (Page, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	html, err := URL(ctx, urlStr, opts)
	if err != nil {
		return Page{}, err
	}

	text, err := ExtractText(html, urlStr)
	if err != nil {
		return Page{}, err
	}

	if len(text) <= MinContentLength && opts.UseBrowser {
		rendered, berr := WithBrowser(ctx, urlStr, browserTimeout)
		if berr != nil {
			log.Printf("fetch: browser fallback for %s failed: %v", urlStr, berr)
		} else if btext, terr := ExtractText(rendered, urlStr); terr == nil {
			text = btext
		}
	}

	if len(text) <= MinContentLength {
		return Page{}, &Error{URL: urlStr, Message: "insufficient content"}
	}

	return Page{URL: urlStr, Text: text}, nil
}

// FetchAll fetches and cleans every URL with bounded concurrency. Output
// order matches input order; URLs that fail to fetch or clean are dropped
// with a log line and never abort the batch.
func FetchAll(ctx context.Context, urls []string, opts *Options) []Page {
	if len(urls) == 0 {
		return nil
	}
	if opts == nil {
		opts = DefaultOptions()
	}

	limit := opts.Concurrency
	if limit < 1 {
		limit = 1
	}

	slots := make([]*Page, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, u := range urls {
		g.Go(func() error {
			page, err := Clean(gctx, u, opts)
			if err != nil {
				log.Printf("fetch: skipping %s: %v", u, err)
				return nil
			}
			slots[i] = &page
			return nil
		})
	}
	// Workers never return errors; per-URL failures are soft.
	_ = g.Wait()

	pages := make([]Page, 0, len(urls))
	for _, p := range slots {
		if p != nil {
			pages = append(pages, *p)
		}
	}
	return pages
}

// cleanWhitespace collapses all whitespace runs into single spaces.
func cleanWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
