// Package extraction turns ranked pages into structured job records via LLM
// extraction with a relevance gate.
package extraction

import (
	"context"
	"encoding/json"
	"log"

	"github.com/dovvnloading/Leadz/internal/llm"
	"github.com/dovvnloading/Leadz/internal/prompts"
	"github.com/dovvnloading/Leadz/internal/ranking"
	"github.com/dovvnloading/Leadz/internal/schemas"
	"github.com/dovvnloading/Leadz/internal/types"
)

// DefaultCharBudget caps how much page text is sent to the model per page.
const DefaultCharBudget = 4000

// Extractor prompts an LLM to judge each page's relevance to the user query
// and extract a normalized job record from relevant pages.
type Extractor struct {
	client     llm.Client
	charBudget int
}

// New creates an Extractor backed by the given LLM client.
func New(client llm.Client) *Extractor {
	return &Extractor{client: client, charBudget: DefaultCharBudget}
}

// gatedRecord is the model's reply: the relevance verdict plus, when
// relevant, the record fields.
type gatedRecord struct {
	IsRelevant bool `json:"is_relevant"`
	types.JobRecord
}

// OnRecord is invoked for each extracted record, in page order.
type OnRecord func(types.JobRecord)

// ExtractAll processes ranked pages in order. Each relevant page yields one
// JobRecord, emitted through onRecord as soon as it is extracted. A page the
// model judges irrelevant yields nothing; so does any page whose extraction
// call fails, whose response cannot be parsed, or whose record fails schema
// validation. Returns the number of records emitted.
func (e *Extractor) ExtractAll(ctx context.Context, userQuery string, pages []ranking.RankedPage, onRecord OnRecord) int {
	count := 0
	for _, ranked := range pages {
		if ctx.Err() != nil {
			return count
		}
		record, ok := e.extractOne(ctx, userQuery, ranked.Page.URL, ranked.Page.Text)
		if !ok {
			continue
		}
		count++
		if onRecord != nil {
			onRecord(record)
		}
	}
	return count
}

func (e *Extractor) extractOne(ctx context.Context, userQuery, pageURL, pageText string) (types.JobRecord, bool) {
	if len(pageText) > e.charBudget {
		pageText = pageText[:e.charBudget]
	}

	template, err := prompts.Get("extraction.json", "extract-job-record")
	if err != nil {
		log.Printf("extraction: failed to load prompt: %v", err)
		return types.JobRecord{}, false
	}
	prompt := prompts.Format(template, map[string]string{
		"Query":    userQuery,
		"PageText": pageText,
	})

	raw, err := e.client.GenerateJSON(ctx, prompt)
	if err != nil {
		log.Printf("extraction: LLM call for %s failed: %v", pageURL, err)
		return types.JobRecord{}, false
	}

	candidate, err := llm.ExtractJSON(raw)
	if err != nil {
		log.Printf("extraction: unparseable response for %s: %v", pageURL, err)
		return types.JobRecord{}, false
	}

	var gated gatedRecord
	if err := json.Unmarshal([]byte(candidate), &gated); err != nil {
		log.Printf("extraction: could not decode record for %s: %v", pageURL, err)
		return types.JobRecord{}, false
	}
	if !gated.IsRelevant {
		log.Printf("extraction: skipping irrelevant content on %s", pageURL)
		return types.JobRecord{}, false
	}

	if err := schemas.ValidateJobRecord([]byte(candidate)); err != nil {
		log.Printf("extraction: record from %s failed schema validation: %v", pageURL, err)
		return types.JobRecord{}, false
	}

	record := gated.JobRecord
	record.URL = pageURL
	record.Normalize()
	return record, true
}
