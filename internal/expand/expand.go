// Package expand turns a free-text user query into several targeted search
// engine queries via LLM query expansion.
package expand

import (
	"context"
	"log"

	"github.com/dovvnloading/Leadz/internal/llm"
	"github.com/dovvnloading/Leadz/internal/prompts"
)

// Expander generates diversified search queries from a user's job query.
type Expander struct {
	client llm.Client
}

// New creates an Expander backed by the given LLM client.
func New(client llm.Client) *Expander {
	return &Expander{client: client}
}

// expansionResponse is the expected JSON shape of the model's reply.
type expansionResponse struct {
	Queries []string `json:"queries"`
}

// Expand returns 3-5 diversified search queries inferred from the user query.
// When targeted is true the prompt requires every query to carry a site:
// restriction clause aimed at known job boards; this is the retry strategy
// after a broad attempt came up short.
//
// Failure is soft: any invocation or parse error is logged and nil is
// returned, which the orchestrator treats as an aborted attempt.
func (e *Expander) Expand(ctx context.Context, userQuery string, targeted bool) []string {
	key := "expand-queries-broad"
	if targeted {
		key = "expand-queries-targeted"
	}

	template, err := prompts.Get("expand.json", key)
	if err != nil {
		log.Printf("expand: failed to load prompt %s: %v", key, err)
		return nil
	}
	prompt := prompts.Format(template, map[string]string{
		"Query": userQuery,
	})

	raw, err := e.client.GenerateJSON(ctx, prompt)
	if err != nil {
		log.Printf("expand: query expansion failed: %v", err)
		return nil
	}

	var resp expansionResponse
	if err := llm.DecodeJSON(raw, &resp); err != nil {
		log.Printf("expand: could not parse expansion response: %v", err)
		return nil
	}

	return resp.Queries
}
