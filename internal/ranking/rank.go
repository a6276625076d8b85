// Package ranking orders fetched pages by semantic relevance to the user's
// query using embedding cosine similarity.
package ranking

import (
	"context"
	"fmt"
	"sort"

	"github.com/dovvnloading/Leadz/internal/fetch"
	"github.com/dovvnloading/Leadz/internal/llm"
)

// RankedPage is a cleaned page annotated with its similarity to the query.
type RankedPage struct {
	Page  fetch.Page
	Score float64
}

// Rank embeds the query and every page text with the same model, keeps the
// pages whose cosine similarity meets threshold, and returns the top topN
// ordered by descending score. Ties preserve the original fetch order.
//
// An empty result with a nil error means pages were found but none were
// relevant enough; an error means the embedding call itself failed.
func Rank(ctx context.Context, embedder llm.Embedder, query string, pages []fetch.Page, threshold float64, topN int) ([]RankedPage, error) {
	if len(pages) == 0 {
		return nil, nil
	}

	// One batch: query vector first, then one vector per page.
	texts := make([]string, 0, len(pages)+1)
	texts = append(texts, query)
	for _, page := range pages {
		texts = append(texts, page.Text)
	}

	vectors, err := embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding failed: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(vectors), len(texts))
	}

	queryVec := vectors[0]
	ranked := make([]RankedPage, 0, len(pages))
	for i, page := range pages {
		score := Cosine(queryVec, vectors[i+1])
		if score >= threshold {
			ranked = append(ranked, RankedPage{Page: page, Score: score})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked, nil
}
