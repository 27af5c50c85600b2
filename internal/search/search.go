// Package search ranks vector store records against a query embedding by
// cosine similarity. It is a flat linear scan: every record is scored on
// every query, with no index and no pruning.
package search

import (
	"sort"

	"ragchat/internal/store"
)

// DefaultTopK is the number of results returned when the caller does not
// choose a limit.
const DefaultTopK = 5

// ScoredChunk is a store record annotated with its similarity to a query.
// Constructed per query, never persisted.
type ScoredChunk struct {
	store.EmbeddedChunk
	Similarity float64
}

// TopK scores every chunk against the query embedding and returns the
// min(k, len(chunks)) highest-scoring records in descending similarity
// order. Ties keep their original store order (the sort is stable).
//
// A chunk whose embedding length differs from the query's aborts the whole
// search with a DimensionMismatchError; malformed records are never skipped
// silently, since every record in one store is expected to come from one
// model with one dimensionality.
func TopK(query []float64, chunks []store.EmbeddedChunk, k int) ([]ScoredChunk, error) {
	if len(chunks) == 0 {
		return []ScoredChunk{}, nil
	}

	scored := make([]ScoredChunk, 0, len(chunks))
	for _, c := range chunks {
		sim, err := Cosine(query, c.Embedding)
		if err != nil {
			return nil, err
		}
		scored = append(scored, ScoredChunk{EmbeddedChunk: c, Similarity: sim})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})

	if k > len(scored) {
		k = len(scored)
	}
	if k < 0 {
		k = 0
	}
	return scored[:k], nil
}
