package search

import (
	"fmt"
	"math"
)

// DimensionMismatchError reports an attempt to compare vectors of different
// lengths. It usually means the store was built with a different embedding
// model than the one answering queries.
type DimensionMismatchError struct {
	Want int
	Got  int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("embedding dimension mismatch: %d vs %d", e.Want, e.Got)
}

// Cosine computes the cosine similarity of two equal-length vectors: their
// dot product divided by the product of their Euclidean norms. If either
// vector has zero norm the result is 0 rather than a division by zero.
func Cosine(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, &DimensionMismatchError{Want: len(a), Got: len(b)}
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
