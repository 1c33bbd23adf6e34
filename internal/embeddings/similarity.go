package embeddings

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrEmptyVector is returned for zero-length vectors.
	ErrEmptyVector = errors.New("vectors cannot be empty")
	// ErrZeroVector is returned when a vector has no direction.
	ErrZeroVector = errors.New("vector norm cannot be zero")
)

// CosineSimilarity calculates the cosine similarity between two vectors
// Returns a value between -1 and 1, where 1 means identical direction
func CosineSimilarity(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vectors must have same length: %d vs %d", len(a), len(b))
	}

	if len(a) == 0 {
		return 0, ErrEmptyVector
	}

	dotProduct := 0.0
	normA := 0.0
	normB := 0.0

	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	normA = math.Sqrt(normA)
	normB = math.Sqrt(normB)

	if normA == 0 || normB == 0 {
		return 0, ErrZeroVector
	}

	similarity := dotProduct / (normA * normB)

	// Clamp to [-1, 1] to handle floating point errors
	if similarity > 1.0 {
		similarity = 1.0
	} else if similarity < -1.0 {
		similarity = -1.0
	}

	return similarity, nil
}

// Nearest returns the index and score of the candidate most similar to
// query. Candidates without a direction are skipped. The index is -1 when no
// candidate qualifies. Ties keep the earliest candidate.
func Nearest(query []float64, candidates [][]float64) (int, float64, error) {
	best, bestScore := -1, math.Inf(-1)
	for i, c := range candidates {
		score, err := CosineSimilarity(query, c)
		if errors.Is(err, ErrZeroVector) {
			continue
		}
		if err != nil {
			return -1, 0, fmt.Errorf("candidate %d: %w", i, err)
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return -1, 0, nil
	}
	return best, bestScore, nil
}
