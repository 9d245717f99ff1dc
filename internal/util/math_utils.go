package util

import (
	"fmt"
	"math"
)

// CosineSimilarity calculates the cosine similarity between two float32 vectors.
func CosineSimilarity(vec1 []float32, vec2 []float32) (float64, error) {
	if len(vec1) == 0 || len(vec2) == 0 {
		return 0, fmt.Errorf("input vectors cannot be empty")
	}
	if len(vec1) != len(vec2) {
		return 0, fmt.Errorf("vector dimensions do not match: %d vs %d", len(vec1), len(vec2))
	}

	var dot, mag1, mag2 float64
	for i := range vec1 {
		a, b := float64(vec1[i]), float64(vec2[i])
		dot += a * b
		mag1 += a * a
		mag2 += b * b
	}

	if mag1 == 0 || mag2 == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(mag1) * math.Sqrt(mag2)), nil
}

// MaxSimilarity returns the highest similarity between target and any of the
// candidates, skipping candidates with a mismatched dimension.
func MaxSimilarity(target []float32, candidates [][]float32) float64 {
	best := 0.0
	for _, c := range candidates {
		sim, err := CosineSimilarity(target, c)
		if err != nil {
			continue
		}
		if sim > best {
			best = sim
		}
	}
	return best
}
