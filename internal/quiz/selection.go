package quiz

import (
	"math/rand/v2"

	"gyandeep/internal/domain"
)

// ShuffleFunc permutes n elements through swap, with the signature of rand.Shuffle.
type ShuffleFunc func(n int, swap func(i, j int))

// SelectQuestions filters the catalog by category (or domain.AllCategories) and
// optional topic, shuffles the matches and keeps at most limit of them.
func SelectQuestions(catalog []*domain.Question, category, topic string, limit int, shuffle ShuffleFunc) []*domain.Question {
	if shuffle == nil {
		shuffle = rand.Shuffle
	}
	filter := domain.QuestionFilter{Category: category, Type: topic}
	if category == "" {
		filter.Category = domain.AllCategories
	}

	selected := make([]*domain.Question, 0, len(catalog))
	seen := make(map[string]struct{}, len(catalog))
	for _, q := range catalog {
		if q == nil || !filter.Matches(q) {
			continue
		}
		if _, dup := seen[q.ID]; dup {
			continue
		}
		seen[q.ID] = struct{}{}
		selected = append(selected, q)
	}

	shuffle(len(selected), func(i, j int) {
		selected[i], selected[j] = selected[j], selected[i]
	})

	if limit >= 0 && len(selected) > limit {
		selected = selected[:limit]
	}
	return selected
}
