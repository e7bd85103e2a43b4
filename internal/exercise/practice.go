package exercise

import "github.com/M94KO/MrEdesPlayground/internal/model"

// PracticeWords draws count distinct words, biased toward words the learner
// has not answered yet. factor is the extra weight given to an unseen word.
func (g *Generator) PracticeWords(words []model.Word, count int, learned []string, factor float64) []model.Word {
	seen := make(map[string]struct{}, len(learned))
	for _, id := range learned {
		seen[id] = struct{}{}
	}

	pool := make([]model.Word, len(words))
	copy(pool, words)
	weights := make([]float64, len(pool))
	total := 0.0
	for i, w := range pool {
		weight := 1.0
		if _, ok := seen[w.ID]; !ok {
			weight += factor
		}
		weights[i] = weight
		total += weight
	}

	count = min(count, len(pool))
	result := make([]model.Word, 0, count)
	for len(result) < count {
		r := g.rnd.Float64() * total
		acc := 0.0
		idx := len(pool) - 1
		for j, w := range weights {
			acc += w
			if r <= acc {
				idx = j
				break
			}
		}
		result = append(result, pool[idx])

		total -= weights[idx]
		last := len(pool) - 1
		pool[idx], weights[idx] = pool[last], weights[last]
		pool, weights = pool[:last], weights[:last]
	}
	return result
}

// Practice builds an exercise set from a weighted draw over vocab.
func (g *Generator) Practice(vocab []model.Word, learned []string, category string) []model.Exercise {
	return g.CreateExercises(g.PracticeWords(vocab, practicePool, learned, unseenBoost), category)
}

const (
	practicePool = 12
	unseenBoost  = 2.0
)
