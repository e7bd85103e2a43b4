// Package exercise builds quiz items from vocabulary lists.
package exercise

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/M94KO/MrEdesPlayground/internal/model"
)

// SetSize is the number of exercises generated per lesson.
const SetSize = 10

const (
	choiceCount   = 5
	translateEnd  = 10
	pronounceEnd  = 12
	matchSize     = 4
	distractorMax = 3
)

const storyQuestion = "Complete the story by filling in the blanks, then answer the comprehension question."

// Generator produces randomized exercise sets.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator using rnd, or one seeded with the current time when rnd is nil.
func New(rnd *rand.Rand) *Generator {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{rnd: rnd}
}

// NewSeeded returns a deterministic Generator.
func NewSeeded(seed int64) *Generator {
	return New(rand.New(rand.NewSource(seed)))
}

// Shuffle returns a shuffled copy of items.
func Shuffle[T any](rnd *rand.Rand, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	rnd.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// Shuffle returns a shuffled copy of items using the generator's source.
func (g *Generator) Shuffle(items []string) []string {
	return Shuffle(g.rnd, items)
}

// CreateExercises turns words into at most SetSize exercises. Lists of ten
// or more words always yield exactly SetSize items.
func (g *Generator) CreateExercises(words []model.Word, category string) []model.Exercise {
	shuffled := Shuffle(g.rnd, words)
	exercises := make([]model.Exercise, 0, SetSize+2)

	for i, word := range window(shuffled, 0, choiceCount) {
		exercises = append(exercises, g.meaning(shuffled, word, fmt.Sprintf("%s-mc-%d", category, i)))
	}

	for i, word := range window(shuffled, choiceCount, translateEnd) {
		wrong := distractors(shuffled, word, func(w model.Word) (string, bool) {
			return w.Target, true
		})
		exercises = append(exercises, model.Exercise{
			ID:            fmt.Sprintf("%s-trans-%d", category, i),
			Type:          model.Translation,
			Question:      "Translate: " + word.English,
			CorrectAnswer: word.Target,
			Options:       g.options(word.Target, wrong),
			Word:          wordRef(word),
		})
	}

	if len(shuffled) > translateEnd {
		for i, word := range window(shuffled, translateEnd, pronounceEnd) {
			if word.Pronunciation == "" {
				continue
			}
			wrong := distractors(shuffled, word, func(w model.Word) (string, bool) {
				return w.Pronunciation, w.Pronunciation != ""
			})
			exercises = append(exercises, model.Exercise{
				ID:            fmt.Sprintf("%s-pron-%d", category, i),
				Type:          model.MultipleChoice,
				Question:      fmt.Sprintf(`How do you pronounce "%s"?`, word.Target),
				CorrectAnswer: word.Pronunciation,
				Options:       g.options(word.Pronunciation, wrong),
				Word:          wordRef(word),
			})
		}
	}

	if len(shuffled) >= matchSize {
		exercises = append(exercises, matching(shuffled[:matchSize],
			category+"-match-1", "Match the Yoruba words with their English meanings"))
	}
	if len(shuffled) >= 2*matchSize {
		exercises = append(exercises, matching(shuffled[matchSize:2*matchSize],
			category+"-match-2", "Match these Yoruba words with their English meanings"))
	}

	if remaining := SetSize - len(exercises); remaining > 0 && len(shuffled) > len(exercises) {
		start := len(exercises)
		for i, word := range window(shuffled, start, start+remaining) {
			exercises = append(exercises, g.meaning(shuffled, word, fmt.Sprintf("%s-extra-%d", category, i)))
		}
	}

	if len(exercises) > SetSize {
		exercises = exercises[:SetSize]
	}
	return exercises
}

// Story wraps a fill-in-the-blank story as the exercise for a unit.
func Story(unitID string, story model.Story) model.Exercise {
	s := story
	return model.Exercise{
		ID:       unitID + "-story",
		Type:     model.StoryType,
		Question: storyQuestion,
		Story:    &s,
	}
}

func (g *Generator) meaning(shuffled []model.Word, word model.Word, id string) model.Exercise {
	wrong := distractors(shuffled, word, func(w model.Word) (string, bool) {
		return w.English, true
	})
	return model.Exercise{
		ID:            id,
		Type:          model.MultipleChoice,
		Question:      fmt.Sprintf(`What does "%s" mean?`, word.Target),
		CorrectAnswer: word.English,
		Options:       g.options(word.English, wrong),
		Word:          wordRef(word),
	}
}

func (g *Generator) options(correct string, wrong []string) []string {
	opts := make([]string, 0, len(wrong)+1)
	opts = append(opts, correct)
	opts = append(opts, wrong...)
	return Shuffle(g.rnd, opts)
}

// distractors takes the first few other words in shuffled order.
func distractors(shuffled []model.Word, word model.Word, pick func(model.Word) (string, bool)) []string {
	out := make([]string, 0, distractorMax)
	for _, w := range shuffled {
		if len(out) == distractorMax {
			break
		}
		if w.ID == word.ID {
			continue
		}
		if v, ok := pick(w); ok {
			out = append(out, v)
		}
	}
	return out
}

func matching(words []model.Word, id, question string) model.Exercise {
	pairs := make([]model.Pair, 0, len(words))
	for _, w := range words {
		pairs = append(pairs, model.Pair{Target: w.Target, English: w.English})
	}
	return model.Exercise{
		ID:       id,
		Type:     model.Matching,
		Question: question,
		Pairs:    pairs,
	}
}

func window(words []model.Word, from, to int) []model.Word {
	if from >= len(words) {
		return nil
	}
	return words[from:min(to, len(words))]
}

func wordRef(w model.Word) *model.Word {
	return &w
}
