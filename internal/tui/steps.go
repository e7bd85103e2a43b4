package tui

import (
	"fmt"

	"github.com/M94KO/MrEdesPlayground/internal/exercise"
	"github.com/M94KO/MrEdesPlayground/internal/model"
)

// step is one answerable prompt. Matching and story exercises expand to
// several steps.
type step struct {
	exercise  int
	prompt    string
	hint      string
	options   []string
	want      string
	wordID    string
	costHeart bool
	story     *model.Story
	blank     int
	check     func(answer string) bool
}

func buildSteps(exercises []model.Exercise, gen *exercise.Generator) []step {
	var out []step
	for i, ex := range exercises {
		ex := ex
		switch {
		case ex.Type == model.Matching:
			english := make([]string, 0, len(ex.Pairs))
			for _, p := range ex.Pairs {
				english = append(english, p.English)
			}
			english = gen.Shuffle(english)
			for _, p := range ex.Pairs {
				target := p.Target
				out = append(out, step{
					exercise: i,
					prompt:   fmt.Sprintf("%s\n\n%s = ?", ex.Question, target),
					options:  english,
					want:     p.English,
					check: func(answer string) bool {
						return exercise.CheckPair(ex, target, answer)
					},
				})
			}
		case ex.Type == model.StoryType && ex.Story != nil:
			story := ex.Story
			for b, blank := range story.Blanks {
				position := blank.Position
				out = append(out, step{
					exercise: i,
					prompt:   "Fill in the blank",
					options:  blank.Options,
					want:     blank.Answer,
					story:    story,
					blank:    b,
					check: func(answer string) bool {
						return exercise.CheckBlank(*story, position, answer)
					},
				})
			}
			out = append(out, step{
				exercise:  i,
				prompt:    story.ComprehensionQuestion,
				options:   story.ComprehensionOptions,
				want:      story.ComprehensionAnswer,
				story:     story,
				blank:     len(story.Blanks),
				costHeart: true,
				check: func(answer string) bool {
					return exercise.Check(ex, answer)
				},
			})
		default:
			s := step{
				exercise:  i,
				prompt:    ex.Question,
				options:   ex.Options,
				want:      ex.CorrectAnswer,
				costHeart: true,
				check: func(answer string) bool {
					return exercise.Check(ex, answer)
				},
			}
			if ex.Word != nil {
				s.wordID = ex.Word.ID
				if ex.Type == model.MultipleChoice {
					s.hint = ex.Word.Pronunciation
				}
			}
			out = append(out, s)
		}
	}
	return out
}
