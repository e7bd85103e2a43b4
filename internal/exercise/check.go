package exercise

import (
	"strings"

	"github.com/M94KO/MrEdesPlayground/internal/model"
)

// Check reports whether answer is correct for a single-answer exercise.
// For stories it checks the comprehension answer.
func Check(ex model.Exercise, answer string) bool {
	want := ex.CorrectAnswer
	if ex.Type == model.StoryType && ex.Story != nil {
		want = ex.Story.ComprehensionAnswer
	}
	return want != "" && normalize(answer) == normalize(want)
}

// CheckPair reports whether target and english belong to the same pair.
func CheckPair(ex model.Exercise, target, english string) bool {
	for _, p := range ex.Pairs {
		if normalize(p.Target) == normalize(target) {
			return normalize(p.English) == normalize(english)
		}
	}
	return false
}

// CheckBlank reports whether answer fills the blank at position.
func CheckBlank(story model.Story, position int, answer string) bool {
	for _, b := range story.Blanks {
		if b.Position == position {
			return normalize(b.Answer) == normalize(answer)
		}
	}
	return false
}

// normalize trims and case-folds an answer. Tone marks are kept.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
