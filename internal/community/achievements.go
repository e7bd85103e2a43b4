package community

import (
	"time"

	"github.com/M94KO/MrEdesPlayground/internal/model"
)

// DefaultAchievements returns the milestone catalogue with no progress.
func DefaultAchievements() []model.Achievement {
	return []model.Achievement{
		{ID: "first-lesson", Title: "First Steps", Description: "Complete your first lesson", Icon: "🎯", Target: 1},
		{ID: "streak-3", Title: "Getting Started", Description: "Maintain a 3-day streak", Icon: "🔥", Target: 3},
		{ID: "streak-7", Title: "Week Warrior", Description: "Maintain a 7-day streak", Icon: "⚡", Target: 7},
		{ID: "xp-100", Title: "Century Club", Description: "Earn 100 XP", Icon: "💯", Target: 100},
		{ID: "xp-500", Title: "XP Master", Description: "Earn 500 XP", Icon: "🏆", Target: 500},
		{ID: "lessons-10", Title: "Dedicated Learner", Description: "Complete 10 lessons", Icon: "📚", Target: 10},
		{ID: "practice-5", Title: "Practice Makes Perfect", Description: "Complete 5 practice sessions", Icon: "🎯", Target: 5},
	}
}

func metric(id string, p model.UserProgress) int {
	switch id {
	case "first-lesson", "lessons-10":
		return len(p.CompletedLessons)
	case "streak-3", "streak-7":
		return p.Streak
	case "xp-100", "xp-500":
		return p.XP
	case "practice-5":
		return p.PracticeSessions
	default:
		return 0
	}
}

// UpdateAchievements recomputes progress for each achievement. An achievement
// is stamped with now the first time its target is reached and keeps that
// stamp afterwards. Catalogue entries missing from achs are added.
func UpdateAchievements(achs []model.Achievement, p model.UserProgress, now time.Time) []model.Achievement {
	out := mergeCatalogue(achs)
	for i := range out {
		a := &out[i]
		a.Progress = min(metric(a.ID, p), a.Target)
		if a.Target > 0 && a.Progress >= a.Target && a.UnlockedAt == nil {
			stamp := now
			a.UnlockedAt = &stamp
		}
	}
	return out
}

func mergeCatalogue(achs []model.Achievement) []model.Achievement {
	out := make([]model.Achievement, len(achs))
	copy(out, achs)
	have := make(map[string]struct{}, len(out))
	for _, a := range out {
		have[a.ID] = struct{}{}
	}
	for _, a := range DefaultAchievements() {
		if _, ok := have[a.ID]; !ok {
			out = append(out, a)
		}
	}
	return out
}
