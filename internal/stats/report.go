package stats

import (
	"github.com/M94KO/MrEdesPlayground/internal/model"
)

// Course is the part of the curriculum a report reads.
type Course interface {
	Categories() []model.Category
	IsUnlocked(id string, completed []string) bool
	NextLesson(completed []string) (model.Lesson, bool)
}

// Ranks reports the learner's leaderboard positions.
type Ranks interface {
	CurrentUserRank() int
	WeeklyRank() int
}

// UnitProgress counts completed lessons in one unit.
type UnitProgress struct {
	ID    string
	Name  string
	Done  int
	Total int
}

// Report contains precomputed data for progress rendering.
type Report struct {
	Progress     model.UserProgress
	MaxHearts    int
	Accuracy     float64
	Rank         int
	WeeklyRank   int
	Completed    int
	TotalLessons int
	Next         *model.Lesson
	Units        []UnitProgress
}

// BuildReport joins learner progress with the course and leaderboard ranks.
func BuildReport(p model.UserProgress, maxHearts int, course Course, ranks Ranks) Report {
	r := Report{
		Progress:   p,
		MaxHearts:  maxHearts,
		Rank:       ranks.CurrentUserRank(),
		WeeklyRank: ranks.WeeklyRank(),
	}
	if p.TotalAnswers > 0 {
		r.Accuracy = float64(p.CorrectAnswers) / float64(p.TotalAnswers) * 100
	}
	for _, cat := range course.Categories() {
		unit := UnitProgress{ID: cat.ID, Name: cat.Name, Total: len(cat.Lessons)}
		for _, lesson := range cat.Lessons {
			if p.HasCompleted(lesson.ID) {
				unit.Done++
			}
		}
		r.Completed += unit.Done
		r.TotalLessons += unit.Total
		r.Units = append(r.Units, unit)
	}
	if next, ok := course.NextLesson(p.CompletedLessons); ok {
		r.Next = &next
	}
	return r
}
