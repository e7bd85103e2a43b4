package stats

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/M94KO/MrEdesPlayground/internal/model"
)

const (
	heartFull  = "♥"
	heartEmpty = "♡"
	timeLayout = "2006-01-02"
)

// RenderProgress prints the learner summary.
func RenderProgress(w io.Writer, r Report) error {
	p := r.Progress
	lines := []string{
		"Progress",
		fmt.Sprintf("XP: %d", p.XP),
		fmt.Sprintf("Streak: %d %s", p.Streak, plural(p.Streak, "day", "days")),
		fmt.Sprintf("Hearts: %s (%d/%d)", Hearts(p.Hearts, r.MaxHearts), p.Hearts, r.MaxHearts),
		fmt.Sprintf("Lessons: %d/%d", r.Completed, r.TotalLessons),
		fmt.Sprintf("Today: %d", len(p.LessonsCompletedToday)),
		fmt.Sprintf("Words learned: %d", len(p.WordsLearned)),
		fmt.Sprintf("Accuracy: %.2f%% (%d/%d)", r.Accuracy, p.CorrectAnswers, p.TotalAnswers),
		fmt.Sprintf("Practice sessions: %d", p.PracticeSessions),
		fmt.Sprintf("Rank: #%d (weekly #%d)", r.Rank, r.WeeklyRank),
	}
	if r.Next != nil {
		lines = append(lines, fmt.Sprintf("Next lesson: %s (%s)", r.Next.Title, r.Next.ID))
	} else {
		lines = append(lines, "Next lesson: none, course complete")
	}
	return writeLines(w, lines)
}

// Hearts draws filled and empty hearts.
func Hearts(n, max int) string {
	if n < 0 {
		n = 0
	}
	if n > max {
		n = max
	}
	return strings.Repeat(heartFull, n) + strings.Repeat(heartEmpty, max-n)
}

// RenderLeaderboard prints a ranked table. The current user is marked with ">".
func RenderLeaderboard(w io.Writer, title string, entries []model.LeaderboardEntry) error {
	if len(entries) == 0 {
		return writeLines(w, []string{title, "No rankings yet. Complete a lesson first."})
	}
	t := newTable(text(""), number("Rank"), text("Learner"), number("XP"), number("Weekly"), number("Streak"), number("Lessons"))
	for _, e := range entries {
		marker := ""
		if e.IsCurrentUser {
			marker = ">"
		}
		t.add(
			marker,
			"#"+strconv.Itoa(e.Rank),
			strings.TrimSpace(e.Avatar+" "+e.Name),
			strconv.Itoa(e.XP),
			strconv.Itoa(e.WeeklyXP),
			strconv.Itoa(e.Streak),
			strconv.Itoa(e.TotalLessons),
		)
	}
	return writeLines(w, append([]string{title}, t.lines()...))
}

// RenderAchievements prints every achievement with its progress.
func RenderAchievements(w io.Writer, achs []model.Achievement) error {
	t := newTable(text(""), text("Achievement"), number("Progress"), text(""), text("Unlocked"))
	for _, a := range achs {
		unlocked := "-"
		if a.Unlocked() {
			unlocked = a.UnlockedAt.Format(timeLayout)
		}
		t.add(
			a.Icon,
			a.Title,
			fmt.Sprintf("%d/%d", a.Progress, a.Target),
			Bar(a.Progress, a.Target, minBarWidth),
			unlocked,
		)
	}
	return writeLines(w, append([]string{"Achievements"}, t.lines()...))
}

// RenderLessons prints the course outline with the learner's status per lesson.
func RenderLessons(w io.Writer, course Course, completed []string) error {
	var lines []string
	for i, cat := range course.Categories() {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, strings.TrimSpace(cat.Icon+" "+cat.Name))
		t := newTable(text("Status"), text("ID"), text("Title"), number("XP"), number("Items"))
		for _, lesson := range cat.Lessons {
			t.add(
				lessonStatus(course, lesson.ID, completed),
				lesson.ID,
				lesson.Title,
				strconv.Itoa(lesson.XPReward),
				strconv.Itoa(len(lesson.Exercises)),
			)
		}
		lines = append(lines, t.lines()...)
	}
	return writeLines(w, lines)
}

func lessonStatus(course Course, id string, completed []string) string {
	for _, c := range completed {
		if c == id {
			return "done"
		}
	}
	if course.IsUnlocked(id, completed) {
		return "open"
	}
	return "locked"
}

// Bar draws a fixed-width progress bar for value out of target.
func Bar(value, target, width int) string {
	if width <= 0 {
		return ""
	}
	filled := 0
	if target > 0 {
		filled = value * width / target
	}
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
