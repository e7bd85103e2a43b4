package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/M94KO/MrEdesPlayground/internal/model"
	"github.com/M94KO/MrEdesPlayground/internal/stats"
	"github.com/M94KO/MrEdesPlayground/internal/tui"
	"github.com/M94KO/MrEdesPlayground/internal/wordlist"
)

var (
	lessonPractice  bool
	lessonSeed      int64
	lessonMaxHearts int

	practiceTopic string
	practiceWords string
)

func addLessonFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&lessonPractice, "practice", false, "replay as a practice session (no completion, no XP)")
	addRunFlags(cmd)
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&lessonSeed, "seed", 0, "random seed for exercise order (0: random)")
	cmd.Flags().IntVar(&lessonMaxHearts, "max-hearts", 0, "heart cap (0: default)")
}

func newLessonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lesson [id]",
		Short: "Play a lesson (next unlocked lesson by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLessonCmd,
	}
	addLessonFlags(cmd)
	return cmd
}

func runLessonCmd(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(_ context.Context, a *app) error {
		p := a.tracker.Progress()
		var lesson model.Lesson
		if len(args) > 0 {
			var err error
			lesson, err = a.course.Start(args[0], p.CompletedLessons)
			if err != nil {
				return err
			}
		} else {
			next, ok := a.course.NextLesson(p.CompletedLessons)
			if !ok {
				return fmt.Errorf("%w; try: ede practice", errCourseComplete)
			}
			lesson = next
		}
		return runLesson(cmd.OutOrStdout(), a, lesson, lessonPractice)
	})
}

func newPracticeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "practice",
		Short: "Practice vocabulary, favouring words not seen yet",
		Args:  cobra.NoArgs,
		RunE:  runPracticeCmd,
	}
	cmd.Flags().StringVar(&practiceTopic, "topic", "", "unit id to focus on (see: ede lessons)")
	cmd.Flags().StringVar(&practiceWords, "words", "", "practice a tab-separated word list (target, english, pronunciation)")
	addRunFlags(cmd)
	return cmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	return withApp(cmd, func(_ context.Context, a *app) error {
		words := a.course.Vocabulary()
		title := "Practice"
		switch {
		case practiceWords != "":
			list, err := wordlist.LoadWords(practiceWords)
			if err != nil {
				return fmt.Errorf("failed to load word list: %w", err)
			}
			words = list
			title = "Practice: " + filepath.Base(practiceWords)
		case practiceTopic != "":
			found := false
			for _, cat := range a.course.Categories() {
				if cat.ID == practiceTopic {
					words = cat.Vocabulary
					title = "Practice: " + cat.Name
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("unknown topic %q", practiceTopic)
			}
		}
		exercises := a.gen.Practice(words, a.tracker.Progress().WordsLearned, "practice")
		if len(exercises) == 0 {
			return fmt.Errorf("no vocabulary to practice")
		}
		lesson := model.Lesson{ID: "practice", Title: title, Exercises: exercises}
		return runLesson(cmd.OutOrStdout(), a, lesson, true)
	})
}

func runLesson(w io.Writer, a *app, lesson model.Lesson, practice bool) error {
	before := unlockedIDs(a.community.Unlocked())
	m := tui.NewModel(lesson, a.tracker, a.gen, tui.Options{
		Practice: practice,
		Logger:   a.log.Named("lesson"),
	})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run lesson TUI: %w", err)
	}

	res := m.Result()
	var lines []string
	switch {
	case res.Failed:
		lines = append(lines, fmt.Sprintf("Out of hearts in %s. Refill with: ede refill", lesson.Title))
	case res.Quit:
		lines = append(lines, fmt.Sprintf("Left %s after %d answers.", lesson.Title, res.Answered))
	case practice:
		lines = append(lines, fmt.Sprintf("Practice done: %d/%d correct.", res.Correct, res.Answered))
	case res.FirstCompletion:
		lines = append(lines, fmt.Sprintf("Completed %s: %d/%d correct, +%d XP.", lesson.Title, res.Correct, res.Answered, lesson.XPReward))
	default:
		lines = append(lines, fmt.Sprintf("Replayed %s: %d/%d correct.", lesson.Title, res.Correct, res.Answered))
	}
	for _, ach := range a.community.Unlocked() {
		if !before[ach.ID] {
			lines = append(lines, fmt.Sprintf("Achievement unlocked: %s %s", ach.Icon, ach.Title))
		}
	}
	p := a.tracker.Progress()
	lines = append(lines, fmt.Sprintf("XP %d  Streak %d  Hearts %s", p.XP, p.Streak, stats.Hearts(p.Hearts, a.tracker.MaxHearts())))
	_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
	return err
}

func unlockedIDs(achs []model.Achievement) map[string]bool {
	out := make(map[string]bool, len(achs))
	for _, a := range achs {
		out[a.ID] = true
	}
	return out
}

func newLessonsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lessons",
		Short: "List units and lessons with their status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(_ context.Context, a *app) error {
				return stats.RenderLessons(cmd.OutOrStdout(), a.course, a.tracker.Progress().CompletedLessons)
			})
		},
	}
}
