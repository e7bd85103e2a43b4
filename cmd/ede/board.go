package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/M94KO/MrEdesPlayground/internal/boardui"
	"github.com/M94KO/MrEdesPlayground/internal/stats"
)

const defaultTop = 10

var (
	leaderboardWeekly bool
	leaderboardTop    int

	progressColor bool
)

func newProgressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Show XP, streak, hearts and lesson progress",
		Args:  cobra.NoArgs,
		RunE:  runProgressCmd,
	}
	cmd.Flags().BoolVar(&progressColor, "color", false, "force colored unit bars")
	return cmd
}

func runProgressCmd(cmd *cobra.Command, _ []string) error {
	return withApp(cmd, func(_ context.Context, a *app) error {
		out := cmd.OutOrStdout()
		r := a.report()
		if err := stats.RenderProgress(out, r); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if _, err := fmt.Fprintln(out); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if err := stats.RenderUnitChart(out, r.Units, stats.ChartOptions{ForceColor: progressColor}); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	})
}

func newBoardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Browse leaderboards and achievements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(_ context.Context, a *app) error {
				program := tea.NewProgram(boardui.NewModel(a.community, a.report()), tea.WithAltScreen())
				if _, err := program.Run(); err != nil {
					return fmt.Errorf("failed to run board TUI: %w", err)
				}
				return nil
			})
		},
	}
}

func newLeaderboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Print the leaderboard",
		Args:  cobra.NoArgs,
		RunE:  runLeaderboardCmd,
	}
	cmd.Flags().BoolVar(&leaderboardWeekly, "weekly", false, "rank by this week's XP")
	cmd.Flags().IntVar(&leaderboardTop, "top", defaultTop, "rows to show (0: all); your row is always shown")
	return cmd
}

func runLeaderboardCmd(cmd *cobra.Command, _ []string) error {
	return withApp(cmd, func(_ context.Context, a *app) error {
		data := a.community.Data()
		title, entries := "Leaderboard", data.Leaderboard
		if leaderboardWeekly {
			title, entries = "Weekly", data.WeeklyRankings
		}
		return stats.RenderLeaderboard(cmd.OutOrStdout(), title, stats.TopEntries(entries, leaderboardTop))
	})
}

func newAchievementsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "achievements",
		Short: "Print achievements and their progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(_ context.Context, a *app) error {
				out := cmd.OutOrStdout()
				if err := stats.RenderAchievements(out, a.community.Data().Achievements); err != nil {
					return err
				}
				recent := a.community.Recent(0)
				if len(recent) == 0 {
					return nil
				}
				if _, err := fmt.Fprintln(out, "\nRecently unlocked:"); err != nil {
					return err
				}
				for _, ach := range recent {
					if _, err := fmt.Fprintf(out, "  %s %s (%s)\n", ach.Icon, ach.Title, ach.UnlockedAt.Local().Format("2006-01-02")); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}
