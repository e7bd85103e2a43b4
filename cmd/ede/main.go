// Package main provides the CLI entrypoint for ede.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/M94KO/MrEdesPlayground/internal/logging"
)

var (
	rootLogLevel string
	rootDBPath   string
	rootCourse   string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ede",
		Short:         "Learn Yoruba in the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runLessonCmd,
	}

	rootCmd.PersistentFlags().StringVar(&rootLogLevel, "log-level", logging.DefaultLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&rootDBPath, "db", "", "database path (default: XDG data dir)")
	rootCmd.PersistentFlags().StringVar(&rootCourse, "course", "", "course YAML file (default: built-in course)")
	addLessonFlags(rootCmd)

	rootCmd.AddCommand(newLessonCmd())
	rootCmd.AddCommand(newLessonsCmd())
	rootCmd.AddCommand(newPracticeCmd())
	rootCmd.AddCommand(newProgressCmd())
	rootCmd.AddCommand(newResetCmd())
	rootCmd.AddCommand(newRefillCmd())
	rootCmd.AddCommand(newBoardCmd())
	rootCmd.AddCommand(newLeaderboardCmd())
	rootCmd.AddCommand(newAchievementsCmd())
	rootCmd.AddCommand(newProfileCmd())
	rootCmd.AddCommand(newSignInCmd())
	rootCmd.AddCommand(newSignOutCmd())
	rootCmd.AddCommand(newPrefsCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
