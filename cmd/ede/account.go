package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/M94KO/MrEdesPlayground/internal/account"
	"github.com/M94KO/MrEdesPlayground/internal/stats"
	"github.com/M94KO/MrEdesPlayground/internal/store"
)

var (
	profileName   string
	profileAvatar string

	signInEmail string
	signInName  string

	prefsLanguage string
	prefsLevel    string

	resetYes bool
	resetAll bool
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or change your leaderboard name and avatar",
		Args:  cobra.NoArgs,
		RunE:  runProfileCmd,
	}
	cmd.Flags().StringVar(&profileName, "name", "", "display name (1-40 characters)")
	cmd.Flags().StringVar(&profileAvatar, "avatar", "", "avatar emoji")
	return cmd
}

func runProfileCmd(cmd *cobra.Command, _ []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		profile := a.community.Profile()
		if cmd.Flags().Changed("name") || cmd.Flags().Changed("avatar") {
			name, avatar := profile.Name, profile.Avatar
			if cmd.Flags().Changed("name") {
				name = profileName
			}
			if cmd.Flags().Changed("avatar") {
				avatar = profileAvatar
			}
			var err error
			profile, err = a.community.UpdateProfile(ctx, name, avatar)
			if err != nil {
				return err
			}
			a.community.Refresh(ctx, a.tracker.Progress())
		}
		lines := []string{
			fmt.Sprintf("%s %s", profile.Avatar, profile.Name),
			fmt.Sprintf("Joined: %s", profile.JoinedDate.Local().Format("2006-01-02")),
			fmt.Sprintf("Rank: #%d (weekly #%d)", a.community.CurrentUserRank(), a.community.WeeklyRank()),
		}
		if acct, ok := a.accounts.Current(); ok {
			lines = append(lines,
				fmt.Sprintf("Signed in as: %s", acct.Email),
				fmt.Sprintf("Language: %s  Level: %s", acct.Language, acct.ExperienceLevel))
		} else {
			lines = append(lines, "Not signed in.")
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), strings.Join(lines, "\n"))
		return err
	})
}

func newSignInCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Sign in with an email address",
		Args:  cobra.NoArgs,
		RunE:  runSignInCmd,
	}
	cmd.Flags().StringVar(&signInEmail, "email", "", "email address")
	cmd.Flags().StringVar(&signInName, "name", "", "full name")
	return cmd
}

func runSignInCmd(cmd *cobra.Command, _ []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		acct, err := a.accounts.SignInWithEmail(ctx, signInEmail, signInName)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s. Set preferences with: ede prefs --language yoruba --level newbie\n", acct.Email)
		return err
	})
}

func newSignOutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Sign out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if _, ok := a.accounts.Current(); !ok {
					return account.ErrNotSignedIn
				}
				if err := a.accounts.SignOut(ctx); err != nil {
					return err
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
				return err
			})
		},
	}
}

func newPrefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Set course language and experience level",
		Args:  cobra.NoArgs,
		RunE:  runPrefsCmd,
	}
	cmd.Flags().StringVar(&prefsLanguage, "language", account.LanguageYoruba, "course language (yoruba, itsekiri)")
	cmd.Flags().StringVar(&prefsLevel, "level", account.LevelNewbie, "experience level (newbie, familiar)")
	return cmd
}

func runPrefsCmd(cmd *cobra.Command, _ []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		applyStringConfig(cmd, "language", &prefsLanguage, a.cfg.Learner.Language)
		acct, err := a.accounts.UpdatePreferences(ctx, prefsLanguage, prefsLevel)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Language: %s  Level: %s\n", acct.Language, acct.ExperienceLevel)
		return err
	})
}

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Erase all progress",
		Args:  cobra.NoArgs,
		RunE:  runResetCmd,
	}
	cmd.Flags().BoolVar(&resetYes, "yes", false, "skip confirmation")
	cmd.Flags().BoolVar(&resetAll, "all", false, "also erase profile, account and community data")
	return cmd
}

func runResetCmd(cmd *cobra.Command, _ []string) error {
	if !resetYes {
		prompt := "Erase all XP, streak and completed lessons? [y/N] "
		if resetAll {
			prompt = "Erase all stored data, including your profile and account? [y/N] "
		}
		if _, err := fmt.Fprint(cmd.OutOrStdout(), prompt); err != nil {
			return err
		}
		answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && answer == "" {
			return fmt.Errorf("reset cancelled")
		}
		if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
			return fmt.Errorf("reset cancelled")
		}
	}
	return withApp(cmd, func(ctx context.Context, a *app) error {
		if err := a.tracker.Reset(ctx); err != nil {
			return fmt.Errorf("failed to reset progress: %w", err)
		}
		if !resetAll {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Progress reset.")
			return err
		}
		n, err := clearStore(ctx, a.db)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Progress reset. Cleared %d stored %s.\n", n, plural(n, "record", "records"))
		return err
	})
}

// clearStore removes every stored record and reports how many there were.
func clearStore(ctx context.Context, kv store.KV) (int, error) {
	keys, err := kv.Keys(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list stored data: %w", err)
	}
	if err := kv.Clear(ctx); err != nil {
		return 0, fmt.Errorf("failed to clear stored data: %w", err)
	}
	return len(keys), nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func newRefillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refill",
		Short: "Refill hearts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				a.tracker.RefillHearts()
				if err := a.tracker.Flush(ctx); err != nil {
					return fmt.Errorf("failed to save progress: %w", err)
				}
				p := a.tracker.Progress()
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Hearts: %s\n", stats.Hearts(p.Hearts, a.tracker.MaxHearts()))
				return err
			})
		},
	}
	addRunFlags(cmd)
	return cmd
}
