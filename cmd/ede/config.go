package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/M94KO/MrEdesPlayground/internal/config"
	"github.com/M94KO/MrEdesPlayground/internal/logging"
	"github.com/M94KO/MrEdesPlayground/internal/model"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# ede configuration
# Uncomment a value to enable it. CLI flags override config values.

[learner]
# name = "Adaeze"          # Leaderboard name until you run: ede profile --name
# avatar = "🦁"            # Leaderboard avatar
# language = "yoruba"      # Default for: ede prefs (yoruba, itsekiri)

[lesson]
# max-hearts = %d           # Heart cap
# seed = 0                 # Exercise shuffle seed (0: random)
# course = "%s"

[log]
# level = %q             # debug, info, warn, error

[store]
# path = "%s"
`,
		model.MaxHearts,
		config.DefaultCoursePath(),
		logging.DefaultLevel,
		config.DefaultDBPath(),
	)
}
