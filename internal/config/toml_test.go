package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Nil(t, cfg.Learner.Name)
	assert.Nil(t, cfg.Lesson.MaxHearts)
}

func TestLoadConfigDecodesSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[learner]
name = "Amara"
avatar = "A"
language = "itsekiri"

[lesson]
max-hearts = 3
seed = 42

[log]
level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Learner.Name)
	assert.Equal(t, "Amara", *cfg.Learner.Name)
	assert.Equal(t, "itsekiri", *cfg.Learner.Language)
	assert.Equal(t, 3, *cfg.Lesson.MaxHearts)
	assert.Equal(t, int64(42), *cfg.Lesson.Seed)
	assert.Equal(t, "debug", *cfg.Log.Level)
	assert.Nil(t, cfg.Store.Path)
}

func TestLoadConfigRejectsOutOfRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[lesson]\nmax-hearts = 0\n"), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MaxHearts")
}

func TestLoadConfigRejectsUnknownLanguage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[learner]\nlanguage = \"klingon\"\n"), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestDefaultPathsFollowXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_DATA_HOME", "/tmp/data")
	assert.Equal(t, filepath.Join("/tmp/cfg", "ede", "config.toml"), DefaultConfigPath())
	assert.Equal(t, filepath.Join("/tmp/data", "ede", "ede.db"), DefaultDBPath())
	assert.Equal(t, filepath.Join("/tmp/cfg", "ede", "course.yaml"), DefaultCoursePath())
}
