// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Learner LearnerConfig `toml:"learner"`
	Lesson  LessonConfig  `toml:"lesson"`
	Log     LogConfig     `toml:"log"`
	Store   StoreConfig   `toml:"store"`
}

// LearnerConfig maps profile defaults.
type LearnerConfig struct {
	Name     *string `toml:"name" validate:"omitempty,max=40"`
	Avatar   *string `toml:"avatar" validate:"omitempty,max=16"`
	Language *string `toml:"language" validate:"omitempty,oneof=yoruba itsekiri"`
}

// LessonConfig maps lesson runner settings.
type LessonConfig struct {
	MaxHearts *int    `toml:"max-hearts" validate:"omitempty,min=1,max=10"`
	Seed      *int64  `toml:"seed"`
	Course    *string `toml:"course"`
}

// LogConfig maps logger settings.
type LogConfig struct {
	Level *string `toml:"level" validate:"omitempty,oneof=debug info warn error"`
}

// StoreConfig maps persistence settings.
type StoreConfig struct {
	Path *string `toml:"path"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return FileConfig{}, err
	}
	return cfg, nil
}

// Validate checks value ranges of a decoded config.
func Validate(cfg FileConfig) error {
	if err := validate.Struct(cfg); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return fmt.Errorf("invalid config: %w", err)
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s %s", fe.Namespace(), fe.Tag(), fe.Param()))
		}
		return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
	}
	return nil
}
