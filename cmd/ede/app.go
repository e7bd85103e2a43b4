package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/M94KO/MrEdesPlayground/internal/account"
	"github.com/M94KO/MrEdesPlayground/internal/community"
	"github.com/M94KO/MrEdesPlayground/internal/config"
	"github.com/M94KO/MrEdesPlayground/internal/curriculum"
	"github.com/M94KO/MrEdesPlayground/internal/exercise"
	"github.com/M94KO/MrEdesPlayground/internal/logging"
	"github.com/M94KO/MrEdesPlayground/internal/progress"
	"github.com/M94KO/MrEdesPlayground/internal/stats"
	"github.com/M94KO/MrEdesPlayground/internal/store"
)

// app holds the services every command works against.
type app struct {
	cfg       config.FileConfig
	log       *zap.Logger
	db        *store.SQLite
	tracker   *progress.Tracker
	community *community.Service
	accounts  *account.Service
	course    *curriculum.Course
	gen       *exercise.Generator
}

// openApp loads config, opens the database and restores saved state.
// Seed 0 seeds from the clock; max hearts 0 keeps the default cap.
func openApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "log-level", &rootLogLevel, fileCfg.Log.Level)
	applyStringConfig(cmd, "db", &rootDBPath, fileCfg.Store.Path)
	applyStringConfig(cmd, "course", &rootCourse, fileCfg.Lesson.Course)
	applyInt64Config(cmd, "seed", &lessonSeed, fileCfg.Lesson.Seed)
	applyIntConfig(cmd, "max-hearts", &lessonMaxHearts, fileCfg.Lesson.MaxHearts)
	seed, maxHearts := lessonSeed, lessonMaxHearts

	log := logging.New(rootLogLevel, os.Stderr)
	a := &app{cfg: fileCfg, log: log}

	dbPath := rootDBPath
	if dbPath == "" {
		dbPath = config.DefaultDBPath()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	a.db, err = store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	var rnd *rand.Rand
	if seed != 0 {
		rnd = rand.New(rand.NewSource(seed))
	}
	a.gen = exercise.New(rnd)
	a.course, err = loadCourse(a.gen)
	if err != nil {
		a.close()
		return nil, err
	}

	opts := []progress.Option{progress.WithLogger(log.Named("progress"))}
	if maxHearts > 0 {
		opts = append(opts, progress.WithMaxHearts(maxHearts))
	}
	a.tracker = progress.New(a.db, opts...)
	if res := a.tracker.Load(ctx); res.Recovered != nil {
		logErrf("Saved progress could not be read and was reset: %v\n", res.Recovered)
	}

	commOpts := []community.Option{community.WithLogger(log.Named("community"))}
	if rnd != nil {
		commOpts = append(commOpts, community.WithRand(rand.New(rand.NewSource(seed))))
	}
	a.community = community.NewService(a.db, commOpts...)
	a.community.Load(ctx)
	a.applyLearnerDefaults(ctx)
	a.community.Follow(ctx, a.tracker)
	a.community.Refresh(ctx, a.tracker.Progress())

	a.accounts = account.NewService(a.db, log.Named("account"))
	a.accounts.Load(ctx)
	return a, nil
}

func loadCourse(gen *exercise.Generator) (*curriculum.Course, error) {
	path := rootCourse
	if path == "" {
		if _, err := os.Stat(config.DefaultCoursePath()); err == nil {
			path = config.DefaultCoursePath()
		}
	}
	if path == "" {
		course, err := curriculum.Load(gen)
		if err != nil {
			return nil, fmt.Errorf("failed to load built-in course: %w", err)
		}
		return course, nil
	}
	course, err := curriculum.LoadFile(path, gen)
	if err != nil {
		return nil, fmt.Errorf("failed to load course: %w", err)
	}
	return course, nil
}

// applyLearnerDefaults seeds the profile from [learner] until the learner sets one.
func (a *app) applyLearnerDefaults(ctx context.Context) {
	profile := a.community.Profile()
	if profile.ID != "" {
		return
	}
	name, avatar := profile.Name, profile.Avatar
	if a.cfg.Learner.Name != nil {
		name = *a.cfg.Learner.Name
	}
	if a.cfg.Learner.Avatar != nil {
		avatar = *a.cfg.Learner.Avatar
	}
	if name == profile.Name && avatar == profile.Avatar {
		return
	}
	if _, err := a.community.UpdateProfile(ctx, name, avatar); err != nil {
		a.log.Warn("ignoring learner defaults from config", zap.Error(err))
	}
}

func (a *app) report() stats.Report {
	return stats.BuildReport(a.tracker.Progress(), a.tracker.MaxHearts(), a.course, a.community)
}

func (a *app) close() {
	if a.tracker != nil {
		if err := a.tracker.Close(); err != nil {
			logErrf("failed to save progress: %v\n", err)
		}
	}
	if a.db != nil {
		if cerr := a.db.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}
	if err := a.log.Sync(); err != nil {
		// Syncing stderr fails on some terminals.
		_ = err
	}
}

func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx := context.Background()
	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close()
	return fn(ctx, a)
}

var errCourseComplete = errors.New("all lessons completed")
