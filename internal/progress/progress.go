// Package progress tracks XP, hearts, streaks and answer statistics.
package progress

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/M94KO/MrEdesPlayground/internal/model"
	"github.com/M94KO/MrEdesPlayground/internal/store"
)

// StorageKey is the key the progress blob is stored under.
const StorageKey = "yoruba_user_progress"

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// WithLogger sets the logger used for recovered failures.
func WithLogger(log *zap.Logger) Option {
	return func(t *Tracker) {
		t.log = log
	}
}

// WithMaxHearts overrides the heart cap.
func WithMaxHearts(n int) Option {
	return func(t *Tracker) {
		if n > 0 {
			t.maxHearts = n
		}
	}
}

// LoadResult is the outcome of Load. Recovered is set when stored data
// was discarded and State holds fresh defaults.
type LoadResult struct {
	State     model.UserProgress
	Recovered *RecoverableError
	DaysDiff  int
}

// Tracker owns the learner's progress and persists every change.
type Tracker struct {
	kv        store.KV
	log       *zap.Logger
	now       func() time.Time
	maxHearts int

	mu        sync.Mutex
	state     model.UserProgress
	listeners []func(model.UserProgress)

	persist *persister
}

// New returns a Tracker holding default progress. Call Load to restore saved state.
func New(kv store.KV, opts ...Option) *Tracker {
	t := &Tracker{
		kv:        kv,
		log:       zap.NewNop(),
		now:       time.Now,
		maxHearts: model.MaxHearts,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.state = t.defaults()
	t.persist = newPersister(kv, StorageKey, t.log)
	return t
}

func (t *Tracker) defaults() model.UserProgress {
	return model.UserProgress{
		Hearts:                t.maxHearts,
		CompletedLessons:      []string{},
		LastActiveDate:        t.today(),
		LessonsCompletedToday: []string{},
		WordsLearned:          []string{},
	}
}

func (t *Tracker) today() string {
	return DateKey(t.now())
}

// MaxHearts returns the heart cap.
func (t *Tracker) MaxHearts() int {
	return t.maxHearts
}

// Load restores progress from the store, repairing or discarding it as needed.
func (t *Tracker) Load(ctx context.Context) LoadResult {
	raw, err := t.kv.Get(ctx, StorageKey)
	if errors.Is(err, store.ErrNotFound) {
		return LoadResult{State: t.Progress()}
	}
	if err != nil {
		return t.recover(ctx, &RecoverableError{Reason: "failed to read progress", Err: err})
	}

	saved, rerr := t.decode(raw)
	if rerr != nil {
		return t.recover(ctx, rerr)
	}

	today := t.today()
	diff := DaysBetween(saved.LastActiveDate, today)
	switch {
	case diff > 1:
		saved.Streak = 0
		saved.LessonsCompletedToday = []string{}
	case diff == 1:
		saved.LessonsCompletedToday = []string{}
	}
	saved.LastActiveDate = today

	t.mu.Lock()
	t.state = saved
	t.persist.enqueue(saved.Clone())
	snapshot := t.state.Clone()
	t.mu.Unlock()

	t.log.Debug("progress loaded",
		zap.Int("xp", saved.XP),
		zap.Int("streak", saved.Streak),
		zap.Int("days_diff", diff))
	return LoadResult{State: snapshot, DaysDiff: diff}
}

func (t *Tracker) recover(ctx context.Context, rerr *RecoverableError) LoadResult {
	t.log.Warn("discarding stored progress", zap.String("key", StorageKey), zap.Error(rerr))
	if err := t.kv.Remove(ctx, StorageKey); err != nil {
		t.log.Error("failed to clear corrupted progress", zap.String("key", StorageKey), zap.Error(err))
	}
	t.mu.Lock()
	t.state = t.defaults()
	snapshot := t.state.Clone()
	t.mu.Unlock()
	return LoadResult{State: snapshot, Recovered: rerr}
}

func (t *Tracker) decode(raw string) (model.UserProgress, *RecoverableError) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return model.UserProgress{}, corrupt("stored progress is empty")
	}
	if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
		return model.UserProgress{}, corrupt("stored progress is not JSON")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &fields); err != nil || fields == nil {
		return model.UserProgress{}, &RecoverableError{Reason: "stored progress is not an object", Err: errors.Join(ErrCorrupt, err)}
	}
	for _, name := range []string{"xp", "streak"} {
		var n float64
		value, ok := fields[name]
		if !ok || json.Unmarshal(value, &n) != nil {
			return model.UserProgress{}, corrupt("stored progress has no numeric " + name)
		}
	}

	var saved model.UserProgress
	if err := json.Unmarshal([]byte(trimmed), &saved); err != nil {
		return model.UserProgress{}, &RecoverableError{Reason: "stored progress has invalid fields", Err: errors.Join(ErrCorrupt, err)}
	}

	if saved.CompletedLessons == nil {
		saved.CompletedLessons = []string{}
	}
	if saved.LessonsCompletedToday == nil {
		saved.LessonsCompletedToday = []string{}
	}
	if saved.WordsLearned == nil {
		saved.WordsLearned = []string{}
	}
	if _, ok := fields["hearts"]; !ok {
		saved.Hearts = t.maxHearts
	}
	saved.XP = max(saved.XP, 0)
	saved.Streak = max(saved.Streak, 0)
	saved.PracticeSessions = max(saved.PracticeSessions, 0)
	saved.Hearts = min(max(saved.Hearts, 0), t.maxHearts)
	saved.TotalAnswers = max(saved.TotalAnswers, 0)
	saved.CorrectAnswers = min(max(saved.CorrectAnswers, 0), saved.TotalAnswers)
	return saved, nil
}

// Progress returns a copy of the current state.
func (t *Tracker) Progress() model.UserProgress {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Clone()
}

// Accuracy returns the share of correct answers, or 0 before any answer.
func (t *Tracker) Accuracy() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state.TotalAnswers == 0 {
		return 0
	}
	return float64(t.state.CorrectAnswers) / float64(t.state.TotalAnswers)
}

// Subscribe registers fn to receive a snapshot after every change.
func (t *Tracker) Subscribe(fn func(model.UserProgress)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, fn)
}

// mutate applies fn under the lock, persists the result and notifies listeners.
// fn returns false to leave the state untouched.
func (t *Tracker) mutate(fn func(p *model.UserProgress) bool) (model.UserProgress, bool) {
	t.mu.Lock()
	next := t.state.Clone()
	if !fn(&next) {
		snapshot := t.state.Clone()
		t.mu.Unlock()
		return snapshot, false
	}
	t.state = next
	t.persist.enqueue(next.Clone())
	listeners := append([]func(model.UserProgress){}, t.listeners...)
	snapshot := next.Clone()
	t.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot.Clone())
	}
	return snapshot, true
}

// CompleteLesson records a finished lesson. Completing an already completed
// lesson changes nothing and returns false.
func (t *Tracker) CompleteLesson(lessonID string, xpReward int) bool {
	today := t.today()
	var prevStreak, diff int
	state, changed := t.mutate(func(p *model.UserProgress) bool {
		if p.HasCompleted(lessonID) {
			return false
		}
		prevStreak = p.Streak
		diff = DaysBetween(p.LastActiveDate, today)
		if diff >= 1 {
			p.LessonsCompletedToday = []string{}
		}
		if len(p.LessonsCompletedToday) == 0 {
			p.Streak = nextStreak(p.Streak, diff)
		}
		p.XP += max(xpReward, 0)
		p.CompletedLessons = append(p.CompletedLessons, lessonID)
		p.LessonsCompletedToday = append(p.LessonsCompletedToday, lessonID)
		p.LastActiveDate = today
		return true
	})
	if changed {
		t.log.Info("lesson completed",
			zap.String("lesson", lessonID),
			zap.Int("previous_streak", prevStreak),
			zap.Int("streak", state.Streak),
			zap.Int("days_diff", diff),
			zap.Int("completed_today", len(state.LessonsCompletedToday)))
	}
	return changed
}

// nextStreak is applied to the first completion of a calendar day.
func nextStreak(streak, daysDiff int) int {
	if streak == 0 || daysDiff > 1 {
		return 1
	}
	return streak + 1
}

// LoseHeart removes one heart, never going below zero, and returns what is left.
func (t *Tracker) LoseHeart() int {
	state, _ := t.mutate(func(p *model.UserProgress) bool {
		p.Hearts = max(p.Hearts-1, 0)
		return true
	})
	return state.Hearts
}

// RefillHearts restores hearts to the cap.
func (t *Tracker) RefillHearts() {
	t.mutate(func(p *model.UserProgress) bool {
		p.Hearts = t.maxHearts
		return true
	})
}

// AddXP grants bonus XP. Non-positive amounts are ignored.
func (t *Tracker) AddXP(amount int) {
	t.mutate(func(p *model.UserProgress) bool {
		if amount <= 0 {
			return false
		}
		p.XP += amount
		return true
	})
}

// RecordAnswer counts an answer and marks the given words as encountered.
func (t *Tracker) RecordAnswer(correct bool, wordIDs ...string) {
	t.mutate(func(p *model.UserProgress) bool {
		p.TotalAnswers++
		if correct {
			p.CorrectAnswers++
		}
		for _, id := range wordIDs {
			if id == "" || containsString(p.WordsLearned, id) {
				continue
			}
			p.WordsLearned = append(p.WordsLearned, id)
		}
		return true
	})
}

// CompletePracticeSession counts a finished practice session.
func (t *Tracker) CompletePracticeSession() {
	t.mutate(func(p *model.UserProgress) bool {
		p.PracticeSessions++
		return true
	})
}

// Reset replaces progress with defaults and waits for the write.
func (t *Tracker) Reset(ctx context.Context) error {
	t.mutate(func(p *model.UserProgress) bool {
		*p = t.defaults()
		return true
	})
	return t.Flush(ctx)
}

// Flush waits until all pending changes are written.
func (t *Tracker) Flush(ctx context.Context) error {
	return t.persist.flush(ctx)
}

// Close writes any pending change and stops the background writer.
func (t *Tracker) Close() error {
	t.persist.close()
	return nil
}

func containsString(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}
