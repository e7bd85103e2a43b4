package progress

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/M94KO/MrEdesPlayground/internal/model"
	"github.com/M94KO/MrEdesPlayground/internal/store"
	mock_store "github.com/M94KO/MrEdesPlayground/internal/store/mock"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock(date string) *clock {
	ts, err := time.Parse("2006-01-02 15:04", date+" 10:00")
	if err != nil {
		panic(err)
	}
	return &clock{now: ts}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) advanceDays(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.AddDate(0, 0, n)
}

func newTracker(t *testing.T, kv store.KV, c *clock) *Tracker {
	t.Helper()
	tr := New(kv, WithClock(c.Now))
	t.Cleanup(func() {
		_ = tr.Close()
	})
	return tr
}

func storeBlob(t *testing.T, kv store.KV, v any) {
	t.Helper()
	payload, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, kv.Set(context.Background(), StorageKey, string(payload)))
}

func TestCompleteLessonFreshState(t *testing.T) {
	tr := newTracker(t, store.NewMemory(), newClock("2024-03-10"))

	require.True(t, tr.CompleteLesson("L1", 10))
	got := tr.Progress()
	assert.Equal(t, 10, got.XP)
	assert.Equal(t, 1, got.Streak)
	assert.Equal(t, 5, got.Hearts)
	assert.Equal(t, []string{"L1"}, got.CompletedLessons)

	require.False(t, tr.CompleteLesson("L1", 10))
	assert.Equal(t, got, tr.Progress())
}

func TestStreakIncrementsOncePerDay(t *testing.T) {
	c := newClock("2024-03-10")
	tr := newTracker(t, store.NewMemory(), c)

	for _, id := range []string{"a", "b", "c", "d"} {
		require.True(t, tr.CompleteLesson(id, 10))
	}
	got := tr.Progress()
	assert.Equal(t, 1, got.Streak)
	assert.Equal(t, 40, got.XP)
	assert.Equal(t, []string{"a", "b", "c", "d"}, got.LessonsCompletedToday)

	c.advanceDays(1)
	require.True(t, tr.CompleteLesson("e", 10))
	require.True(t, tr.CompleteLesson("f", 10))
	got = tr.Progress()
	assert.Equal(t, 2, got.Streak)
	assert.Equal(t, []string{"e", "f"}, got.LessonsCompletedToday)
}

func TestStreakResetsAfterGap(t *testing.T) {
	c := newClock("2024-03-10")
	tr := newTracker(t, store.NewMemory(), c)

	require.True(t, tr.CompleteLesson("a", 10))
	c.advanceDays(1)
	require.True(t, tr.CompleteLesson("b", 10))
	require.Equal(t, 2, tr.Progress().Streak)

	c.advanceDays(3)
	require.True(t, tr.CompleteLesson("c", 10))
	assert.Equal(t, 1, tr.Progress().Streak)
}

func TestLoadAppliesDayBoundary(t *testing.T) {
	tests := []struct {
		name       string
		lastActive string
		wantStreak int
		wantToday  []string
		wantDiff   int
	}{
		{name: "same day", lastActive: "2024-03-10", wantStreak: 4, wantToday: []string{"x"}, wantDiff: 0},
		{name: "next day", lastActive: "2024-03-09", wantStreak: 4, wantToday: []string{}, wantDiff: 1},
		{name: "gap", lastActive: "2024-03-05", wantStreak: 0, wantToday: []string{}, wantDiff: 5},
		{name: "unparsable date", lastActive: "yesterday", wantStreak: 0, wantToday: []string{}, wantDiff: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := store.NewMemory()
			storeBlob(t, kv, model.UserProgress{
				XP:                    120,
				Streak:                4,
				Hearts:                3,
				CompletedLessons:      []string{"x"},
				LastActiveDate:        tt.lastActive,
				LessonsCompletedToday: []string{"x"},
				WordsLearned:          []string{},
			})
			tr := newTracker(t, kv, newClock("2024-03-10"))

			res := tr.Load(context.Background())
			require.Nil(t, res.Recovered)
			assert.Equal(t, tt.wantDiff, res.DaysDiff)
			assert.Equal(t, tt.wantStreak, res.State.Streak)
			assert.Equal(t, tt.wantToday, res.State.LessonsCompletedToday)
			assert.Equal(t, "2024-03-10", res.State.LastActiveDate)
			assert.Equal(t, 120, res.State.XP)
		})
	}
}

func TestGapThenCompletionStartsNewStreak(t *testing.T) {
	kv := store.NewMemory()
	storeBlob(t, kv, model.UserProgress{
		XP:               300,
		Streak:           9,
		Hearts:           5,
		CompletedLessons: []string{"a"},
		LastActiveDate:   "2024-03-01",
	})
	tr := newTracker(t, kv, newClock("2024-03-10"))
	tr.Load(context.Background())

	require.True(t, tr.CompleteLesson("b", 10))
	assert.Equal(t, 1, tr.Progress().Streak)
}

func TestLoseHeartFloorsAtZero(t *testing.T) {
	tr := newTracker(t, store.NewMemory(), newClock("2024-03-10"))

	var got []int
	for i := 0; i < 6; i++ {
		got = append(got, tr.LoseHeart())
	}
	assert.Equal(t, []int{4, 3, 2, 1, 0, 0}, got)
	assert.Equal(t, 0, tr.Progress().Hearts)

	tr.RefillHearts()
	assert.Equal(t, model.MaxHearts, tr.Progress().Hearts)
}

func TestWithMaxHearts(t *testing.T) {
	tr := New(store.NewMemory(), WithMaxHearts(3))
	defer func() {
		_ = tr.Close()
	}()
	assert.Equal(t, 3, tr.MaxHearts())
	assert.Equal(t, 3, tr.Progress().Hearts)
}

func TestRecordAnswerKeepsCorrectWithinTotal(t *testing.T) {
	tr := newTracker(t, store.NewMemory(), newClock("2024-03-10"))
	rnd := rand.New(rand.NewSource(7))

	for i := 0; i < 200; i++ {
		tr.RecordAnswer(rnd.Intn(2) == 0)
		p := tr.Progress()
		require.LessOrEqual(t, p.CorrectAnswers, p.TotalAnswers)
	}
	p := tr.Progress()
	assert.Equal(t, 200, p.TotalAnswers)
	assert.InDelta(t, float64(p.CorrectAnswers)/200, tr.Accuracy(), 1e-9)
}

func TestRecordAnswerUnionsWords(t *testing.T) {
	tr := newTracker(t, store.NewMemory(), newClock("2024-03-10"))

	tr.RecordAnswer(true, "1", "2")
	tr.RecordAnswer(false, "2", "3", "")
	assert.Equal(t, []string{"1", "2", "3"}, tr.Progress().WordsLearned)
	assert.Equal(t, 0.5, tr.Accuracy())
}

func TestAccuracyWithoutAnswers(t *testing.T) {
	tr := newTracker(t, store.NewMemory(), newClock("2024-03-10"))
	assert.Zero(t, tr.Accuracy())
}

func TestAddXPIgnoresNonPositive(t *testing.T) {
	tr := newTracker(t, store.NewMemory(), newClock("2024-03-10"))
	tr.AddXP(25)
	tr.AddXP(0)
	tr.AddXP(-10)
	assert.Equal(t, 25, tr.Progress().XP)
}

func TestLoadRecoversFromCorruptBlob(t *testing.T) {
	blobs := map[string]string{
		"empty":          "",
		"whitespace":     "   ",
		"plain text":     "hello",
		"truncated":      `{"xp": 1,`,
		"array":          `[1, 2, 3]`,
		"string xp":      `{"xp": "ten", "streak": 1}`,
		"missing streak": `{"xp": 10}`,
		"bad field type": `{"xp": 1, "streak": 1, "completedLessons": "L1"}`,
	}

	for name, blob := range blobs {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			kv := store.NewMemory()
			require.NoError(t, kv.Set(ctx, StorageKey, blob))
			tr := newTracker(t, kv, newClock("2024-03-10"))

			res := tr.Load(ctx)
			require.NotNil(t, res.Recovered)
			assert.ErrorIs(t, res.Recovered, ErrCorrupt)
			assert.Equal(t, 0, res.State.XP)
			assert.Equal(t, 0, res.State.Streak)
			assert.Equal(t, model.MaxHearts, res.State.Hearts)
			assert.Empty(t, res.State.CompletedLessons)

			_, err := kv.Get(ctx, StorageKey)
			assert.ErrorIs(t, err, store.ErrNotFound)
		})
	}
}

func TestLoadMissingKeyReturnsDefaults(t *testing.T) {
	tr := newTracker(t, store.NewMemory(), newClock("2024-03-10"))

	res := tr.Load(context.Background())
	assert.Nil(t, res.Recovered)
	assert.Equal(t, model.MaxHearts, res.State.Hearts)
	assert.Equal(t, "2024-03-10", res.State.LastActiveDate)
	assert.NotNil(t, res.State.WordsLearned)
}

func TestLoadBackfillsAndClamps(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	require.NoError(t, kv.Set(ctx, StorageKey,
		`{"xp": 40, "streak": 2, "completedLessons": ["a"], "lastActiveDate": "2024-03-10", "correctAnswers": 9, "totalAnswers": 4}`))
	tr := newTracker(t, kv, newClock("2024-03-10"))

	res := tr.Load(ctx)
	require.Nil(t, res.Recovered)
	got := res.State
	assert.Equal(t, model.MaxHearts, got.Hearts)
	assert.Equal(t, []string{}, got.LessonsCompletedToday)
	assert.Equal(t, []string{}, got.WordsLearned)
	assert.Equal(t, 4, got.CorrectAnswers)
	assert.Equal(t, 0, got.PracticeSessions)

	require.NoError(t, kv.Set(ctx, StorageKey, `{"xp": 1, "streak": 1, "hearts": 99}`))
	assert.Equal(t, model.MaxHearts, tr.Load(ctx).State.Hearts)
}

func TestStatePersistsAcrossTrackers(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	c := newClock("2024-03-10")

	first := New(kv, WithClock(c.Now))
	first.Load(ctx)
	first.CompleteLesson("greetings-1", 15)
	first.RecordAnswer(true, "1")
	first.LoseHeart()
	first.CompletePracticeSession()
	require.NoError(t, first.Close())

	second := newTracker(t, kv, c)
	res := second.Load(ctx)
	require.Nil(t, res.Recovered)
	assert.Equal(t, 15, res.State.XP)
	assert.Equal(t, 1, res.State.Streak)
	assert.Equal(t, 4, res.State.Hearts)
	assert.Equal(t, 1, res.State.PracticeSessions)
	assert.Equal(t, []string{"greetings-1"}, res.State.CompletedLessons)
	assert.Equal(t, []string{"1"}, res.State.WordsLearned)
}

func TestResetWritesDefaults(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	tr := newTracker(t, kv, newClock("2024-03-10"))
	tr.CompleteLesson("a", 10)

	require.NoError(t, tr.Reset(ctx))
	assert.Equal(t, 0, tr.Progress().XP)

	raw, err := kv.Get(ctx, StorageKey)
	require.NoError(t, err)
	var saved model.UserProgress
	require.NoError(t, json.Unmarshal([]byte(raw), &saved))
	assert.Equal(t, 0, saved.XP)
	assert.Empty(t, saved.CompletedLessons)
}

func TestSubscribeReceivesSnapshots(t *testing.T) {
	tr := newTracker(t, store.NewMemory(), newClock("2024-03-10"))

	var seen []int
	tr.Subscribe(func(p model.UserProgress) {
		seen = append(seen, p.XP)
	})
	tr.AddXP(5)
	tr.CompleteLesson("a", 10)
	tr.CompleteLesson("a", 10)
	assert.Equal(t, []int{5, 15}, seen)
}

func TestWriteFailureClearsStorage(t *testing.T) {
	ctrl := gomock.NewController(t)
	kv := mock_store.NewMockKV(ctrl)
	core, logs := observer.New(zapcore.InfoLevel)

	gomock.InOrder(
		kv.EXPECT().Set(gomock.Any(), StorageKey, gomock.Any()).Return(errors.New("disk full")),
		kv.EXPECT().Remove(gomock.Any(), StorageKey).Return(nil),
	)

	tr := New(kv, WithLogger(zap.New(core)))
	t.Cleanup(func() {
		_ = tr.Close()
	})
	tr.RecordAnswer(true)
	require.NoError(t, tr.Flush(context.Background()))

	assert.Equal(t, 1, tr.Progress().TotalAnswers)
	assert.Equal(t, 1, logs.FilterMessage("failed to save progress").Len())
	assert.Equal(t, 1, logs.FilterMessage("cleared storage after save failure").Len())
}

func TestClearFailureIsLogged(t *testing.T) {
	ctrl := gomock.NewController(t)
	kv := mock_store.NewMockKV(ctrl)
	core, logs := observer.New(zapcore.InfoLevel)

	kv.EXPECT().Set(gomock.Any(), StorageKey, gomock.Any()).Return(errors.New("disk full"))
	kv.EXPECT().Remove(gomock.Any(), StorageKey).Return(errors.New("still full"))

	tr := New(kv, WithLogger(zap.New(core)))
	t.Cleanup(func() {
		_ = tr.Close()
	})
	tr.LoseHeart()
	require.NoError(t, tr.Flush(context.Background()))

	assert.Equal(t, 4, tr.Progress().Hearts)
	assert.Equal(t, 1, logs.FilterMessage("failed to clear storage after save failure").Len())
}

func TestReadFailureRecovers(t *testing.T) {
	ctrl := gomock.NewController(t)
	kv := mock_store.NewMockKV(ctrl)

	kv.EXPECT().Get(gomock.Any(), StorageKey).Return("", errors.New("locked"))
	kv.EXPECT().Remove(gomock.Any(), StorageKey).Return(nil)

	tr := New(kv)
	t.Cleanup(func() {
		_ = tr.Close()
	})
	res := tr.Load(context.Background())
	require.NotNil(t, res.Recovered)
	assert.Equal(t, model.MaxHearts, res.State.Hearts)
}

func TestFlushAfterClose(t *testing.T) {
	tr := New(store.NewMemory())
	require.NoError(t, tr.Close())
	assert.Error(t, tr.Flush(context.Background()))
	require.NoError(t, tr.Close())
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 0, DaysBetween("2024-03-10", "2024-03-10"))
	assert.Equal(t, 1, DaysBetween("2024-02-29", "2024-03-01"))
	assert.Equal(t, 366, DaysBetween("2024-01-01", "2025-01-01"))
	assert.Equal(t, -1, DaysBetween("2024-03-11", "2024-03-10"))
	assert.Equal(t, 2, DaysBetween("", "2024-03-10"))
	assert.Equal(t, "2024-03-10", DateKey(time.Date(2024, 3, 10, 23, 59, 0, 0, time.UTC)))
}
