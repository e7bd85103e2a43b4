package community

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/M94KO/MrEdesPlayground/internal/model"
	"github.com/M94KO/MrEdesPlayground/internal/store"
	mock_store "github.com/M94KO/MrEdesPlayground/internal/store/mock"
)

var fixedNow = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

func newService(kv store.KV) *Service {
	return NewService(kv,
		WithClock(func() time.Time { return fixedNow }),
		WithRand(rand.New(rand.NewSource(1))))
}

func TestRecomputeLeaderboardRanksByXP(t *testing.T) {
	p := model.UserProgress{XP: 2100, Streak: 4, CompletedLessons: []string{"a", "b"}}
	profile := model.Profile{Name: "Ada", Avatar: "🦊"}

	board, weekly := RecomputeLeaderboard(p, profile, rand.New(rand.NewSource(3)))
	require.Len(t, board, 11)
	require.Len(t, weekly, 11)

	for i, e := range board {
		assert.Equal(t, i+1, e.Rank)
		if i > 0 {
			assert.GreaterOrEqual(t, board[i-1].XP, e.XP)
		}
		if !e.IsCurrentUser {
			assert.GreaterOrEqual(t, e.Streak, 1)
			assert.LessOrEqual(t, e.Streak, 15)
		}
	}

	me, ok := findCurrent(board)
	require.True(t, ok)
	assert.Equal(t, CurrentUserID, me.ID)
	assert.Equal(t, 5, me.Rank)
	assert.Equal(t, "Ada", me.Name)
	assert.Equal(t, 200, me.WeeklyXP)
	assert.Equal(t, 2, me.TotalLessons)
	assert.Equal(t, 4, me.Streak)

	assert.Equal(t, "user-2", board[0].ID)
	assert.Equal(t, "Adebayo", board[0].Name)
	assert.Equal(t, "Dayo", board[10].Name)
}

func TestWeeklyRankingIsIndependent(t *testing.T) {
	p := model.UserProgress{XP: 150}
	board, weekly := RecomputeLeaderboard(p, model.Profile{Name: "You"}, rand.New(rand.NewSource(3)))

	me, _ := findCurrent(board)
	assert.Equal(t, 11, me.Rank)

	meWeekly, _ := findCurrent(weekly)
	assert.Equal(t, 150, meWeekly.WeeklyXP)
	assert.Equal(t, 3, meWeekly.Rank)

	for i, e := range weekly {
		assert.Equal(t, i+1, e.Rank)
		if i > 0 {
			assert.GreaterOrEqual(t, weekly[i-1].WeeklyXP, e.WeeklyXP)
		}
	}
	// The all-time board keeps its own ranks.
	assert.Equal(t, 1, board[0].Rank)
	assert.Equal(t, "Adebayo", board[0].Name)
}

func TestLearnerWinsTies(t *testing.T) {
	board, _ := RecomputeLeaderboard(model.UserProgress{XP: 2450}, model.Profile{Name: "You"}, rand.New(rand.NewSource(1)))
	assert.True(t, board[0].IsCurrentUser)
	assert.Equal(t, "Adebayo", board[1].Name)
}

func TestUpdateAchievements(t *testing.T) {
	p := model.UserProgress{
		XP:               120,
		Streak:           3,
		CompletedLessons: []string{"a"},
		PracticeSessions: 2,
	}
	got := UpdateAchievements(DefaultAchievements(), p, fixedNow)
	byID := map[string]model.Achievement{}
	for _, a := range got {
		byID[a.ID] = a
	}

	require.Len(t, got, 7)
	assert.True(t, byID["first-lesson"].Unlocked())
	assert.True(t, byID["streak-3"].Unlocked())
	assert.True(t, byID["xp-100"].Unlocked())
	assert.Equal(t, fixedNow, *byID["xp-100"].UnlockedAt)
	assert.Equal(t, 100, byID["xp-100"].Progress)

	assert.False(t, byID["streak-7"].Unlocked())
	assert.Equal(t, 3, byID["streak-7"].Progress)
	assert.Equal(t, 120, byID["xp-500"].Progress)
	assert.Equal(t, 1, byID["lessons-10"].Progress)
	assert.Equal(t, 2, byID["practice-5"].Progress)
}

func TestUnlockIsNeverCleared(t *testing.T) {
	later := fixedNow.Add(48 * time.Hour)
	first := UpdateAchievements(nil, model.UserProgress{Streak: 3}, fixedNow)
	second := UpdateAchievements(first, model.UserProgress{Streak: 0}, later)

	for _, a := range second {
		if a.ID == "streak-3" {
			require.True(t, a.Unlocked())
			assert.Equal(t, fixedNow, *a.UnlockedAt)
			assert.Equal(t, 0, a.Progress)
		}
	}
}

func TestServiceRefreshPersists(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	s := newService(kv)
	s.Load(ctx)

	data := s.Refresh(ctx, model.UserProgress{XP: 600, Streak: 7, CompletedLessons: []string{"a"}})
	assert.Len(t, data.Leaderboard, 11)
	assert.Equal(t, fixedNow, data.LastUpdated)
	assert.Len(t, s.Unlocked(), 5)

	raw, err := kv.Get(ctx, DataKey)
	require.NoError(t, err)
	var saved model.CommunityData
	require.NoError(t, json.Unmarshal([]byte(raw), &saved))
	assert.Len(t, saved.WeeklyRankings, 11)

	reloaded := newService(kv)
	reloaded.Load(ctx)
	assert.Len(t, reloaded.Unlocked(), 5)
	assert.Equal(t, s.CurrentUserRank(), reloaded.CurrentUserRank())
}

func TestServiceRanksDefaultToOne(t *testing.T) {
	s := newService(store.NewMemory())
	assert.Equal(t, 1, s.CurrentUserRank())
	assert.Equal(t, 1, s.WeeklyRank())
	assert.Empty(t, s.Recent(0))
}

func TestServiceRecentNewestFirst(t *testing.T) {
	ctx := context.Background()
	now := fixedNow
	s := NewService(store.NewMemory(),
		WithClock(func() time.Time { return now }),
		WithRand(rand.New(rand.NewSource(1))))

	s.Refresh(ctx, model.UserProgress{CompletedLessons: []string{"a"}})
	now = now.Add(time.Hour)
	s.Refresh(ctx, model.UserProgress{CompletedLessons: []string{"a"}, XP: 100})
	now = now.Add(time.Hour)
	s.Refresh(ctx, model.UserProgress{CompletedLessons: []string{"a"}, XP: 100, Streak: 3})
	now = now.Add(time.Hour)
	s.Refresh(ctx, model.UserProgress{CompletedLessons: []string{"a"}, XP: 100, Streak: 3, PracticeSessions: 5})

	var ids []string
	for _, a := range s.Recent(0) {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{"practice-5", "streak-3", "xp-100"}, ids)
	assert.Len(t, s.Recent(10), 4)
}

func TestServiceLoadDiscardsCorruptData(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	require.NoError(t, kv.Set(ctx, DataKey, "{not json"))
	require.NoError(t, kv.Set(ctx, ProfileKey, `{"name": "  ", "avatar": ""}`))

	s := newService(kv)
	s.Load(ctx)
	assert.Len(t, s.Data().Achievements, 7)
	assert.Equal(t, DefaultName, s.Profile().Name)
	assert.Equal(t, DefaultAvatar, s.Profile().Avatar)
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	s := newService(kv)

	got, err := s.UpdateProfile(ctx, "  Adaeze ", "🦁")
	require.NoError(t, err)
	assert.Equal(t, "Adaeze", got.Name)
	_, err = uuid.Parse(got.ID)
	require.NoError(t, err)

	again, err := s.UpdateProfile(ctx, "Ada", "🦁")
	require.NoError(t, err)
	assert.Equal(t, got.ID, again.ID)

	board := s.Refresh(ctx, model.UserProgress{}).Leaderboard
	me, _ := findCurrent(board)
	assert.Equal(t, "Ada", me.Name)
	assert.Equal(t, "🦁", me.Avatar)

	_, err = s.UpdateProfile(ctx, "", "🦁")
	assert.ErrorIs(t, err, ErrInvalidName)
	_, err = s.UpdateProfile(ctx, "Ada", " ")
	assert.ErrorIs(t, err, ErrInvalidAvatar)
}

func TestUpdateProfileSaveFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	kv := mock_store.NewMockKV(ctrl)
	kv.EXPECT().Set(gomock.Any(), ProfileKey, gomock.Any()).Return(errors.New("read-only"))

	s := newService(kv)
	_, err := s.UpdateProfile(context.Background(), "Ada", "🦁")
	require.Error(t, err)
	assert.Equal(t, DefaultName, s.Profile().Name)
}

type fakeSource struct {
	fn func(model.UserProgress)
}

func (f *fakeSource) Subscribe(fn func(model.UserProgress)) {
	f.fn = fn
}

func TestFollow(t *testing.T) {
	s := newService(store.NewMemory())
	src := &fakeSource{}
	s.Follow(context.Background(), src)

	src.fn(model.UserProgress{XP: 3000})
	assert.Equal(t, 1, s.CurrentUserRank())
	assert.Equal(t, 1, s.WeeklyRank())
}
